// Package assets resolves opaque visuals for weapons, characters and effects.
// The simulation never inspects a visual beyond attaching it somewhere.
package assets

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

type Kind int

const (
	KindWeapon Kind = iota
	KindCharacter
	KindParticle
	KindDecal
	KindFlash
	KindProp
)

func (k Kind) String() string {
	switch k {
	case KindWeapon:
		return "weapon"
	case KindCharacter:
		return "character"
	case KindParticle:
		return "particle"
	case KindDecal:
		return "decal"
	case KindFlash:
		return "flash"
	case KindProp:
		return "prop"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Visual is a generated mesh/material pair. Resource is whatever the asset
// generator produced; the core only passes it along.
type Visual struct {
	Kind        Kind
	Name        string
	Tint        color.RGBA
	Resource    any
	Placeholder bool
}

// Source produces visuals keyed by (kind, name).
type Source interface {
	Visual(kind Kind, name string) (*Visual, bool)
}

// MapSource is an in-memory Source.
type MapSource map[Key]*Visual

type Key struct {
	Kind Kind
	Name string
}

func (m MapSource) Visual(kind Kind, name string) (*Visual, bool) {
	v, ok := m[Key{kind, name}]
	return v, ok
}

var placeholderTint = map[Kind]color.RGBA{
	KindWeapon:    colornames.Slategray,
	KindCharacter: colornames.Steelblue,
	KindParticle:  colornames.Darkred,
	KindDecal:     colornames.Maroon,
	KindFlash:     colornames.Gold,
	KindProp:      colornames.Darkolivegreen,
}

// Placeholder returns the minimal stand-in visual for kind.
func Placeholder(kind Kind, name string) *Visual {
	tint, ok := placeholderTint[kind]
	if !ok {
		tint = colornames.Magenta
	}
	return &Visual{Kind: kind, Name: name, Tint: tint, Placeholder: true}
}

// Library caches lookups and falls back to placeholders when the source is
// missing or has no entry.
type Library struct {
	src    Source
	cache  map[Key]*Visual
	log    *zap.Logger
	misses int
}

// NewLibrary wraps src. A nil src is allowed.
func NewLibrary(src Source, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		src:   src,
		cache: make(map[Key]*Visual),
		log:   log,
	}
}

// Get always returns a visual. A nil library hands out placeholders.
func (l *Library) Get(kind Kind, name string) *Visual {
	if l == nil {
		return Placeholder(kind, name)
	}
	k := Key{kind, name}
	if v, ok := l.cache[k]; ok {
		return v
	}
	var v *Visual
	if l.src != nil {
		if found, ok := l.src.Visual(kind, name); ok && found != nil {
			v = found
		}
	}
	if v == nil {
		l.misses++
		l.log.Debug("using placeholder visual", zap.Stringer("kind", kind), zap.String("name", name))
		v = Placeholder(kind, name)
	}
	l.cache[k] = v
	return v
}

// Misses counts lookups that fell back to a placeholder.
func (l *Library) Misses() int { return l.misses }
