package level

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/automoto/splatarena/config"
	"github.com/lafriks/go-tiled"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNoLayout = errors.New("no layout")

//go:embed maps/*.tmx
var embedded embed.FS

// EmbeddedArena is the path of the built-in map inside the embedded FS.
const EmbeddedArena = "maps/arena.tmx"

// Tiled layer and object group names understood by the loader.
const (
	solidLayer   = "wg-tiles"
	groupTeamA   = "TeamA"
	groupTeamB   = "TeamB"
	groupSpawns  = "PlayerSpawn" // team chosen by the "team" property
	groupTargets = "Targets"
)

// TMX loads a layout from a Tiled map. Solid tiles become wall boxes and the
// map is centred on the origin, with TMX x/y mapped to world x/z.
type TMX struct {
	FS   fs.FS // nil uses the embedded maps
	Path string

	Scale        float64 // world units per pixel
	WallHeight   float64
	DefaultSpawn r3.Vec
}

// FromConfig returns the TMX source named by cfg.Map, or the embedded arena
// when it is empty.
func FromConfig(cfg config.LevelConfig) TMX {
	t := TMX{
		Path:         EmbeddedArena,
		Scale:        cfg.Scale,
		WallHeight:   cfg.WallHeight,
		DefaultSpawn: cfg.DefaultSpawn.R3(),
	}
	if cfg.Map != "" {
		t.FS = os.DirFS(filepath.Dir(cfg.Map))
		t.Path = filepath.Base(cfg.Map)
	}
	return t
}

func (t TMX) Layout() (*Layout, error) {
	fsys := t.FS
	if fsys == nil {
		fsys = embedded
	}
	m, err := tiled.LoadFile(t.Path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", t.Path, err)
	}

	scale := t.Scale
	if scale <= 0 {
		scale = 1
	}
	height := t.WallHeight
	if height <= 0 {
		height = 1
	}

	mapW := float64(m.Width * m.TileWidth)
	mapH := float64(m.Height * m.TileHeight)
	toWorld := func(px, py float64) r3.Vec {
		return r3.Vec{X: (px - mapW/2) * scale, Z: (py - mapH/2) * scale}
	}

	l := &Layout{
		Name:         strings.TrimSuffix(filepath.Base(t.Path), ".tmx"),
		Ground:       true,
		Spawns:       make(map[Team][]r3.Vec),
		DefaultSpawn: t.DefaultSpawn,
		Min:          r3.Vec{X: -mapW / 2 * scale, Z: -mapH / 2 * scale},
		Max:          r3.Vec{X: mapW / 2 * scale, Y: height, Z: mapH / 2 * scale},
	}

	tileW := float64(m.TileWidth)
	tileH := float64(m.TileHeight)
	for _, layer := range m.Layers {
		if layer.Name != solidLayer {
			continue
		}
		// Runs of solid tiles along a row become one box.
		for y := 0; y < m.Height; y++ {
			start := -1
			for x := 0; x <= m.Width; x++ {
				solid := x < m.Width && !layer.Tiles[y*m.Width+x].IsNil()
				if solid && start < 0 {
					start = x
				}
				if solid || start < 0 {
					continue
				}
				lo := toWorld(float64(start)*tileW, float64(y)*tileH)
				hi := toWorld(float64(x)*tileW, float64(y+1)*tileH)
				l.Walls = append(l.Walls, Wall{
					Center:      r3.Vec{X: (lo.X + hi.X) / 2, Y: height / 2, Z: (lo.Z + hi.Z) / 2},
					HalfExtents: r3.Vec{X: (hi.X - lo.X) / 2, Y: height / 2, Z: (hi.Z - lo.Z) / 2},
				})
				start = -1
			}
		}
		break
	}

	for _, og := range m.ObjectGroups {
		for _, o := range og.Objects {
			p := toWorld(o.X, o.Y)
			switch og.Name {
			case groupTeamA:
				l.Spawns[TeamA] = append(l.Spawns[TeamA], p)
			case groupTeamB:
				l.Spawns[TeamB] = append(l.Spawns[TeamB], p)
			case groupSpawns:
				team, err := ParseTeam(o.Properties.GetString("team"))
				if err != nil {
					return nil, fmt.Errorf("%s: object %d: %w", t.Path, o.ID, err)
				}
				l.Spawns[team] = append(l.Spawns[team], p)
			case groupTargets:
				l.Targets = append(l.Targets, p)
			}
		}
	}

	// Stable order regardless of how the map was edited.
	for _, pts := range l.Spawns {
		sort.Slice(pts, func(i, j int) bool {
			if pts[i].X != pts[j].X {
				return pts[i].X < pts[j].X
			}
			return pts[i].Z < pts[j].Z
		})
	}
	return l, nil
}
