// Package hud defines the read-only snapshot the simulation publishes for
// presentation layers every frame.
package hud

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

import (
	"fmt"
	"sync"
)

// NoAmmo is reported for both ammo counts while a melee weapon is equipped.
const NoAmmo = -1

// KillLine is one kill feed entry.
type KillLine struct {
	ID        string
	Text      string
	Remaining float64 // seconds until it disappears
}

// Snapshot is everything the UI may show. It is a copy; mutating it has no
// effect on the simulation.
type Snapshot struct {
	Tick uint64
	Time float64

	Health    int
	MaxHealth int
	Alive     bool
	Hurt      bool

	Weapon         string
	AmmoCurrent    int
	AmmoReserve    int
	Reloading      bool
	ReloadProgress float64
	MuzzleFlash    bool

	ScoreA   int
	ScoreB   int
	KillFeed []KillLine
}

// Melee reports whether the ammo counts are the melee sentinel.
func (s Snapshot) Melee() bool {
	return s.AmmoCurrent == NoAmmo && s.AmmoReserve == NoAmmo
}

// AmmoText renders the ammo counter, e.g. "12 / 36" or "--" for melee.
func (s Snapshot) AmmoText() string {
	if s.Melee() {
		return "--"
	}
	if s.Reloading {
		return fmt.Sprintf("reloading %d%%", int(s.ReloadProgress*100))
	}
	return fmt.Sprintf("%d / %d", s.AmmoCurrent, s.AmmoReserve)
}

// Sink receives a snapshot once per frame.
type Sink interface {
	Publish(Snapshot)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Snapshot)

func (f SinkFunc) Publish(s Snapshot) { f(s) }

// Recorder keeps the latest snapshot for collaborators that poll. It is safe
// to read from another goroutine while the simulation publishes.
type Recorder struct {
	mu    sync.RWMutex
	last  Snapshot
	count uint64
}

func (r *Recorder) Publish(s Snapshot) {
	s.KillFeed = append([]KillLine(nil), s.KillFeed...)
	r.mu.Lock()
	r.last = s
	r.count++
	r.mu.Unlock()
}

// Last returns the most recent snapshot and whether one was published yet.
func (r *Recorder) Last() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.count > 0
}

func (r *Recorder) Count() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Multi fans a snapshot out to several sinks, skipping nil ones.
type Multi []Sink

func (m Multi) Publish(s Snapshot) {
	for _, sink := range m {
		if sink != nil {
			sink.Publish(s)
		}
	}
}
