// Package level describes arena geometry: static collision boxes, a ground
// plane and per-team spawn points. Layouts come from TMX maps or are built
// in memory, and Install adds them to a physics world.
package level

import (
	"fmt"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type Team int

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "teamA"
	case TeamB:
		return "teamB"
	}
	return "none"
}

// Opponent returns the other team; TeamNone has no opponent.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "teama", "a":
		return TeamA, nil
	case "teamb", "b":
		return TeamB, nil
	case "", "none":
		return TeamNone, nil
	}
	return TeamNone, fmt.Errorf("unknown team %q", s)
}

// Wall is an axis-aligned static box.
type Wall struct {
	Center      r3.Vec
	HalfExtents r3.Vec
}

// Layout is the output of a level generator.
type Layout struct {
	Name   string
	Ground bool
	Walls  []Wall

	Spawns  map[Team][]r3.Vec
	Targets []r3.Vec

	// DefaultSpawn is used when a team has no spawn points.
	DefaultSpawn r3.Vec
	Min, Max     r3.Vec
}

// RandomSpawnPoint picks one of the team's spawn points. When the team has
// none it returns DefaultSpawn and false.
func (l *Layout) RandomSpawnPoint(team Team, rng *rand.Rand) (r3.Vec, bool) {
	points := l.Spawns[team]
	if len(points) == 0 {
		return l.DefaultSpawn, false
	}
	if rng == nil {
		return points[0], true
	}
	return points[rng.Intn(len(points))], true
}

// Source produces a layout.
type Source interface {
	Layout() (*Layout, error)
}

// Static serves a layout built in memory.
type Static struct {
	L *Layout
}

func (s Static) Layout() (*Layout, error) {
	if s.L == nil {
		return nil, fmt.Errorf("static level: %w", ErrNoLayout)
	}
	return s.L, nil
}
