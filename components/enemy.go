package components

import (
	"github.com/automoto/splatarena/level"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

// TargetData is a training dummy. It patrols back and forth along Axis
// around Home and respawns after dying.
type TargetData struct {
	Name string
	Team level.Team
	Home r3.Vec
	Axis r3.Vec

	Patrol   *gween.Tween
	Distance float64
	Duration float64
	Outbound bool
}

var Target = donburi.NewComponentType[TargetData]()
