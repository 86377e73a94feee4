package components

import (
	"github.com/automoto/splatarena/physics"
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

// PhysicsData is the movement state layered over a body.
type PhysicsData struct {
	OnGround     bool
	CanJump      bool
	GroundNormal r3.Vec
	// Speed is the horizontal speed applied last frame.
	Speed float64
}

var Physics = donburi.NewComponentType[PhysicsData]()

// SpaceData holds the physics world. Singleton.
type SpaceData struct {
	*physics.World
}

var Space = donburi.NewComponentType[SpaceData]()
