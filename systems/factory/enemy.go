package factory

import (
	"fmt"

	"github.com/automoto/splatarena/archetypes"
	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// TargetSpec describes a training target. A zero Distance keeps it still.
type TargetSpec struct {
	Name     string
	Team     level.Team
	Position r3.Vec
	Axis     r3.Vec
	Distance float64
	Duration float64
	Health   int // 0 uses the configured target health
}

// CreateTarget spawns a static target sphere resting on the ground.
func CreateTarget(ecs *ecs.ECS, spec TargetSpec) (*donburi.Entry, error) {
	s, space, err := session(ecs.World)
	if err != nil {
		return nil, err
	}
	lc := s.Config.Level

	health := spec.Health
	if health <= 0 {
		health = lc.TargetHealth
	}
	home := spec.Position
	home.Y = max(home.Y, lc.TargetRadius)

	target := archetypes.Target.Spawn(ecs)
	body, err := TargetBody(space, target.Entity(), home, lc.TargetRadius)
	if err != nil {
		ecs.World.Remove(target.Entity())
		return nil, fmt.Errorf("target %q: %w", spec.Name, err)
	}
	components.Object.SetValue(target, components.ObjectData{Body: body})
	components.Target.SetValue(target, components.TargetData{
		Name:     spec.Name,
		Team:     spec.Team,
		Home:     home,
		Axis:     r3.Unit(orDefault(spec.Axis, r3.Vec{X: 1})),
		Distance: spec.Distance,
		Duration: spec.Duration,
		Outbound: true,
	})
	components.Health.SetValue(target, components.HealthData{Current: health, Max: health})

	s.Log.Debug("target spawned",
		zap.String("name", spec.Name),
		zap.Float64("x", home.X),
		zap.Float64("z", home.Z))
	return target, nil
}

// TargetBody creates the static sphere of a target and links it to e.
func TargetBody(space *physics.World, e donburi.Entity, position r3.Vec, radius float64) (*physics.Body, error) {
	body, err := space.CreateBody(physics.Sphere(radius), position, 0, physics.Material{})
	if err != nil {
		return nil, err
	}
	body.Group = physics.GroupTarget
	body.Data = e
	return body, nil
}

func orDefault(v, fallback r3.Vec) r3.Vec {
	if r3.Norm2(v) == 0 {
		return fallback
	}
	return v
}
