package level

import (
	"fmt"

	"github.com/automoto/splatarena/physics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder is the part of the physics world that Install needs.
type Builder interface {
	CreateBody(shape physics.Shape, position r3.Vec, mass float64, mat physics.Material) (*physics.Body, error)
	RemoveBody(b *physics.Body)
}

// Install adds the layout's static geometry as mass-0 bodies. On failure the
// bodies created so far are removed again.
func Install(w Builder, l *Layout, log *zap.Logger) ([]*physics.Body, error) {
	if l == nil {
		return nil, ErrNoLayout
	}
	if log == nil {
		log = zap.NewNop()
	}
	var bodies []*physics.Body
	undo := func() {
		for _, b := range bodies {
			w.RemoveBody(b)
		}
	}

	if l.Ground {
		g, err := w.CreateBody(physics.Plane(r3.Vec{Y: 1}), r3.Vec{}, 0, physics.Material{})
		if err != nil {
			return nil, fmt.Errorf("level %s: ground: %w", l.Name, err)
		}
		bodies = append(bodies, g)
	}
	for i, wall := range l.Walls {
		b, err := w.CreateBody(physics.Box(wall.HalfExtents), wall.Center, 0, physics.Material{})
		if err != nil {
			undo()
			return nil, fmt.Errorf("level %s: wall %d: %w", l.Name, i, err)
		}
		bodies = append(bodies, b)
	}

	log.Info("level installed",
		zap.String("level", l.Name),
		zap.Int("walls", len(l.Walls)),
		zap.Int("spawnsA", len(l.Spawns[TeamA])),
		zap.Int("spawnsB", len(l.Spawns[TeamB])),
		zap.Int("targets", len(l.Targets)))
	return bodies, nil
}
