package factory

import (
	"fmt"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/level"
	"github.com/yohamta/donburi/ecs"
)

// CreateLevel loads a layout from src and installs its static geometry. A
// level already installed is torn down first, together with every live
// impact effect.
func CreateLevel(ecs *ecs.ECS, src level.Source) (*level.Layout, error) {
	e, ok := components.Session.First(ecs.World)
	if !ok {
		return nil, ErrNoSession
	}
	s, space, err := session(ecs.World)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = level.FromConfig(s.Config.Level)
	}

	layout, err := src.Layout()
	if err != nil {
		return nil, fmt.Errorf("create level: %w", err)
	}
	bodies, err := level.Install(space, layout, s.Log.Named("level"))
	if err != nil {
		return nil, fmt.Errorf("create level: %w", err)
	}

	data := components.Level.Get(e)
	for _, b := range data.Bodies {
		space.RemoveBody(b)
	}
	if fx := components.Effects.Get(e).Manager; fx != nil && data.Layout != nil {
		fx.ClearAll()
	}
	data.Layout = layout
	data.Bodies = bodies
	return layout, nil
}
