package archetypes

import (
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Player = newArchetype(
		tags.Player,
		components.Player,
		components.Object,
		components.Physics,
		components.Health,
		components.Camera,
		components.Loadout,
		components.PlayerInput,
		components.Flash,
	)
	Target = newArchetype(
		tags.Target,
		components.Target,
		components.Object,
		components.Health,
		components.Flash,
	)
	ParticleBurst = newArchetype(
		tags.Effect,
		components.ParticleBurst,
		components.Lifetime,
		components.Visual,
	)
	Decal = newArchetype(
		tags.Effect,
		components.Decal,
		components.Lifetime,
		components.Visual,
	)
	Session = newArchetype(
		tags.Session,
		components.Session,
		components.Clock,
		components.Space,
		components.Scheduler,
		components.Effects,
		components.Level,
		components.Match,
		components.Input,
		components.HUD,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	all := append(append([]donburi.IComponentType(nil), a.components...), cs...)
	return ecs.World.Entry(ecs.Create(cfg.Default, all...))
}

// Create adds the archetype straight to a world, for callers that only hold
// the world (the effects manager).
func (a *archetype) Create(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	all := append(append([]donburi.IComponentType(nil), a.components...), cs...)
	return w.Entry(w.Create(all...))
}
