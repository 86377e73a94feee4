package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// killPlaneY is the height below which a body counts as fallen out of the arena.
const killPlaneY = -50

// UpdatePhysics advances the rigid-body world by the frame delta. Contact
// callbacks, including projectile hits, run inside the step.
func UpdatePhysics(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	f.clock.Steps = f.space.Step(f.clock.Delta)

	var fallen []*donburi.Entry
	for e := range components.Health.Iter(ecs.World) {
		if e.HasComponent(components.Death) {
			continue
		}
		if b := bodyOf(e); b != nil && b.Position.Y < killPlaneY {
			fallen = append(fallen, e)
		}
	}
	for _, e := range fallen {
		f.log().Info("entity fell out of the arena", zap.String("name", nameOf(e)))
		QueueDamage(e, components.DamageEventData{
			Amount: components.Health.Get(e).Current,
			Weapon: "fall",
		})
	}
}
