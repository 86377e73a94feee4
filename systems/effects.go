package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateEffects ages impact effects and hurt flashes.
func UpdateEffects(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	if f.effects != nil {
		f.effects.Update(f.clock.Delta)
	}
	updateFlashEffects(ecs, f.clock.Delta)
}

// updateFlashEffects counts hurt flash timers down to zero.
func updateFlashEffects(ecs *ecs.ECS, dt float64) {
	components.Flash.Each(ecs.World, func(e *donburi.Entry) {
		flash := components.Flash.Get(e)
		if flash.Remaining > 0 {
			flash.Remaining = max(0, flash.Remaining-dt)
		}
	})
}
