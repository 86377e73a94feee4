package systems

import (
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateInputs reads one intent per player from the session's input source.
// Must run BEFORE UpdatePlayers in the system order.
func UpdateInputs(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	src := f.input.Source

	components.PlayerInput.Each(ecs.World, func(e *donburi.Entry) {
		in := components.PlayerInput.Get(e)

		// Swap buffers: current becomes previous, then zero out current
		in.Previous = in.Current
		in.Current = [cfg.ActionCount]bool{}
		in.LookDX, in.LookDY = 0, 0

		if src == nil {
			return
		}
		intent := src.Intent(components.Player.Get(e).Index, f.clock.Tick)
		in.Current = intent.Actions
		in.LookDX, in.LookDY = intent.LookDX, intent.LookDY
	})
}

// GetPlayerAction returns the temporal state of action for a player.
func GetPlayerAction(in *components.PlayerInputData, action cfg.ActionID) components.ActionState {
	if in == nil || action <= cfg.ActionNone || action >= cfg.ActionCount {
		return components.ActionState{}
	}
	return in.State(action)
}
