package components

import (
	cfg "github.com/automoto/splatarena/config"
	"github.com/yohamta/donburi"
)

// ActionState represents the temporal state of an action
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// Intent is one frame of raw input for a player.
type Intent struct {
	Actions        [cfg.ActionCount]bool
	LookDX, LookDY float64
}

// InputSource supplies intents. Implementations may be scripted, replayed or
// fed by a real device layer outside the core.
type InputSource interface {
	Intent(player int, tick uint64) Intent
}

// InputFunc adapts a function to InputSource.
type InputFunc func(player int, tick uint64) Intent

func (f InputFunc) Intent(player int, tick uint64) Intent { return f(player, tick) }

// InputData holds the input source. Singleton.
type InputData struct {
	Source InputSource
}

var Input = donburi.NewComponentType[InputData]()

// PlayerInputData stores per-player input state. JustPressed/JustReleased
// are computed on demand by comparing frames.
type PlayerInputData struct {
	Current  [cfg.ActionCount]bool
	Previous [cfg.ActionCount]bool
	LookDX   float64
	LookDY   float64
}

func (p *PlayerInputData) State(a cfg.ActionID) ActionState {
	return ActionState{
		Pressed:      p.Current[a],
		JustPressed:  p.Current[a] && !p.Previous[a],
		JustReleased: !p.Current[a] && p.Previous[a],
	}
}

var PlayerInput = donburi.NewComponentType[PlayerInputData]()
