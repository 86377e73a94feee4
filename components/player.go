package components

import (
	"github.com/automoto/splatarena/level"
	"github.com/yohamta/donburi"
)

type PlayerData struct {
	Index int
	Name  string
	Team  level.Team

	// Yaw rotates the body. Unbounded.
	Yaw float64

	ControlsEnabled bool
	Kills           int
	Deaths          int
}

var Player = donburi.NewComponentType[PlayerData]()
