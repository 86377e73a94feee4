package components

import (
	"github.com/automoto/splatarena/hud"
	"github.com/yohamta/donburi"
)

// HUDData publishes snapshots for the local player. Singleton.
type HUDData struct {
	Sink   hud.Sink // nil disables publishing
	Player int      // index of the player whose view is published
	Last   hud.Snapshot
}

var HUD = donburi.NewComponentType[HUDData]()
