package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/hud"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/weapons"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// PublishHUD builds the snapshot for the viewed player and hands it to the
// sink. It runs last so the snapshot reflects the whole tick.
func PublishHUD(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	snap := hud.Snapshot{
		Tick:        f.clock.Tick,
		Time:        f.clock.Now,
		AmmoCurrent: hud.NoAmmo,
		AmmoReserve: hud.NoAmmo,
		ScoreA:      f.match.Score(level.TeamA),
		ScoreB:      f.match.Score(level.TeamB),
	}

	lifetime := f.cfg().Match.KillFeedLifetime
	for _, ev := range f.match.Feed {
		snap.KillFeed = append(snap.KillFeed, hud.KillLine{
			ID:        ev.ID.String(),
			Text:      ev.Text,
			Remaining: max(0, ev.At+lifetime-f.clock.Now),
		})
	}

	if e, ok := playerByIndex(ecs.World, f.hud.Player); ok {
		fillPlayer(&snap, e)
	}

	f.hud.Last = snap
	if f.hud.Sink != nil {
		f.hud.Sink.Publish(snap)
	}
}

func fillPlayer(snap *hud.Snapshot, e *donburi.Entry) {
	hp := components.Health.Get(e)
	snap.Health, snap.MaxHealth = hp.Current, hp.Max
	snap.Alive = !e.HasComponent(components.Death)
	snap.Hurt = components.Flash.Get(e).Remaining > 0
	snap.MuzzleFlash = components.Camera.Get(e).MuzzleFlash != nil

	wpn := components.Loadout.Get(e).Current()
	if wpn == nil {
		return
	}
	snap.Weapon = wpn.Name()
	snap.AmmoCurrent, snap.AmmoReserve = wpn.Ammo()
	snap.Reloading = wpn.State() == weapons.Reloading
	snap.ReloadProgress = wpn.ReloadProgress()
}

// playerByIndex finds the player with the given index.
func playerByIndex(w donburi.World, index int) (*donburi.Entry, bool) {
	var found *donburi.Entry
	components.Player.Each(w, func(e *donburi.Entry) {
		if found == nil && components.Player.Get(e).Index == index {
			found = e
		}
	})
	return found, found != nil
}
