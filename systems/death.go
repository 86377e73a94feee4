package systems

import (
	"errors"
	"fmt"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/deferred"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/systems/factory"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNoSession = errors.New("no session entity")

// UpdateDeaths scores each new death once and schedules the respawn.
// Players keep their body while dead; targets leave the physics world
// until they come back.
func UpdateDeaths(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	for _, e := range entries(ecs.World, components.Death) {
		death := components.Death.Get(e)
		if death.Handled {
			continue
		}
		death.Handled = true
		recordKill(f, e, death)

		switch {
		case e.HasComponent(components.Player):
			death.Respawn = schedulePlayerRespawn(f, e)
		case e.HasComponent(components.Target):
			death.Respawn = scheduleTargetRespawn(f, e)
		default:
			RemoveEntity(ecs.World, e.Entity())
		}
	}
}

// recordKill updates scores and counters and adds the kill feed line.
// Suicides and team kills score nothing.
func recordKill(f *frame, e *donburi.Entry, death *components.DeathData) {
	victimTeam := teamOf(e)
	scoring := level.TeamNone
	if death.HasKiller && death.Killer != e.Entity() && f.world.Valid(death.Killer) {
		killer := f.world.Entry(death.Killer)
		if t := teamOf(killer); t != victimTeam {
			scoring = t
		}
		if killer.HasComponent(components.Player) {
			components.Player.Get(killer).Kills++
		}
	}
	if e.HasComponent(components.Player) {
		components.Player.Get(e).Deaths++
	}
	f.match.AddKill(scoring)

	ev := components.KillEvent{
		ID:     uuid.New(),
		Killer: killerName(f.world, death.Killer, death.HasKiller),
		Victim: nameOf(e),
		Weapon: death.Weapon,
		At:     f.clock.Now,
	}
	ev.Text = feedText(ev)
	for _, old := range f.match.Push(ev) {
		f.log().Debug("kill feed line dropped", zap.Stringer("id", old.ID))
	}

	w, id := f.world, ev.ID
	f.sched.After(f.clock.Now+f.cfg().Match.KillFeedLifetime, func() {
		if f, ok := frameOf(w); ok {
			f.match.Remove(id)
		}
	})

	f.log().Info("kill",
		zap.String("killer", ev.Killer),
		zap.String("victim", ev.Victim),
		zap.String("weapon", ev.Weapon),
		zap.Bool("critical", death.Critical),
		zap.Stringer("scoring", scoring))
}

func feedText(ev components.KillEvent) string {
	if ev.Weapon == "" {
		return fmt.Sprintf("%s killed %s", ev.Killer, ev.Victim)
	}
	return fmt.Sprintf("%s [%s] %s", ev.Killer, ev.Weapon, ev.Victim)
}

func schedulePlayerRespawn(f *frame, e *donburi.Entry) deferred.ID {
	if b := bodyOf(e); b != nil {
		b.Velocity.X, b.Velocity.Z = 0, 0
	}
	w, owner := f.world, e.Entity()
	return f.sched.AfterFor(owner, f.clock.Now+f.cfg().Player.RespawnDelay, func() {
		f, ok := frameOf(w)
		if !ok {
			return
		}
		entry := w.Entry(owner)
		team := components.Player.Get(entry).Team
		if err := RespawnPlayer(w, entry, f.spawnPoint(team, f.cfg().Player.Radius)); err != nil {
			f.log().Warn("respawn failed", zap.String("player", nameOf(entry)), zap.Error(err))
		}
	})
}

// RespawnPlayer puts e back at position with full health, full ammo and
// controls enabled.
func RespawnPlayer(w donburi.World, e *donburi.Entry, position r3.Vec) error {
	f, ok := frameOf(w)
	if !ok {
		return ErrNoSession
	}
	if b := bodyOf(e); b != nil {
		if err := f.space.Teleport(b, position); err != nil {
			return fmt.Errorf("respawn %s: %w", nameOf(e), err)
		}
	}

	if e.HasComponent(components.Death) {
		f.sched.Cancel(components.Death.Get(e).Respawn)
		donburi.Remove[components.DeathData](e, components.Death)
	}
	if e.HasComponent(components.DamageEvent) {
		donburi.Remove[components.DamageEventData](e, components.DamageEvent)
	}

	hp := components.Health.Get(e)
	hp.Current = hp.Max
	components.Flash.Get(e).Remaining = 0
	components.Physics.SetValue(e, components.PhysicsData{})

	player := components.Player.Get(e)
	player.ControlsEnabled = true

	cam := components.Camera.Get(e)
	cam.Pitch = 0
	f.sched.Cancel(cam.FlashHide)
	cam.MuzzleFlash, cam.FlashHide = nil, 0

	for _, wpn := range components.Loadout.Get(e).Weapons {
		d := wpn.Def()
		wpn.SetAmmo(d.Ranged.MagazineSize, d.Ranged.Reserve)
	}

	f.log().Info("player respawned",
		zap.String("player", player.Name),
		zap.Stringer("team", player.Team),
		zap.Float64("x", position.X),
		zap.Float64("z", position.Z))
	return nil
}

func scheduleTargetRespawn(f *frame, e *donburi.Entry) deferred.ID {
	if b := bodyOf(e); b != nil {
		f.space.RemoveBody(b)
	}
	w, owner := f.world, e.Entity()
	return f.sched.AfterFor(owner, f.clock.Now+f.cfg().Level.TargetRespawnDelay, func() {
		if err := respawnTarget(w, w.Entry(owner)); err != nil {
			if f, ok := frameOf(w); ok {
				f.log().Warn("target respawn failed", zap.Error(err))
			}
		}
	})
}

func respawnTarget(w donburi.World, e *donburi.Entry) error {
	f, ok := frameOf(w)
	if !ok {
		return ErrNoSession
	}
	t := components.Target.Get(e)
	body, err := factory.TargetBody(f.space, e.Entity(), t.Home, f.cfg().Level.TargetRadius)
	if err != nil {
		return fmt.Errorf("target %s: %w", t.Name, err)
	}
	components.Object.SetValue(e, components.ObjectData{Body: body})

	if e.HasComponent(components.Death) {
		donburi.Remove[components.DeathData](e, components.Death)
	}
	if e.HasComponent(components.DamageEvent) {
		donburi.Remove[components.DamageEventData](e, components.DamageEvent)
	}
	hp := components.Health.Get(e)
	hp.Current = hp.Max
	components.Flash.Get(e).Remaining = 0
	t.Patrol, t.Outbound = nil, true

	f.log().Debug("target respawned", zap.String("target", t.Name))
	return nil
}
