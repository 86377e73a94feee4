package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/level"
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

// RemoveEntity deletes e together with its body, its in-flight projectiles
// and every deferred action it owns.
func RemoveEntity(w donburi.World, e donburi.Entity) {
	if !w.Valid(e) {
		return
	}
	entry := w.Entry(e)
	if f, ok := frameOf(w); ok {
		f.sched.CancelOwner(e)
		if entry.HasComponent(components.Loadout) {
			for _, wpn := range components.Loadout.Get(entry).Weapons {
				wpn.Discard(f.space)
			}
		}
		if b := bodyOf(entry); b != nil {
			f.space.RemoveBody(b)
		}
	}
	w.Remove(e)
}

// QueueDamage records a hit on e for UpdateCombat. Hits landing in the same
// tick add up; the latest attacker gets the credit.
func QueueDamage(e *donburi.Entry, ev components.DamageEventData) {
	if !e.HasComponent(components.DamageEvent) {
		donburi.Add(e, components.DamageEvent, &ev)
		return
	}
	d := components.DamageEvent.Get(e)
	d.Amount += ev.Amount
	d.Knockback = r3.Add(d.Knockback, ev.Knockback)
	d.Critical = d.Critical || ev.Critical
	if ev.HasAttacker {
		d.Attacker, d.HasAttacker, d.Weapon = ev.Attacker, true, ev.Weapon
	}
}

func teamOf(e *donburi.Entry) level.Team {
	switch {
	case e.HasComponent(components.Player):
		return components.Player.Get(e).Team
	case e.HasComponent(components.Target):
		return components.Target.Get(e).Team
	}
	return level.TeamNone
}

func nameOf(e *donburi.Entry) string {
	switch {
	case e.HasComponent(components.Player):
		return components.Player.Get(e).Name
	case e.HasComponent(components.Target):
		return components.Target.Get(e).Name
	}
	return "unknown"
}

// sameTeam reports whether both entities fight for the same real team.
func sameTeam(w donburi.World, a donburi.Entity, b *donburi.Entry) bool {
	if !w.Valid(a) {
		return false
	}
	ta, tb := teamOf(w.Entry(a)), teamOf(b)
	return ta != level.TeamNone && ta == tb
}

// killerName names the credited attacker; kills without one belong to the world.
func killerName(w donburi.World, killer donburi.Entity, has bool) string {
	if !has {
		return "world"
	}
	if !w.Valid(killer) {
		return "unknown"
	}
	return nameOf(w.Entry(killer))
}
