package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// hurtFlash is how long an entity flashes after taking damage, in seconds.
const hurtFlash = 0.2

// UpdateCombat consumes queued damage events, applies knockback and keeps
// health within its valid range.
func UpdateCombat(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}

	// ----------------------------------------------------------------
	// 1. Process queued damage events (generic for any entity with Health)
	// ----------------------------------------------------------------
	var events []*donburi.Entry
	for e := range components.DamageEvent.Iter(ecs.World) {
		events = append(events, e)
	}
	for _, e := range events {
		dmg := *components.DamageEvent.Get(e)
		// Remove the damage event component so it is processed only once.
		donburi.Remove[components.DamageEventData](e, components.DamageEvent)
		if e.HasComponent(components.Health) {
			applyDamage(f, e, dmg)
		}
	}

	// ----------------------------------------------------------------
	// 2. Clamp health ranges (0..Max)
	// ----------------------------------------------------------------
	for e := range components.Health.Iter(ecs.World) {
		hp := components.Health.Get(e)
		hp.Current = max(0, min(hp.Current, hp.Max))
	}
}

// DamagePlayer subtracts amount from e's health right away. It reports
// whether this damage killed e; damage to a dead entity is ignored.
func DamagePlayer(w donburi.World, e *donburi.Entry, amount int) bool {
	f, ok := frameOf(w)
	if !ok || !e.HasComponent(components.Health) {
		return false
	}
	return applyDamage(f, e, components.DamageEventData{Amount: amount})
}

func applyDamage(f *frame, e *donburi.Entry, dmg components.DamageEventData) bool {
	if e.HasComponent(components.Death) {
		return false
	}
	hp := components.Health.Get(e)
	if dmg.Amount > 0 {
		hp.Current = max(0, hp.Current-dmg.Amount)
		if e.HasComponent(components.Flash) {
			components.Flash.Get(e).Remaining = hurtFlash
		}
	}

	if b := bodyOf(e); b != nil && !b.Static() && r3.Norm2(dmg.Knockback) > 0 {
		b.Velocity = r3.Add(b.Velocity, dmg.Knockback)
	}

	f.log().Debug("damage applied",
		zap.String("victim", nameOf(e)),
		zap.Int("amount", dmg.Amount),
		zap.Int("health", hp.Current),
		zap.Bool("critical", dmg.Critical))

	if hp.Current > 0 {
		return false
	}
	startDeathSequence(f, e, dmg)
	return true
}

// startDeathSequence marks e dead and sends the one death notification.
func startDeathSequence(f *frame, e *donburi.Entry, dmg components.DamageEventData) {
	donburi.Add(e, components.Death, &components.DeathData{
		Time:      f.clock.Now,
		Killer:    dmg.Attacker,
		HasKiller: dmg.HasAttacker,
		Weapon:    dmg.Weapon,
		Critical:  dmg.Critical,
	})

	if e.HasComponent(components.Player) {
		components.Player.Get(e).ControlsEnabled = false
	}

	notice := components.DeathNotice{
		Victim:     e.Entity(),
		VictimName: nameOf(e),
		Killer:     dmg.Attacker,
		KillerName: killerName(f.world, dmg.Attacker, dmg.HasAttacker),
		HasKiller:  dmg.HasAttacker,
		Weapon:     dmg.Weapon,
		Critical:   dmg.Critical,
		Tick:       f.clock.Tick,
		Time:       f.clock.Now,
	}
	for _, fn := range f.session.DeathListeners {
		fn(notice)
	}
}
