package weapons

import (
	"math"

	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/shared/gamemath"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

func (w *Weapon) useMelee(env *Env, origin, dir r3.Vec) bool {
	if !w.CooldownReady() {
		return false
	}
	m := w.def.Melee
	w.lastUse = w.clock
	w.state = Acting
	w.swingProgress = 0
	if m.SwingDuration > 0 {
		w.swing = gween.New(0, 1, float32(m.SwingDuration), ease.OutCubic)
	} else {
		w.swing = nil
		w.state = Idle
	}

	w.strike(env, origin, gamemath.SafeUnit(dir, r3.Vec{Z: -1}))
	return true
}

// strike casts the ray fan and reports the closest hit in range.
func (w *Weapon) strike(env *Env, origin, dir r3.Vec) {
	if env == nil || env.World == nil {
		return
	}
	m := w.def.Melee
	filter := env.filter()

	best := physics.RayHit{Distance: math.Inf(1)}
	found := false
	for _, d := range gamemath.FanDirections(dir, m.Arc, m.RayCount) {
		hit, ok := env.World.Raycast(origin, r3.Add(origin, r3.Scale(w.def.Range, d)), filter)
		if !ok || hit.Distance > w.def.Range || hit.Distance >= best.Distance {
			continue
		}
		best = hit
		found = true
	}
	if !found {
		return
	}

	crit := env.rollCrit(CritContext{
		Weapon:   w.def.Name,
		Kind:     Melee,
		Distance: best.Distance,
		Range:    w.def.Range,
		Damage:   w.def.Damage,
	})
	push := gamemath.SafeUnit(gamemath.Horizontal(dir), r3.Vec{})
	h := HitResult{
		Body:      best.Body,
		Point:     best.Point,
		Normal:    best.Normal,
		Distance:  best.Distance,
		Damage:    Damage(w.def.Damage, best.Distance, w.def.Range, crit, env.Combat.CritMultiplier),
		Knockback: r3.Scale(m.Knockback, push),
		Critical:  crit,
		Weapon:    w.def.Name,
	}
	env.logger().Debug("melee hit",
		zap.String("weapon", w.def.Name),
		zap.Float64("distance", h.Distance),
		zap.Int("damage", h.Damage),
		zap.Bool("critical", crit))
	env.report(h)
}

func (w *Weapon) updateSwing(dt float64) {
	if w.swing == nil {
		if w.state == Acting {
			w.state = Idle
		}
		return
	}
	p, done := w.swing.Update(float32(dt))
	w.swingProgress = p
	if done {
		w.swing = nil
		w.swingProgress = 1
		w.state = Idle
	}
}
