package weapons

import (
	"math/rand"

	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/shared/gamemath"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// projectile is a simulated round in flight.
type projectile struct {
	world  World
	body   *physics.Body
	origin r3.Vec
	dir    r3.Vec
	done   bool
}

func (p *projectile) travelled() float64 {
	return r3.Norm(r3.Sub(p.body.Position, p.origin))
}

func (w *Weapon) useRanged(env *Env, origin, dir r3.Vec) bool {
	if w.state == Reloading {
		return false
	}
	if !w.CooldownReady() {
		return false
	}
	if w.ammo == 0 {
		w.Reload()
		return false
	}

	r := w.def.Ranged
	w.ammo--
	w.lastUse = w.clock
	w.state = Acting

	dir = gamemath.SafeUnit(dir, r3.Vec{Z: -1})
	if env == nil {
		return true
	}
	spread := env.Combat.MaxSpread * (1 - r.Accuracy)
	if spread > 0 {
		rng := env.RNG
		if rng == nil {
			rng = rand.New(rand.NewSource(int64(w.clock * 1e6)))
		}
		dir = gamemath.Cone(rng, dir, spread)
	}

	switch r.Resolution {
	case Hitscan:
		w.hitscan(env, origin, dir)
	case Projectile:
		w.launch(env, origin, dir)
	}
	return true
}

func (w *Weapon) hitscan(env *Env, origin, dir r3.Vec) {
	if env.World == nil {
		return
	}
	hit, ok := env.World.Raycast(origin, r3.Add(origin, r3.Scale(w.def.Range, dir)), env.filter())
	if !ok || hit.Distance > w.def.Range {
		return
	}
	w.resolve(env, hit.Body, hit.Point, hit.Normal, hit.Distance, dir)
}

func (w *Weapon) launch(env *Env, origin, dir r3.Vec) {
	if env.World == nil {
		return
	}
	c := env.Combat
	radius := c.ProjectileRadius
	if radius <= 0 {
		radius = 0.1
	}
	mass := c.ProjectileMass
	if mass <= 0 {
		mass = 1
	}
	body, err := env.World.CreateBody(physics.Sphere(radius), origin, mass, physics.Material{})
	if err != nil {
		env.logger().Warn("projectile not created", zap.String("weapon", w.def.Name), zap.Error(err))
		return
	}
	body.Velocity = r3.Scale(w.def.Ranged.ProjectileSpeed, dir)
	body.GravityScale = c.ProjectileGravityScale
	body.Group = physics.GroupProjectile
	if env.Mask != 0 {
		body.Mask = env.Mask | physics.GroupStatic
	}
	body.Ignore = env.Owner
	body.Data = w

	p := &projectile{world: env.World, body: body, origin: origin, dir: dir}
	e := *env
	env.World.OnContact(body, func(ct physics.Contact) {
		if p.done {
			return
		}
		p.done = true
		w.resolve(&e, ct.Other, ct.Point, ct.Normal, p.travelled(), p.dir)
		e.World.RemoveBody(body)
	})
	w.projectiles = append(w.projectiles, p)
}

func (w *Weapon) resolve(env *Env, body *physics.Body, point, normal r3.Vec, distance float64, dir r3.Vec) {
	crit := env.rollCrit(CritContext{
		Weapon:   w.def.Name,
		Kind:     Ranged,
		Distance: distance,
		Range:    w.def.Range,
		Damage:   w.def.Damage,
	})
	h := HitResult{
		Body:      body,
		Point:     point,
		Normal:    normal,
		Distance:  distance,
		Damage:    Damage(w.def.Damage, distance, w.def.Range, crit, env.Combat.CritMultiplier),
		Knockback: r3.Scale(w.def.Ranged.Knockback, gamemath.SafeUnit(dir, r3.Vec{})),
		Critical:  crit,
		Weapon:    w.def.Name,
	}
	env.logger().Debug("ranged hit",
		zap.String("weapon", w.def.Name),
		zap.Float64("distance", distance),
		zap.Int("damage", h.Damage),
		zap.Bool("critical", crit))
	env.report(h)
}

// Reload starts a reload. It fails for melee weapons, while already
// reloading, with a full magazine or with no reserve left.
func (w *Weapon) Reload() bool {
	if w.def.Kind != Ranged || w.state == Reloading {
		return false
	}
	if w.ammo >= w.def.Ranged.MagazineSize || w.reserve == 0 {
		return false
	}
	w.state = Reloading
	w.reloadLeft = w.def.Ranged.ReloadTime
	return true
}

// ReloadProgress is the completed fraction of the running reload, 0 when idle.
func (w *Weapon) ReloadProgress() float64 {
	if w.state != Reloading || w.def.Ranged.ReloadTime <= 0 {
		return 0
	}
	return 1 - w.reloadLeft/w.def.Ranged.ReloadTime
}

func (w *Weapon) updateRanged(dt float64) {
	switch w.state {
	case Acting:
		if w.CooldownReady() {
			w.state = Idle
		}
	case Reloading:
		w.reloadLeft -= dt
		if w.reloadLeft <= timeEpsilon {
			n := min(w.def.Ranged.MagazineSize-w.ammo, w.reserve)
			w.ammo += n
			w.reserve -= n
			w.reloadLeft = 0
			w.state = Idle
		}
	}

	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.done || p.body.Removed() {
			continue
		}
		if p.travelled() >= w.def.Range {
			p.done = true
			p.world.RemoveBody(p.body)
			continue
		}
		live = append(live, p)
	}
	for i := len(live); i < len(w.projectiles); i++ {
		w.projectiles[i] = nil
	}
	w.projectiles = live
}
