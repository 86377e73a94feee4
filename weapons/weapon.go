// Package weapons implements per-instance weapon state machines. A weapon is
// either melee or ranged; both share cooldown gating and damage falloff.
package weapons

//go:generate go tool mockgen -destination=./mocks/crit_mock.go -package=mocks . CritRoller

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/physics"
	"github.com/tanema/gween"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidWeapon = errors.New("invalid weapon")

type Kind int

const (
	Melee Kind = iota
	Ranged
)

func (k Kind) String() string {
	if k == Melee {
		return "melee"
	}
	return "ranged"
}

type State int

const (
	Idle State = iota
	Acting
	Reloading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acting:
		return "acting"
	case Reloading:
		return "reloading"
	}
	return "unknown"
}

type FireMode int

const (
	SemiAuto FireMode = iota
	Automatic
)

type Resolution int

const (
	Hitscan Resolution = iota
	Projectile
)

// MeleeSpec is the melee payload of a weapon definition.
type MeleeSpec struct {
	Arc           float64 // radians spanned by the ray fan
	SwingDuration float64
	Knockback     float64
	RayCount      int // odd
}

// RangedSpec is the ranged payload of a weapon definition.
type RangedSpec struct {
	MagazineSize    int
	Reserve         int
	ReloadTime      float64
	Accuracy        float64 // 1 is perfectly accurate
	Mode            FireMode
	Resolution      Resolution
	ProjectileSpeed float64
	Knockback       float64
}

// Def describes a weapon. Only the payload matching Kind is read.
type Def struct {
	Name     string
	Kind     Kind
	Damage   int
	Cooldown float64
	Range    float64
	Visual   string

	Melee  MeleeSpec
	Ranged RangedSpec
}

// FromConfig converts a catalog row.
func FromConfig(d config.WeaponDef) (Def, error) {
	def := Def{
		Name:     d.Name,
		Damage:   d.Damage,
		Cooldown: d.Cooldown,
		Range:    d.Range,
		Visual:   d.Visual,
	}
	if def.Visual == "" {
		def.Visual = d.Name
	}
	switch d.Kind {
	case "melee":
		def.Kind = Melee
		def.Melee = MeleeSpec{
			Arc:           d.SwingArc,
			SwingDuration: d.SwingDuration,
			Knockback:     d.Knockback,
			RayCount:      d.RayCount,
		}
	case "ranged":
		def.Kind = Ranged
		def.Ranged = RangedSpec{
			MagazineSize:    d.Magazine,
			Reserve:         d.Reserve,
			ReloadTime:      d.ReloadTime,
			Accuracy:        d.Accuracy,
			ProjectileSpeed: d.ProjectileSpeed,
			Knockback:       d.Knockback,
		}
		switch d.FireMode {
		case "", "semi":
			def.Ranged.Mode = SemiAuto
		case "auto":
			def.Ranged.Mode = Automatic
		default:
			return Def{}, fmt.Errorf("%w: %s: unknown fire mode %q", ErrInvalidWeapon, d.Name, d.FireMode)
		}
		switch d.Resolution {
		case "", "hitscan":
			def.Ranged.Resolution = Hitscan
		case "projectile":
			def.Ranged.Resolution = Projectile
		default:
			return Def{}, fmt.Errorf("%w: %s: unknown resolution %q", ErrInvalidWeapon, d.Name, d.Resolution)
		}
	default:
		return Def{}, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidWeapon, d.Name, d.Kind)
	}
	return def, nil
}

func (d Def) validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalidWeapon, d.Name}, args...)...)
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	if d.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWeapon)
	}
	if d.Damage < 0 {
		return bad("negative damage %d", d.Damage)
	}
	if d.Cooldown < 0 || !finite(d.Cooldown) {
		return bad("cooldown must be a non-negative number, got %v", d.Cooldown)
	}
	if !(d.Range > 0) || !finite(d.Range) {
		return bad("range must be positive, got %v", d.Range)
	}

	switch d.Kind {
	case Melee:
		m := d.Melee
		if m.RayCount < 1 || m.RayCount%2 == 0 {
			return bad("ray count must be odd, got %d", m.RayCount)
		}
		if m.Arc < 0 || m.Arc >= 2*math.Pi {
			return bad("swing arc must be in [0, 2π), got %v", m.Arc)
		}
		if m.SwingDuration < 0 || m.Knockback < 0 {
			return bad("swing duration and knockback must not be negative")
		}
	case Ranged:
		r := d.Ranged
		if r.MagazineSize < 1 {
			return bad("magazine size must be at least 1, got %d", r.MagazineSize)
		}
		if r.Reserve < 0 {
			return bad("negative reserve %d", r.Reserve)
		}
		if r.ReloadTime < 0 || !finite(r.ReloadTime) {
			return bad("reload time must be a non-negative number, got %v", r.ReloadTime)
		}
		if r.Accuracy < 0 || r.Accuracy > 1 {
			return bad("accuracy must be in [0, 1], got %v", r.Accuracy)
		}
		if r.Resolution == Projectile && !(r.ProjectileSpeed > 0) {
			return bad("projectile speed must be positive, got %v", r.ProjectileSpeed)
		}
		if r.Knockback < 0 {
			return bad("negative knockback %v", r.Knockback)
		}
	default:
		return bad("unknown kind %d", d.Kind)
	}
	return nil
}

// HitResult is reported once per successful strike.
type HitResult struct {
	Body      *physics.Body
	Point     r3.Vec
	Normal    r3.Vec
	Distance  float64
	Damage    int
	Knockback r3.Vec
	Critical  bool
	Weapon    string
}

type HitFunc func(HitResult)

// CritContext is handed to a CritRoller for every hit.
type CritContext struct {
	Weapon   string
	Kind     Kind
	Distance float64
	Range    float64
	Damage   int
}

// CritRoller decides whether a hit is critical.
type CritRoller interface {
	RollCrit(CritContext) bool
}

// World is the part of the physics world weapons query.
type World interface {
	Raycast(from, to r3.Vec, filter physics.RayFilter) (physics.RayHit, bool)
	CreateBody(shape physics.Shape, position r3.Vec, mass float64, mat physics.Material) (*physics.Body, error)
	RemoveBody(b *physics.Body)
	OnContact(b *physics.Body, fn physics.ContactFunc)
}

// Env carries everything a use needs from the caller's world.
type Env struct {
	World  World
	Owner  *physics.Body // never hit by its own weapon
	Mask   uint32        // groups a strike may hit, 0 for all
	Crits  CritRoller    // nil means no criticals
	RNG    *rand.Rand
	Combat config.CombatConfig
	OnHit  HitFunc
	Log    *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e *Env) filter() physics.RayFilter {
	return physics.RayFilter{Mask: e.Mask, Skip: e.Owner}
}

func (e *Env) rollCrit(ctx CritContext) bool {
	if e.Crits == nil {
		return false
	}
	return e.Crits.RollCrit(ctx)
}

func (e *Env) report(h HitResult) {
	if e.OnHit != nil {
		e.OnHit(h)
	}
}

// Weapon is one weapon instance. Its clock only advances through Update, so
// cooldowns and reloads are measured in simulated time.
type Weapon struct {
	def     Def
	state   State
	clock   float64
	lastUse float64

	swing         *gween.Tween
	swingProgress float32

	ammo       int
	reserve    int
	reloadLeft float64

	projectiles []*projectile
}

// New validates def and returns an idle weapon with a full magazine.
func New(def Def) (*Weapon, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	w := &Weapon{
		def:     def,
		lastUse: math.Inf(-1),
	}
	if def.Kind == Ranged {
		w.ammo = def.Ranged.MagazineSize
		w.reserve = def.Ranged.Reserve
	}
	return w, nil
}

func (w *Weapon) Def() Def       { return w.def }
func (w *Weapon) Name() string   { return w.def.Name }
func (w *Weapon) Kind() Kind     { return w.def.Kind }
func (w *Weapon) State() State   { return w.state }
func (w *Weapon) Clock() float64 { return w.clock }

// Automatic weapons fire every frame the trigger is held.
func (w *Weapon) Automatic() bool {
	return w.def.Kind == Ranged && w.def.Ranged.Mode == Automatic
}

// Ammo returns the magazine and reserve counts; melee weapons report -1, -1.
func (w *Weapon) Ammo() (current, reserve int) {
	if w.def.Kind != Ranged {
		return -1, -1
	}
	return w.ammo, w.reserve
}

// SetAmmo overrides the counts, clamping the magazine to its size. Used for
// pickups and scripted loadouts.
func (w *Weapon) SetAmmo(current, reserve int) {
	if w.def.Kind != Ranged {
		return
	}
	w.ammo = max(0, min(current, w.def.Ranged.MagazineSize))
	w.reserve = max(0, reserve)
}

// SwingProgress is the eased melee swing position in [0, 1].
func (w *Weapon) SwingProgress() float64 { return float64(w.swingProgress) }

// CooldownReady reports whether enough simulated time passed since the last use.
func (w *Weapon) CooldownReady() bool {
	return cooldownElapsed(w.clock, w.lastUse, w.def.Cooldown)
}

// Use attempts an attack from origin towards dir. It returns false when the
// weapon is not allowed to act, in which case nothing changed except for a
// ranged weapon with an empty magazine, which starts reloading.
func (w *Weapon) Use(env *Env, origin, dir r3.Vec) bool {
	switch w.def.Kind {
	case Melee:
		return w.useMelee(env, origin, dir)
	case Ranged:
		return w.useRanged(env, origin, dir)
	}
	return false
}

// Update advances the weapon clock, swing, reload and projectiles by dt.
func (w *Weapon) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	w.clock += dt

	switch w.def.Kind {
	case Melee:
		w.updateSwing(dt)
	case Ranged:
		w.updateRanged(dt)
	}
}

// Discard removes in-flight projectiles, e.g. when the owner leaves the world.
func (w *Weapon) Discard(world World) {
	for _, p := range w.projectiles {
		world.RemoveBody(p.body)
	}
	w.projectiles = nil
}

// Projectiles counts bodies still in flight.
func (w *Weapon) Projectiles() int { return len(w.projectiles) }

const timeEpsilon = 1e-9

func cooldownElapsed(now, lastUse, cooldown float64) bool {
	return now-lastUse+timeEpsilon >= cooldown
}

// Damage applies the shared falloff: round(base × crit × max(0, 1 − d/range)).
func Damage(base int, distance, rng float64, critical bool, critMultiplier float64) int {
	if rng <= 0 {
		return 0
	}
	m := 1.0
	if critical {
		m = critMultiplier
		if m <= 0 {
			m = 2
		}
	}
	return int(math.Round(float64(base) * m * math.Max(0, 1-distance/rng)))
}
