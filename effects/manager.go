// Package effects owns transient impact visuals: particle bursts and surface
// decals. Each kind has its own population cap; spawning at the cap evicts
// the oldest live effect of that kind first.
package effects

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/automoto/splatarena/archetypes"
	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/shared/gamemath"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

type Kind int

const (
	Particles Kind = iota
	Decals
	kindCount
)

func (k Kind) String() string {
	if k == Particles {
		return "particles"
	}
	return "decals"
}

// Visual names requested from the asset library.
const (
	ParticleVisual = "blood"
	DecalVisual    = "splat"
)

// Manager creates, advances and removes effect entities.
type Manager struct {
	world donburi.World
	cfg   config.EffectsConfig
	rng   *rand.Rand
	lib   *assets.Library
	log   *zap.Logger

	// live lists each kind oldest first.
	live    [kindCount][]donburi.Entity
	caps    [kindCount]int
	spawned [kindCount]int
	evicted [kindCount]int
}

// NewManager validates the caps and returns an empty manager. A nil library
// makes every effect use placeholder visuals.
func NewManager(world donburi.World, cfg config.EffectsConfig, rng *rand.Rand, lib *assets.Library, log *zap.Logger) (*Manager, error) {
	if cfg.MaxParticleSystems < 1 || cfg.MaxDecals < 1 {
		return nil, fmt.Errorf("%w: effect caps must be at least 1, got %d particle systems and %d decals",
			config.ErrInvalidConfig, cfg.MaxParticleSystems, cfg.MaxDecals)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{world: world, cfg: cfg, rng: rng, lib: lib, log: log}
	m.caps[Particles] = cfg.MaxParticleSystems
	m.caps[Decals] = cfg.MaxDecals
	return m, nil
}

// Live counts effects of kind currently alive.
func (m *Manager) Live(k Kind) int {
	m.prune(k)
	return len(m.live[k])
}

// Evicted counts effects of kind removed to respect the cap.
func (m *Manager) Evicted(k Kind) int { return m.evicted[k] }

// Spawned counts every effect of kind created, evicted ones included.
func (m *Manager) Spawned(k Kind) int { return m.spawned[k] }

// Oldest returns the oldest live effect of kind.
func (m *Manager) Oldest(k Kind) (donburi.Entity, bool) {
	m.prune(k)
	if len(m.live[k]) == 0 {
		return 0, false
	}
	return m.live[k][0], true
}

// SpawnParticleBurst emits MinParticles..MaxParticles particles scaled by
// intensity, flying out of the surface around normal.
func (m *Manager) SpawnParticleBurst(position, normal r3.Vec, intensity float64) donburi.Entity {
	intensity = clampUnit(intensity)
	n := gamemath.SafeUnit(normal, gamemath.Up)
	c := m.cfg

	count := c.MinParticles + int(math.Round(intensity*float64(c.MaxParticles-c.MinParticles)))
	parts := make([]components.ParticleData, count)
	longest := 0.0
	for i := range parts {
		dir := gamemath.Hemisphere(m.rng, n, c.NormalBias)
		life := gamemath.Between(m.rng, c.ParticleLifetimeMin, c.ParticleLifetimeMax)
		parts[i] = components.ParticleData{
			Position: position,
			Velocity: r3.Scale(gamemath.Between(m.rng, c.ParticleSpeedMin, c.ParticleSpeedMax), dir),
			Size:     c.ParticleSize * gamemath.Between(m.rng, 0.5, 1.5),
			Lifetime: life,
			Opacity:  1,
		}
		longest = math.Max(longest, life)
	}

	m.makeRoom(Particles)
	entry := archetypes.ParticleBurst.Create(m.world)
	components.ParticleBurst.SetValue(entry, components.ParticleBurstData{
		Origin:    position,
		Normal:    n,
		Intensity: intensity,
		Gravity:   c.ParticleGravity,
		Particles: parts,
	})
	components.Lifetime.SetValue(entry, components.LifetimeData{Lifetime: longest})
	components.Visual.SetValue(entry, components.VisualData{Visual: m.visual(assets.KindParticle, ParticleVisual)})
	return m.track(Particles, entry.Entity())
}

// SpawnSurfaceMark lays a decal quad on the surface, lifted along normal and
// spun randomly about it. A non-positive size uses the configured default.
func (m *Manager) SpawnSurfaceMark(position, normal r3.Vec, size float64) donburi.Entity {
	return m.spawnMark(position, normal, size, false)
}

func (m *Manager) spawnMark(position, normal r3.Vec, size float64, secondary bool) donburi.Entity {
	c := m.cfg
	n := gamemath.SafeUnit(normal, gamemath.Up)
	if !(size > 0) {
		size = c.DecalSize
	}
	spin := m.rng.Float64() * 2 * math.Pi

	m.makeRoom(Decals)
	entry := archetypes.Decal.Create(m.world)
	components.Decal.SetValue(entry, components.DecalData{
		Position:    r3.Add(position, r3.Scale(c.SurfaceOffset, n)),
		Normal:      n,
		Orientation: gamemath.AlignUp(n, spin),
		Spin:        spin,
		Size:        size,
		Opacity:     1,
		FadeStart:   c.DecalLifetime * (1 - c.DecalFadeFraction),
		Secondary:   secondary,
	})
	components.Lifetime.SetValue(entry, components.LifetimeData{Lifetime: c.DecalLifetime})
	components.Visual.SetValue(entry, components.VisualData{Visual: m.visual(assets.KindDecal, DecalVisual)})
	return m.track(Decals, entry.Entity())
}

// SpawnImpact is one burst plus one mark. Intense impacts above the
// secondary threshold scatter extra smaller marks around the point.
func (m *Manager) SpawnImpact(position, normal r3.Vec, intensity float64) {
	intensity = clampUnit(intensity)
	c := m.cfg
	n := gamemath.SafeUnit(normal, gamemath.Up)

	m.SpawnParticleBurst(position, n, intensity)
	m.SpawnSurfaceMark(position, n, c.DecalSize*(0.75+0.5*intensity))

	extra := m.SecondaryMarks(intensity)
	if extra == 0 {
		return
	}
	t, b := gamemath.TangentBasis(n)
	for range extra {
		angle := m.rng.Float64() * 2 * math.Pi
		r := gamemath.Between(m.rng, 0.3, 1) * c.SecondarySpread
		offset := r3.Add(r3.Scale(r*math.Cos(angle), t), r3.Scale(r*math.Sin(angle), b))
		size := c.DecalSize * c.SecondaryScale * gamemath.Between(m.rng, 0.5, 1)
		m.spawnMark(r3.Add(position, offset), n, size, true)
	}
	m.log.Debug("heavy impact", zap.Float64("intensity", intensity), zap.Int("secondary", extra))
}

// SecondaryMarks is the number of extra marks an impact of intensity adds.
func (m *Manager) SecondaryMarks(intensity float64) int {
	th := m.cfg.SecondaryThreshold
	if intensity <= th || th >= 1 || m.cfg.MaxSecondaryMarks <= 0 {
		return 0
	}
	n := int(math.Ceil((intensity - th) / (1 - th) * float64(m.cfg.MaxSecondaryMarks)))
	return min(n, m.cfg.MaxSecondaryMarks)
}

// Update ages every effect by dt. Effects reaching their lifetime are removed.
func (m *Manager) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	var expired []donburi.Entity
	for k := Kind(0); k < kindCount; k++ {
		m.prune(k)
		for _, e := range m.live[k] {
			entry := m.world.Entry(e)
			life := components.Lifetime.Get(entry)
			life.Age = math.Min(life.Age+dt, life.Lifetime)

			switch k {
			case Particles:
				updateBurst(components.ParticleBurst.Get(entry), dt)
			case Decals:
				updateDecal(components.Decal.Get(entry), life)
			}
			if life.Expired() {
				expired = append(expired, e)
			}
		}
	}
	for _, e := range expired {
		m.world.Remove(e)
	}
	if len(expired) > 0 {
		for k := Kind(0); k < kindCount; k++ {
			m.prune(k)
		}
	}
}

func updateBurst(b *components.ParticleBurstData, dt float64) {
	for i := range b.Particles {
		p := &b.Particles[i]
		if p.Age >= p.Lifetime {
			continue
		}
		step := math.Min(dt, p.Lifetime-p.Age)
		p.Velocity.Y -= b.Gravity * step
		p.Position = r3.Add(p.Position, r3.Scale(step, p.Velocity))
		p.Age += step
		p.Opacity = math.Max(0, 1-p.Age/p.Lifetime)
	}
}

func updateDecal(d *components.DecalData, life *components.LifetimeData) {
	if life.Age <= d.FadeStart {
		d.Opacity = 1
		return
	}
	span := life.Lifetime - d.FadeStart
	if span <= 0 {
		d.Opacity = 0
		return
	}
	d.Opacity = gamemath.Clamp((life.Lifetime-life.Age)/span, 0, 1)
}

// ClearAll removes every live effect, e.g. on level regeneration.
func (m *Manager) ClearAll() {
	n := 0
	for k := Kind(0); k < kindCount; k++ {
		for _, e := range m.live[k] {
			if m.world.Valid(e) {
				m.world.Remove(e)
				n++
			}
		}
		m.live[k] = m.live[k][:0]
	}
	m.log.Debug("effects cleared", zap.Int("removed", n))
}

// makeRoom evicts the oldest effect of kind while the kind is at its cap.
func (m *Manager) makeRoom(k Kind) {
	m.prune(k)
	for len(m.live[k]) >= m.caps[k] {
		oldest := m.live[k][0]
		m.live[k] = m.live[k][1:]
		m.world.Remove(oldest)
		m.evicted[k]++
		m.log.Debug("effect evicted", zap.Stringer("kind", k), zap.Int("evicted", m.evicted[k]))
	}
}

func (m *Manager) track(k Kind, e donburi.Entity) donburi.Entity {
	m.live[k] = append(m.live[k], e)
	m.spawned[k]++
	return e
}

// prune forgets entities removed behind the manager's back.
func (m *Manager) prune(k Kind) {
	live := m.live[k][:0]
	for _, e := range m.live[k] {
		if m.world.Valid(e) {
			live = append(live, e)
		}
	}
	m.live[k] = live
}

func (m *Manager) visual(kind assets.Kind, name string) *assets.Visual {
	if m.lib == nil {
		return assets.Placeholder(kind, name)
	}
	return m.lib.Get(kind, name)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return gamemath.Clamp(v, 0, 1)
}
