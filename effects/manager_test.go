package effects

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

func newManager(t *testing.T, mutate func(*config.EffectsConfig)) (*Manager, donburi.World) {
	t.Helper()
	cfg := config.C.Effects
	if mutate != nil {
		mutate(&cfg)
	}
	world := donburi.NewWorld()
	m, err := NewManager(world, cfg, rand.New(rand.NewSource(42)), nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, world
}

var up = r3.Vec{Y: 1}

func TestNewManagerRejectsZeroCaps(t *testing.T) {
	cfg := config.C.Effects
	cfg.MaxDecals = 0
	if _, err := NewManager(donburi.NewWorld(), cfg, nil, nil, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestBurstCapEvictsOldest(t *testing.T) {
	m, world := newManager(t, nil)

	var spawned []donburi.Entity
	for i := 0; i < 20; i++ {
		spawned = append(spawned, m.SpawnParticleBurst(r3.Vec{X: float64(i)}, up, 0.5))
	}
	if m.Live(Particles) != 20 || m.Evicted(Particles) != 0 {
		t.Fatalf("live = %d evicted = %d before the cap", m.Live(Particles), m.Evicted(Particles))
	}

	// The 21st and every later spawn removes exactly the oldest.
	for i := 0; i < 5; i++ {
		spawned = append(spawned, m.SpawnParticleBurst(r3.Vec{}, up, 0.5))
		if m.Live(Particles) != 20 {
			t.Fatalf("spawn %d: live = %d, want 20", 21+i, m.Live(Particles))
		}
		if m.Evicted(Particles) != i+1 {
			t.Fatalf("spawn %d: evicted = %d, want %d", 21+i, m.Evicted(Particles), i+1)
		}
		if world.Valid(spawned[i]) {
			t.Errorf("spawn %d: oldest burst %d still alive", 21+i, i)
		}
		if !world.Valid(spawned[i+1]) {
			t.Errorf("spawn %d: burst %d evicted out of order", 21+i, i+1)
		}
	}
	if oldest, _ := m.Oldest(Particles); oldest != spawned[5] {
		t.Error("Oldest() does not track the eviction order")
	}
	if m.Spawned(Particles) != 25 || m.Spawned(Decals) != 0 {
		t.Errorf("spawned = %d bursts %d decals, want 25 and 0", m.Spawned(Particles), m.Spawned(Decals))
	}
}

func TestCapsAreIndependent(t *testing.T) {
	m, _ := newManager(t, func(c *config.EffectsConfig) {
		c.MaxParticleSystems = 2
		c.MaxDecals = 3
	})
	for i := 0; i < 10; i++ {
		m.SpawnSurfaceMark(r3.Vec{}, up, 0)
	}
	m.SpawnParticleBurst(r3.Vec{}, up, 1)
	if m.Live(Decals) != 3 || m.Live(Particles) != 1 {
		t.Errorf("live decals = %d bursts = %d", m.Live(Decals), m.Live(Particles))
	}
	if m.Evicted(Particles) != 0 || m.Evicted(Decals) != 7 {
		t.Errorf("evicted bursts = %d decals = %d", m.Evicted(Particles), m.Evicted(Decals))
	}
}

func TestBurstParticleCount(t *testing.T) {
	tests := []struct {
		intensity float64
		want      int
	}{
		{0, 30},
		{0.5, 55},
		{1, 80},
		{-3, 30},
		{7, 80},
		{math.NaN(), 30},
	}
	for _, tt := range tests {
		m, world := newManager(t, nil)
		e := m.SpawnParticleBurst(r3.Vec{}, up, tt.intensity)
		b := components.ParticleBurst.Get(world.Entry(e))
		if len(b.Particles) != tt.want {
			t.Errorf("intensity %v: %d particles, want %d", tt.intensity, len(b.Particles), tt.want)
		}
		for _, p := range b.Particles {
			if p.Lifetime < 0.5 || p.Lifetime > 1.5 {
				t.Fatalf("particle lifetime %v outside [0.5, 1.5]", p.Lifetime)
			}
			if r3.Dot(p.Velocity, up) < 0 {
				t.Fatalf("particle velocity %v points into the surface", p.Velocity)
			}
		}
	}
}

func TestParticlesFallAndFade(t *testing.T) {
	m, world := newManager(t, nil)
	e := m.SpawnParticleBurst(r3.Vec{}, up, 0)
	b := components.ParticleBurst.Get(world.Entry(e))
	before := append([]components.ParticleData(nil), b.Particles...)

	const dt = 0.1
	m.Update(dt)
	for i, p := range b.Particles {
		if got, want := p.Velocity.Y, before[i].Velocity.Y-5*dt; math.Abs(got-want) > 1e-9 {
			t.Fatalf("particle %d vy = %v, want %v", i, got, want)
		}
		if want := 1 - dt/p.Lifetime; math.Abs(p.Opacity-want) > 1e-9 {
			t.Fatalf("particle %d opacity = %v, want %v", i, p.Opacity, want)
		}
	}
}

func TestBurstExpiresWithLongestParticle(t *testing.T) {
	m, world := newManager(t, nil)
	e := m.SpawnParticleBurst(r3.Vec{}, up, 1)
	life := components.Lifetime.Get(world.Entry(e))

	for i := 0; i < 200 && world.Valid(e); i++ {
		m.Update(1.0 / 60)
		if world.Valid(e) && life.Age > life.Lifetime {
			t.Fatalf("age %v exceeds lifetime %v", life.Age, life.Lifetime)
		}
	}
	if world.Valid(e) || m.Live(Particles) != 0 {
		t.Error("burst outlived 1.5s")
	}
}

func TestDecalOffsetAndFade(t *testing.T) {
	m, world := newManager(t, nil)
	wall := r3.Vec{Z: 1}
	e := m.SpawnSurfaceMark(r3.Vec{Z: -5}, wall, 0.5)
	entry := world.Entry(e)
	d := components.Decal.Get(entry)

	if math.Abs(d.Position.Z-(-5+0.01)) > 1e-12 {
		t.Errorf("decal position %v not lifted off the surface", d.Position)
	}
	if n := d.Orientation.Rotate(up); math.Abs(r3.Dot(n, wall)-1) > 1e-9 {
		t.Errorf("decal faces %v, want %v", n, wall)
	}

	tests := []struct {
		until   float64
		opacity float64
	}{
		{12, 1},
		{24, 1},
		{27, 0.5},
		{29.4, 0.1},
	}
	age := 0.0
	for _, tt := range tests {
		m.Update(tt.until - age)
		age = tt.until
		if math.Abs(d.Opacity-tt.opacity) > 1e-6 {
			t.Errorf("opacity at %vs = %v, want %v", tt.until, d.Opacity, tt.opacity)
		}
	}
	m.Update(0.6)
	if world.Valid(e) {
		t.Error("decal still alive after 30s")
	}
}

func TestSpawnImpactSecondaryMarks(t *testing.T) {
	tests := []struct {
		intensity float64
		decals    int
	}{
		{0.2, 1},
		{0.7, 1},
		{0.75, 2},
		{0.9, 4},
		{1, 5},
	}
	for _, tt := range tests {
		m, world := newManager(t, nil)
		m.SpawnImpact(r3.Vec{}, up, tt.intensity)
		if m.Live(Particles) != 1 || m.Live(Decals) != tt.decals {
			t.Errorf("intensity %v: bursts = %d decals = %d, want 1/%d",
				tt.intensity, m.Live(Particles), m.Live(Decals), tt.decals)
		}
		components.Decal.Each(world, func(entry *donburi.Entry) {
			d := components.Decal.Get(entry)
			if math.Abs(d.Position.Y-0.01) > 1e-9 {
				t.Errorf("secondary mark %v left the surface plane", d.Position)
			}
		})
	}
}

func TestClearAll(t *testing.T) {
	m, world := newManager(t, nil)
	for i := 0; i < 5; i++ {
		m.SpawnImpact(r3.Vec{}, up, 1)
	}
	m.ClearAll()
	if m.Live(Particles) != 0 || m.Live(Decals) != 0 {
		t.Errorf("live after ClearAll: %d bursts, %d decals", m.Live(Particles), m.Live(Decals))
	}
	if world.Len() != 0 {
		t.Errorf("%d entities left in the world", world.Len())
	}
	m.Update(1)
}

func TestExternalRemovalIsTolerated(t *testing.T) {
	m, world := newManager(t, func(c *config.EffectsConfig) { c.MaxParticleSystems = 2 })
	a := m.SpawnParticleBurst(r3.Vec{}, up, 0)
	m.SpawnParticleBurst(r3.Vec{}, up, 0)
	world.Remove(a)

	m.SpawnParticleBurst(r3.Vec{}, up, 0)
	if m.Evicted(Particles) != 0 || m.Live(Particles) != 2 {
		t.Errorf("evicted = %d live = %d after an external removal", m.Evicted(Particles), m.Live(Particles))
	}
}
