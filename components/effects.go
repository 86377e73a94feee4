package components

import (
	"github.com/automoto/splatarena/assets"
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

// FlashData tracks the hit flash on a damaged entity.
type FlashData struct {
	Remaining float64 // seconds
}

var Flash = donburi.NewComponentType[FlashData]()

// ParticleData is one particle of a burst.
type ParticleData struct {
	Position r3.Vec
	Velocity r3.Vec
	Size     float64
	Age      float64
	Lifetime float64
	Opacity  float64 // fades linearly to 0 over Lifetime
}

// ParticleBurstData is a particle system spawned by an impact.
type ParticleBurstData struct {
	Origin    r3.Vec
	Normal    r3.Vec
	Intensity float64
	Gravity   float64 // pulls along -Y
	Particles []ParticleData
}

var ParticleBurst = donburi.NewComponentType[ParticleBurstData]()

// DecalData is a flat splat quad lying on a surface.
type DecalData struct {
	Position    r3.Vec
	Normal      r3.Vec
	Orientation r3.Rotation
	Spin        float64 // radians about Normal
	Size        float64
	Opacity     float64
	FadeStart   float64 // age at which the fade begins
	Secondary   bool
}

var Decal = donburi.NewComponentType[DecalData]()

// LifetimeData bounds an effect. Age never exceeds Lifetime; the effect is
// removed once they are equal.
type LifetimeData struct {
	Age      float64
	Lifetime float64
}

func (l *LifetimeData) Expired() bool { return l.Age >= l.Lifetime-1e-9 }

var Lifetime = donburi.NewComponentType[LifetimeData]()

type VisualData struct {
	*assets.Visual
}

var Visual = donburi.NewComponentType[VisualData]()

// EffectSpawner is the effects manager as seen by gameplay systems.
type EffectSpawner interface {
	SpawnImpact(position, normal r3.Vec, intensity float64)
	Update(dt float64)
	ClearAll()
}

// EffectsData holds the effects manager. Singleton.
type EffectsData struct {
	Manager EffectSpawner
}

var Effects = donburi.NewComponentType[EffectsData]()
