// Package physics is a small rigid-body world: fixed-step integration,
// sphere/box/plane contacts, ray queries and edge-triggered contact events.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/solarlune/resolv"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrInvalidShape = errors.New("invalid shape")
	ErrInvalidMass  = errors.New("invalid mass")
)

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapePlane
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	}
	return "unknown"
}

// Shape describes collision geometry relative to the body position.
// Boxes are axis aligned; a plane passes through the body position.
type Shape struct {
	Kind        ShapeKind
	HalfExtents r3.Vec
	Radius      float64
	Normal      r3.Vec
}

func Box(halfExtents r3.Vec) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Plane builds an infinite plane facing normal. A zero normal means +Y ground.
func Plane(normal r3.Vec) Shape {
	return Shape{Kind: ShapePlane, Normal: normal}
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeBox:
		h := s.HalfExtents
		if !(h.X > 0 && h.Y > 0 && h.Z > 0) || math.IsInf(h.X+h.Y+h.Z, 0) {
			return fmt.Errorf("%w: box half extents must be positive, got %v", ErrInvalidShape, h)
		}
	case ShapeSphere:
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: sphere radius must be positive, got %v", ErrInvalidShape, s.Radius)
		}
	case ShapePlane:
		if math.IsNaN(r3.Norm(s.Normal)) {
			return fmt.Errorf("%w: plane normal is not a number", ErrInvalidShape)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

// Material holds per-body surface and damping properties.
type Material struct {
	Restitution   float64
	LinearDamping float64 // fraction of velocity lost per second
}

// Collision groups. A body with Mask 0 collides with everything.
const (
	GroupStatic uint32 = 1 << iota
	GroupPlayer
	GroupTarget
	GroupProjectile

	GroupAll = ^uint32(0)
)

// Contact is reported to OnContact subscribers. Normal points from Other
// towards the subscribed body.
type Contact struct {
	Other  *Body
	Point  r3.Vec
	Normal r3.Vec
	Depth  float64
}

type ContactFunc func(Contact)

// Body is a rigid body owned by a World.
type Body struct {
	Shape       Shape
	Position    r3.Vec
	Orientation r3.Rotation
	Velocity    r3.Vec
	Mass        float64
	Material    Material

	// GravityScale multiplies world gravity. 1 for new bodies.
	GravityScale float64
	Group        uint32
	Mask         uint32

	// Data is an opaque back reference, usually the owning entity.
	Data any

	// Ignore is never collided with, e.g. the shooter of a projectile.
	Ignore *Body

	id        uint64
	world     *World
	obj       *resolv.Object
	overflow  bool
	removed   bool
	listeners []ContactFunc
}

// ID is unique within the world that created the body.
func (b *Body) ID() uint64 { return b.id }

// Static bodies have zero mass and are never integrated.
func (b *Body) Static() bool { return b.Mass == 0 }

// Removed reports whether the body has left its world.
func (b *Body) Removed() bool { return b.removed }

func (b *Body) invMass() float64 {
	if b.Static() {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) collidesWith(o *Body) bool {
	if b.Ignore == o || o.Ignore == b {
		return false
	}
	return (b.Mask == 0 || b.Mask&o.Group != 0) && (o.Mask == 0 || o.Mask&b.Group != 0)
}

// bounds returns the AABB of a finite shape.
func (b *Body) bounds() (min, max r3.Vec) {
	var h r3.Vec
	switch b.Shape.Kind {
	case ShapeBox:
		h = b.Shape.HalfExtents
	case ShapeSphere:
		r := b.Shape.Radius
		h = r3.Vec{X: r, Y: r, Z: r}
	}
	return r3.Sub(b.Position, h), r3.Add(b.Position, h)
}

func (b *Body) planeNormal() r3.Vec {
	n := b.Shape.Normal
	if r3.Norm2(n) == 0 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(n)
}
