package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RayFilter narrows a ray query. Mask 0 accepts every group.
type RayFilter struct {
	Mask   uint32
	Skip   *Body
	Accept func(*Body) bool
}

func (f RayFilter) allows(b *Body) bool {
	if b.removed || b == f.Skip {
		return false
	}
	if f.Mask != 0 && f.Mask&b.Group == 0 {
		return false
	}
	return f.Accept == nil || f.Accept(b)
}

// RayHit is the closest intersection along a segment.
type RayHit struct {
	Body     *Body
	Point    r3.Vec
	Normal   r3.Vec
	Distance float64
}

// Raycast returns the closest body hit on the segment from -> to.
func (w *World) Raycast(from, to r3.Vec, filter RayFilter) (RayHit, bool) {
	seg := r3.Sub(to, from)
	length := r3.Norm(seg)
	if length < 1e-12 {
		return RayHit{}, false
	}
	dir := r3.Scale(1/length, seg)

	best := RayHit{Distance: math.Inf(1)}
	for _, b := range w.rayCandidates(from, to) {
		if !filter.allows(b) {
			continue
		}
		var (
			t  float64
			n  r3.Vec
			ok bool
		)
		switch b.Shape.Kind {
		case ShapeSphere:
			t, n, ok = raySphere(from, dir, b)
		case ShapeBox:
			t, n, ok = rayBox(from, dir, b)
		case ShapePlane:
			t, n, ok = rayPlane(from, dir, b)
		}
		if !ok || t > length || t >= best.Distance {
			continue
		}
		best = RayHit{Body: b, Point: r3.Add(from, r3.Scale(t, dir)), Normal: n, Distance: t}
	}
	if best.Body == nil {
		return RayHit{}, false
	}
	return best, true
}

func raySphere(o, dir r3.Vec, b *Body) (float64, r3.Vec, bool) {
	oc := r3.Sub(o, b.Position)
	r := b.Shape.Radius
	half := r3.Dot(oc, dir)
	c := r3.Norm2(oc) - r*r
	if c <= 0 {
		return 0, r3.Scale(-1, dir), true
	}
	if half > 0 {
		return 0, r3.Vec{}, false
	}
	disc := half*half - c
	if disc < 0 {
		return 0, r3.Vec{}, false
	}
	t := -half - math.Sqrt(disc)
	p := r3.Add(o, r3.Scale(t, dir))
	return t, r3.Unit(r3.Sub(p, b.Position)), true
}

func rayBox(o, dir r3.Vec, b *Body) (float64, r3.Vec, bool) {
	min, max := b.bounds()
	tNear, tFar := math.Inf(-1), math.Inf(1)
	var normal r3.Vec

	axes := [3]struct {
		o, d, lo, hi float64
		n            r3.Vec
	}{
		{o.X, dir.X, min.X, max.X, r3.Vec{X: 1}},
		{o.Y, dir.Y, min.Y, max.Y, r3.Vec{Y: 1}},
		{o.Z, dir.Z, min.Z, max.Z, r3.Vec{Z: 1}},
	}
	for _, ax := range axes {
		if math.Abs(ax.d) < 1e-12 {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, r3.Vec{}, false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		n := r3.Scale(-1, ax.n)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = ax.n
		}
		if t1 > tNear {
			tNear = t1
			normal = n
		}
		tFar = math.Min(tFar, t2)
		if tNear > tFar || tFar < 0 {
			return 0, r3.Vec{}, false
		}
	}
	if tNear < 0 {
		// Origin inside the box.
		return 0, r3.Scale(-1, dir), true
	}
	return tNear, normal, true
}

// rayPlane only hits the front face.
func rayPlane(o, dir r3.Vec, b *Body) (float64, r3.Vec, bool) {
	n := b.planeNormal()
	denom := r3.Dot(n, dir)
	if denom >= -1e-12 {
		return 0, r3.Vec{}, false
	}
	t := r3.Dot(n, r3.Sub(b.Position, o)) / denom
	if t < 0 {
		return 0, r3.Vec{}, false
	}
	return t, n, true
}
