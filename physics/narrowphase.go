package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// manifold is a single contact; normal points from the second body to the first.
type manifold struct {
	normal r3.Vec
	point  r3.Vec
	depth  float64
}

func (m manifold) flipped() manifold {
	m.normal = r3.Scale(-1, m.normal)
	return m
}

func collide(a, b *Body) (manifold, bool) {
	ka, kb := a.Shape.Kind, b.Shape.Kind
	switch {
	case ka == ShapePlane && kb == ShapePlane:
		return manifold{}, false
	case kb == ShapePlane:
		return finitePlane(a, b)
	case ka == ShapePlane:
		m, ok := finitePlane(b, a)
		return m.flipped(), ok
	case ka == ShapeSphere && kb == ShapeSphere:
		return sphereSphere(a, b)
	case ka == ShapeSphere && kb == ShapeBox:
		return sphereBox(a, b)
	case ka == ShapeBox && kb == ShapeSphere:
		m, ok := sphereBox(b, a)
		return m.flipped(), ok
	default:
		return boxBox(a, b)
	}
}

func sphereSphere(a, b *Body) (manifold, bool) {
	d := r3.Sub(a.Position, b.Position)
	r := a.Shape.Radius + b.Shape.Radius
	dist2 := r3.Norm2(d)
	if dist2 >= r*r {
		return manifold{}, false
	}
	dist := math.Sqrt(dist2)
	n := r3.Vec{Y: 1}
	if dist > 1e-9 {
		n = r3.Scale(1/dist, d)
	}
	return manifold{
		normal: n,
		point:  r3.Add(b.Position, r3.Scale(b.Shape.Radius, n)),
		depth:  r - dist,
	}, true
}

// sphereBox collides sphere s against box bx; the normal points from the box.
func sphereBox(s, bx *Body) (manifold, bool) {
	min, max := bx.bounds()
	c := s.Position
	closest := r3.Vec{
		X: math.Max(min.X, math.Min(c.X, max.X)),
		Y: math.Max(min.Y, math.Min(c.Y, max.Y)),
		Z: math.Max(min.Z, math.Min(c.Z, max.Z)),
	}
	d := r3.Sub(c, closest)
	r := s.Shape.Radius
	dist2 := r3.Norm2(d)
	if dist2 >= r*r {
		return manifold{}, false
	}
	if dist2 > 1e-18 {
		dist := math.Sqrt(dist2)
		return manifold{normal: r3.Scale(1/dist, d), point: closest, depth: r - dist}, true
	}

	// Centre inside the box: leave through the nearest face.
	faces := [6]struct {
		dist float64
		n    r3.Vec
	}{
		{c.X - min.X, r3.Vec{X: -1}},
		{max.X - c.X, r3.Vec{X: 1}},
		{c.Y - min.Y, r3.Vec{Y: -1}},
		{max.Y - c.Y, r3.Vec{Y: 1}},
		{c.Z - min.Z, r3.Vec{Z: -1}},
		{max.Z - c.Z, r3.Vec{Z: 1}},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.dist < best.dist {
			best = f
		}
	}
	return manifold{
		normal: best.n,
		point:  r3.Add(c, r3.Scale(best.dist, best.n)),
		depth:  r + best.dist,
	}, true
}

func boxBox(a, b *Body) (manifold, bool) {
	ha, hb := a.Shape.HalfExtents, b.Shape.HalfExtents
	d := r3.Sub(a.Position, b.Position)
	ox := ha.X + hb.X - math.Abs(d.X)
	oy := ha.Y + hb.Y - math.Abs(d.Y)
	oz := ha.Z + hb.Z - math.Abs(d.Z)
	if ox <= 0 || oy <= 0 || oz <= 0 {
		return manifold{}, false
	}

	sign := func(v float64) float64 {
		if v < 0 {
			return -1
		}
		return 1
	}
	var m manifold
	switch {
	case oy <= ox && oy <= oz:
		m = manifold{normal: r3.Vec{Y: sign(d.Y)}, depth: oy}
	case ox <= oz:
		m = manifold{normal: r3.Vec{X: sign(d.X)}, depth: ox}
	default:
		m = manifold{normal: r3.Vec{Z: sign(d.Z)}, depth: oz}
	}
	half := math.Abs(r3.Dot(ha, m.normal))
	m.point = r3.Sub(a.Position, r3.Scale(half, m.normal))
	return m, true
}

// finitePlane collides a sphere or box with plane p; the normal is the plane's.
func finitePlane(a, p *Body) (manifold, bool) {
	n := p.planeNormal()
	dist := r3.Dot(n, r3.Sub(a.Position, p.Position))

	var reach float64
	switch a.Shape.Kind {
	case ShapeSphere:
		reach = a.Shape.Radius
	case ShapeBox:
		h := a.Shape.HalfExtents
		reach = math.Abs(n.X)*h.X + math.Abs(n.Y)*h.Y + math.Abs(n.Z)*h.Z
	}
	if dist >= reach {
		return manifold{}, false
	}
	return manifold{
		normal: n,
		point:  r3.Sub(a.Position, r3.Scale(dist, n)),
		depth:  reach - dist,
	}, true
}
