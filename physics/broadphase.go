package physics

import (
	"math"

	"github.com/solarlune/resolv"
	"gonum.org/v1/gonum/spatial/r3"
)

// The broadphase is a resolv.Space laid over the XZ plane with the world
// origin at its centre. Planes and bodies whose footprint leaves the grid are
// "loose" and tested against everything.

func (w *World) toSpace(v float64) float64 { return v + w.extent }

func (w *World) insideGrid(x, y, wd, ht float64) bool {
	size := 2 * w.extent
	return x >= 0 && y >= 0 && x+wd < size && y+ht < size
}

func (w *World) syncBroadphase(b *Body) {
	if b.removed || b.Shape.Kind == ShapePlane {
		return
	}
	min, max := b.bounds()
	x, y := w.toSpace(min.X), w.toSpace(min.Z)
	wd, ht := max.X-min.X, max.Z-min.Z

	if !w.insideGrid(x, y, wd, ht) {
		if b.obj != nil && !b.overflow {
			w.space.Remove(b.obj)
		}
		b.overflow = true
		return
	}

	switch {
	case b.obj == nil:
		b.obj = resolv.NewObject(x, y, wd, ht, bodyTag)
		b.obj.Data = b
		w.space.Add(b.obj)
	case b.overflow:
		b.obj.X, b.obj.Y = x, y
		w.space.Add(b.obj)
	default:
		b.obj.X, b.obj.Y = x, y
		b.obj.Update()
	}
	b.overflow = false
}

func (w *World) looseBodies() []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.removed {
			continue
		}
		if b.Shape.Kind == ShapePlane || b.overflow || b.obj == nil {
			out = append(out, b)
		}
	}
	return out
}

// candidates returns the bodies that may touch a.
func (w *World) candidates(a *Body, loose []*Body) []*Body {
	if a.overflow || a.obj == nil {
		return w.bodies
	}
	out := append([]*Body(nil), loose...)
	if check := a.obj.Check(0, 0, bodyTag); check != nil {
		for _, o := range check.Objects {
			if b, ok := o.Data.(*Body); ok {
				out = append(out, b)
			}
		}
	}
	return out
}

// rayCandidates returns the bodies whose cells the segment's XZ bounds touch,
// plus every loose body.
func (w *World) rayCandidates(from, to r3.Vec) []*Body {
	out := w.looseBodies()

	size := 2 * w.extent
	pad := 1e-3
	x0 := math.Max(0, w.toSpace(math.Min(from.X, to.X))-pad)
	y0 := math.Max(0, w.toSpace(math.Min(from.Z, to.Z))-pad)
	x1 := math.Min(size-pad, w.toSpace(math.Max(from.X, to.X))+pad)
	y1 := math.Min(size-pad, w.toSpace(math.Max(from.Z, to.Z))+pad)
	if x1 <= x0 || y1 <= y0 {
		return out
	}

	probe := resolv.NewObject(x0, y0, x1-x0, y1-y0)
	w.space.Add(probe)
	defer w.space.Remove(probe)

	if check := probe.Check(0, 0, bodyTag); check != nil {
		for _, o := range check.Objects {
			if b, ok := o.Data.(*Body); ok && !b.removed {
				out = append(out, b)
			}
		}
	}
	return out
}
