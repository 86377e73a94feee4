package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/shared/gamemath"
	"github.com/solarlune/resolv"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidPosition = errors.New("invalid position")

// GroupDynamic is the default group of bodies with mass.
const GroupDynamic = GroupProjectile << 1

const bodyTag = "body"

type pairKey struct{ lo, hi uint64 }

func keyOf(a, b *Body) pairKey {
	if a.id < b.id {
		return pairKey{a.id, b.id}
	}
	return pairKey{b.id, a.id}
}

// pairContact records a touching pair; normal points from b towards a.
type pairContact struct {
	a, b *Body
	m    manifold
}

// World owns every body and advances them on a fixed internal step.
// It is not safe for concurrent use.
type World struct {
	cfg     config.PhysicsConfig
	gravity r3.Vec
	log     *zap.Logger

	space  *resolv.Space
	extent float64

	bodies []*Body
	nextID uint64

	accumulator float64
	stepping    bool
	dirty       bool
	steps       uint64

	contacts     map[pairKey]struct{}
	contactOrder []pairContact
}

// NewWorld validates cfg and builds an empty world.
func NewWorld(cfg config.PhysicsConfig, log *zap.Logger) (*World, error) {
	if !(cfg.FixedStep > 0) {
		return nil, fmt.Errorf("physics: fixed step must be positive, got %v", cfg.FixedStep)
	}
	if cfg.MaxSubSteps < 1 {
		return nil, fmt.Errorf("physics: max sub steps must be at least 1, got %d", cfg.MaxSubSteps)
	}
	if !(cfg.MaxFrameDelta > 0) {
		return nil, fmt.Errorf("physics: max frame delta must be positive, got %v", cfg.MaxFrameDelta)
	}
	if !(cfg.WorldExtent > 0) || cfg.CellSize < 1 {
		return nil, fmt.Errorf("physics: broadphase needs a positive extent and cell size")
	}
	if log == nil {
		log = zap.NewNop()
	}

	size := int(math.Ceil(2 * cfg.WorldExtent))
	w := &World{
		cfg:      cfg,
		gravity:  cfg.Gravity.R3(),
		log:      log,
		space:    resolv.NewSpace(size, size, cfg.CellSize, cfg.CellSize),
		extent:   cfg.WorldExtent,
		contacts: make(map[pairKey]struct{}),
	}
	log.Debug("physics world created",
		zap.Float64("fixed_step", cfg.FixedStep),
		zap.Int("max_sub_steps", cfg.MaxSubSteps),
		zap.Int("grid", size/cfg.CellSize))
	return w, nil
}

// CreateBody adds a body. Mass 0 makes it static. Nothing is added on error.
func (w *World) CreateBody(shape Shape, position r3.Vec, mass float64, mat Material) (*Body, error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	if shape.Kind == ShapePlane && mass != 0 {
		return nil, fmt.Errorf("%w: planes must be static, got mass %v", ErrInvalidMass, mass)
	}
	if !gamemath.Finite(position) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, position)
	}

	w.nextID++
	b := &Body{
		Shape:        shape,
		Position:     position,
		Orientation:  r3.Rotation{Real: 1},
		Mass:         mass,
		Material:     mat,
		GravityScale: 1,
		Group:        GroupDynamic,
		id:           w.nextID,
		world:        w,
	}
	if b.Static() {
		b.Group = GroupStatic
	}
	w.bodies = append(w.bodies, b)
	w.syncBroadphase(b)
	return b, nil
}

// RemoveBody detaches b. Removing a nil, foreign or already removed body is a no-op.
func (w *World) RemoveBody(b *Body) {
	if b == nil || b.removed || b.world != w {
		return
	}
	b.removed = true
	b.listeners = nil
	if b.obj != nil && !b.overflow {
		w.space.Remove(b.obj)
	}
	b.obj = nil
	if w.stepping {
		w.dirty = true
		return
	}
	w.compact()
}

// OnContact subscribes fn to new contacts involving b. It fires once when a
// pair starts touching and again only after the pair has separated.
func (w *World) OnContact(b *Body, fn ContactFunc) {
	if b == nil || b.removed || b.world != w || fn == nil {
		return
	}
	b.listeners = append(b.listeners, fn)
}

// Touching lists the contacts b had at the end of the last internal step.
func (w *World) Touching(b *Body) []Contact {
	var out []Contact
	for _, pc := range w.contactOrder {
		switch {
		case pc.a.removed || pc.b.removed:
		case pc.a == b:
			out = append(out, Contact{Other: pc.b, Point: pc.m.point, Normal: pc.m.normal, Depth: pc.m.depth})
		case pc.b == b:
			out = append(out, Contact{Other: pc.a, Point: pc.m.point, Normal: r3.Scale(-1, pc.m.normal), Depth: pc.m.depth})
		}
	}
	return out
}

// Teleport moves b to position and stops it. Static bodies may be moved this
// way too; the broadphase follows.
func (w *World) Teleport(b *Body, position r3.Vec) error {
	if b == nil || b.removed || b.world != w {
		return nil
	}
	if !gamemath.Finite(position) {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, position)
	}
	b.Position = position
	b.Velocity = r3.Vec{}
	w.syncBroadphase(b)
	w.forgetContacts(b)
	return nil
}

// forgetContacts drops every pair involving b, so the next touch after a
// teleport reports as a new contact.
func (w *World) forgetContacts(b *Body) {
	kept := make([]pairContact, 0, len(w.contactOrder))
	for _, pc := range w.contactOrder {
		if pc.a == b || pc.b == b {
			delete(w.contacts, keyOf(pc.a, pc.b))
			continue
		}
		kept = append(kept, pc)
	}
	w.contactOrder = kept
}

// Bodies returns the number of live bodies.
func (w *World) Bodies() int {
	n := 0
	for _, b := range w.bodies {
		if !b.removed {
			n++
		}
	}
	return n
}

// Steps is the number of internal steps executed so far.
func (w *World) Steps() uint64 { return w.steps }

// Step clamps dt, accumulates it and runs at most MaxSubSteps fixed steps.
// Time beyond the sub-step cap is dropped. It returns the steps executed.
func (w *World) Step(dt float64) int {
	if !(dt > 0) {
		return 0
	}
	if dt > w.cfg.MaxFrameDelta {
		dt = w.cfg.MaxFrameDelta
	}
	h := w.cfg.FixedStep
	w.accumulator += dt

	n := 0
	for w.accumulator+1e-9 >= h && n < w.cfg.MaxSubSteps {
		w.substep(h)
		w.accumulator -= h
		n++
	}
	if w.accumulator+1e-9 >= h {
		w.accumulator = 0
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}
	return n
}

func (w *World) substep(h float64) {
	w.stepping = true
	w.steps++

	for _, b := range w.bodies {
		if b.removed || b.Static() {
			continue
		}
		b.Velocity = r3.Add(b.Velocity, r3.Scale(h*b.GravityScale, w.gravity))
		if d := b.Material.LinearDamping; d > 0 {
			b.Velocity = r3.Scale(math.Pow(1-gamemath.Clamp(d, 0, 1), h), b.Velocity)
		}
		b.Position = r3.Add(b.Position, r3.Scale(h, b.Velocity))
		w.syncBroadphase(b)
	}

	loose := w.looseBodies()
	current := make(map[pairKey]struct{}, len(w.contacts))
	var order []pairContact

	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if a.removed || a.Static() {
			continue
		}
		for _, b := range w.candidates(a, loose) {
			if b == a || b.removed || a.removed {
				continue
			}
			if !b.Static() && b.id < a.id {
				continue
			}
			if !a.collidesWith(b) {
				continue
			}
			m, ok := collide(a, b)
			if !ok {
				continue
			}
			w.resolve(a, b, m)
			k := keyOf(a, b)
			if _, seen := current[k]; seen {
				continue
			}
			current[k] = struct{}{}
			order = append(order, pairContact{a: a, b: b, m: m})
		}
	}

	previous := w.contacts
	w.contacts = current
	w.contactOrder = order
	for _, pc := range order {
		if _, was := previous[keyOf(pc.a, pc.b)]; was {
			continue
		}
		w.fire(pc)
	}

	w.stepping = false
	if w.dirty {
		w.compact()
	}
}

func (w *World) fire(pc pairContact) {
	for _, fn := range pc.a.listeners {
		if pc.a.removed || pc.b.removed {
			return
		}
		fn(Contact{Other: pc.b, Point: pc.m.point, Normal: pc.m.normal, Depth: pc.m.depth})
	}
	for _, fn := range pc.b.listeners {
		if pc.a.removed || pc.b.removed {
			return
		}
		fn(Contact{Other: pc.a, Point: pc.m.point, Normal: r3.Scale(-1, pc.m.normal), Depth: pc.m.depth})
	}
}

func (w *World) resolve(a, b *Body, m manifold) {
	ia, ib := a.invMass(), b.invMass()
	sum := ia + ib
	if sum == 0 {
		return
	}
	a.Position = r3.Add(a.Position, r3.Scale(m.depth*ia/sum, m.normal))
	b.Position = r3.Sub(b.Position, r3.Scale(m.depth*ib/sum, m.normal))

	vn := r3.Dot(r3.Sub(a.Velocity, b.Velocity), m.normal)
	if vn < 0 {
		e := math.Max(a.Material.Restitution, b.Material.Restitution)
		j := -(1 + e) * vn / sum
		a.Velocity = r3.Add(a.Velocity, r3.Scale(j*ia, m.normal))
		b.Velocity = r3.Sub(b.Velocity, r3.Scale(j*ib, m.normal))
	}

	if !a.Static() {
		w.syncBroadphase(a)
	}
	if !b.Static() {
		w.syncBroadphase(b)
	}
}

// compact drops removed bodies once no iteration is in flight.
func (w *World) compact() {
	live := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.removed {
			live = append(live, b)
		}
	}
	for i := len(live); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = live
	w.dirty = false
}
