// Package deferred schedules callbacks for a later tick. Actions are drained
// at one fixed point of the frame and die with the entity that owns them.
package deferred

import (
	"container/heap"

	"github.com/yohamta/donburi"
)

// ID identifies a scheduled action for cancellation.
type ID uint64

type action struct {
	id     ID
	due    float64
	seq    uint64
	owner  donburi.Entity
	owned  bool
	fn     func()
	cancel bool
	index  int
}

type actionHeap []*action

func (h actionHeap) Len() int { return len(h) }

func (h actionHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h actionHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *actionHeap) Push(x any) {
	a := x.(*action)
	a.index = len(*h)
	*h = append(*h, a)
}

func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	a.index = -1
	*h = old[:n-1]
	return a
}

// Queue holds actions ordered by due time, then by scheduling order.
type Queue struct {
	world    donburi.World
	heap     actionHeap
	byID     map[ID]*action
	pending  []*action
	draining bool
	nextID   ID
	seq      uint64
}

// NewQueue creates a queue whose owner checks run against world.
func NewQueue(world donburi.World) *Queue {
	return &Queue{
		world: world,
		byID:  make(map[ID]*action),
	}
}

// After schedules fn at time due with no owner.
func (q *Queue) After(due float64, fn func()) ID {
	return q.push(&action{due: due, fn: fn})
}

// AfterFor schedules fn at time due on behalf of owner. The action is
// skipped if owner is no longer valid when it comes due.
func (q *Queue) AfterFor(owner donburi.Entity, due float64, fn func()) ID {
	return q.push(&action{due: due, fn: fn, owner: owner, owned: true})
}

func (q *Queue) push(a *action) ID {
	q.nextID++
	q.seq++
	a.id = q.nextID
	a.seq = q.seq
	q.byID[a.id] = a
	if q.draining {
		q.pending = append(q.pending, a)
	} else {
		heap.Push(&q.heap, a)
	}
	return a.id
}

// Cancel drops a scheduled action. Unknown or finished ids are ignored.
func (q *Queue) Cancel(id ID) {
	if a, ok := q.byID[id]; ok {
		a.cancel = true
		delete(q.byID, id)
	}
}

// CancelOwner drops every action owned by e.
func (q *Queue) CancelOwner(e donburi.Entity) int {
	n := 0
	for id, a := range q.byID {
		if a.owned && a.owner == e {
			a.cancel = true
			delete(q.byID, id)
			n++
		}
	}
	return n
}

// Len reports the number of live scheduled actions.
func (q *Queue) Len() int { return len(q.byID) }

// Drain runs every action due at or before now, in due order. Actions
// scheduled while draining wait for the next Drain even if already due.
func (q *Queue) Drain(now float64) int {
	q.draining = true
	ran := 0
	for q.heap.Len() > 0 && q.heap[0].due <= now {
		a := heap.Pop(&q.heap).(*action)
		if a.cancel {
			continue
		}
		delete(q.byID, a.id)
		if a.owned && (q.world == nil || !q.world.Valid(a.owner)) {
			continue
		}
		a.fn()
		ran++
	}
	q.draining = false

	for _, a := range q.pending {
		if !a.cancel {
			heap.Push(&q.heap, a)
		}
	}
	q.pending = q.pending[:0]
	return ran
}

// Clear drops every scheduled action.
func (q *Queue) Clear() {
	q.heap = q.heap[:0]
	q.pending = q.pending[:0]
	clear(q.byID)
}
