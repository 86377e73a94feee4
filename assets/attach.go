package assets

// AttachPoint is a transform slot that holds at most one visual, such as the
// first-person weapon mount.
type AttachPoint struct {
	Name    string
	current *Visual
	swaps   int
}

// Attach replaces the held visual and returns the detached one.
func (a *AttachPoint) Attach(v *Visual) *Visual {
	prev := a.current
	a.current = v
	if prev != v {
		a.swaps++
	}
	return prev
}

// Detach empties the slot.
func (a *AttachPoint) Detach() *Visual {
	prev := a.current
	a.current = nil
	return prev
}

func (a *AttachPoint) Current() *Visual { return a.current }

// Swaps counts how often the held visual changed.
func (a *AttachPoint) Swaps() int { return a.swaps }
