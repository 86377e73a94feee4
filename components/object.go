package components

import (
	"github.com/automoto/splatarena/physics"
	"github.com/yohamta/donburi"
)

// ObjectData links an entity to its rigid body. Body.Data points back at the
// entity so hit results can be mapped to entries.
type ObjectData struct {
	*physics.Body
}

var Object = donburi.NewComponentType[ObjectData]()

// EntityOf returns the entity a body belongs to, if any.
func EntityOf(b *physics.Body) (donburi.Entity, bool) {
	if b == nil {
		return 0, false
	}
	e, ok := b.Data.(donburi.Entity)
	return e, ok
}
