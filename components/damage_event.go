package components

import (
	"github.com/yohamta/donburi"
	"gonum.org/v1/gonum/spatial/r3"
)

// DamageEventData is queued on the struck entity and consumed once by
// UpdateCombat. Hits landing in the same tick accumulate into one event.
type DamageEventData struct {
	Amount      int
	Knockback   r3.Vec
	Attacker    donburi.Entity
	HasAttacker bool
	Weapon      string
	Critical    bool
}

var DamageEvent = donburi.NewComponentType[DamageEventData]()
