package components

import (
	"github.com/automoto/splatarena/weapons"
	"github.com/yohamta/donburi"
)

// LoadoutData is the ordered list of owned weapons. Exactly one is equipped
// while the list is non-empty.
type LoadoutData struct {
	Weapons  []*weapons.Weapon
	Equipped int
}

// Current returns the equipped weapon, or nil for an empty loadout.
func (l *LoadoutData) Current() *weapons.Weapon {
	if len(l.Weapons) == 0 {
		return nil
	}
	return l.Weapons[l.Equipped]
}

var Loadout = donburi.NewComponentType[LoadoutData]()
