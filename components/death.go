package components

import (
	"github.com/automoto/splatarena/deferred"
	"github.com/yohamta/donburi"
)

// DeathData marks an entity whose health reached zero. It is added exactly
// once; the death notification is sent when it is added.
type DeathData struct {
	Time      float64
	Killer    donburi.Entity
	HasKiller bool
	Weapon    string
	Critical  bool

	// Handled is set once UpdateDeaths has scored the death and scheduled
	// the respawn.
	Handled bool
	Respawn deferred.ID
}

var Death = donburi.NewComponentType[DeathData]()

// DeathNotice is delivered to session listeners once per death.
type DeathNotice struct {
	Victim     donburi.Entity
	VictimName string
	Killer     donburi.Entity
	KillerName string
	HasKiller  bool
	Weapon     string
	Critical   bool
	Tick       uint64
	Time       float64
}

type DeathListener func(DeathNotice)
