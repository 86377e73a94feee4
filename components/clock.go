package components

import (
	"github.com/automoto/splatarena/deferred"
	"github.com/yohamta/donburi"
)

// ClockData is simulated time. Singleton, written once per tick.
type ClockData struct {
	Now   float64
	Delta float64
	Tick  uint64

	// Steps is the number of physics steps run this tick.
	Steps int
}

var Clock = donburi.NewComponentType[ClockData]()

// SchedulerData holds the deferred action queue. Singleton.
type SchedulerData struct {
	*deferred.Queue
}

var Scheduler = donburi.NewComponentType[SchedulerData]()
