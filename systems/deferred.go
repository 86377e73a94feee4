package systems

import "github.com/yohamta/donburi/ecs"

// UpdateDeferred runs the deferred actions due by now. Actions scheduled
// from inside a callback wait for the next tick.
func UpdateDeferred(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	f.sched.Drain(f.clock.Now)
}
