package systems

import (
	"github.com/automoto/splatarena/components"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// UpdateTargets walks living targets back and forth between Home and
// Home + Axis × Distance.
func UpdateTargets(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	components.Target.Each(ecs.World, func(e *donburi.Entry) {
		if e.HasComponent(components.Death) {
			return
		}
		body := bodyOf(e)
		if body == nil {
			return
		}
		t := components.Target.Get(e)
		if t.Distance == 0 || !(t.Duration > 0) {
			return
		}
		if t.Patrol == nil {
			t.Patrol = patrolLeg(t)
		}

		offset, done := t.Patrol.Update(float32(f.clock.Delta))
		pos := r3.Add(t.Home, r3.Scale(float64(offset), t.Axis))
		if err := f.space.Teleport(body, pos); err != nil {
			f.log().Warn("target patrol stopped", zap.String("target", t.Name), zap.Error(err))
			t.Distance = 0
			return
		}
		if done {
			t.Outbound = !t.Outbound
			t.Patrol = patrolLeg(t)
		}
	})
}

func patrolLeg(t *components.TargetData) *gween.Tween {
	from, to := float32(0), float32(t.Distance)
	if !t.Outbound {
		from, to = to, from
	}
	return gween.New(from, to, float32(t.Duration), ease.InOutQuad)
}
