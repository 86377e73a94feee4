package systems

import (
	"github.com/automoto/splatarena/level"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// UpdateMatch tracks the leading team. Kill feed lines expire through the
// deferred queue, not here.
func UpdateMatch(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	m := f.match
	lead := m.Leader()
	if lead == m.Lead {
		return
	}
	m.Lead = lead
	f.log().Info("lead changed",
		zap.Stringer("leader", lead),
		zap.Int("scoreA", m.Score(level.TeamA)),
		zap.Int("scoreB", m.Score(level.TeamB)))
}
