package game

import (
	"time"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/tags"
	"github.com/automoto/splatarena/telemetry"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var (
	alivePlayers = donburi.NewQuery(filter.And(
		filter.Contains(tags.Player),
		filter.Not(filter.Contains(components.Death)),
	))
	aliveTargets = donburi.NewQuery(filter.And(
		filter.Contains(tags.Target),
		filter.Not(filter.Contains(components.Death)),
	))
)

// Sample reports the state after the last tick. elapsed is the wall time the
// caller measured for it.
func (g *Game) Sample(elapsed time.Duration) telemetry.FrameSample {
	w := g.ecs.World
	clock := components.Clock.Get(g.session)
	match := components.Match.Get(g.session)

	s := telemetry.FrameSample{
		Tick:         g.tick,
		Time:         g.now,
		Elapsed:      elapsed,
		PhysicsSteps: clock.Steps,
		Bodies:       g.Physics().Bodies(),
		Deferred:     components.Scheduler.Get(g.session).Len(),
		PlayersAlive: alivePlayers.Count(w),
		TargetsAlive: aliveTargets.Count(w),
		Kills:        match.Kills,
		ScoreA:       match.Score(level.TeamA),
		ScoreB:       match.Score(level.TeamB),
	}
	if fx := g.Effects(); fx != nil {
		s.Bursts = fx.Live(effects.Particles)
		s.Decals = fx.Live(effects.Decals)
		s.EvictedBursts = fx.Evicted(effects.Particles)
		s.EvictedDecals = fx.Evicted(effects.Decals)
	}
	return s
}
