package systems

import (
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/deferred"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/physics"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// frame gathers the session singletons a system needs. It is rebuilt on
// every call; deferred callbacks look it up again when they run.
type frame struct {
	world   donburi.World
	session *components.SessionData
	clock   *components.ClockData
	space   *physics.World
	sched   *deferred.Queue
	effects components.EffectSpawner
	match   *components.MatchData
	level   *components.LevelData
	input   *components.InputData
	hud     *components.HUDData
}

func frameOf(w donburi.World) (*frame, bool) {
	e, ok := components.Session.First(w)
	if !ok {
		return nil, false
	}
	return &frame{
		world:   w,
		session: components.Session.Get(e),
		clock:   components.Clock.Get(e),
		space:   components.Space.Get(e).World,
		sched:   components.Scheduler.Get(e).Queue,
		effects: components.Effects.Get(e).Manager,
		match:   components.Match.Get(e),
		level:   components.Level.Get(e),
		input:   components.Input.Get(e),
		hud:     components.HUD.Get(e),
	}, true
}

func (f *frame) cfg() *cfg.Config {
	if f.session.Config == nil {
		return cfg.C
	}
	return f.session.Config
}

func (f *frame) log() *zap.Logger {
	if f.session.Log == nil {
		return zap.NewNop()
	}
	return f.session.Log
}

// spawnPoint picks a spawn for team from the installed layout, lifted so a
// body of radius rests on the ground.
func (f *frame) spawnPoint(team level.Team, radius float64) r3.Vec {
	p := f.cfg().Level.DefaultSpawn.R3()
	if f.level.Layout != nil {
		var ok bool
		if p, ok = f.level.Layout.RandomSpawnPoint(team, f.session.RNG); !ok {
			f.log().Debug("no spawn points, using default", zap.Stringer("team", team))
		}
	}
	p.Y = max(p.Y, radius)
	return p
}

// bodyOf returns the live body of e, or nil.
func bodyOf(e *donburi.Entry) *physics.Body {
	if !e.HasComponent(components.Object) {
		return nil
	}
	b := components.Object.Get(e).Body
	if b == nil || b.Removed() {
		return nil
	}
	return b
}

// entries snapshots the entries holding c so systems can change archetypes
// while walking them.
func entries(w donburi.World, c donburi.IComponentType) []*donburi.Entry {
	var out []*donburi.Entry
	donburi.NewQuery(filter.Contains(c)).Each(w, func(e *donburi.Entry) {
		out = append(out, e)
	})
	return out
}
