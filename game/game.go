// Package game wires the simulation together and drives it one frame at a
// time. It owns nothing but timing; all gameplay state lives in the ECS.
package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/hud"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/logging"
	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/scripting"
	"github.com/automoto/splatarena/systems"
	"github.com/automoto/splatarena/systems/factory"
	"github.com/automoto/splatarena/weapons"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlayerSpec describes a player joining at start-up.
type PlayerSpec struct {
	Name    string
	Team    level.Team
	Loadout []string // nil uses the configured loadout
}

// Options configures New. Every field is optional.
type Options struct {
	Config *config.Config // nil uses config.C
	Log    *zap.Logger
	Seed   int64

	Level  level.Source // nil loads the configured TMX map
	Assets assets.Source
	Input  components.InputSource
	HUD    hud.Sink

	// HUDPlayer is the index of the player whose view the HUD shows.
	HUDPlayer int

	// Crits overrides the scripted crit rules.
	Crits weapons.CritRoller

	// Players defaults to one player on each team.
	Players []PlayerSpec

	// Targets caps the training targets placed from the layout. Zero uses
	// the configured count, negative places none.
	Targets int
}

// Game is one running simulation.
type Game struct {
	ecs     *ecs.ECS
	session *donburi.Entry
	cfg     *config.Config
	log     *zap.Logger
	engine  *scripting.Engine
	targets int

	tick uint64
	now  float64
}

// New validates the configuration, builds the world, installs the level and
// spawns players and targets.
func New(opts Options) (*Game, error) {
	c := opts.Config
	if c == nil {
		c = config.C
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	g := &Game{
		ecs: ecs.NewECS(donburi.NewWorld()),
		cfg: c,
		log: log,
	}

	crits := opts.Crits
	if crits == nil && !c.Scripting.Disabled {
		engine, err := scripting.NewEngine(c.Scripting, rand.New(rand.NewSource(opts.Seed+2)), logging.Named(log, "scripting"))
		if err != nil {
			return nil, fmt.Errorf("crit rules: %w", err)
		}
		g.engine = engine
		crits = engine
	}

	session, err := factory.CreateSession(g.ecs, factory.SessionSpec{
		Config:    c,
		Log:       log,
		Seed:      opts.Seed,
		Crits:     crits,
		Assets:    opts.Assets,
		Input:     opts.Input,
		HUD:       opts.HUD,
		HUDPlayer: opts.HUDPlayer,
	})
	if err != nil {
		g.Close()
		return nil, err
	}
	g.session = session

	g.addSystems()

	if _, err := factory.CreateLevel(g.ecs, opts.Level); err != nil {
		g.Close()
		return nil, err
	}

	players := opts.Players
	if players == nil {
		players = []PlayerSpec{
			{Name: "red", Team: level.TeamA},
			{Name: "blue", Team: level.TeamB},
		}
	}
	for _, p := range players {
		if _, err := g.SpawnPlayer(p); err != nil {
			g.Close()
			return nil, err
		}
	}

	targets := opts.Targets
	switch {
	case targets == 0:
		targets = c.Level.Targets
	case targets < 0:
		targets = 0
	}
	g.targets = targets
	if err := g.placeTargets(targets); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// addSystems registers the frame pipeline. The order is the frame contract:
// physics first so contact callbacks see last frame's intents, HUD last so
// the snapshot reflects the whole tick.
func (g *Game) addSystems() {
	g.ecs.AddSystem(systems.UpdatePhysics)
	g.ecs.AddSystem(systems.UpdateDeferred)
	g.ecs.AddSystem(systems.UpdateInputs)
	g.ecs.AddSystem(systems.UpdatePlayers)
	g.ecs.AddSystem(systems.UpdateTargets)
	g.ecs.AddSystem(systems.UpdateCombat)
	g.ecs.AddSystem(systems.UpdateDeaths)
	g.ecs.AddSystem(systems.UpdateEffects)
	g.ecs.AddSystem(systems.UpdateMatch)
	g.ecs.AddSystem(systems.PublishHUD)
}

// Update advances the simulation by dt seconds. Negative or non-finite
// deltas count as zero; long stalls are clamped like the physics step.
func (g *Game) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	dt = min(dt, g.cfg.Physics.MaxFrameDelta)

	g.tick++
	g.now += dt
	components.Clock.SetValue(g.session, components.ClockData{
		Now:   g.now,
		Delta: dt,
		Tick:  g.tick,
	})
	g.ecs.Update()
}

func (g *Game) Tick() uint64            { return g.tick }
func (g *Game) Now() float64            { return g.now }
func (g *Game) ECS() *ecs.ECS           { return g.ecs }
func (g *Game) World() donburi.World    { return g.ecs.World }
func (g *Game) Config() *config.Config  { return g.cfg }
func (g *Game) SessionID() uuid.UUID    { return components.Session.Get(g.session).ID }
func (g *Game) Physics() *physics.World { return components.Space.Get(g.session).World }

// Layout returns the installed level layout.
func (g *Game) Layout() *level.Layout { return components.Level.Get(g.session).Layout }

// Effects returns the impact effects manager.
func (g *Game) Effects() *effects.Manager {
	m, _ := components.Effects.Get(g.session).Manager.(*effects.Manager)
	return m
}

// Match returns a copy of the scores and kill feed.
func (g *Game) Match() components.MatchData {
	m := *components.Match.Get(g.session)
	m.Feed = append([]components.KillEvent(nil), m.Feed...)
	return m
}

// HUD returns the snapshot published by the last frame.
func (g *Game) HUD() hud.Snapshot { return components.HUD.Get(g.session).Last }

// OnDeath registers fn for every death notification.
func (g *Game) OnDeath(fn components.DeathListener) {
	s := components.Session.Get(g.session)
	s.DeathListeners = append(s.DeathListeners, fn)
}

// Player returns the player with the given index.
func (g *Game) Player(index int) (*donburi.Entry, bool) {
	var found *donburi.Entry
	components.Player.Each(g.ecs.World, func(e *donburi.Entry) {
		if found == nil && components.Player.Get(e).Index == index {
			found = e
		}
	})
	return found, found != nil
}

// SpawnPlayer adds a player at a random spawn point of its team.
func (g *Game) SpawnPlayer(spec PlayerSpec) (*donburi.Entry, error) {
	index := 0
	components.Player.Each(g.ecs.World, func(e *donburi.Entry) {
		index = max(index, components.Player.Get(e).Index+1)
	})
	if spec.Name == "" {
		spec.Name = fmt.Sprintf("player%d", index)
	}

	pos := g.cfg.Level.DefaultSpawn.R3()
	if l := g.Layout(); l != nil {
		pos, _ = l.RandomSpawnPoint(spec.Team, components.Session.Get(g.session).RNG)
	}
	return factory.CreatePlayer(g.ecs, factory.PlayerSpec{
		Index:    index,
		Name:     spec.Name,
		Team:     spec.Team,
		Position: pos,
		Loadout:  spec.Loadout,
	})
}

// placeTargets puts up to n targets on the layout's target points. They
// patrol along X and Z alternately.
func (g *Game) placeTargets(n int) error {
	l := g.Layout()
	if l == nil {
		return nil
	}
	lc := g.cfg.Level
	for i, p := range l.Targets {
		if i >= n {
			break
		}
		axis := r3.Vec{X: 1}
		if i%2 == 1 {
			axis = r3.Vec{Z: 1}
		}
		if _, err := factory.CreateTarget(g.ecs, factory.TargetSpec{
			Name:     fmt.Sprintf("target%d", i),
			Position: p,
			Axis:     axis,
			Distance: lc.PatrolDistance,
			Duration: lc.PatrolDuration,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Regenerate swaps the level for one from src. Effects and projectiles in
// flight are cleared, targets are placed anew and every player respawns on
// the new layout.
func (g *Game) Regenerate(src level.Source) error {
	layout, err := factory.CreateLevel(g.ecs, src)
	if err != nil {
		return err
	}
	var stale []donburi.Entity
	components.Target.Each(g.ecs.World, func(e *donburi.Entry) {
		stale = append(stale, e.Entity())
	})
	for _, e := range stale {
		systems.RemoveEntity(g.ecs.World, e)
	}
	if err := g.placeTargets(g.targets); err != nil {
		return err
	}

	rng := components.Session.Get(g.session).RNG
	var errs []error
	for _, e := range g.players() {
		for _, wpn := range components.Loadout.Get(e).Weapons {
			wpn.Discard(g.Physics())
		}
		team := components.Player.Get(e).Team
		pos, _ := layout.RandomSpawnPoint(team, rng)
		pos.Y = max(pos.Y, g.cfg.Player.Radius)
		errs = append(errs, systems.RespawnPlayer(g.ecs.World, e, pos))
	}
	g.log.Info("level regenerated", zap.String("level", layout.Name))
	return errors.Join(errs...)
}

func (g *Game) players() []*donburi.Entry {
	var out []*donburi.Entry
	components.Player.Each(g.ecs.World, func(e *donburi.Entry) {
		out = append(out, e)
	})
	return out
}

// RemoveEntity deletes e, its body and its pending deferred actions.
func (g *Game) RemoveEntity(e donburi.Entity) {
	systems.RemoveEntity(g.ecs.World, e)
}

// Close drops pending deferred actions and releases the scripting engine.
func (g *Game) Close() error {
	components.Scheduler.Get(g.session).Queue.Clear()
	if g.engine != nil {
		g.engine.Close()
		g.engine = nil
	}
	return nil
}
