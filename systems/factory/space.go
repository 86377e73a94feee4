package factory

import (
	"errors"
	"math/rand"

	"github.com/automoto/splatarena/archetypes"
	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/deferred"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/hud"
	"github.com/automoto/splatarena/logging"
	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/weapons"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

var ErrNoSession = errors.New("no session entity")

// SessionSpec lists the collaborators of one simulation session. Every
// field is optional.
type SessionSpec struct {
	Config *cfg.Config // nil uses cfg.C
	Log    *zap.Logger
	Seed   int64

	Crits  weapons.CritRoller
	Assets assets.Source
	Input  components.InputSource

	HUD       hud.Sink
	HUDPlayer int
}

// CreateSession spawns the singleton entity holding the physics world, the
// deferred queue, the effects manager and the match state.
func CreateSession(ecs *ecs.ECS, spec SessionSpec) (*donburi.Entry, error) {
	c := spec.Config
	if c == nil {
		c = cfg.C
	}
	log := spec.Log
	if log == nil {
		log = zap.NewNop()
	}

	space, err := physics.NewWorld(c.Physics, logging.Named(log, "physics"))
	if err != nil {
		return nil, err
	}
	lib := assets.NewLibrary(spec.Assets, logging.Named(log, "assets"))
	fx, err := effects.NewManager(ecs.World, c.Effects, rand.New(rand.NewSource(spec.Seed+1)), lib, logging.Named(log, "effects"))
	if err != nil {
		return nil, err
	}

	session := archetypes.Session.Spawn(ecs)
	components.Session.SetValue(session, components.SessionData{
		ID:     uuid.New(),
		Config: c,
		Log:    log,
		RNG:    rand.New(rand.NewSource(spec.Seed)),
		Crits:  spec.Crits,
		Assets: lib,
	})
	components.Clock.SetValue(session, components.ClockData{})
	components.Space.SetValue(session, components.SpaceData{World: space})
	components.Scheduler.SetValue(session, components.SchedulerData{Queue: deferred.NewQueue(ecs.World)})
	components.Effects.SetValue(session, components.EffectsData{Manager: fx})
	components.Level.SetValue(session, components.LevelData{})
	components.Match.SetValue(session, components.MatchData{FeedMax: c.Match.KillFeedMax})
	components.Input.SetValue(session, components.InputData{Source: spec.Input})
	components.HUD.SetValue(session, components.HUDData{Sink: spec.HUD, Player: spec.HUDPlayer})

	log.Info("session created",
		zap.Stringer("session", components.Session.Get(session).ID),
		zap.Int64("seed", spec.Seed))
	return session, nil
}

// session returns the session singletons factories build against.
func session(w donburi.World) (*components.SessionData, *physics.World, error) {
	e, ok := components.Session.First(w)
	if !ok {
		return nil, nil, ErrNoSession
	}
	s := components.Session.Get(e)
	if s.Config == nil {
		s.Config = cfg.C
	}
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	return s, components.Space.Get(e).World, nil
}
