package systems

import (
	"errors"
	"testing"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/hud"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/systems/factory"
	"github.com/automoto/splatarena/weapons"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

const tick = 1.0 / 60

type harnessOpts struct {
	mutate func(*config.Config)
	crits  weapons.CritRoller
	sink   hud.Sink
	layout *level.Layout
}

// harness runs the frame pipeline against an in-memory arena with scripted
// input.
type harness struct {
	t       *testing.T
	ecs     *ecs.ECS
	cfg     *config.Config
	session *donburi.Entry
	rec     *hud.Recorder
	input   map[int]components.Intent

	now  float64
	tick uint64
}

func arena() *level.Layout {
	return &level.Layout{
		Name:   "test",
		Ground: true,
		Spawns: map[level.Team][]r3.Vec{
			level.TeamA: {{X: -5}},
			level.TeamB: {{X: 5}},
		},
		DefaultSpawn: r3.Vec{Y: 2},
		Min:          r3.Vec{X: -20, Z: -20},
		Max:          r3.Vec{X: 20, Y: 10, Z: 20},
	}
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()
	c, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	c.Combat.MaxSpread = 0
	if opts.mutate != nil {
		opts.mutate(c)
	}

	h := &harness{
		t:     t,
		ecs:   ecs.NewECS(donburi.NewWorld()),
		cfg:   c,
		rec:   &hud.Recorder{},
		input: make(map[int]components.Intent),
	}
	sink := opts.sink
	if sink == nil {
		sink = h.rec
	}
	h.session, err = factory.CreateSession(h.ecs, factory.SessionSpec{
		Config: c,
		Seed:   7,
		Crits:  opts.crits,
		Input:  components.InputFunc(h.intent),
		HUD:    sink,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	layout := opts.layout
	if layout == nil {
		layout = arena()
	}
	if _, err := factory.CreateLevel(h.ecs, level.Static{L: layout}); err != nil {
		t.Fatalf("CreateLevel: %v", err)
	}

	h.ecs.AddSystem(UpdatePhysics)
	h.ecs.AddSystem(UpdateDeferred)
	h.ecs.AddSystem(UpdateInputs)
	h.ecs.AddSystem(UpdatePlayers)
	h.ecs.AddSystem(UpdateTargets)
	h.ecs.AddSystem(UpdateCombat)
	h.ecs.AddSystem(UpdateDeaths)
	h.ecs.AddSystem(UpdateEffects)
	h.ecs.AddSystem(UpdateMatch)
	h.ecs.AddSystem(PublishHUD)
	return h
}

func (h *harness) intent(player int, _ uint64) components.Intent { return h.input[player] }

func (h *harness) press(player int, actions ...config.ActionID) {
	in := h.input[player]
	for _, a := range actions {
		in.Actions[a] = true
	}
	h.input[player] = in
}

func (h *harness) look(player int, dx, dy float64) {
	in := h.input[player]
	in.LookDX, in.LookDY = dx, dy
	h.input[player] = in
}

func (h *harness) releaseAll() { clear(h.input) }

func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.tick++
		h.now += tick
		components.Clock.SetValue(h.session, components.ClockData{
			Now:   h.now,
			Delta: tick,
			Tick:  h.tick,
		})
		h.ecs.Update()
	}
}

func (h *harness) player(index int, name string, team level.Team, pos r3.Vec, loadout ...string) *donburi.Entry {
	h.t.Helper()
	e, err := factory.CreatePlayer(h.ecs, factory.PlayerSpec{
		Index:    index,
		Name:     name,
		Team:     team,
		Position: pos,
		Loadout:  loadout,
	})
	if err != nil {
		h.t.Fatalf("CreatePlayer(%s): %v", name, err)
	}
	return e
}

func (h *harness) target(spec factory.TargetSpec) *donburi.Entry {
	h.t.Helper()
	e, err := factory.CreateTarget(h.ecs, spec)
	if err != nil {
		h.t.Fatalf("CreateTarget(%s): %v", spec.Name, err)
	}
	return e
}

func (h *harness) space() *physics.World {
	return components.Space.Get(h.session).World
}

func (h *harness) effects() *effects.Manager {
	return components.Effects.Get(h.session).Manager.(*effects.Manager)
}

func (h *harness) match() *components.MatchData {
	return components.Match.Get(h.session)
}

func (h *harness) notices() *[]components.DeathNotice {
	var got []components.DeathNotice
	s := components.Session.Get(h.session)
	s.DeathListeners = append(s.DeathListeners, func(n components.DeathNotice) {
		got = append(got, n)
	})
	return &got
}

func TestSystemsWithoutSessionAreNoOps(t *testing.T) {
	e := ecs.NewECS(donburi.NewWorld())
	for _, sys := range []func(*ecs.ECS){
		UpdatePhysics, UpdateDeferred, UpdateInputs, UpdatePlayers, UpdateTargets,
		UpdateCombat, UpdateDeaths, UpdateEffects, UpdateMatch, PublishHUD,
	} {
		sys(e)
	}
	if err := RespawnPlayer(e.World, nil, r3.Vec{}); !errors.Is(err, ErrNoSession) {
		t.Errorf("RespawnPlayer without session = %v, want ErrNoSession", err)
	}
}

func TestGetPlayerActionRejectsUnknownActions(t *testing.T) {
	in := &components.PlayerInputData{}
	in.Current[config.ActionFire] = true

	if !GetPlayerAction(in, config.ActionFire).JustPressed {
		t.Error("fire not just pressed")
	}
	for _, a := range []config.ActionID{config.ActionNone, config.ActionCount, -1} {
		if s := GetPlayerAction(in, a); s != (components.ActionState{}) {
			t.Errorf("action %d state = %+v, want zero", a, s)
		}
	}
	if s := GetPlayerAction(nil, config.ActionFire); s.Pressed {
		t.Error("nil input reports a pressed action")
	}
}

func TestInputEdgesAcrossFrames(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	in := components.PlayerInput.Get(e)

	h.press(0, config.ActionReload)
	h.step(1)
	if s := in.State(config.ActionReload); !s.Pressed || !s.JustPressed {
		t.Fatalf("first frame state = %+v", s)
	}
	h.step(1)
	if s := in.State(config.ActionReload); !s.Pressed || s.JustPressed {
		t.Fatalf("held frame state = %+v", s)
	}
	h.releaseAll()
	h.step(1)
	if s := in.State(config.ActionReload); s.Pressed || !s.JustReleased {
		t.Fatalf("release frame state = %+v", s)
	}
}
