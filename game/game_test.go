package game

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/hud/mocks"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/systems"
	"github.com/automoto/splatarena/telemetry"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/spatial/r3"
)

const tick = 1.0 / 60

func newGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestNewWithDefaults(t *testing.T) {
	g := newGame(t, Options{Seed: 1})

	if g.SessionID() == uuid.Nil {
		t.Error("session has no id")
	}
	if g.Layout() == nil || g.Layout().Name == "" {
		t.Fatal("no level installed")
	}
	for i, name := range []string{"red", "blue"} {
		e, ok := g.Player(i)
		if !ok {
			t.Fatalf("player %d missing", i)
		}
		if got := components.Player.Get(e).Name; got != name {
			t.Errorf("player %d is %q, want %q", i, got, name)
		}
	}
	s := g.Sample(0)
	if s.PlayersAlive != 2 || s.TargetsAlive != 4 {
		t.Errorf("alive players = %d targets = %d", s.PlayersAlive, s.TargetsAlive)
	}
	if s.Bodies != g.Physics().Bodies() || s.Bodies < 7 {
		t.Errorf("bodies = %d", s.Bodies)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	c, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	c.Physics.FixedStep = 0
	if _, err := New(Options{Config: c}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewRejectsUnknownLoadout(t *testing.T) {
	_, err := New(Options{Players: []PlayerSpec{{Name: "x", Team: level.TeamA, Loadout: []string{"bazooka"}}}})
	if err == nil {
		t.Error("unknown weapon accepted")
	}
}

func TestTargetsOption(t *testing.T) {
	tests := []struct {
		targets int
		want    int
	}{
		{0, 4},
		{-1, 0},
		{2, 2},
		{9, 4},
	}
	for _, tt := range tests {
		g := newGame(t, Options{Targets: tt.targets})
		if got := g.Sample(0).TargetsAlive; got != tt.want {
			t.Errorf("Targets=%d: %d targets placed, want %d", tt.targets, got, tt.want)
		}
	}
}

func TestUpdateClampsDelta(t *testing.T) {
	g := newGame(t, Options{Targets: -1})

	tests := []struct {
		dt  float64
		now float64
	}{
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{tick, tick},
		{5, tick + g.Config().Physics.MaxFrameDelta},
	}
	for i, tt := range tests {
		g.Update(tt.dt)
		if g.Tick() != uint64(i+1) {
			t.Errorf("Update(%v): tick = %d, want %d", tt.dt, g.Tick(), i+1)
		}
		if math.Abs(g.Now()-tt.now) > 1e-12 {
			t.Errorf("Update(%v): now = %v, want %v", tt.dt, g.Now(), tt.now)
		}
	}
}

func TestHUDPublishedEveryTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	sink.EXPECT().Publish(gomock.Any()).Times(3)

	g := newGame(t, Options{HUD: sink, Targets: -1})
	for i := 0; i < 3; i++ {
		g.Update(tick)
	}
	if snap := g.HUD(); snap.Tick != 3 || snap.Weapon != "knife" || !snap.Melee() {
		t.Errorf("last snapshot = %+v", snap)
	}
}

func TestOnDeath(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	var notices []components.DeathNotice
	g.OnDeath(func(n components.DeathNotice) { notices = append(notices, n) })

	red, _ := g.Player(0)
	if !systems.DamagePlayer(g.World(), red, 1000) {
		t.Fatal("damage did not kill")
	}
	g.Update(tick)

	if len(notices) != 1 || notices[0].VictimName != "red" {
		t.Fatalf("notices = %+v", notices)
	}
	if s := g.Sample(0); s.PlayersAlive != 1 || s.Kills != 1 {
		t.Errorf("sample = %+v", s)
	}
	if m := g.Match(); len(m.Feed) != 1 || m.Feed[0].Text != "world killed red" {
		t.Errorf("feed = %+v", m.Feed)
	}
}

func TestMatchReturnsCopy(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	red, _ := g.Player(0)
	systems.DamagePlayer(g.World(), red, 1000)
	g.Update(tick)

	m := g.Match()
	m.Feed[0].Text = "edited"
	m.Scores[level.TeamA] = 99
	again := g.Match()
	if again.Feed[0].Text == "edited" || again.Score(level.TeamA) == 99 {
		t.Error("Match exposes internal state")
	}
}

func TestSpawnPlayerAssignsNextIndex(t *testing.T) {
	g := newGame(t, Options{Players: []PlayerSpec{}, Targets: -1})
	for i := 0; i < 3; i++ {
		e, err := g.SpawnPlayer(PlayerSpec{Team: level.TeamB})
		if err != nil {
			t.Fatalf("SpawnPlayer: %v", err)
		}
		p := components.Player.Get(e)
		if p.Index != i || p.Name == "" {
			t.Errorf("player %d: %+v", i, *p)
		}
	}
	g.RemoveEntity(mustPlayer(t, g, 2).Entity())
	if _, ok := g.Player(2); ok {
		t.Error("removed player still found")
	}
}

func mustPlayer(t *testing.T, g *Game, index int) *donburi.Entry {
	t.Helper()
	e, ok := g.Player(index)
	if !ok {
		t.Fatalf("player %d missing", index)
	}
	return e
}

func TestRegenerate(t *testing.T) {
	g := newGame(t, Options{Seed: 3})
	g.Effects().SpawnImpact(r3.Vec{}, r3.Vec{Y: 1}, 1)

	small := &level.Layout{
		Name:   "small",
		Ground: true,
		Spawns: map[level.Team][]r3.Vec{
			level.TeamA: {{X: 10, Z: 10}},
			level.TeamB: {{X: -10, Z: -10}},
		},
		Targets: []r3.Vec{{Z: 5}},
	}
	if err := g.Regenerate(level.Static{L: small}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if g.Layout() != small {
		t.Error("layout not replaced")
	}
	s := g.Sample(0)
	if s.TargetsAlive != 1 || s.PlayersAlive != 2 {
		t.Errorf("targets = %d players = %d", s.TargetsAlive, s.PlayersAlive)
	}
	// Ground, two players and one target.
	if s.Bodies != 4 {
		t.Errorf("bodies = %d, want 4", s.Bodies)
	}
	if g.Effects().Live(effects.Particles) != 0 || g.Effects().Live(effects.Decals) != 0 {
		t.Error("effects survived the regeneration")
	}
	red, _ := g.Player(0)
	if p := components.Object.Get(red).Position; p.X != 10 || p.Z != 10 || p.Y != g.Config().Player.Radius {
		t.Errorf("red at %v", p)
	}

	if err := g.Regenerate(level.Static{}); !errors.Is(err, level.ErrNoLayout) {
		t.Errorf("empty source: err = %v", err)
	}
	if g.Layout() != small {
		t.Error("failed regeneration replaced the layout")
	}
}

func TestRegenerateDiscardsProjectiles(t *testing.T) {
	flat := &level.Layout{Name: "flat", Ground: true, DefaultSpawn: r3.Vec{Y: 1}}
	fire := components.InputFunc(func(player int, tick uint64) components.Intent {
		var in components.Intent
		in.Actions[config.ActionFire] = player == 0 && tick == 1
		return in
	})
	g := newGame(t, Options{
		Level:   level.Static{L: flat},
		Input:   fire,
		Players: []PlayerSpec{{Name: "red", Team: level.TeamA, Loadout: []string{"launcher"}}},
		Targets: -1,
	})
	g.Update(tick)

	wpn := components.Loadout.Get(mustPlayer(t, g, 0)).Current()
	if wpn.Projectiles() != 1 {
		t.Fatalf("%d projectiles in flight, want 1", wpn.Projectiles())
	}
	if err := g.Regenerate(level.Static{L: &level.Layout{Name: "next", Ground: true}}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if wpn.Projectiles() != 0 {
		t.Errorf("%d projectiles survived the regeneration", wpn.Projectiles())
	}
	// Ground and the player only.
	if n := g.Physics().Bodies(); n != 2 {
		t.Errorf("bodies = %d, want 2", n)
	}
}

func TestCloseDropsDeferredActions(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	red := mustPlayer(t, g, 0)
	systems.DamagePlayer(g.World(), red, 1000)
	g.Update(tick)

	q := components.Scheduler.Get(g.session).Queue
	if q.Len() == 0 {
		t.Fatal("death scheduled nothing")
	}
	g.Close()
	if q.Len() != 0 {
		t.Errorf("%d actions pending after Close", q.Len())
	}
}

func TestAutopilotIsDeterministic(t *testing.T) {
	a, b := NewAutopilot(11), NewAutopilot(11)
	fired := false
	for n := uint64(1); n < 600; n++ {
		for p := 0; p < 2; p++ {
			x, y := a.Intent(p, n), b.Intent(p, n)
			if x != y {
				t.Fatalf("tick %d player %d: %+v != %+v", n, p, x, y)
			}
			fired = fired || x.Actions[config.ActionFire]
		}
	}
	if !fired {
		t.Error("autopilot never fired")
	}
}

func TestRunFixedStopsAtMaxTicks(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	var samples []telemetry.FrameSample
	l := &Loop{
		Game:     g,
		MaxTicks: 10,
		OnTick:   func(s telemetry.FrameSample) { samples = append(samples, s) },
	}
	if err := l.RunFixed(context.Background(), 100, tick); err != nil {
		t.Fatalf("RunFixed: %v", err)
	}
	if g.Tick() != 10 || len(samples) != 10 {
		t.Errorf("tick = %d samples = %d, want 10", g.Tick(), len(samples))
	}
	if samples[9].Tick != 10 || samples[9].PhysicsSteps != 1 {
		t.Errorf("last sample = %+v", samples[9])
	}
}

func TestRunFixedHonoursCancel(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Loop{Game: g}).RunFixed(ctx, 50, tick); err != nil {
		t.Fatalf("RunFixed: %v", err)
	}
	if g.Tick() != 0 {
		t.Errorf("ran %d ticks after cancel", g.Tick())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newGame(t, Options{Targets: -1})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := (&Loop{Game: g, Rate: 200}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Tick() == 0 {
		t.Error("no ticks ran")
	}
}

func TestAutopilotMatchStaysWithinCaps(t *testing.T) {
	g := newGame(t, Options{Seed: 42, Input: NewAutopilot(42)})
	var stats telemetry.Collector
	l := &Loop{Game: g, OnTick: stats.Record}
	if err := l.RunFixed(context.Background(), 900, tick); err != nil {
		t.Fatalf("RunFixed: %v", err)
	}

	s := g.Sample(0)
	fx := g.Config().Effects
	if s.Bursts > fx.MaxParticleSystems || s.Decals > fx.MaxDecals {
		t.Errorf("effects over cap: %d bursts, %d decals", s.Bursts, s.Decals)
	}
	w := stats.Flush()
	if w.Ticks != 900 || w.PhysicsSteps < 850 {
		t.Errorf("window = %+v", w)
	}
	for i := 0; i < 2; i++ {
		e, _ := g.Player(i)
		pitch := components.Camera.Get(e).Pitch
		if math.Abs(pitch) > 0.4*math.Pi+1e-12 {
			t.Errorf("player %d pitch %v", i, pitch)
		}
	}
}
