package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/automoto/splatarena/components"
	"github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/effects"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/systems/factory"
	"github.com/automoto/splatarena/weapons/mocks"
	"go.uber.org/mock/gomock"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPitchStaysClamped(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	cam := components.Camera.Get(e)
	limit := 0.4 * math.Pi

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 300; i++ {
		h.look(0, rng.NormFloat64()*2000, rng.NormFloat64()*2000)
		h.step(1)
		if cam.Pitch < -limit-1e-12 || cam.Pitch > limit+1e-12 {
			t.Fatalf("frame %d: pitch %v outside ±0.4π", i, cam.Pitch)
		}
	}

	// Pinned at the top, further upward look does nothing.
	h.look(0, 0, -1e6)
	h.step(1)
	if math.Abs(cam.Pitch-limit) > 1e-12 {
		t.Errorf("pitch = %v, want %v", cam.Pitch, limit)
	}
}

func TestYawIsUnbounded(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})

	h.look(0, -1000, 0)
	h.step(10)
	want := 10 * 1000 * h.cfg.Player.LookSensitivity
	if got := components.Player.Get(e).Yaw; math.Abs(got-want) > 1e-9 {
		t.Errorf("yaw = %v, want %v", got, want)
	}
	if components.Camera.Get(e).Pitch != 0 {
		t.Error("horizontal look moved the camera pitch")
	}
}

func TestMovementSpeeds(t *testing.T) {
	tests := []struct {
		name    string
		actions []config.ActionID
		speed   float64
	}{
		{"forward", []config.ActionID{config.ActionForward}, 6},
		{"diagonal is normalised", []config.ActionID{config.ActionForward, config.ActionRight}, 6},
		{"sprint", []config.ActionID{config.ActionBack, config.ActionSprint}, 10},
		{"opposites cancel", []config.ActionID{config.ActionLeft, config.ActionRight}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOpts{})
			e := h.player(0, "red", level.TeamA, r3.Vec{})
			h.press(0, tt.actions...)
			h.step(1)

			v := components.Object.Get(e).Velocity
			if got := math.Hypot(v.X, v.Z); math.Abs(got-tt.speed) > 1e-9 {
				t.Errorf("horizontal speed = %v, want %v", got, tt.speed)
			}
			if got := components.Physics.Get(e).Speed; math.Abs(got-tt.speed) > 1e-9 {
				t.Errorf("recorded speed = %v, want %v", got, tt.speed)
			}
		})
	}
}

func TestForwardFollowsYaw(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	components.Player.Get(e).Yaw = math.Pi / 2

	h.press(0, config.ActionForward)
	h.step(1)
	v := components.Object.Get(e).Velocity
	if math.Abs(v.X+6) > 1e-9 || math.Abs(v.Z) > 1e-9 {
		t.Errorf("velocity = %v, want (-6, _, 0)", v)
	}
}

func TestJumpRequiresGroundContact(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	phys := components.Physics.Get(e)
	body := components.Object.Get(e).Body

	// Airborne at spawn: the jump is ignored until the first landing.
	components.Object.Get(e).Position.Y = 3
	h.press(0, config.ActionJump)
	h.step(1)
	if body.Velocity.Y > 0 {
		t.Fatal("jumped before touching the ground")
	}

	h.releaseAll()
	h.step(90)
	if !phys.OnGround || !phys.CanJump {
		t.Fatalf("not grounded after settling: %+v", *phys)
	}
	if phys.GroundNormal.Y <= h.cfg.Player.GroundNormalMin {
		t.Errorf("ground normal = %v", phys.GroundNormal)
	}

	h.press(0, config.ActionJump)
	h.step(1)
	if body.Velocity.Y != h.cfg.Player.JumpVelocity {
		t.Fatalf("vy = %v, want %v", body.Velocity.Y, h.cfg.Player.JumpVelocity)
	}
	if phys.CanJump || phys.OnGround {
		t.Error("jump flags still set after jumping")
	}

	// Holding jump in the air does not add another impulse.
	h.step(5)
	if body.Velocity.Y >= h.cfg.Player.JumpVelocity {
		t.Errorf("vy = %v after holding jump in the air", body.Velocity.Y)
	}

	h.releaseAll()
	h.step(120)
	if !phys.OnGround || !phys.CanJump {
		t.Error("landing did not re-enable jumping")
	}
}

func TestCycleWeaponWrapsAndSwapsMount(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	lib := components.Session.Get(h.session).Assets
	load := components.Loadout.Get(e)
	cam := components.Camera.Get(e)

	if got := cam.Mount.Current().Name; got != "knife" {
		t.Fatalf("initial mount = %q, want knife", got)
	}

	tests := []struct {
		step int
		want string
	}{
		{-1, "launcher"},
		{1, "knife"},
		{1, "pistol"},
		{6, "launcher"},
		{-4, "launcher"},
	}
	for _, tt := range tests {
		if !CycleWeapon(e, tt.step, lib) {
			t.Fatalf("CycleWeapon(%d) failed", tt.step)
		}
		if got := load.Current().Name(); got != tt.want {
			t.Errorf("after step %d: equipped %q, want %q", tt.step, got, tt.want)
		}
		if got := cam.Mount.Current().Name; got != tt.want {
			t.Errorf("after step %d: mount shows %q, want %q", tt.step, got, tt.want)
		}
	}

	if EquipWeapon(e, 4, lib) || EquipWeapon(e, -1, lib) {
		t.Error("equipped a slot outside the loadout")
	}
	if load.Current().Name() != "launcher" {
		t.Error("failed equip changed the equipped weapon")
	}
}

func TestWeaponCycleInputIsEdgeTriggered(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{})
	load := components.Loadout.Get(e)

	h.press(0, config.ActionNextWeapon)
	h.step(3)
	if load.Equipped != 1 {
		t.Fatalf("equipped slot %d after holding next, want 1", load.Equipped)
	}
	h.releaseAll()
	h.step(1)
	h.press(0, config.ActionPrevWeapon)
	h.step(1)
	h.releaseAll()
	h.step(1)
	h.press(0, config.ActionPrevWeapon)
	h.step(1)
	if load.Equipped != 3 {
		t.Errorf("equipped slot %d after two prevs, want 3", load.Equipped)
	}
}

// rangeSetup places a shooter at the origin facing -Z and a target 10 units ahead.
func rangeSetup(t *testing.T, opts harnessOpts, targetTeam level.Team) (*harness, *components.HealthData, *components.HealthData) {
	h := newHarness(t, opts)
	shooter := h.player(0, "red", level.TeamA, r3.Vec{}, "pistol")
	target := h.target(factory.TargetSpec{
		Name:     "dummy",
		Team:     targetTeam,
		Position: r3.Vec{Y: 1.6, Z: -10},
	})
	return h, components.Health.Get(shooter), components.Health.Get(target)
}

func TestHitscanDamagesTarget(t *testing.T) {
	h, _, hp := rangeSetup(t, harnessOpts{}, level.TeamNone)
	h.press(0, config.ActionFire)
	h.step(1)

	// round(25 × (1 - 9.2/60))
	if hp.Current != 79 {
		t.Errorf("target health = %d, want 79", hp.Current)
	}
	if h.effects().Live(effects.Particles) != 1 || h.effects().Live(effects.Decals) < 1 {
		t.Errorf("impact spawned %d bursts and %d decals", h.effects().Live(effects.Particles), h.effects().Live(effects.Decals))
	}

	// Semi-automatic: holding the trigger fires once.
	h.step(30)
	if hp.Current != 79 {
		t.Errorf("held trigger fired again, health = %d", hp.Current)
	}
	shooter, _ := playerByIndex(h.ecs.World, 0)
	if cur, res := components.Loadout.Get(shooter).Current().Ammo(); cur != 11 || res != 48 {
		t.Errorf("ammo = %d/%d, want 11/48", cur, res)
	}
}

func TestCriticalHitDoublesDamage(t *testing.T) {
	ctrl := gomock.NewController(t)
	crits := mocks.NewMockCritRoller(ctrl)
	crits.EXPECT().RollCrit(gomock.Any()).Return(true).Times(1)

	h, _, hp := rangeSetup(t, harnessOpts{crits: crits}, level.TeamNone)
	h.press(0, config.ActionFire)
	h.step(1)

	// round(50 × (1 - 9.2/60)); a critical impact splats harder.
	if hp.Current != 100-42 {
		t.Errorf("target health = %d, want 58", hp.Current)
	}
	if got := h.effects().Live(effects.Decals); got != 1+h.cfg.Effects.MaxSecondaryMarks {
		t.Errorf("critical impact left %d decals, want the full set of secondary marks", got)
	}
}

func TestFriendlyFire(t *testing.T) {
	tests := []struct {
		name         string
		friendlyFire bool
		want         int
	}{
		{"off", false, 100},
		{"on", true, 79},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, hp := rangeSetup(t, harnessOpts{mutate: func(c *config.Config) {
				c.Combat.FriendlyFire = tt.friendlyFire
			}}, level.TeamA)
			h.press(0, config.ActionFire)
			h.step(1)
			if hp.Current != tt.want {
				t.Errorf("health = %d, want %d", hp.Current, tt.want)
			}
			if h.effects().Live(effects.Particles) != 1 {
				t.Error("a blocked hit should still splat")
			}
		})
	}
}

func TestMissSpawnsNothing(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	e := h.player(0, "red", level.TeamA, r3.Vec{}, "pistol")
	components.Player.Get(e).Yaw = math.Pi

	h.press(0, config.ActionFire)
	h.step(1)
	if h.effects().Live(effects.Particles) != 0 {
		t.Error("a shot into the void spawned an impact")
	}
	if components.Camera.Get(e).MuzzleFlash == nil {
		t.Error("a missed shot showed no muzzle flash")
	}
}

func TestMuzzleFlashHidesAfterDuration(t *testing.T) {
	h, _, _ := rangeSetup(t, harnessOpts{}, level.TeamNone)
	shooter, _ := playerByIndex(h.ecs.World, 0)
	cam := components.Camera.Get(shooter)

	h.press(0, config.ActionFire)
	h.step(1)
	if cam.MuzzleFlash == nil || cam.FlashHide == 0 {
		t.Fatal("no muzzle flash after firing")
	}
	if h.rec.Count() == 0 {
		t.Fatal("no HUD snapshot")
	}
	if snap, _ := h.rec.Last(); !snap.MuzzleFlash {
		t.Error("HUD does not show the muzzle flash")
	}

	h.step(5)
	if cam.MuzzleFlash != nil || cam.FlashHide != 0 {
		t.Error("muzzle flash still visible after 50ms")
	}
}

func TestEmptyMagazineStartsReload(t *testing.T) {
	h, _, _ := rangeSetup(t, harnessOpts{}, level.TeamNone)
	shooter, _ := playerByIndex(h.ecs.World, 0)
	wpn := components.Loadout.Get(shooter).Current()
	wpn.SetAmmo(0, 48)

	h.press(0, config.ActionFire)
	h.step(1)
	snap, _ := h.rec.Last()
	if !snap.Reloading || snap.AmmoText() == "0 / 48" {
		t.Fatalf("snapshot after dry fire = %+v", snap)
	}
	if components.Camera.Get(shooter).MuzzleFlash != nil {
		t.Error("dry fire showed a muzzle flash")
	}

	h.releaseAll()
	h.step(75)
	if cur, res := wpn.Ammo(); cur != 12 || res != 36 {
		t.Errorf("ammo after reload = %d/%d, want 12/36", cur, res)
	}
}
