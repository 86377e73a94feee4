package systems

import (
	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/shared/gamemath"
	"github.com/automoto/splatarena/weapons"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// MuzzleFlashVisual is the flash shown on the weapon mount after a shot.
const MuzzleFlashVisual = "muzzle"

// UpdatePlayers turns each player's input into look, movement, jumps and
// weapon use. Weapons keep ticking while their owner is dead.
func UpdatePlayers(ecs *ecs.ECS) {
	f, ok := frameOf(ecs.World)
	if !ok {
		return
	}
	for _, e := range entries(ecs.World, components.Player) {
		updateSinglePlayer(f, e)
	}
}

func updateSinglePlayer(f *frame, e *donburi.Entry) {
	load := components.Loadout.Get(e)
	for _, w := range load.Weapons {
		w.Update(f.clock.Delta)
	}

	player := components.Player.Get(e)
	if e.HasComponent(components.Death) || !player.ControlsEnabled {
		return
	}

	in := components.PlayerInput.Get(e)
	cam := components.Camera.Get(e)
	pc := f.cfg().Player

	handleLook(in, player, cam, pc)

	body := bodyOf(e)
	if body == nil {
		return
	}
	phys := components.Physics.Get(e)
	refreshGround(f.space, body, phys, pc.GroundNormalMin)
	handleMovement(in, player, phys, body, pc)
	handleJump(in, phys, body, pc)
	handleWeaponInput(f, e, in, player, cam, load, body)
}

func handleLook(in *components.PlayerInputData, player *components.PlayerData, cam *components.CameraData, pc cfg.PlayerConfig) {
	limit := pc.PitchLimit
	if !(limit > 0) {
		limit = cfg.DefaultPitchLimit
	}
	player.Yaw -= in.LookDX * pc.LookSensitivity
	cam.Pitch = gamemath.Clamp(cam.Pitch-in.LookDY*pc.LookSensitivity, -limit, limit)
}

// refreshGround drops OnGround once no walkable contact is left. The
// contact callback installed at spawn is what sets it again.
func refreshGround(space *physics.World, body *physics.Body, phys *components.PhysicsData, minNormal float64) {
	if !phys.OnGround {
		return
	}
	for _, c := range space.Touching(body) {
		if c.Normal.Y > minNormal {
			phys.GroundNormal = c.Normal
			return
		}
	}
	phys.OnGround = false
}

func handleMovement(in *components.PlayerInputData, player *components.PlayerData, phys *components.PhysicsData, body *physics.Body, pc cfg.PlayerConfig) {
	forward := gamemath.Forward(player.Yaw)
	right := gamemath.Right(player.Yaw)

	var move r3.Vec
	if GetPlayerAction(in, cfg.ActionForward).Pressed {
		move = r3.Add(move, forward)
	}
	if GetPlayerAction(in, cfg.ActionBack).Pressed {
		move = r3.Sub(move, forward)
	}
	if GetPlayerAction(in, cfg.ActionRight).Pressed {
		move = r3.Add(move, right)
	}
	if GetPlayerAction(in, cfg.ActionLeft).Pressed {
		move = r3.Sub(move, right)
	}
	// Diagonals are no faster than straight lines.
	if r3.Norm(move) > 1 {
		move = r3.Unit(move)
	}

	speed := pc.WalkSpeed
	if GetPlayerAction(in, cfg.ActionSprint).Pressed {
		speed = pc.SprintSpeed
	}
	body.Velocity.X = move.X * speed
	body.Velocity.Z = move.Z * speed
	phys.Speed = r3.Norm(gamemath.Horizontal(body.Velocity))
}

func handleJump(in *components.PlayerInputData, phys *components.PhysicsData, body *physics.Body, pc cfg.PlayerConfig) {
	if !GetPlayerAction(in, cfg.ActionJump).Pressed || !phys.CanJump || !phys.OnGround {
		return
	}
	body.Velocity.Y = pc.JumpVelocity
	phys.CanJump = false
	phys.OnGround = false
}

func handleWeaponInput(f *frame, e *donburi.Entry, in *components.PlayerInputData, player *components.PlayerData, cam *components.CameraData, load *components.LoadoutData, body *physics.Body) {
	switch {
	case GetPlayerAction(in, cfg.ActionNextWeapon).JustPressed:
		CycleWeapon(e, 1, f.session.Assets)
	case GetPlayerAction(in, cfg.ActionPrevWeapon).JustPressed:
		CycleWeapon(e, -1, f.session.Assets)
	}

	wpn := load.Current()
	if wpn == nil {
		return
	}
	if GetPlayerAction(in, cfg.ActionReload).JustPressed {
		wpn.Reload()
	}

	fire := GetPlayerAction(in, cfg.ActionFire)
	if !fire.JustPressed && !(fire.Pressed && wpn.Automatic()) {
		return
	}

	env := weapons.Env{
		World:  f.space,
		Owner:  body,
		Crits:  f.session.Crits,
		RNG:    f.session.RNG,
		Combat: f.cfg().Combat,
		OnHit:  hitHandler(f.world, e.Entity()),
		Log:    f.log(),
	}
	eye := r3.Add(body.Position, r3.Vec{Y: cam.EyeHeight})
	if !wpn.Use(&env, eye, gamemath.LookDirection(player.Yaw, cam.Pitch)) {
		return
	}
	if wpn.Kind() == weapons.Ranged {
		showMuzzleFlash(f, e, cam)
	}
}

// showMuzzleFlash attaches the flash and schedules its removal. A newer shot
// replaces the pending removal.
func showMuzzleFlash(f *frame, e *donburi.Entry, cam *components.CameraData) {
	cam.MuzzleFlash = f.session.Assets.Get(assets.KindFlash, MuzzleFlashVisual)
	f.sched.Cancel(cam.FlashHide)

	w, owner := f.world, e.Entity()
	cam.FlashHide = f.sched.AfterFor(owner, f.clock.Now+f.cfg().Player.MuzzleFlashDuration, func() {
		entry := w.Entry(owner)
		if !entry.HasComponent(components.Camera) {
			return
		}
		c := components.Camera.Get(entry)
		c.MuzzleFlash = nil
		c.FlashHide = 0
	})
}

// hitHandler routes weapon hits of attacker back into the world. It may run
// during a later physics step, so it resolves everything when called.
func hitHandler(w donburi.World, attacker donburi.Entity) weapons.HitFunc {
	return func(h weapons.HitResult) {
		f, ok := frameOf(w)
		if !ok {
			return
		}
		handleHit(f, attacker, h)
	}
}

func handleHit(f *frame, attacker donburi.Entity, h weapons.HitResult) {
	if f.effects != nil {
		f.effects.SpawnImpact(h.Point, h.Normal, impactIntensity(f.cfg(), h))
	}

	victim, ok := components.EntityOf(h.Body)
	if !ok || !f.world.Valid(victim) || victim == attacker {
		return
	}
	entry := f.world.Entry(victim)
	if !entry.HasComponent(components.Health) || entry.HasComponent(components.Death) {
		return
	}
	if !f.cfg().Combat.FriendlyFire && sameTeam(f.world, attacker, entry) {
		f.log().Debug("friendly hit ignored", zap.String("victim", nameOf(entry)))
		return
	}
	QueueDamage(entry, components.DamageEventData{
		Amount:      h.Damage,
		Knockback:   h.Knockback,
		Attacker:    attacker,
		HasAttacker: true,
		Weapon:      h.Weapon,
		Critical:    h.Critical,
	})
}

// impactIntensity scales the splat with the share of base damage that
// survived falloff. Criticals splat harder.
func impactIntensity(c *cfg.Config, h weapons.HitResult) float64 {
	intensity := 0.5
	if def, ok := c.Weapon(h.Weapon); ok && def.Damage > 0 {
		intensity = float64(h.Damage) / float64(def.Damage)
	}
	if h.Critical {
		intensity += c.Combat.CritImpactBoost
	}
	return gamemath.Clamp(intensity, 0, 1)
}

// EquipWeapon makes slot the equipped weapon and swaps the view model on the
// camera mount. It fails for slots outside the loadout.
func EquipWeapon(e *donburi.Entry, slot int, lib *assets.Library) bool {
	if !e.HasComponent(components.Loadout) {
		return false
	}
	load := components.Loadout.Get(e)
	if slot < 0 || slot >= len(load.Weapons) {
		return false
	}
	load.Equipped = slot
	if e.HasComponent(components.Camera) {
		cam := components.Camera.Get(e)
		cam.Mount.Detach()
		cam.Mount.Attach(lib.Get(assets.KindWeapon, load.Weapons[slot].Def().Visual))
	}
	return true
}

// CycleWeapon equips the weapon step slots away, wrapping around.
func CycleWeapon(e *donburi.Entry, step int, lib *assets.Library) bool {
	if !e.HasComponent(components.Loadout) {
		return false
	}
	load := components.Loadout.Get(e)
	n := len(load.Weapons)
	if n == 0 {
		return false
	}
	return EquipWeapon(e, ((load.Equipped+step)%n+n)%n, lib)
}
