package factory

import (
	"fmt"

	"github.com/automoto/splatarena/archetypes"
	"github.com/automoto/splatarena/assets"
	"github.com/automoto/splatarena/components"
	cfg "github.com/automoto/splatarena/config"
	"github.com/automoto/splatarena/level"
	"github.com/automoto/splatarena/physics"
	"github.com/automoto/splatarena/weapons"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlayerSpec describes a player to spawn.
type PlayerSpec struct {
	Index    int
	Name     string
	Team     level.Team
	Position r3.Vec
	Loadout  []string // nil uses the configured loadout
}

// CreatePlayer spawns a player with a sphere body, full health and the
// first loadout weapon equipped. Nothing is created on error.
func CreatePlayer(ecs *ecs.ECS, spec PlayerSpec) (*donburi.Entry, error) {
	s, space, err := session(ecs.World)
	if err != nil {
		return nil, err
	}
	pc := s.Config.Player

	names := spec.Loadout
	if names == nil {
		names = pc.Loadout
	}
	loadout, err := BuildLoadout(s.Config, names)
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", spec.Name, err)
	}

	pos := spec.Position
	pos.Y = max(pos.Y, pc.Radius)
	body, err := space.CreateBody(physics.Sphere(pc.Radius), pos, pc.Mass, physics.Material{LinearDamping: pc.LinearDamping})
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", spec.Name, err)
	}
	body.Group = physics.GroupPlayer

	player := archetypes.Player.Spawn(ecs)
	body.Data = player.Entity()
	components.Object.SetValue(player, components.ObjectData{Body: body})
	components.Player.SetValue(player, components.PlayerData{
		Index:           spec.Index,
		Name:            spec.Name,
		Team:            spec.Team,
		ControlsEnabled: true,
	})
	components.Health.SetValue(player, components.HealthData{
		Current: pc.MaxHealth,
		Max:     pc.MaxHealth,
	})
	components.Physics.SetValue(player, components.PhysicsData{})
	components.Loadout.SetValue(player, components.LoadoutData{Weapons: loadout})

	cam := components.CameraData{
		EyeHeight: pc.EyeHeight,
		Mount:     assets.AttachPoint{Name: "weapon"},
	}
	if len(loadout) > 0 {
		cam.Mount.Attach(s.Assets.Get(assets.KindWeapon, loadout[0].Def().Visual))
	}
	components.Camera.SetValue(player, cam)

	// The physics world reports contacts edge-triggered, so landing after a
	// jump fires again.
	w, owner, minNormal := ecs.World, player.Entity(), pc.GroundNormalMin
	space.OnContact(body, func(c physics.Contact) {
		if !w.Valid(owner) || c.Normal.Y <= minNormal {
			return
		}
		phys := components.Physics.Get(w.Entry(owner))
		phys.OnGround = true
		phys.CanJump = true
		phys.GroundNormal = c.Normal
	})

	s.Log.Info("player spawned",
		zap.Int("index", spec.Index),
		zap.String("name", spec.Name),
		zap.Stringer("team", spec.Team),
		zap.Int("weapons", len(loadout)))
	return player, nil
}

// BuildLoadout instantiates the named catalog weapons in order.
func BuildLoadout(c *cfg.Config, names []string) ([]*weapons.Weapon, error) {
	out := make([]*weapons.Weapon, 0, len(names))
	for _, name := range names {
		row, ok := c.Weapon(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the catalog", weapons.ErrInvalidWeapon, name)
		}
		def, err := weapons.FromConfig(row)
		if err != nil {
			return nil, err
		}
		w, err := weapons.New(def)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
