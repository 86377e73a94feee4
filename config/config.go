// Package config holds the tunables for the arena simulation. Defaults are
// embedded as YAML; an override file (YAML or TOML) can be layered on top.
package config

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a config-friendly 3D vector.
type Vec3 struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
}

// R3 converts to the math vector type used by the simulation.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Config is the root configuration.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics" toml:"physics"`
	Player    PlayerConfig    `yaml:"player" toml:"player"`
	Combat    CombatConfig    `yaml:"combat" toml:"combat"`
	Effects   EffectsConfig   `yaml:"effects" toml:"effects"`
	Level     LevelConfig     `yaml:"level" toml:"level"`
	Match     MatchConfig     `yaml:"match" toml:"match"`
	Loop      LoopConfig      `yaml:"loop" toml:"loop"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Scripting ScriptingConfig `yaml:"scripting" toml:"scripting"`

	// WeaponCatalog is an optional path to a CSV file replacing the embedded catalog.
	WeaponCatalog string `yaml:"weapon_catalog" toml:"weapon_catalog"`

	// Weapons is filled from the catalog CSV, never from YAML/TOML.
	Weapons []WeaponDef `yaml:"-" toml:"-"`
}

// PhysicsConfig contains the rigid-body world settings.
type PhysicsConfig struct {
	FixedStep     float64 `yaml:"fixed_step" toml:"fixed_step"`           // seconds per internal step
	MaxSubSteps   int     `yaml:"max_sub_steps" toml:"max_sub_steps"`     // internal steps per Step call
	MaxFrameDelta float64 `yaml:"max_frame_delta" toml:"max_frame_delta"` // caller dt clamp
	Gravity       Vec3    `yaml:"gravity" toml:"gravity"`

	// Broadphase grid over the XZ plane, centred on the origin.
	WorldExtent float64 `yaml:"world_extent" toml:"world_extent"`
	CellSize    int     `yaml:"cell_size" toml:"cell_size"`
}

// PlayerConfig contains all player-related configuration values
type PlayerConfig struct {
	// Movement
	WalkSpeed       float64 `yaml:"walk_speed" toml:"walk_speed"`
	SprintSpeed     float64 `yaml:"sprint_speed" toml:"sprint_speed"`
	JumpVelocity    float64 `yaml:"jump_velocity" toml:"jump_velocity"`
	GroundNormalMin float64 `yaml:"ground_normal_min" toml:"ground_normal_min"`

	// Look
	LookSensitivity float64 `yaml:"look_sensitivity" toml:"look_sensitivity"`
	PitchLimit      float64 `yaml:"pitch_limit" toml:"pitch_limit"` // radians, symmetric
	EyeHeight       float64 `yaml:"eye_height" toml:"eye_height"`

	// Body
	Radius        float64 `yaml:"radius" toml:"radius"`
	Mass          float64 `yaml:"mass" toml:"mass"`
	LinearDamping float64 `yaml:"linear_damping" toml:"linear_damping"`

	// Combat
	MaxHealth           int      `yaml:"max_health" toml:"max_health"`
	RespawnDelay        float64  `yaml:"respawn_delay" toml:"respawn_delay"`
	MuzzleFlashDuration float64  `yaml:"muzzle_flash_duration" toml:"muzzle_flash_duration"`
	Loadout             []string `yaml:"loadout" toml:"loadout"`
}

// CombatConfig contains hit resolution settings shared by all weapons.
type CombatConfig struct {
	CritMultiplier         float64 `yaml:"crit_multiplier" toml:"crit_multiplier"`
	MaxSpread              float64 `yaml:"max_spread" toml:"max_spread"` // radians at accuracy 0
	ProjectileRadius       float64 `yaml:"projectile_radius" toml:"projectile_radius"`
	ProjectileMass         float64 `yaml:"projectile_mass" toml:"projectile_mass"`
	ProjectileGravityScale float64 `yaml:"projectile_gravity_scale" toml:"projectile_gravity_scale"`
	FriendlyFire           bool    `yaml:"friendly_fire" toml:"friendly_fire"`
	CritImpactBoost        float64 `yaml:"crit_impact_boost" toml:"crit_impact_boost"`
}

// EffectsConfig contains particle burst and surface mark settings.
type EffectsConfig struct {
	MaxParticleSystems int `yaml:"max_particle_systems" toml:"max_particle_systems"`
	MaxDecals          int `yaml:"max_decals" toml:"max_decals"`

	MinParticles        int     `yaml:"min_particles" toml:"min_particles"`
	MaxParticles        int     `yaml:"max_particles" toml:"max_particles"`
	ParticleLifetimeMin float64 `yaml:"particle_lifetime_min" toml:"particle_lifetime_min"`
	ParticleLifetimeMax float64 `yaml:"particle_lifetime_max" toml:"particle_lifetime_max"`
	ParticleGravity     float64 `yaml:"particle_gravity" toml:"particle_gravity"` // pulls along -Y
	ParticleSpeedMin    float64 `yaml:"particle_speed_min" toml:"particle_speed_min"`
	ParticleSpeedMax    float64 `yaml:"particle_speed_max" toml:"particle_speed_max"`
	ParticleSize        float64 `yaml:"particle_size" toml:"particle_size"`
	NormalBias          float64 `yaml:"normal_bias" toml:"normal_bias"` // 0 = uniform hemisphere

	DecalLifetime      float64 `yaml:"decal_lifetime" toml:"decal_lifetime"`
	DecalFadeFraction  float64 `yaml:"decal_fade_fraction" toml:"decal_fade_fraction"`
	SurfaceOffset      float64 `yaml:"surface_offset" toml:"surface_offset"`
	DecalSize          float64 `yaml:"decal_size" toml:"decal_size"`
	SecondaryThreshold float64 `yaml:"secondary_threshold" toml:"secondary_threshold"`
	MaxSecondaryMarks  int     `yaml:"max_secondary_marks" toml:"max_secondary_marks"`
	SecondarySpread    float64 `yaml:"secondary_spread" toml:"secondary_spread"`
	SecondaryScale     float64 `yaml:"secondary_scale" toml:"secondary_scale"`
}

// LevelConfig selects the arena and its training targets.
type LevelConfig struct {
	Map                string  `yaml:"map" toml:"map"` // TMX path; empty uses the embedded arena
	Scale              float64 `yaml:"scale" toml:"scale"`
	WallHeight         float64 `yaml:"wall_height" toml:"wall_height"`
	DefaultSpawn       Vec3    `yaml:"default_spawn" toml:"default_spawn"`
	Targets            int     `yaml:"targets" toml:"targets"`
	TargetHealth       int     `yaml:"target_health" toml:"target_health"`
	TargetRadius       float64 `yaml:"target_radius" toml:"target_radius"`
	TargetRespawnDelay float64 `yaml:"target_respawn_delay" toml:"target_respawn_delay"`
	PatrolDistance     float64 `yaml:"patrol_distance" toml:"patrol_distance"`
	PatrolDuration     float64 `yaml:"patrol_duration" toml:"patrol_duration"`
}

// MatchConfig contains scoring and kill feed settings.
type MatchConfig struct {
	KillFeedLifetime float64 `yaml:"kill_feed_lifetime" toml:"kill_feed_lifetime"`
	KillFeedMax      int     `yaml:"kill_feed_max" toml:"kill_feed_max"`
}

// LoopConfig drives the real-time runner.
type LoopConfig struct {
	TickRate int `yaml:"tick_rate" toml:"tick_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// TelemetryConfig enables per-window CSV frame statistics.
type TelemetryConfig struct {
	Dir        string `yaml:"dir" toml:"dir"` // empty disables output
	EveryTicks int    `yaml:"every_ticks" toml:"every_ticks"`
}

// ScriptingConfig points at the Lua combat rules.
type ScriptingConfig struct {
	CritScript string  `yaml:"crit_script" toml:"crit_script"` // empty uses the embedded rules
	CritChance float64 `yaml:"crit_chance" toml:"crit_chance"`
	Disabled   bool    `yaml:"disabled" toml:"disabled"`
}

// C is the active configuration. It starts as the embedded defaults.
var C *Config

func init() {
	c, err := Defaults()
	if err != nil {
		panic(err)
	}
	C = c
}

// DefaultPitchLimit is the camera pitch clamp, 0.4π (~72°).
const DefaultPitchLimit = 0.4 * math.Pi
