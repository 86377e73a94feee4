package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed weapons.csv
var weaponsCSV []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults returns the embedded configuration and weapon catalog.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	defs, err := ParseCatalog(bytes.NewReader(weaponsCSV))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	cfg.Weapons = defs
	return cfg, nil
}

// Load merges the file at path over the embedded defaults and validates the
// result. The format follows the extension: .toml is decoded as TOML,
// anything else as YAML. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct so only fields present in the file change.
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if cfg.WeaponCatalog != "" {
		defs, err := loadCatalogFile(cfg.WeaponCatalog)
		if err != nil {
			return nil, err
		}
		cfg.Weapons = defs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	p := c.Physics
	check(p.FixedStep > 0, "physics.fixed_step must be positive, got %v", p.FixedStep)
	check(p.MaxSubSteps >= 1, "physics.max_sub_steps must be at least 1, got %d", p.MaxSubSteps)
	check(p.MaxFrameDelta > 0, "physics.max_frame_delta must be positive, got %v", p.MaxFrameDelta)
	check(p.WorldExtent > 0, "physics.world_extent must be positive, got %v", p.WorldExtent)
	check(p.CellSize >= 1, "physics.cell_size must be at least 1, got %d", p.CellSize)

	pl := c.Player
	check(pl.PitchLimit > 0 && pl.PitchLimit <= math.Pi/2, "player.pitch_limit must be in (0, π/2], got %v", pl.PitchLimit)
	check(pl.MaxHealth > 0, "player.max_health must be positive, got %d", pl.MaxHealth)
	check(pl.Radius > 0, "player.radius must be positive, got %v", pl.Radius)
	check(pl.Mass > 0, "player.mass must be positive, got %v", pl.Mass)
	check(pl.WalkSpeed >= 0 && pl.SprintSpeed >= 0, "player speeds must not be negative")
	check(pl.RespawnDelay >= 0, "player.respawn_delay must not be negative, got %v", pl.RespawnDelay)
	check(len(pl.Loadout) > 0, "player.loadout must name at least one weapon")
	for _, name := range pl.Loadout {
		_, ok := c.Weapon(name)
		check(ok, "player.loadout references unknown weapon %q", name)
	}

	cb := c.Combat
	check(cb.CritMultiplier >= 1, "combat.crit_multiplier must be at least 1, got %v", cb.CritMultiplier)
	check(cb.MaxSpread >= 0, "combat.max_spread must not be negative, got %v", cb.MaxSpread)
	check(cb.ProjectileRadius > 0, "combat.projectile_radius must be positive, got %v", cb.ProjectileRadius)
	check(cb.ProjectileMass > 0, "combat.projectile_mass must be positive, got %v", cb.ProjectileMass)

	e := c.Effects
	check(e.MaxParticleSystems >= 1, "effects.max_particle_systems must be at least 1, got %d", e.MaxParticleSystems)
	check(e.MaxDecals >= 1, "effects.max_decals must be at least 1, got %d", e.MaxDecals)
	check(e.MinParticles >= 1 && e.MaxParticles >= e.MinParticles, "effects particle counts must satisfy 1 <= min <= max")
	check(e.ParticleLifetimeMin > 0 && e.ParticleLifetimeMax >= e.ParticleLifetimeMin, "effects particle lifetimes must satisfy 0 < min <= max")
	check(e.DecalLifetime > 0, "effects.decal_lifetime must be positive, got %v", e.DecalLifetime)
	check(e.DecalFadeFraction >= 0 && e.DecalFadeFraction <= 1, "effects.decal_fade_fraction must be in [0, 1], got %v", e.DecalFadeFraction)

	seen := make(map[string]bool, len(c.Weapons))
	for _, d := range c.Weapons {
		check(d.Name != "", "weapon catalog has a row without a name")
		check(!seen[d.Name], "weapon catalog lists %q twice", d.Name)
		seen[d.Name] = true
		check(d.Kind == "melee" || d.Kind == "ranged", "weapon %q has unknown kind %q", d.Name, d.Kind)
	}

	check(c.Match.KillFeedLifetime > 0, "match.kill_feed_lifetime must be positive, got %v", c.Match.KillFeedLifetime)
	check(c.Loop.TickRate > 0, "loop.tick_rate must be positive, got %d", c.Loop.TickRate)

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
