package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if got, want := cfg.Player.PitchLimit, DefaultPitchLimit; math.Abs(got-want) > 1e-9 {
		t.Errorf("pitch limit = %v, want %v", got, want)
	}
	if cfg.Effects.MaxParticleSystems != 20 || cfg.Effects.MaxDecals != 50 {
		t.Errorf("caps = %d/%d, want 20/50", cfg.Effects.MaxParticleSystems, cfg.Effects.MaxDecals)
	}
	if len(cfg.Weapons) == 0 {
		t.Fatal("embedded weapon catalog is empty")
	}
	knife, ok := cfg.Weapon("knife")
	if !ok {
		t.Fatal("knife missing from catalog")
	}
	if knife.Kind != "melee" || knife.Damage != 40 || knife.Range != 2.5 {
		t.Errorf("knife = %+v", knife)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "yaml",
			file:    "override.yaml",
			content: "effects:\n  max_decals: 12\nlogging:\n  format: json\n",
			check: func(t *testing.T, c *Config) {
				if c.Effects.MaxDecals != 12 {
					t.Errorf("max_decals = %d, want 12", c.Effects.MaxDecals)
				}
				if c.Effects.MaxParticleSystems != 20 {
					t.Errorf("untouched field changed: %d", c.Effects.MaxParticleSystems)
				}
				if c.Logging.Format != "json" {
					t.Errorf("format = %q", c.Logging.Format)
				}
			},
		},
		{
			name:    "toml",
			file:    "override.toml",
			content: "[player]\nmax_health = 150\n\n[loop]\ntick_rate = 30\n",
			check: func(t *testing.T, c *Config) {
				if c.Player.MaxHealth != 150 {
					t.Errorf("max_health = %d, want 150", c.Player.MaxHealth)
				}
				if c.Loop.TickRate != 30 {
					t.Errorf("tick_rate = %d, want 30", c.Loop.TickRate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			c, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero fixed step", func(c *Config) { c.Physics.FixedStep = 0 }},
		{"pitch beyond vertical", func(c *Config) { c.Player.PitchLimit = math.Pi }},
		{"unknown loadout weapon", func(c *Config) { c.Player.Loadout = []string{"bazooka"} }},
		{"zero particle cap", func(c *Config) { c.Effects.MaxParticleSystems = 0 }},
		{"bad weapon kind", func(c *Config) { c.Weapons[0].Kind = "laser" }},
		{"duplicate weapon", func(c *Config) { c.Weapons = append(c.Weapons, c.Weapons[0]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(c)
			err = c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseCatalogNormalizes(t *testing.T) {
	csv := "name,kind,damage,cooldown,range,fire_mode,resolution\n sword ,MELEE,10,0.4,2,Semi,HITSCAN\n"
	defs, err := ParseCatalog(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 {
		t.Fatalf("got %d rows", len(defs))
	}
	d := defs[0]
	if d.Name != "sword" || d.Kind != "melee" || d.FireMode != "semi" || d.Resolution != "hitscan" {
		t.Errorf("row not normalised: %+v", d)
	}
}

func TestParseAction(t *testing.T) {
	for id := ActionNone + 1; id < ActionCount; id++ {
		got, ok := ParseAction(id.String())
		if !ok || got != id {
			t.Errorf("ParseAction(%q) = %v, %v", id.String(), got, ok)
		}
	}
	if _, ok := ParseAction("dance"); ok {
		t.Error("unknown action parsed")
	}
}
