package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// WeaponDef is one row of the weapon catalog. Melee rows leave the ranged
// columns at zero and vice versa.
type WeaponDef struct {
	Name     string  `csv:"name"`
	Kind     string  `csv:"kind"` // "melee" or "ranged"
	Damage   int     `csv:"damage"`
	Cooldown float64 `csv:"cooldown"`
	Range    float64 `csv:"range"`

	// Melee
	SwingArc      float64 `csv:"swing_arc"`
	SwingDuration float64 `csv:"swing_duration"`
	Knockback     float64 `csv:"knockback"`
	RayCount      int     `csv:"ray_count"`

	// Ranged
	Magazine        int     `csv:"magazine"`
	Reserve         int     `csv:"reserve"`
	ReloadTime      float64 `csv:"reload_time"`
	Accuracy        float64 `csv:"accuracy"`
	FireMode        string  `csv:"fire_mode"`  // "semi" or "auto"
	Resolution      string  `csv:"resolution"` // "hitscan" or "projectile"
	ProjectileSpeed float64 `csv:"projectile_speed"`

	Visual string `csv:"visual"`
}

// ParseCatalog decodes a weapon catalog CSV.
func ParseCatalog(r io.Reader) ([]WeaponDef, error) {
	var defs []WeaponDef
	if err := gocsv.Unmarshal(r, &defs); err != nil {
		return nil, fmt.Errorf("parsing weapon catalog: %w", err)
	}
	for i := range defs {
		defs[i].Name = strings.TrimSpace(defs[i].Name)
		defs[i].Kind = strings.ToLower(strings.TrimSpace(defs[i].Kind))
		defs[i].FireMode = strings.ToLower(strings.TrimSpace(defs[i].FireMode))
		defs[i].Resolution = strings.ToLower(strings.TrimSpace(defs[i].Resolution))
	}
	return defs, nil
}

func loadCatalogFile(path string) ([]WeaponDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weapon catalog: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// Weapon looks up a catalog entry by name.
func (c *Config) Weapon(name string) (WeaponDef, bool) {
	for _, d := range c.Weapons {
		if d.Name == name {
			return d, true
		}
	}
	return WeaponDef{}, false
}
