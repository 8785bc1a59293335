package data

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// EnemyArchetype holds static data for one enemy type. The compiled-in
// table below is authoritative; a YAML file may overlay individual types
// (tuning without a rebuild, same split as the NPC template tables the
// data files feed elsewhere).
type EnemyArchetype struct {
	Type        string  `yaml:"type"`
	Health      float64 `yaml:"health"`
	Speed       float64 `yaml:"speed"`        // units/s
	SpeedFactor float64 `yaml:"speed_factor"` // leftward drift multiplier
	FireRate    float64 `yaml:"fire_rate"`    // ms between shots
	BulletType  string  `yaml:"bullet_type"`
	Damage      float64 `yaml:"damage"` // contact damage
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Color       string  `yaml:"color"`
	Boss        bool    `yaml:"boss"`
}

// BulletArchetype holds static data for one bullet type.
type BulletArchetype struct {
	Type     string  `yaml:"type"`
	Speed    float64 `yaml:"speed"` // units/s
	Damage   float64 `yaml:"damage"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Color    string  `yaml:"color"`
	Homing   bool    `yaml:"homing"`
	TurnRate float64 `yaml:"turn_rate"` // 1/s, homing only
	TTL      float64 `yaml:"ttl"`       // ms, 0 = unlimited
}

// DefaultEnemyType is the fallback archetype for unknown type strings.
const DefaultEnemyType = "fighter"

// DefaultBulletType is the fallback archetype for unknown bullet types.
const DefaultBulletType = "normal"

func builtinEnemies() map[string]EnemyArchetype {
	list := []EnemyArchetype{
		{Type: "drone", Health: 20, Speed: 120, SpeedFactor: 1.0, FireRate: 2500, BulletType: "enemy", Damage: 10, Width: 30, Height: 24, Color: "#c84b4b"},
		{Type: "turret", Health: 45, Speed: 40, SpeedFactor: 1.0, FireRate: 1800, BulletType: "enemy", Damage: 10, Width: 34, Height: 30, Color: "#8a8f98"},
		{Type: "seeder", Health: 30, Speed: 80, SpeedFactor: 1.0, FireRate: 3200, BulletType: "seed", Damage: 12, Width: 32, Height: 28, Color: "#7bc86c"},
		{Type: "fighter", Health: 30, Speed: 100, SpeedFactor: 1.0, FireRate: 2000, BulletType: "enemy", Damage: 15, Width: 36, Height: 28, Color: "#d98e3a"},
		{Type: "bomber", Health: 60, Speed: 60, SpeedFactor: 1.0, FireRate: 2800, BulletType: "enemy", Damage: 25, Width: 44, Height: 36, Color: "#9a5bb5"},
		{Type: "scout", Health: 15, Speed: 160, SpeedFactor: 1.0, FireRate: 2200, BulletType: "enemy", Damage: 8, Width: 28, Height: 22, Color: "#5bc8c0"},
		{Type: "boss", Health: 600, Speed: 90, SpeedFactor: 0.5, FireRate: 1400, BulletType: "enemy", Damage: 30, Width: 80, Height: 64, Color: "#e04848", Boss: true},
		{Type: "boss_heavy", Health: 1000, Speed: 90, SpeedFactor: 0.3, FireRate: 1800, BulletType: "enemy", Damage: 40, Width: 96, Height: 80, Color: "#b03030", Boss: true},
		{Type: "boss_fast", Health: 450, Speed: 90, SpeedFactor: 0.8, FireRate: 1000, BulletType: "enemy", Damage: 25, Width: 72, Height: 56, Color: "#e07030", Boss: true},
		{Type: "boss_sniper", Health: 520, Speed: 90, SpeedFactor: 0.2, FireRate: 2400, BulletType: "enemy", Damage: 35, Width: 84, Height: 60, Color: "#c050a0", Boss: true},
		{Type: "relay_warden", Health: 1000, Speed: 90, SpeedFactor: 1.0, FireRate: 1600, BulletType: "enemy", Damage: 35, Width: 100, Height: 84, Color: "#50a0e0", Boss: true},
	}
	return lo.SliceToMap(list, func(a EnemyArchetype) (string, EnemyArchetype) {
		return a.Type, a
	})
}

func builtinBullets() map[string]BulletArchetype {
	list := []BulletArchetype{
		{Type: "normal", Speed: 500, Damage: 10, Width: 8, Height: 4, Color: "#ffe066"},
		{Type: "enemy", Speed: 300, Damage: 10, Width: 8, Height: 4, Color: "#ff6666"},
		{Type: "seed", Speed: 220, Damage: 12, Width: 10, Height: 10, Color: "#9be07a", Homing: true, TurnRate: 3.0, TTL: 8000},
	}
	return lo.SliceToMap(list, func(a BulletArchetype) (string, BulletArchetype) {
		return a.Type, a
	})
}

// Tables bundles the loaded archetype tables.
type Tables struct {
	enemies map[string]EnemyArchetype
	bullets map[string]BulletArchetype
}

// BuiltinTables returns the compiled-in archetypes with no file overlay.
func BuiltinTables() *Tables {
	return &Tables{enemies: builtinEnemies(), bullets: builtinBullets()}
}

type enemyListFile struct {
	Enemies []EnemyArchetype `yaml:"enemies"`
}

type bulletListFile struct {
	Bullets []BulletArchetype `yaml:"bullets"`
}

// LoadTables returns the builtin tables overlaid with entries from the two
// YAML files. A missing file is skipped; a malformed one is an error.
func LoadTables(enemyPath, bulletPath string) (*Tables, error) {
	t := BuiltinTables()
	if err := overlay(enemyPath, &enemyListFile{}, func(f *enemyListFile) {
		for _, a := range f.Enemies {
			t.enemies[a.Type] = a
		}
	}); err != nil {
		return nil, fmt.Errorf("enemy table: %w", err)
	}
	if err := overlay(bulletPath, &bulletListFile{}, func(f *bulletListFile) {
		for _, a := range f.Bullets {
			t.bullets[a.Type] = a
		}
	}); err != nil {
		return nil, fmt.Errorf("bullet table: %w", err)
	}
	return t, nil
}

func overlay[T any](path string, into *T, apply func(*T)) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // builtin defaults only
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	apply(into)
	return nil
}

// Enemy returns the archetype for the given type tag. Unknown tags fall
// back to the fighter baseline rather than failing.
func (t *Tables) Enemy(typ string) EnemyArchetype {
	if a, ok := t.enemies[typ]; ok {
		return a
	}
	return t.enemies[DefaultEnemyType]
}

// Bullet returns the archetype for the given type tag, falling back to the
// normal bullet.
func (t *Tables) Bullet(typ string) BulletArchetype {
	if a, ok := t.bullets[typ]; ok {
		return a
	}
	return t.bullets[DefaultBulletType]
}

// HasEnemy reports whether the type tag is defined (no fallback applied).
func (t *Tables) HasEnemy(typ string) bool {
	_, ok := t.enemies[typ]
	return ok
}

// EnemyCount returns the number of loaded enemy archetypes.
func (t *Tables) EnemyCount() int { return len(t.enemies) }

// BulletCount returns the number of loaded bullet archetypes.
func (t *Tables) BulletCount() int { return len(t.bullets) }
