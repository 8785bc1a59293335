package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Field   FieldConfig   `toml:"field"`
	Sim     SimConfig     `toml:"sim"`
	Feed    FeedConfig    `toml:"feed"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name string `toml:"name"`
	Seed int64  `toml:"seed"` // 0 = derive from start time
}

type FieldConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type SimConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	DataDir    string        `toml:"data_dir"`
	ScriptsDir string        `toml:"scripts_dir"`
	Waves      bool          `toml:"waves"` // run the wave director
}

type FeedConfig struct {
	Enabled       bool   `toml:"enabled"`
	BindAddress   string `toml:"bind_address"`
	SnapshotEvery int    `toml:"snapshot_every"` // ticks between frames
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the compiled-in configuration, used directly when no
// config file exists.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "scrollfall",
		},
		Field: FieldConfig{
			Width:  800,
			Height: 600,
		},
		Sim: SimConfig{
			TickRate:   16 * time.Millisecond,
			DataDir:    "data/yaml",
			ScriptsDir: "scripts",
			Waves:      true,
		},
		Feed: FeedConfig{
			Enabled:       true,
			BindAddress:   "127.0.0.1:8673",
			SnapshotEvery: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
