// Package config loads and saves the lifesim configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultHorizon is the projection target age used when none is configured.
const DefaultHorizon = 65

// ScaleOptions are the chart scale factors offered by the settings screens.
var ScaleOptions = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Config holds all lifesim configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds projection preferences.
type GeneralConfig struct {
	Horizon  int    `toml:"horizon"`
	Backward string `toml:"backward"` // "fallback" or "invert"
	Scenario string `toml:"scenario,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string  `toml:"theme"`
	Scale float64 `toml:"scale"`
}

// ServerConfig holds `lifesim serve` settings.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxSessions int    `toml:"max_sessions"`
}

// TUIConfig holds dashboard behavior.
type TUIConfig struct {
	WatchScenario bool `toml:"watch_scenario"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Horizon:  DefaultHorizon,
			Backward: "fallback",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
			Scale: 1.0,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8788",
			MaxSessions: 100,
		},
		TUI: TUIConfig{
			WatchScenario: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lifesim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lifesim")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LoadFile reads the config file, returning defaults if it doesn't exist.
// Environment overrides are not applied, so the result is safe to Save.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// Load returns the effective configuration: the file, then environment
// overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.General.Horizon <= 0 {
		c.General.Horizon = def.General.Horizon
	}
	if c.General.Backward == "" {
		c.General.Backward = def.General.Backward
	}
	if !ValidScale(c.Appearance.Scale) {
		c.Appearance.Scale = def.Appearance.Scale
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.MaxSessions <= 0 {
		c.Server.MaxSessions = def.Server.MaxSessions
	}
}

// ValidScale reports whether s is one of ScaleOptions.
func ValidScale(s float64) bool {
	for _, opt := range ScaleOptions {
		if s == opt {
			return true
		}
	}
	return false
}
