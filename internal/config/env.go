package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOverrides are the environment variables that override the file.
type envOverrides struct {
	Theme    string `env:"LIFESIM_THEME"`
	Scenario string `env:"LIFESIM_SCENARIO"`
	Addr     string `env:"LIFESIM_SERVER_ADDR"`
	Horizon  int    `env:"LIFESIM_HORIZON"`
	Backward string `env:"LIFESIM_BACKWARD"`
}

// LoadDotEnv loads variables from a .env file into the process
// environment. A missing file is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays LIFESIM_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Theme != "" {
		cfg.Appearance.Theme = o.Theme
	}
	if o.Scenario != "" {
		cfg.General.Scenario = o.Scenario
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.Horizon > 0 {
		cfg.General.Horizon = o.Horizon
	}
	if o.Backward != "" {
		cfg.General.Backward = o.Backward
	}
	return nil
}
