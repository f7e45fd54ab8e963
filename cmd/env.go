package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/they4kman/cleansweeper/game"
)

const envPrefix = "CLEANSWEEPER_"

// envDefaults are flag defaults taken from the environment
type envDefaults struct {
	Height       uint    `env:"HEIGHT" envDefault:"16"`
	Width        uint    `env:"WIDTH" envDefault:"16"`
	Fraction     float64 `env:"FRACTION" envDefault:"0.25"`
	Easy         bool    `env:"EASY"`
	Torus        bool    `env:"TORUS"`
	SnapshotsDir string  `env:"SNAPSHOTS_DIR"`
	LogLevel     string  `env:"LOG_LEVEL" envDefault:"info"`
}

func loadEnvDefaults() (envDefaults, error) {
	var defaults envDefaults
	if err := env.ParseWithOptions(&defaults, env.Options{Prefix: envPrefix}); err != nil {
		return envDefaults{}, fmt.Errorf("parse env: %w", err)
	}
	return defaults, nil
}

func (defaults envDefaults) gameConfig() game.GameConfig {
	config := game.NewGameConfig()
	config.Height = defaults.Height
	config.Width = defaults.Width
	config.Fraction = defaults.Fraction
	config.Easy = defaults.Easy
	config.Torus = defaults.Torus
	config.SavedSnapshotsDir = defaults.SnapshotsDir
	return config
}
