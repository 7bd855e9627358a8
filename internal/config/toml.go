// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Station StationConfig `toml:"station"`
	Band    BandConfig    `toml:"band"`
	Trainer TrainerConfig `toml:"trainer"`
}

// StationConfig maps the trainee's own station settings.
type StationConfig struct {
	Callsign *string  `toml:"callsign"`
	Name     *string  `toml:"name"`
	State    *string  `toml:"state"`
	WPM      *int     `toml:"wpm"`
	Pitch    *float64 `toml:"pitch"`
	Volume   *float64 `toml:"volume"`
}

// BandConfig maps simulated band conditions.
type BandConfig struct {
	Activity   *int     `toml:"activity"`
	NoiseLevel *int     `toml:"noise"`
	QSBDepth   *float64 `toml:"qsb"`
	MinWPM     *int     `toml:"min-wpm"`
	MaxWPM     *int     `toml:"max-wpm"`
	USOnly     *bool    `toml:"us-only"`
}

// TrainerConfig maps trainer behavior settings.
type TrainerConfig struct {
	Mode       *string `toml:"mode"`
	CutNumbers *bool   `toml:"cut-numbers"`
	Continuous *bool   `toml:"continuous"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
