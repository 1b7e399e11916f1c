package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return nil, err
	}

	applyFlags(cfg)
	cfg.normalize()

	return cfg, nil
}

// LoadFile loads defaults < file without looking at command-line flags.
// An empty path searches the standard locations; finding nothing yields
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	cfg.normalize()

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Fezlike")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Fezlike")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "fezlike")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fezlike")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize replaces values the game cannot run with by their defaults.
// Movement tuning is taken as given.
func (c *Config) normalize() {
	def := Default()
	if c.Game.TickRate <= 0 {
		c.Game.TickRate = def.Game.TickRate
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		c.Graphics.Width = def.Graphics.Width
		c.Graphics.Height = def.Graphics.Height
	}
	if c.Graphics.ViewCells <= 0 {
		c.Graphics.ViewCells = def.Graphics.ViewCells
	}
	c.Audio.MasterVolume = clamp01(c.Audio.MasterVolume)
	c.Audio.MusicVolume = clamp01(c.Audio.MusicVolume)
	c.Audio.SFXVolume = clamp01(c.Audio.SFXVolume)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
