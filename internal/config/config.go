// Package config handles game configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/fezlike/internal/motion"
)

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Game     GameConfig     `yaml:"game"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Fullscreen  bool    `yaml:"fullscreen"`
	VSync       bool    `yaml:"vsync"`
	ViewCells   float32 `yaml:"view_cells"`     // vertical extent of the orthographic view, in cells
	ShowHidden  bool    `yaml:"show_invisible"` // draw invisible platforms translucent
	Screenshots string  `yaml:"screenshot_dir"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	MusicFile    string  `yaml:"music_file"` // optional looping WAV
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	LevelFile    string        `yaml:"level_file"` // empty uses the built-in level
	TickRate     int           `yaml:"tick_rate"`
	MoveSpeed    float32       `yaml:"move_speed"`
	Gravity      float32       `yaml:"gravity"`
	JumpHeight   float32       `yaml:"jump_height"`
	JumpDuration time.Duration `yaml:"jump_duration"`
	RotationEase float32       `yaml:"rotation_ease"`
	KillHeight   float32       `yaml:"kill_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	mc := motion.DefaultConfig()
	return &Config{
		Graphics: GraphicsConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			ViewCells:   14,
			ShowHidden:  false,
			Screenshots: "screenshots",
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
			Muted:        false,
		},
		Game: GameConfig{
			TickRate:     60,
			MoveSpeed:    mc.MoveSpeed,
			Gravity:      mc.Gravity,
			JumpHeight:   mc.JumpHeight,
			JumpDuration: mc.JumpDuration,
			RotationEase: mc.RotationEase,
			KillHeight:   -20,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Motion returns the motion controller tuning from the game section.
func (g GameConfig) Motion() motion.Config {
	return motion.Config{
		MoveSpeed:    g.MoveSpeed,
		Gravity:      g.Gravity,
		JumpHeight:   g.JumpHeight,
		JumpDuration: g.JumpDuration,
		RotationEase: g.RotationEase,
	}
}

// TickDuration returns the fixed simulation step.
func (g GameConfig) TickDuration() time.Duration {
	if g.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(g.TickRate)
}
