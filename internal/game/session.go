// Package game runs the per-tick simulation and the windowed client around it.
package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/align"
	"github.com/Faultbox/fezlike/internal/config"
	"github.com/Faultbox/fezlike/internal/facing"
	"github.com/Faultbox/fezlike/internal/level"
	"github.com/Faultbox/fezlike/internal/motion"
	"github.com/Faultbox/fezlike/internal/world"
	"github.com/Faultbox/fezlike/pkg/math"
)

// Input is the player's intent for one tick.
type Input struct {
	Horizontal  float32
	RotateLeft  bool
	RotateRight bool
	Jump        bool
	Respawn     bool
}

// Rotation maps the rotate keys to an engine command. Both at once cancel.
func (in Input) Rotation() align.Rotation {
	switch {
	case in.RotateRight && !in.RotateLeft:
		return align.RotateRight
	case in.RotateLeft && !in.RotateRight:
		return align.RotateLeft
	default:
		return align.RotateNone
	}
}

// Events reports what happened during a tick, for audio and logging.
type Events struct {
	Jumped    bool
	Rotated   bool
	Respawned bool
}

// Snapshot is the observable state after a tick.
type Snapshot struct {
	Tick      uint64
	Player    math.Vec3
	Facing    facing.Direction
	Angle     float32
	Depth     float32
	Jumping   bool
	Grounded  bool
	Platforms []math.Vec3
}

// Session wires a level to the world, the motion controller and the
// alignment engine.
type Session struct {
	level  *level.Level
	world  *world.World
	motion *motion.Controller
	engine *align.Engine
	clock  *Clock
	log    *zap.Logger

	killHeight float32
	tick       uint64
}

// NewSession builds a session for lvl with the gameplay tuning from cfg.
// The level must already be validated.
func NewSession(lvl *level.Level, cfg config.GameConfig, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	unit := lvl.GridUnit

	s := &Session{
		level:      lvl,
		clock:      NewClock(time.Unix(0, 0)),
		log:        log,
		killHeight: cfg.KillHeight * unit,
	}
	s.world = world.New(unit, lvl.PlatformPositions(), lvl.BuildingPositions(), lvl.SpawnPosition(), log.Named("world"))
	s.motion = motion.New(scaled(cfg.Motion(), unit), s.world, s.clock.Now)
	s.engine = align.New(align.Deps{
		Body:      s.world,
		Motion:    s.motion,
		Level:     s.world.Level(),
		Buildings: s.world.Buildings(),
		Factory:   s.world,
	}, unit, log.Named("align"))
	s.engine.Start()

	log.Info("session started",
		zap.String("level", lvl.Name),
		zap.Int("platforms", len(lvl.Platforms)),
		zap.Int("invisible", len(s.engine.Platforms())),
	)
	return s
}

// scaled converts per-unit speeds to world units.
func scaled(c motion.Config, unit float32) motion.Config {
	c.MoveSpeed *= unit
	c.JumpHeight *= unit
	return c
}

// Step runs one tick: jump edge, depth maintenance and rotation, movement,
// then the kill plane.
func (s *Session) Step(in Input, dt float32) Events {
	var ev Events
	s.clock.Advance(dt)
	s.tick++

	if in.Jump {
		ev.Jumped = s.motion.StartJump()
	}

	rot := in.Rotation()
	s.engine.Update(rot)
	ev.Rotated = rot != align.RotateNone

	s.motion.Tick(in.Horizontal, dt)

	if in.Respawn || s.world.Position().Y < s.killHeight {
		s.respawn()
		ev.Respawned = true
	}
	return ev
}

func (s *Session) respawn() {
	s.log.Info("respawn", zap.Uint64("tick", s.tick), zap.Float32("y", s.world.Position().Y))
	s.world.Respawn()
	s.engine.ReturnToStart()
}

// Snapshot returns the state after the last tick.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:      s.tick,
		Player:    s.world.Position(),
		Facing:    s.engine.Facing(),
		Angle:     s.engine.Angle(),
		Depth:     s.engine.Depth(),
		Jumping:   s.motion.Jumping(),
		Grounded:  s.world.Grounded(),
		Platforms: s.engine.Platforms(),
	}
}

// Rotation returns the eased view rotation.
func (s *Session) Rotation() math.Quat {
	return s.motion.Rotation()
}

// World returns the grid world.
func (s *Session) World() *world.World {
	return s.world
}

// Level returns the level the session was built from.
func (s *Session) Level() *level.Level {
	return s.level
}
