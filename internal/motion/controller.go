// Package motion turns horizontal input and the current facing into a
// world-space displacement for the player, and owns the jump timer.
package motion

import (
	"time"

	"github.com/Faultbox/fezlike/internal/facing"
	"github.com/Faultbox/fezlike/pkg/math"
)

// Mover performs collision-aware movement. Blocked moves are the mover's
// concern; the controller never inspects the outcome.
type Mover interface {
	Move(delta math.Vec3)
}

// Config holds the movement tuning values.
type Config struct {
	MoveSpeed    float32       // world units per second
	Gravity      float32       // fall rate as a multiple of MoveSpeed
	JumpHeight   float32       // upward units per second while jumping
	JumpDuration time.Duration // how long the jump impulse lasts
	RotationEase float32       // slerp factor per second toward the target yaw
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:    5,
		Gravity:      1,
		JumpHeight:   14,
		JumpDuration: 350 * time.Millisecond,
		RotationEase: 8,
	}
}

// Controller moves the player in the 2D plane selected by its facing.
type Controller struct {
	cfg   Config
	mover Mover
	now   func() time.Time

	facing   facing.Direction
	angle    float32   // target yaw, degrees
	rotation math.Quat // eased yaw

	horizontal   int
	jumping      bool
	jumpDeadline time.Time
}

// New creates a controller facing Front. now defaults to time.Now.
func New(cfg Config, mover Mover, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		cfg:      cfg,
		mover:    mover,
		now:      now,
		facing:   facing.Front,
		rotation: math.QuatIdentity(),
	}
}

// SetOrientation changes the facing and the target yaw. The facing applies
// from the next Tick; the visible rotation eases toward angle over time.
func (c *Controller) SetOrientation(d facing.Direction, angle float32) {
	c.facing = d
	c.angle = angle
}

// Facing returns the current facing direction.
func (c *Controller) Facing() facing.Direction {
	return c.facing
}

// TargetAngle returns the yaw the view is easing toward, in degrees.
func (c *Controller) TargetAngle() float32 {
	return c.angle
}

// Rotation returns the current eased view rotation.
func (c *Controller) Rotation() math.Quat {
	return c.rotation
}

// Horizontal returns the quantized input from the last Tick.
func (c *Controller) Horizontal() int {
	return c.horizontal
}

// StartJump begins a jump unless one is already running. The flag clears
// once JumpDuration has passed; there is no way to cancel it early.
// It reports whether a new jump started.
func (c *Controller) StartJump() bool {
	if c.Jumping() {
		return false
	}
	c.jumping = true
	c.jumpDeadline = c.now().Add(c.cfg.JumpDuration)
	return true
}

// Jumping reports whether the jump impulse is active.
func (c *Controller) Jumping() bool {
	c.expireJump()
	return c.jumping
}

func (c *Controller) expireJump() {
	if c.jumping && !c.now().Before(c.jumpDeadline) {
		c.jumping = false
	}
}

// Tick advances one frame: eases the view rotation, builds the displacement
// for this frame and hands it to the mover. The displacement is returned for
// callers that trace movement.
func (c *Controller) Tick(horizontal float32, dt float32) math.Vec3 {
	c.horizontal = Quantize(horizontal)
	c.expireJump()

	c.rotation = c.rotation.Slerp(math.QuatFromYaw(c.angle), c.cfg.RotationEase*dt)

	step := c.cfg.MoveSpeed * dt
	walk := float32(c.horizontal) * facing.WalkSign(c.facing) * step

	var delta math.Vec3
	delta = delta.With(facing.PlaneAxis(c.facing), walk)
	delta.Y = -c.cfg.Gravity * step
	if c.jumping {
		delta.Y += c.cfg.JumpHeight * dt
	}

	if c.mover != nil {
		c.mover.Move(delta)
	}
	return delta
}

// Quantize maps an analog axis to -1, 0 or 1.
func Quantize(axis float32) int {
	switch {
	case axis < 0:
		return -1
	case axis > 0:
		return 1
	default:
		return 0
	}
}
