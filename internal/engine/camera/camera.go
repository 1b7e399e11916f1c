// Package camera provides the orthographic side-on camera that follows the player.
package camera

import (
	"github.com/Faultbox/fezlike/pkg/math"
)

// SideCamera looks at its target from the current facing side. The view is
// orthographic, so every cell on the line of sight projects to the same
// screen position regardless of depth.
type SideCamera struct {
	// Distance from the target along the view direction, in world units.
	Distance float32

	// ViewCells is the vertical extent of the view, in world units.
	ViewCells float32

	// FollowRate is how quickly the camera catches up to its target (1/s).
	FollowRate float32

	target   math.Vec3
	rotation math.Quat
}

// NewSideCamera creates a camera showing viewCells units vertically.
func NewSideCamera(viewCells float32) *SideCamera {
	if viewCells <= 0 {
		viewCells = 14
	}
	return &SideCamera{
		Distance:   50,
		ViewCells:  viewCells,
		FollowRate: 6,
		rotation:   math.QuatIdentity(),
	}
}

// Snap moves the camera onto target immediately.
func (c *SideCamera) Snap(target math.Vec3, rotation math.Quat) {
	c.target = target
	c.rotation = rotation
}

// Follow eases the camera toward target. The rotation comes from the motion
// controller, which already eases it, so it is taken as is.
func (c *SideCamera) Follow(target math.Vec3, rotation math.Quat, dt float32) {
	t := math.Clamp01(c.FollowRate * dt)
	c.target = c.target.Add(target.Sub(c.target).Scale(t))
	c.rotation = rotation
}

// Target returns the point the camera looks at.
func (c *SideCamera) Target() math.Vec3 {
	return c.target
}

// Eye returns the camera position. With no rotation the camera sits on -Z
// looking toward +Z.
func (c *SideCamera) Eye() math.Vec3 {
	offset := c.rotation.Rotate(math.Vec3{Z: -c.Distance})
	return c.target.Add(offset)
}

// ViewMatrix returns the view matrix.
func (c *SideCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye(), c.target, math.Up)
}

// ProjectionMatrix returns the orthographic projection for the given aspect ratio.
func (c *SideCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	halfH := c.ViewCells / 2
	halfW := halfH * aspect
	// Mirrored on X: level data is authored with the player's walk direction
	// (+X when facing front) pointing right on screen.
	return math.Ortho(halfW, -halfW, -halfH, halfH, 0.1, 2*c.Distance)
}

// ViewProjection returns projection * view.
func (c *SideCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}
