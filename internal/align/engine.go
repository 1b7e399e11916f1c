// Package align keeps the player's depth coherent with what the camera shows.
//
// The world is 3D but the player moves in the 2D plane facing the camera.
// Platforms on a different depth plane can look like they line up with the
// player; the engine places invisible platforms at the player's depth under
// every real platform so the player can stand where it appears to stand, and
// moves the player onto real platforms whenever it can so a rotation does
// not leave it hanging in the air.
package align

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/facing"
	"github.com/Faultbox/fezlike/pkg/math"
)

// ContactTolerance is the extra height above one grid unit at which a cell
// still counts as supporting the player.
const ContactTolerance = 0.2

// PlaneTolerance widens the in-plane match when snapping to real platforms.
const PlaneTolerance = 0.1

// Body is the player transform.
type Body interface {
	Position() math.Vec3
	SetPosition(p math.Vec3)
}

// Orienter is the motion side of the player: it reports the jump state and
// receives the new facing after a rotation.
type Orienter interface {
	Jumping() bool
	SetOrientation(d facing.Direction, angle float32)
}

// Geometry is a read-only, ordered set of cell positions.
type Geometry interface {
	Positions() []math.Vec3
}

// Handle is an invisible platform owned by the engine.
type Handle interface {
	Position() math.Vec3
	Destroy()
}

// PlatformFactory creates invisible collidable cells.
type PlatformFactory interface {
	Spawn(pos math.Vec3) Handle
}

// Rotation is a rotation command for one tick.
type Rotation uint8

const (
	RotateNone Rotation = iota
	RotateRight
	RotateLeft
)

// Deps are the collaborators the engine works against.
type Deps struct {
	Body      Body
	Motion    Orienter
	Level     Geometry
	Buildings Geometry
	Factory   PlatformFactory
}

// Engine synthesizes invisible platforms and repositions the player along
// the depth axis.
type Engine struct {
	deps Deps
	unit float32
	log  *zap.Logger

	facing facing.Direction
	angle  float32

	platforms []Handle
	occupied  map[math.Vec3]struct{}

	built      bool
	lastFacing facing.Direction
	lastDepth  float32
}

// New creates an engine facing Front. gridUnit is the cell size in world
// units; it is not validated.
func New(deps Deps, gridUnit float32, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		deps:     deps,
		unit:     gridUnit,
		log:      log,
		facing:   facing.Front,
		occupied: make(map[math.Vec3]struct{}),
	}
}

// Start aligns the motion controller with the engine and builds the first
// platform set.
func (e *Engine) Start() {
	e.deps.Motion.SetOrientation(e.facing, e.angle)
	e.Rebuild(true)
}

// Facing returns the current facing direction.
func (e *Engine) Facing() facing.Direction {
	return e.facing
}

// Angle returns the accumulated view yaw in degrees.
func (e *Engine) Angle() float32 {
	return e.angle
}

// Depth returns the player's coordinate on the current depth axis rounded to
// the nearest grid line.
func (e *Engine) Depth() float32 {
	p := e.deps.Body.Position()
	return e.gridLine(p.Get(facing.DepthAxis(e.facing)))
}

// gridLine rounds x to the nearest multiple of the grid unit, ties to even.
func (e *Engine) gridLine(x float32) float32 {
	if e.unit <= 0 {
		return math.RoundEven(x)
	}
	return math.RoundEven(x/e.unit) * e.unit
}

// Platforms returns the positions of the live invisible platforms in
// creation order.
func (e *Engine) Platforms() []math.Vec3 {
	out := make([]math.Vec3, len(e.platforms))
	for i, h := range e.platforms {
		out[i] = h.Position()
	}
	return out
}

// Update runs one tick: depth maintenance, then the rotation command.
func (e *Engine) Update(cmd Rotation) {
	e.OnTick()

	switch cmd {
	case RotateRight:
		e.RotateRight()
	case RotateLeft:
		e.RotateLeft()
	}
}

// RotateRight turns the view one step clockwise.
func (e *Engine) RotateRight() {
	e.OnRotate(facing.RotateRight(e.facing))
}

// RotateLeft turns the view one step counter-clockwise.
func (e *Engine) RotateLeft() {
	e.OnRotate(facing.RotateLeft(e.facing))
}

// OnTick moves the player onto real platforms while it is grounded. It
// reports whether the player's depth changed.
func (e *Engine) OnTick() bool {
	if e.deps.Motion.Jumping() {
		return false
	}

	changed := false
	if e.OnInvisiblePlatform() && e.snapToPlatform() {
		changed = true
	}
	if e.moveTowardCamera() {
		changed = true
	}
	if changed {
		e.Rebuild(true)
	}
	return changed
}

// OnRotate switches to direction d. A player on an invisible platform is
// first moved onto the real platform it stands for, using the old facing.
func (e *Engine) OnRotate(d facing.Direction) {
	if e.OnInvisiblePlatform() {
		e.snapToPlatform()
	}

	switch (int(d) - int(e.facing) + facing.Count) % facing.Count {
	case 1:
		e.angle -= facing.StepDegrees
	case 2:
		e.angle -= 2 * facing.StepDegrees
	case 3:
		e.angle += facing.StepDegrees
	}

	from := e.facing
	e.facing = d
	e.Rebuild(false)
	e.deps.Motion.SetOrientation(e.facing, e.angle)

	e.log.Debug("rotated",
		zap.Stringer("from", from),
		zap.Stringer("to", d),
		zap.Float32("angle", e.angle),
	)
}

// ReturnToStart rebuilds unconditionally after the player was respawned.
func (e *Engine) ReturnToStart() {
	e.Rebuild(true)
}

// Rebuild replaces the invisible platform set for the current facing and
// depth. Without force it does nothing when neither changed since the last
// rebuild. It reports whether a rebuild happened.
func (e *Engine) Rebuild(force bool) bool {
	depth := e.Depth()
	if !force && e.built && e.lastFacing == e.facing && e.lastDepth == depth {
		return false
	}

	for _, h := range e.platforms {
		h.Destroy()
	}
	e.platforms = e.platforms[:0]
	clear(e.occupied)

	cells := e.deps.Level.Positions()
	level := make(map[math.Vec3]struct{}, len(cells))
	for _, c := range cells {
		level[c] = struct{}{}
	}

	axis := facing.DepthAxis(e.facing)
	for _, c := range cells {
		candidate := c.With(axis, depth)
		if _, ok := e.occupied[candidate]; ok {
			continue
		}
		if _, ok := level[candidate]; ok {
			continue
		}
		if e.obstructed(candidate) {
			continue
		}
		e.platforms = append(e.platforms, e.deps.Factory.Spawn(candidate))
		e.occupied[candidate] = struct{}{}
	}

	e.built = true
	e.lastFacing = e.facing
	e.lastDepth = depth

	e.log.Debug("platforms rebuilt",
		zap.Stringer("facing", e.facing),
		zap.Float32("depth", depth),
		zap.Int("count", len(e.platforms)),
	)
	return true
}

// OnInvisiblePlatform reports whether an invisible platform supports the player.
func (e *Engine) OnInvisiblePlatform() bool {
	p := e.deps.Body.Position()
	for _, h := range e.platforms {
		c := h.Position()
		if math.Abs(c.X-p.X) < e.unit && math.Abs(c.Z-p.Z) < e.unit && e.below(c, p) {
			return true
		}
	}
	return false
}

// below is the vertical half of the contact test: the cell top is under the
// player by at most one unit plus tolerance.
func (e *Engine) below(cell, p math.Vec3) bool {
	dy := p.Y - cell.Y
	return dy > 0 && dy <= e.unit+ContactTolerance
}

// inPlane reports whether cell lines up with the player on the walking axis.
func (e *Engine) inPlane(cell, p math.Vec3) bool {
	axis := facing.PlaneAxis(e.facing)
	return math.Abs(cell.Get(axis)-p.Get(axis)) < e.unit+PlaneTolerance
}

// snapToPlatform moves the player to the depth of the first real platform
// under it. It reports whether the depth changed.
func (e *Engine) snapToPlatform() bool {
	p := e.deps.Body.Position()
	axis := facing.DepthAxis(e.facing)
	for _, c := range e.deps.Level.Positions() {
		if !e.inPlane(c, p) || !e.below(c, p) {
			continue
		}
		if c.Get(axis) == p.Get(axis) {
			return false
		}
		e.deps.Body.SetPosition(p.With(axis, c.Get(axis)))
		e.log.Debug("snapped to platform", zap.Stringer("axis", axis), zap.Float32("depth", c.Get(axis)))
		return true
	}
	return false
}

// moveTowardCamera moves the player to the first real platform under it
// that is closer to the camera. Cells are scanned in storage order and the
// first match wins, which is not necessarily the closest one.
func (e *Engine) moveTowardCamera() bool {
	p := e.deps.Body.Position()
	axis := facing.DepthAxis(e.facing)
	for _, c := range e.deps.Level.Positions() {
		if !e.inPlane(c, p) || !e.below(c, p) {
			continue
		}
		if !facing.TowardCamera(e.facing, c.Get(axis), p.Get(axis)) {
			continue
		}
		e.deps.Body.SetPosition(p.With(axis, c.Get(axis)))
		return true
	}
	return false
}

// obstructed reports whether a building sits between the cell and the camera.
func (e *Engine) obstructed(cell math.Vec3) bool {
	if e.deps.Buildings == nil {
		return false
	}
	depth := facing.DepthAxis(e.facing)
	plane := facing.PlaneAxis(e.facing)
	for _, b := range e.deps.Buildings.Positions() {
		if b.Get(plane) != cell.Get(plane) || b.Y != cell.Y {
			continue
		}
		if facing.TowardCamera(e.facing, b.Get(depth), cell.Get(depth)) {
			return true
		}
	}
	return false
}
