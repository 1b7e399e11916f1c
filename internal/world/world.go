package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/align"
	"github.com/Faultbox/fezlike/pkg/math"
)

// Player box half extents, in grid units. A player resting on a cell has its
// center one unit above the cell center.
const (
	PlayerHalfWidth  = 0.4
	PlayerHalfHeight = 0.5
)

// World owns the level geometry, the invisible platforms and the player box.
type World struct {
	unit      float32
	level     *Cells
	buildings *Cells
	platforms arena
	log       *zap.Logger

	spawn    math.Vec3
	player   math.Vec3
	half     math.Vec3
	grounded bool
}

// New creates a world with the player at spawn.
func New(unit float32, level, buildings []math.Vec3, spawn math.Vec3, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		unit:      unit,
		level:     NewCells(level),
		buildings: NewCells(buildings),
		log:       log,
		spawn:     spawn,
		player:    spawn,
		half: math.Vec3{
			X: PlayerHalfWidth * unit,
			Y: PlayerHalfHeight * unit,
			Z: PlayerHalfWidth * unit,
		},
	}
	log.Info("world created",
		zap.Int("platforms", w.level.Len()),
		zap.Int("buildings", w.buildings.Len()),
		zap.Float32("unit", unit),
	)
	return w
}

// Unit returns the grid unit size.
func (w *World) Unit() float32 {
	return w.unit
}

// Level returns the real platform geometry.
func (w *World) Level() *Cells {
	return w.level
}

// Buildings returns the scenery geometry. Buildings only hide platforms;
// they do not collide.
func (w *World) Buildings() *Cells {
	return w.buildings
}

// Spawn creates an invisible platform at pos.
func (w *World) Spawn(pos math.Vec3) align.Handle {
	idx, gen := w.platforms.spawn(pos)
	return Platform{world: w, idx: idx, gen: gen}
}

// InvisiblePlatforms returns the positions of the live invisible platforms.
func (w *World) InvisiblePlatforms() []math.Vec3 {
	out := make([]math.Vec3, 0, w.platforms.live)
	w.platforms.each(func(p math.Vec3) {
		out = append(out, p)
	})
	return out
}

// Position returns the player center.
func (w *World) Position() math.Vec3 {
	return w.player
}

// SetPosition teleports the player without collision checks.
func (w *World) SetPosition(p math.Vec3) {
	w.player = p
}

// Grounded reports whether the last move was stopped by a floor.
func (w *World) Grounded() bool {
	return w.grounded
}

// SpawnPoint returns the respawn position.
func (w *World) SpawnPoint() math.Vec3 {
	return w.spawn
}

// Respawn puts the player back on the spawn point.
func (w *World) Respawn() {
	w.player = w.spawn
	w.grounded = false
	w.log.Debug("player respawned", zap.Float32("x", w.spawn.X), zap.Float32("y", w.spawn.Y), zap.Float32("z", w.spawn.Z))
}

// Move sweeps the player box by delta against solid cells, one axis at a
// time with Y first so landing wins over sliding. A blocked axis stops flush
// against the blocking cell.
func (w *World) Move(delta math.Vec3) {
	var blocked bool
	w.player, blocked = w.sweep(w.player, math.AxisY, delta.Y)
	w.grounded = blocked && delta.Y < 0
	w.player, _ = w.sweep(w.player, math.AxisX, delta.X)
	w.player, _ = w.sweep(w.player, math.AxisZ, delta.Z)
}

func (w *World) sweep(from math.Vec3, axis math.Axis, d float32) (math.Vec3, bool) {
	if d == 0 {
		return from, false
	}
	to := from.With(axis, from.Get(axis)+d)
	reach := w.half.Get(axis) + w.unit/2
	blocked := false

	w.eachSolid(func(cell math.Vec3) {
		// Cells the box already overlaps never block, so a teleport into
		// geometry can walk out.
		if w.overlaps(from, cell) || !w.sweptOverlaps(from, to, axis, cell) {
			return
		}
		if d > 0 {
			if limit := cell.Get(axis) - reach; limit < to.Get(axis) {
				to = to.With(axis, limit)
				blocked = true
			}
		} else {
			if limit := cell.Get(axis) + reach; limit > to.Get(axis) {
				to = to.With(axis, limit)
				blocked = true
			}
		}
	})
	return to, blocked
}

func (w *World) overlaps(p, cell math.Vec3) bool {
	h := w.unit / 2
	return math.Abs(p.X-cell.X) < w.half.X+h &&
		math.Abs(p.Y-cell.Y) < w.half.Y+h &&
		math.Abs(p.Z-cell.Z) < w.half.Z+h
}

// sweptOverlaps tests the box swept from from to to along axis, so fast
// moves cannot tunnel through a cell.
func (w *World) sweptOverlaps(from, to math.Vec3, axis math.Axis, cell math.Vec3) bool {
	h := w.unit / 2
	for _, a := range []math.Axis{math.AxisX, math.AxisY, math.AxisZ} {
		if a == axis {
			continue
		}
		if math.Abs(from.Get(a)-cell.Get(a)) >= w.half.Get(a)+h {
			return false
		}
	}
	lo, hi := from.Get(axis), to.Get(axis)
	if lo > hi {
		lo, hi = hi, lo
	}
	ext := w.half.Get(axis)
	c := cell.Get(axis)
	return lo-ext < c+h && hi+ext > c-h
}

func (w *World) eachSolid(fn func(cell math.Vec3)) {
	for _, c := range w.level.Positions() {
		fn(c)
	}
	w.platforms.each(fn)
}
