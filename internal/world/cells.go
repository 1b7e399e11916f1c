// Package world is the grid the alignment core runs against: real and
// building geometry, the invisible platform arena and a kinematic mover
// for the player box.
package world

import "github.com/Faultbox/fezlike/pkg/math"

// Cells is an ordered, read-only set of cell positions.
type Cells struct {
	positions []math.Vec3
	index     map[math.Vec3]struct{}
}

// NewCells copies positions, keeping their order.
func NewCells(positions []math.Vec3) *Cells {
	c := &Cells{
		positions: make([]math.Vec3, len(positions)),
		index:     make(map[math.Vec3]struct{}, len(positions)),
	}
	copy(c.positions, positions)
	for _, p := range positions {
		c.index[p] = struct{}{}
	}
	return c
}

// Positions returns the cells in storage order. Callers must not modify it.
func (c *Cells) Positions() []math.Vec3 {
	return c.positions
}

// Contains reports whether a cell sits exactly at p.
func (c *Cells) Contains(p math.Vec3) bool {
	_, ok := c.index[p]
	return ok
}

// Len returns the number of cells.
func (c *Cells) Len() int {
	return len(c.positions)
}
