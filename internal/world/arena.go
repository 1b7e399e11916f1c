package world

import (
	"github.com/Faultbox/fezlike/internal/align"
	"github.com/Faultbox/fezlike/pkg/math"
)

type platformSlot struct {
	pos   math.Vec3
	gen   uint32
	alive bool
}

// arena stores invisible platforms in reusable slots. A handle carries the
// generation of its slot so a stale handle never sees a reused slot.
type arena struct {
	slots []platformSlot
	free  []int
	live  int
}

func (a *arena) spawn(pos math.Vec3) (int, uint32) {
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, platformSlot{})
		idx = len(a.slots) - 1
	}
	s := &a.slots[idx]
	s.gen++
	s.pos = pos
	s.alive = true
	a.live++
	return idx, s.gen
}

func (a *arena) get(idx int, gen uint32) (math.Vec3, bool) {
	if idx < 0 || idx >= len(a.slots) {
		return math.Vec3{}, false
	}
	s := a.slots[idx]
	if !s.alive || s.gen != gen {
		return math.Vec3{}, false
	}
	return s.pos, true
}

func (a *arena) destroy(idx int, gen uint32) bool {
	if _, ok := a.get(idx, gen); !ok {
		return false
	}
	a.slots[idx].alive = false
	a.free = append(a.free, idx)
	a.live--
	return true
}

// each calls fn for every live platform.
func (a *arena) each(fn func(pos math.Vec3)) {
	for _, s := range a.slots {
		if s.alive {
			fn(s.pos)
		}
	}
}

// Platform is a handle to an invisible platform in the world's arena.
type Platform struct {
	world *World
	idx   int
	gen   uint32
}

var _ align.Handle = Platform{}

// Position returns the platform position, or the zero vector once destroyed.
func (p Platform) Position() math.Vec3 {
	pos, _ := p.world.platforms.get(p.idx, p.gen)
	return pos
}

// Alive reports whether the platform still exists.
func (p Platform) Alive() bool {
	_, ok := p.world.platforms.get(p.idx, p.gen)
	return ok
}

// Destroy removes the platform. Destroying twice is a no-op.
func (p Platform) Destroy() {
	p.world.platforms.destroy(p.idx, p.gen)
}
