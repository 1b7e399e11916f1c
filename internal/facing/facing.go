// Package facing defines the four 90° view orientations and the rotation rule between them.
package facing

import (
	"fmt"
	"strings"

	"github.com/Faultbox/fezlike/pkg/math"
)

// Direction is the camera/player orientation. The ordinal order is the
// rotation order: Front -> Right -> Back -> Left -> Front.
type Direction uint8

const (
	Front Direction = iota
	Right
	Back
	Left
)

// Count is the number of directions.
const Count = 4

// StepDegrees is the yaw change of one rotation step.
const StepDegrees = 90

var names = [Count]string{"front", "right", "back", "left"}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return names[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d < Count
}

// RotateRight returns the next direction clockwise.
func RotateRight(d Direction) Direction {
	return (d + 1) % Count
}

// RotateLeft returns the next direction counter-clockwise.
func RotateLeft(d Direction) Direction {
	return (d + Count - 1) % Count
}

// DepthAxis returns the world axis pointing into the screen:
// Z for Front/Back, X for Right/Left.
func DepthAxis(d Direction) math.Axis {
	if d == Right || d == Left {
		return math.AxisX
	}
	return math.AxisZ
}

// PlaneAxis returns the horizontal world axis the player walks along.
func PlaneAxis(d Direction) math.Axis {
	if d == Right || d == Left {
		return math.AxisZ
	}
	return math.AxisX
}

// TowardCamera reports whether depth a is closer to the camera than depth b.
// The camera sits at -Z for Front, +X for Right, +Z for Back and -X for Left.
func TowardCamera(d Direction, a, b float32) bool {
	switch d {
	case Front, Left:
		return a < b
	default:
		return a > b
	}
}

// WalkSign returns the sign applied to positive horizontal input.
// Back and Left invert Front and Right.
func WalkSign(d Direction) float32 {
	if d == Back || d == Left {
		return -1
	}
	return 1
}

// ParseDirection parses a direction name, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Direction(i), nil
		}
	}
	return Front, fmt.Errorf("unknown facing direction %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so directions can be
// read from YAML documents by name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
