// Package level loads level documents: real platforms, scenery buildings
// and the player spawn, all on a unit grid.
package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fezlike/pkg/math"
)

// Cell is a grid position as written in level files: [x, y, z].
type Cell [3]float32

// Vec returns the cell as a world position scaled by unit.
func (c Cell) Vec(unit float32) math.Vec3 {
	return math.Vec3{X: c[0] * unit, Y: c[1] * unit, Z: c[2] * unit}
}

// Level is a level document.
type Level struct {
	Name      string  `yaml:"name"`
	GridUnit  float32 `yaml:"grid_unit"`
	Spawn     Cell    `yaml:"spawn"`
	Platforms []Cell  `yaml:"platforms"`
	Buildings []Cell  `yaml:"buildings"`
}

// Load reads and validates a level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes and validates a level document.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate fills defaults and rejects duplicate platform cells.
func (l *Level) Validate() error {
	if l.GridUnit <= 0 {
		l.GridUnit = 1
	}
	if len(l.Platforms) == 0 {
		return fmt.Errorf("level %q has no platforms", l.Name)
	}
	seen := make(map[Cell]int, len(l.Platforms))
	for i, c := range l.Platforms {
		if j, ok := seen[c]; ok {
			return fmt.Errorf("platform %d duplicates platform %d at %v", i, j, c)
		}
		seen[c] = i
	}
	return nil
}

// PlatformPositions returns the platforms as world positions, in file order.
func (l *Level) PlatformPositions() []math.Vec3 {
	return positions(l.Platforms, l.GridUnit)
}

// BuildingPositions returns the buildings as world positions, in file order.
func (l *Level) BuildingPositions() []math.Vec3 {
	return positions(l.Buildings, l.GridUnit)
}

// SpawnPosition returns the spawn as a world position.
func (l *Level) SpawnPosition() math.Vec3 {
	return l.Spawn.Vec(l.GridUnit)
}

// Marshal encodes the level as YAML.
func (l *Level) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

func positions(cells []Cell, unit float32) []math.Vec3 {
	out := make([]math.Vec3, len(cells))
	for i, c := range cells {
		out[i] = c.Vec(unit)
	}
	return out
}

// Builtin returns the demo level used when no level file is configured.
// A floor at depth 0, a ledge three cells back that only lines up from the
// front, and a pillar that hides part of a far walkway.
func Builtin() *Level {
	lvl := &Level{
		Name:     "builtin",
		GridUnit: 1,
		Spawn:    Cell{0, 2, 0},
	}
	for x := float32(-3); x <= 3; x++ {
		lvl.Platforms = append(lvl.Platforms, Cell{x, 0, 0})
	}
	for x := float32(4); x <= 7; x++ {
		lvl.Platforms = append(lvl.Platforms, Cell{x, 1, 3})
	}
	for z := float32(-2); z <= 5; z++ {
		lvl.Platforms = append(lvl.Platforms, Cell{9, 2, z})
	}
	lvl.Platforms = append(lvl.Platforms, Cell{12, 2, -4}, Cell{13, 2, -4})
	lvl.Buildings = []Cell{{12, 2, -6}, {6, 3, 6}, {6, 4, 6}}
	return lvl
}
