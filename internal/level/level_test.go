package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/fezlike/pkg/math"
)

func TestParse(t *testing.T) {
	doc := `
name: tower
grid_unit: 2
spawn: [0, 1, 0]
platforms:
  - [0, 0, 0]
  - [1, 0, 0]
  - [3, 0, 5]
buildings:
  - [2, 1, -1]
`
	lvl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if lvl.Name != "tower" || lvl.GridUnit != 2 {
		t.Errorf("header = %q/%v", lvl.Name, lvl.GridUnit)
	}
	if len(lvl.Platforms) != 3 || len(lvl.Buildings) != 1 {
		t.Fatalf("platforms %d buildings %d", len(lvl.Platforms), len(lvl.Buildings))
	}

	pp := lvl.PlatformPositions()
	if pp[2] != (math.Vec3{X: 6, Y: 0, Z: 10}) {
		t.Errorf("platform 2 = %v, want scaled by grid unit", pp[2])
	}
	if got := lvl.SpawnPosition(); got != (math.Vec3{X: 0, Y: 2, Z: 0}) {
		t.Errorf("SpawnPosition() = %v", got)
	}
	if got := lvl.BuildingPositions()[0]; got != (math.Vec3{X: 4, Y: 2, Z: -2}) {
		t.Errorf("building = %v", got)
	}
}

func TestParseDefaultsGridUnit(t *testing.T) {
	lvl, err := Parse([]byte("platforms: [[0, 0, 0]]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if lvl.GridUnit != 1 {
		t.Errorf("GridUnit = %v, want default 1", lvl.GridUnit)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"invalid yaml", "platforms: [[0, 0", "decoding level"},
		{"no platforms", "name: empty\n", "no platforms"},
		{"duplicate", "platforms: [[1, 0, 0], [2, 0, 0], [1, 0, 0]]\n", "duplicates platform 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builtin.yaml")

	data, err := Builtin().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lvl.Platforms) != len(Builtin().Platforms) {
		t.Errorf("platforms = %d, want %d", len(lvl.Platforms), len(Builtin().Platforms))
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("/nonexistent/level.yaml"); err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestBuiltinIsValid(t *testing.T) {
	if err := Builtin().Validate(); err != nil {
		t.Errorf("Builtin().Validate() = %v", err)
	}
}
