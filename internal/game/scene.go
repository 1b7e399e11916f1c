package game

import (
	"github.com/Faultbox/fezlike/internal/engine/renderer"
	"github.com/Faultbox/fezlike/internal/world"
	"github.com/Faultbox/fezlike/pkg/math"
)

var (
	colorPlatform  = renderer.Color{0.45, 0.62, 0.32, 1}
	colorBuilding  = renderer.Color{0.58, 0.52, 0.47, 1}
	colorPlayer    = renderer.Color{0.95, 0.95, 0.95, 1}
	colorInvisible = renderer.Color{0.9, 0.3, 0.8, 0.35}
)

// lightDir points from the light into the scene, above and to the side of
// the front camera.
var lightDir = math.Vec3{X: -0.4, Y: -1, Z: 0.6}

// Batches returns the draw list for the session. Invisible platforms are
// included last, translucent, when showHidden is set.
func (s *Session) Batches(showHidden bool) []renderer.Batch {
	unit := s.world.Unit()
	cube := math.Vec3{X: unit, Y: unit, Z: unit}
	player := math.Vec3{
		X: 2 * world.PlayerHalfWidth * unit,
		Y: 2 * world.PlayerHalfHeight * unit,
		Z: 2 * world.PlayerHalfWidth * unit,
	}

	batches := []renderer.Batch{
		{Color: colorPlatform, Cells: s.world.Level().Positions(), Size: cube},
		{Color: colorBuilding, Cells: s.world.Buildings().Positions(), Size: cube},
		{Color: colorPlayer, Cells: []math.Vec3{s.world.Position()}, Size: player},
	}
	if showHidden {
		batches = append(batches, renderer.Batch{
			Color: colorInvisible,
			Cells: s.world.InvisiblePlatforms(),
			Size:  cube,
		})
	}
	return batches
}

// Frame builds a renderer frame from the session and a camera transform.
func (s *Session) Frame(viewProjection math.Mat4, showHidden bool) renderer.Frame {
	return renderer.Frame{
		ViewProjection: viewProjection,
		LightDir:       lightDir,
		Batches:        s.Batches(showHidden),
	}
}
