package renderer

import "github.com/Faultbox/fezlike/pkg/math"

// floatsPerVertex is position (3) + normal (3).
const floatsPerVertex = 6

// cubeFaces lists the outward normal of each face and two tangent axes
// whose cross product points along that normal.
var cubeFaces = [6]struct{ n, u, v math.Vec3 }{
	{n: math.Vec3{X: 1}, u: math.Vec3{Y: 1}, v: math.Vec3{Z: 1}},
	{n: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{Y: 1}, u: math.Vec3{Z: 1}, v: math.Vec3{X: 1}},
	{n: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
	{n: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{n: math.Vec3{Z: -1}, u: math.Vec3{Y: 1}, v: math.Vec3{X: 1}},
}

// cubeVertices returns an interleaved unit cube centered on the origin,
// two triangles per face.
func cubeVertices() []float32 {
	out := make([]float32, 0, 36*floatsPerVertex)
	for _, f := range cubeFaces {
		c := f.n.Scale(0.5)
		corner := func(su, sv float32) math.Vec3 {
			return c.Add(f.u.Scale(su * 0.5)).Add(f.v.Scale(sv * 0.5))
		}
		quad := [6]math.Vec3{
			corner(-1, -1), corner(1, -1), corner(1, 1),
			corner(-1, -1), corner(1, 1), corner(-1, 1),
		}
		for _, p := range quad {
			out = append(out, p.X, p.Y, p.Z, f.n.X, f.n.Y, f.n.Z)
		}
	}
	return out
}
