package math

// Mat4 is a column-major 4x4 matrix as OpenGL expects it: element
// (row r, column c) lives at index c*4+r, translation at 12..14.
type Mat4 [16]float32

// Ortho is the projection of the side view. Depth has no perspective, so
// platforms on every depth plane keep their on-screen size and cells that
// share a column line up. Passing left > right mirrors the X axis.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	w, h, d := right-left, top-bottom, far-near
	var m Mat4
	m[0] = 2 / w
	m[5] = 2 / h
	m[10] = -2 / d
	m[12] = -(right + left) / w
	m[13] = -(top + bottom) / h
	m[14] = -(far + near) / d
	m[15] = 1
	return m
}

// LookAt places the camera at eye facing center. The camera looks down its
// own -Z with up along +Y.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	side := fwd.Cross(up).Normalize()
	camUp := side.Cross(fwd)

	var m Mat4
	for i, axis := range [3]Vec3{side, camUp, fwd.Scale(-1)} {
		m[i] = axis.X
		m[4+i] = axis.Y
		m[8+i] = axis.Z
		m[12+i] = -axis.Dot(eye)
	}
	m[15] = 1
	return m
}

// Translate moves a unit cube to a cell position.
func Translate(x, y, z float32) Mat4 {
	m := Scale(1, 1, 1)
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale stretches a unit cube to the cell size.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Mul returns m * o, so o is applied first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Apply transforms the point v (w = 1) and divides by the resulting w.
func (m Mat4) Apply(v Vec3) Vec3 {
	out := Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
	if w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]; w != 0 && w != 1 {
		out = out.Scale(1 / w)
	}
	return out
}

// Ptr is the address handed to glUniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
