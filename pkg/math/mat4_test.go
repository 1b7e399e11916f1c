package math

import "testing"

func near(a, b Vec3) bool {
	return Abs(a.X-b.X) < 0.001 && Abs(a.Y-b.Y) < 0.001 && Abs(a.Z-b.Z) < 0.001
}

func TestCellTransform(t *testing.T) {
	// Unit cube corner to a 2-unit cell at (4, 0, -2).
	m := Translate(4, 0, -2).Mul(Scale(2, 2, 2))

	tests := []struct {
		in, want Vec3
	}{
		{Vec3{}, Vec3{4, 0, -2}},
		{Vec3{0.5, 0.5, 0.5}, Vec3{5, 1, -1}},
		{Vec3{-0.5, 0, 0.5}, Vec3{3, 0, -1}},
	}
	for _, tt := range tests {
		if got := m.Apply(tt.in); !near(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Scaling after translating also scales the offset.
	m := Scale(2, 2, 2).Mul(Translate(1, 0, 0))
	if got := m.Apply(Vec3{}); !near(got, Vec3{2, 0, 0}) {
		t.Errorf("scale after translate = %v, want (2, 0, 0)", got)
	}
	if got := Translate(1, 2, 3).Mul(Scale(1, 1, 1)); got != Translate(1, 2, 3) {
		t.Errorf("multiplying by the unit scale changed the matrix: %v", got)
	}
}

func TestLookAtFrontView(t *testing.T) {
	// Front camera: behind the player on -Z, looking toward +Z.
	eye := Vec3{0, 1, -50}
	m := LookAt(eye, Vec3{0, 1, 0}, Up)

	if got := m.Apply(eye); !near(got, Vec3{}) {
		t.Errorf("eye = %v, want origin", got)
	}
	if got := m.Apply(Vec3{0, 1, 10}); !near(got, Vec3{0, 0, -60}) {
		t.Errorf("cell ahead = %v, want (0, 0, -60)", got)
	}
	if got := m.Apply(Vec3{0, 3, 0}); !near(got, Vec3{0, 2, -50}) {
		t.Errorf("cell above = %v, want (0, 2, -50)", got)
	}
}

func TestOrthoMapsViewToClipSpace(t *testing.T) {
	m := Ortho(-10, 10, -5, 5, 0.1, 100)

	tests := []struct {
		in, want Vec3
	}{
		{Vec3{10, 5, -0.1}, Vec3{1, 1, -1}},
		{Vec3{-10, -5, -100}, Vec3{-1, -1, 1}},
		// Depth does not shrink anything.
		{Vec3{5, 0, -20}, Vec3{0.5, 0, m.Apply(Vec3{Z: -20}).Z}},
		{Vec3{5, 0, -80}, Vec3{0.5, 0, m.Apply(Vec3{Z: -80}).Z}},
	}
	for _, tt := range tests {
		if got := m.Apply(tt.in); !near(got, tt.want) {
			t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrthoMirrored(t *testing.T) {
	m := Ortho(10, -10, -5, 5, 0.1, 100)
	if got := m.Apply(Vec3{10, 0, -1}); Abs(got.X+1) > 0.001 {
		t.Errorf("mirrored right edge X = %v, want -1", got.X)
	}
}
