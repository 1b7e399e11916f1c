package math

import "math"

// Quat is a unit rotation quaternion; W is the scalar part. The game only
// ever rotates around the up axis, so the constructors build yaw rotations.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity is the Front view: no yaw.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromYaw returns a turn of degrees around +Y. Positive degrees turn
// counter-clockwise seen from above, so -90 is one step to the right.
func QuatFromYaw(degrees float32) Quat {
	half := float64(degrees) * math.Pi / 360
	return Quat{Y: float32(math.Sin(half)), W: float32(math.Cos(half))}
}

func (q Quat) dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quat) scale(s float32) Quat {
	return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

func (q Quat) add(o Quat) Quat {
	return Quat{q.X + o.X, q.Y + o.Y, q.Z + o.Z, q.W + o.W}
}

func (q Quat) normalize() Quat {
	n := float32(math.Sqrt(float64(q.dot(q))))
	if n < 1e-4 {
		return QuatIdentity()
	}
	return q.scale(1 / n)
}

// Slerp eases q toward target by fraction t of the remaining arc, clamped to
// [0, 1]. It always takes the short way round, so a view at -360 degrees
// eases to -450 by a quarter turn, not three.
func (q Quat) Slerp(target Quat, t float32) Quat {
	t = Clamp01(t)
	cos := q.dot(target)
	if cos < 0 {
		target, cos = target.scale(-1), -cos
	}
	if cos > 0.9995 {
		return q.add(target.add(q.scale(-1)).scale(t)).normalize()
	}

	arc := math.Acos(float64(cos))
	sin := math.Sin(arc)
	a := float32(math.Sin((1-float64(t))*arc) / sin)
	b := float32(math.Sin(float64(t)*arc) / sin)
	return q.scale(a).add(target.scale(b))
}

// Yaw returns the heading in degrees in (-180, 180].
func (q Quat) Yaw() float32 {
	q = q.normalize()
	siny := 2 * (q.W*q.Y + q.Z*q.X)
	cosy := 1 - 2*(q.X*q.X+q.Y*q.Y)
	return float32(math.Atan2(float64(siny), float64(cosy)) * 180 / math.Pi)
}

// Rotate turns v by q: v + 2w(u×v) + 2u×(u×v) with u the vector part.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.normalize()
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
