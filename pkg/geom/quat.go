package geom

import "math"

// Quat is a rotation quaternion. The zero value is not a valid rotation;
// use [Identity].
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity is the quaternion of no rotation.
var Identity = Quat{W: 1}

// Mul returns the Hamilton product q * r: the rotation r followed by q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.X*r.W + q.W*r.X + q.Y*r.Z - q.Z*r.Y,
		Y: q.Y*r.W + q.W*r.Y + q.Z*r.X - q.X*r.Z,
		Z: q.Z*r.W + q.W*r.Z + q.X*r.Y - q.Y*r.X,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Length returns the quaternion norm.
func (q Quat) Length() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length. A zero quaternion becomes [Identity].
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return Identity
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// FromAxisAngle returns the rotation of angle radians around axis.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(angle / 2)}
}

// fromBasis builds the rotation whose columns are the orthonormal axes x, y, z.
func fromBasis(x, y, z Vec3) Quat {
	m11, m12, m13 := x.X, y.X, z.X
	m21, m22, m23 := x.Y, y.Y, z.Y
	m31, m32, m33 := x.Z, y.Z, z.Z

	trace := m11 + m22 + m33
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quat{(m32 - m23) * s, (m13 - m31) * s, (m21 - m12) * s, 0.25 / s}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		return Quat{0.25 * s, (m12 + m21) / s, (m13 + m31) / s, (m32 - m23) / s}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		return Quat{(m12 + m21) / s, 0.25 * s, (m23 + m32) / s, (m13 - m31) / s}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		return Quat{(m13 + m31) / s, (m23 + m32) / s, 0.25 * s, (m21 - m12) / s}
	}
}

// LookAt returns the orientation of an object at eye whose local +Z axis
// points at target, keeping local +Y as close to up as possible.
//
// If eye and target coincide the orientation is undefined and [Identity] is
// returned. If the view direction is parallel to up, up is nudged so a valid
// basis can still be built.
func LookAt(eye, target, up Vec3) Quat {
	z := target.Sub(eye)
	if z.LengthSq() == 0 {
		return Identity
	}
	z = z.Normalize()
	if up.IsZero() {
		up = UnitY
	}

	x := up.Cross(z)
	if x.LengthSq() == 0 {
		// up and z are parallel; nudge z instead of up so the result stays stable
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return fromBasis(x, y, z).Normalize()
}

// ApproxEqual reports whether q and r describe the same rotation within tol.
// q and -q are treated as equal.
func (q Quat) ApproxEqual(r Quat, tol float64) bool {
	same := math.Abs(q.X-r.X) <= tol && math.Abs(q.Y-r.Y) <= tol &&
		math.Abs(q.Z-r.Z) <= tol && math.Abs(q.W-r.W) <= tol
	neg := math.Abs(q.X+r.X) <= tol && math.Abs(q.Y+r.Y) <= tol &&
		math.Abs(q.Z+r.Z) <= tol && math.Abs(q.W+r.W) <= tol
	return same || neg
}
