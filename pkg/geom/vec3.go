package geom

import "math"

// Epsilon is the tolerance used by the approximate comparisons in this package.
const Epsilon = 1e-9

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Common axes.
var (
	Zero  = Vec3{}
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a * s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns the dot product of a and b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LengthSq returns the squared Euclidean length.
func (a Vec3) LengthSq() float64 { return a.Dot(a) }

// Length returns the Euclidean length.
func (a Vec3) Length() float64 { return math.Sqrt(a.LengthSq()) }

// DistanceTo returns the Euclidean distance between a and b.
func (a Vec3) DistanceTo(b Vec3) float64 { return a.Sub(b).Length() }

// Normalize returns a unit vector in the direction of a.
// The zero vector normalizes to itself.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Lerp linearly interpolates from a to b by t. t is not clamped.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// ApproxEqual reports whether every component of a and b differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// IsZero reports whether a is exactly the zero vector.
func (a Vec3) IsZero() bool { return a == Vec3{} }
