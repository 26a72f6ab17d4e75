package geom

import "math"

// Spherical returns the point at the given radius, polar angle phi (measured
// from +Y) and azimuth theta (measured from +Z towards +X).
func Spherical(radius, phi, theta float64) Vec3 {
	sinPhi := math.Sin(phi) * radius
	return Vec3{
		X: sinPhi * math.Sin(theta),
		Y: math.Cos(phi) * radius,
		Z: sinPhi * math.Cos(theta),
	}
}

// Cylindrical returns the point at the given radius and azimuth theta
// (measured from +Z towards +X) at height y.
func Cylindrical(radius, theta, y float64) Vec3 {
	return Vec3{
		X: radius * math.Sin(theta),
		Y: y,
		Z: radius * math.Cos(theta),
	}
}
