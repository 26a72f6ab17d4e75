// Package geom provides the small amount of 3D math cardstage needs.
//
// Vectors and quaternions are float64 value types; every operation returns a
// new value. Coordinate helpers follow a right-handed, Y-up world:
//
//   - [Spherical] maps (radius, polar angle phi from +Y, azimuth theta) to a point
//   - [Cylindrical] maps (radius, azimuth theta, height y) to a point
//   - [LookAt] builds the orientation whose local +Z axis faces a target
//
// The azimuth is measured from +Z towards +X in both helpers, so a layout
// computed with one convention lines up with the other.
package geom
