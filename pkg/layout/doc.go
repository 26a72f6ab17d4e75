// Package layout computes card positions for the five cardstage arrangements.
//
// # Overview
//
// A layout maps an item index i and a total item count N to a [Target]: the
// position the card should travel to and, for the curved arrangements, the
// orientation it would have if it faced away from the origin. Every generator
// is a pure function of (i, N); nothing here is random or stateful, so a
// [Set] can be computed once when the item count becomes known and reused
// for the lifetime of the scene.
//
// # Modes
//
//   - [Table]: a flat 20-column grid centered on the origin
//   - [Sphere]: an even spiral distribution on a sphere of radius 800
//   - [Helix]: a double helix of radius 750, two items per rung
//   - [Grid]: a 5×4 lattice repeated in slabs of 20 along Z
//   - [Pyramid]: the four triangular faces of a tetrahedron, 45 slots each
//
// Pyramid is the only bounded mode: it places at most [PyramidCapacity]
// items and simply returns a shorter slice for larger counts. Callers treat
// a missing target as "stay where you are".
//
// # Orientation
//
// Sphere, Helix and Pyramid record an outward-facing orientation in
// [Target.Orientation]. The scene currently billboards every card towards
// the camera on each frame, so these orientations are informational; they
// are kept so an alternative renderer can choose to honor them.
//
// # Building a Set
//
//	set := layout.Build(len(cards))
//	table := set[layout.Table]
//
// Restrict the modes with [WithModes]:
//
//	set := layout.Build(n, layout.WithModes(layout.Sphere, layout.Helix))
package layout
