package layout

import "github.com/matzehuels/cardstage/pkg/geom"

// Pyramid layout constants. Each face is a triangle of PyramidRows rows where
// row k holds k+1 slots.
const (
	PyramidRadius    = 1000
	PyramidRows      = 9
	PyramidFaceSlots = PyramidRows * (PyramidRows + 1) / 2
	PyramidFaces     = 4
	PyramidCapacity  = PyramidFaces * PyramidFaceSlots
)

// pyramidVertices are the corners of a regular tetrahedron inscribed in the
// cube [-r, r]^3.
var pyramidVertices = [4]geom.Vec3{
	{X: PyramidRadius, Y: PyramidRadius, Z: PyramidRadius},
	{X: PyramidRadius, Y: -PyramidRadius, Z: -PyramidRadius},
	{X: -PyramidRadius, Y: PyramidRadius, Z: -PyramidRadius},
	{X: -PyramidRadius, Y: -PyramidRadius, Z: PyramidRadius},
}

// pyramidFaces lists (apex, base B, base C) vertex indices per face.
var pyramidFaces = [PyramidFaces][3]int{
	{0, 1, 2},
	{0, 2, 3},
	{0, 3, 1},
	{1, 3, 2},
}

// PyramidSlot returns the face, row and column of item i.
// The result is meaningless for i >= PyramidCapacity.
func PyramidSlot(i int) (face, row, col int) {
	face = i / PyramidFaceSlots
	slot := i % PyramidFaceSlots
	for slot > row {
		slot -= row + 1
		row++
	}
	return face, row, slot
}

// pyramidPoint interpolates along the base edge B→C by col/(row+1), then
// from the apex towards that base point by row/PyramidRows.
func pyramidPoint(face, row, col int) geom.Vec3 {
	f := pyramidFaces[face]
	a, b, c := pyramidVertices[f[0]], pyramidVertices[f[1]], pyramidVertices[f[2]]
	base := b.Lerp(c, float64(col)/float64(row+1))
	return a.Lerp(base, float64(row)/PyramidRows)
}

func pyramidTarget(i, _ int) Target {
	p := pyramidPoint(PyramidSlot(i))
	return Target{
		Position:       p,
		Orientation:    geom.LookAt(p, p.Scale(2), geom.UnitY),
		HasOrientation: true,
	}
}
