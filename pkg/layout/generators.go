package layout

import (
	"math"

	"github.com/matzehuels/cardstage/pkg/geom"
)

// Table layout constants.
const (
	TableColumns = 20
	tableColStep = 140
	tableRowStep = 180
	tableOffsetX = 1330
	tableOffsetY = 990
)

// Sphere layout constants.
const SphereRadius = 800

// Helix layout constants.
const (
	HelixRadius  = 750
	helixSpacing = 35
	helixTwist   = 0.25
	helixTop     = 800
)

// Grid layout constants.
const (
	gridCols    = 5
	gridRows    = 4
	gridStep    = 400
	gridSlab    = gridCols * gridRows
	gridDepth   = 1000
	gridOffsetX = 800
	gridOffsetY = 800
	gridOffsetZ = 2000
)

func tableTarget(i, _ int) Target {
	col := i % TableColumns
	row := i / TableColumns
	return Target{
		Position: geom.Vec3{
			X: float64(col*tableColStep - tableOffsetX),
			Y: float64(-row*tableRowStep + tableOffsetY),
		},
		Orientation: geom.Identity,
	}
}

func sphereTarget(i, n int) Target {
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi) * phi
	p := geom.Spherical(SphereRadius, phi, theta)
	return Target{
		Position:       p,
		Orientation:    geom.LookAt(p, p.Scale(2), geom.UnitY),
		HasOrientation: true,
	}
}

func helixTarget(i, _ int) Target {
	row := i / 2
	strand := i % 2
	theta := float64(row)*helixTwist + float64(strand)*math.Pi
	y := float64(-row*helixSpacing + helixTop)
	p := geom.Cylindrical(HelixRadius, theta, y)
	return Target{
		Position:       p,
		Orientation:    geom.LookAt(p, geom.Vec3{X: p.X * 2, Y: p.Y, Z: p.Z * 2}, geom.UnitY),
		HasOrientation: true,
	}
}

func gridTarget(i, _ int) Target {
	return Target{
		Position: geom.Vec3{
			X: float64((i%gridCols)*gridStep - gridOffsetX),
			Y: float64(-((i/gridCols)%gridRows)*gridStep + gridOffsetY),
			Z: float64((i/gridSlab)*gridDepth - gridOffsetZ),
		},
		Orientation: geom.Identity,
	}
}
