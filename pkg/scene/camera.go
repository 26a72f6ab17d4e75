package scene

import (
	"math"

	"github.com/matzehuels/cardstage/pkg/geom"
)

// Camera defaults.
const (
	DefaultFOV      = 40
	DefaultNear     = 1
	DefaultFar      = 10000
	DefaultDistance = 3000
	DefaultWidth    = 1280
	DefaultHeight   = 800
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position geom.Vec3 `json:"position"`
	Target   geom.Vec3 `json:"target"`
	Up       geom.Vec3 `json:"up"`
	FOV      float64   `json:"fov"` // vertical, degrees
	Aspect   float64   `json:"aspect"`
	Near     float64   `json:"near"`
	Far      float64   `json:"far"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

// NewCamera returns the default camera for a w×h viewport: 40° field of
// view, near 1, far 10000, placed at z=3000 looking at the origin.
func NewCamera(w, h int) *Camera {
	c := &Camera{
		Position: geom.Vec3{Z: DefaultDistance},
		Up:       geom.UnitY,
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
	c.SetSize(w, h)
	return c
}

// SetSize updates the viewport and aspect ratio. Non-positive sizes fall
// back to the defaults.
func (c *Camera) SetSize(w, h int) {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	c.Width, c.Height = w, h
	c.Aspect = float64(w) / float64(h)
}

// Orientation returns the camera rotation: local -Z looks at Target.
func (c *Camera) Orientation() geom.Quat {
	return geom.LookAt(c.Target, c.Position, c.Up)
}

// basis returns the right, up and forward unit vectors of the view.
func (c *Camera) basis() (right, up, forward geom.Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	if forward.IsZero() {
		forward = geom.Vec3{Z: -1}
	}
	worldUp := c.Up
	if worldUp.IsZero() {
		worldUp = geom.UnitY
	}
	right = forward.Cross(worldUp).Normalize()
	if right.IsZero() {
		right = geom.UnitX
	}
	up = right.Cross(forward)
	return right, up, forward
}

// focal returns the distance in pixels from the eye to the image plane.
func (c *Camera) focal() float64 {
	return float64(c.Height) / 2 / math.Tan(c.FOV*math.Pi/360)
}

// Projection is a point projected into viewport pixels.
type Projection struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Depth float64 `json:"depth"` // distance along the view axis
	Scale float64 `json:"scale"` // pixels per world unit at Depth
}

// Project maps a world point to viewport pixels with the origin at the
// top-left corner. It reports false for points outside the near/far range.
func (c *Camera) Project(p geom.Vec3) (Projection, bool) {
	right, up, forward := c.basis()
	rel := p.Sub(c.Position)
	depth := rel.Dot(forward)
	if depth < c.Near || depth > c.Far {
		return Projection{Depth: depth}, false
	}
	scale := c.focal() / depth
	return Projection{
		X:     float64(c.Width)/2 + rel.Dot(right)*scale,
		Y:     float64(c.Height)/2 - rel.Dot(up)*scale,
		Depth: depth,
		Scale: scale,
	}, true
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 { return c.Position.DistanceTo(c.Target) }
