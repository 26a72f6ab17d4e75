package scene

import (
	"math"

	"github.com/matzehuels/cardstage/pkg/geom"
)

// Orbit control defaults.
const (
	DefaultDamping     = 0.05
	DefaultMinDistance = 500
	DefaultMaxDistance = 6000
)

// minPolar keeps the camera off the poles so the up vector stays valid.
const minPolar = 1e-6

// Controls orbits a camera around its target. Rotate, Pan and Zoom queue
// deltas; Update applies them with damped inertia, so a single gesture keeps
// the camera drifting for a few frames after it ends.
type Controls struct {
	Camera      *Camera
	Damping     float64
	MinDistance float64
	MaxDistance float64

	deltaTheta float64
	deltaPhi   float64
	panOffset  geom.Vec3
	scale      float64
}

// NewControls attaches orbit controls to cam.
func NewControls(cam *Camera) *Controls {
	return &Controls{
		Camera:      cam,
		Damping:     DefaultDamping,
		MinDistance: DefaultMinDistance,
		MaxDistance: DefaultMaxDistance,
		scale:       1,
	}
}

// Rotate queues an orbit by a drag of (dx, dy) pixels. A drag across the
// full viewport height turns the camera once around the target.
func (c *Controls) Rotate(dx, dy float64) {
	h := float64(c.Camera.Height)
	c.deltaTheta -= 2 * math.Pi * dx / h
	c.deltaPhi -= 2 * math.Pi * dy / h
}

// Pan queues a translation of camera and target by a drag of (dx, dy)
// pixels, scaled so the point under the cursor follows it at the target's
// depth.
func (c *Controls) Pan(dx, dy float64) {
	right, up, _ := c.Camera.basis()
	dist := c.Camera.Distance() * math.Tan(c.Camera.FOV*math.Pi/360)
	h := float64(c.Camera.Height)
	move := right.Scale(-2 * dx * dist / h).Add(up.Scale(2 * dy * dist / h))
	c.panOffset = c.panOffset.Add(move)
}

// Zoom queues a change of distance by factor: values below 1 move closer.
func (c *Controls) Zoom(factor float64) {
	if factor > 0 {
		c.scale *= factor
	}
}

// Update applies pending deltas and reports whether the camera moved.
func (c *Controls) Update() bool {
	cam := c.Camera
	offset := cam.Position.Sub(cam.Target)

	radius := offset.Length()
	theta := math.Atan2(offset.X, offset.Z)
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(clamp(offset.Y/radius, -1, 1))
	}

	damping := c.Damping
	if damping <= 0 || damping > 1 {
		damping = 1
	}

	theta += c.deltaTheta * damping
	phi = clamp(phi+c.deltaPhi*damping, minPolar, math.Pi-minPolar)
	radius = clamp(radius*c.scale, c.MinDistance, c.MaxDistance)

	target := cam.Target.Add(c.panOffset.Scale(damping))
	position := target.Add(geom.Spherical(radius, phi, theta))

	c.deltaTheta *= 1 - damping
	c.deltaPhi *= 1 - damping
	c.panOffset = c.panOffset.Scale(1 - damping)
	c.scale = 1

	changed := position.Sub(cam.Position).LengthSq() > 1e-6 ||
		target.Sub(cam.Target).LengthSq() > 1e-6
	cam.Position = position
	cam.Target = target
	return changed
}

// Idle reports whether no inertia remains.
func (c *Controls) Idle() bool {
	return math.Abs(c.deltaTheta) < 1e-9 && math.Abs(c.deltaPhi) < 1e-9 && c.panOffset.LengthSq() < 1e-12
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
