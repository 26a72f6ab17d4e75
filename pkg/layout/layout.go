package layout

import (
	"fmt"

	"github.com/matzehuels/cardstage/pkg/geom"
)

// Unbounded is the capacity reported for modes that place any number of items.
const Unbounded = -1

// Target is the destination of a single item under one layout mode.
type Target struct {
	Position    geom.Vec3 `json:"position"`
	Orientation geom.Quat `json:"orientation"`
	// HasOrientation is false for flat modes (Table, Grid) that impose none.
	HasOrientation bool `json:"has_orientation,omitempty"`
}

// Set holds the precomputed targets for each mode.
type Set map[Mode][]Target

// Count returns the item count the set was built for: the longest target
// slice it holds.
func (s Set) Count() int {
	n := 0
	for _, t := range s {
		n = max(n, len(t))
	}
	return n
}

// generator computes the target for item i of n.
type generator func(i, n int) Target

var generators = map[Mode]generator{
	Table:   tableTarget,
	Sphere:  sphereTarget,
	Helix:   helixTarget,
	Grid:    gridTarget,
	Pyramid: pyramidTarget,
}

// Capacity returns how many items mode can place, or [Unbounded].
func Capacity(mode Mode) int {
	if mode == Pyramid {
		return PyramidCapacity
	}
	return Unbounded
}

// Generate computes the targets for n items under mode.
// Bounded modes return min(n, Capacity(mode)) targets.
func Generate(mode Mode, n int) ([]Target, error) {
	gen, ok := generators[mode]
	if !ok {
		return nil, fmt.Errorf("unknown layout mode: %d", int(mode))
	}
	if n < 0 {
		return nil, fmt.Errorf("item count must be non-negative, got %d", n)
	}

	count := n
	if c := Capacity(mode); c != Unbounded {
		count = min(n, c)
	}

	targets := make([]Target, count)
	for i := range targets {
		targets[i] = gen(i, n)
	}
	return targets, nil
}

// Option configures [Build].
type Option func(*config)

type config struct {
	modes []Mode
}

// WithModes restricts Build to the given modes. Unknown modes are ignored.
func WithModes(modes ...Mode) Option {
	return func(c *config) { c.modes = modes }
}

// Build computes a [Set] for n items covering every mode (or those selected
// with [WithModes]). Negative counts produce empty slices.
func Build(n int, opts ...Option) Set {
	cfg := config{modes: Modes()}
	for _, opt := range opts {
		opt(&cfg)
	}

	n = max(n, 0)
	set := make(Set, len(cfg.modes))
	for _, m := range cfg.modes {
		targets, err := Generate(m, n)
		if err != nil {
			continue
		}
		set[m] = targets
	}
	return set
}
