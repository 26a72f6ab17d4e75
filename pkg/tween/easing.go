package tween

import (
	"fmt"
	"math"
	"strings"
)

// Easing maps linear progress k in [0, 1] to eased progress.
type Easing func(k float64) float64

// Linear returns k unchanged.
func Linear(k float64) float64 { return k }

// ExponentialInOut accelerates exponentially for the first half and mirrors
// it for the second. Both endpoints are exact.
func ExponentialInOut(k float64) float64 {
	if k <= 0 {
		return 0
	}
	if k >= 1 {
		return 1
	}
	k *= 2
	if k < 1 {
		return 0.5 * math.Pow(1024, k-1)
	}
	return 0.5 * (2 - math.Pow(2, -10*(k-1)))
}

// QuadraticInOut is a gentler in/out curve, mostly useful for camera moves.
func QuadraticInOut(k float64) float64 {
	k *= 2
	if k < 1 {
		return 0.5 * k * k
	}
	k--
	return -0.5 * (k*(k-2) - 1)
}

var easings = map[string]Easing{
	"linear":            Linear,
	"exponential-inout": ExponentialInOut,
	"quadratic-inout":   QuadraticInOut,
}

// ParseEasing looks an easing up by name.
func ParseEasing(name string) (Easing, error) {
	if e, ok := easings[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown easing: %q", name)
}
