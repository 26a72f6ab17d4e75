package tween

import (
	"time"

	"github.com/matzehuels/cardstage/pkg/geom"
)

// Animation moves one item's position from From to To.
type Animation struct {
	Index     int
	From      geom.Vec3
	To        geom.Vec3
	StartTime time.Time
	Duration  time.Duration
	Easing    Easing
}

// Progress returns the linear fraction of the animation elapsed at now,
// clamped to [0, 1]. A non-positive duration is complete immediately.
func (a *Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	k := float64(now.Sub(a.StartTime)) / float64(a.Duration)
	return min(max(k, 0), 1)
}

// Value returns the eased position at now.
func (a *Animation) Value(now time.Time) geom.Vec3 {
	k := a.Progress(now)
	if k >= 1 {
		return a.To
	}
	ease := a.Easing
	if ease == nil {
		ease = ExponentialInOut
	}
	return a.From.Lerp(a.To, ease(k))
}

// Done reports whether the animation has reached its end at now.
func (a *Animation) Done(now time.Time) bool { return a.Progress(now) >= 1 }

// Driver is a payload-less animation whose only job is to keep the scene
// repainting for the length of a transition.
type Driver struct {
	StartTime time.Time
	Duration  time.Duration
}

// End returns when the driver expires.
func (d Driver) End() time.Time { return d.StartTime.Add(d.Duration) }

// Done reports whether the driver has expired at now.
func (d Driver) Done(now time.Time) bool { return !now.Before(d.End()) }
