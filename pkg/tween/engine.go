package tween

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/layout"
)

// Engine runs position transitions for a fixed set of items.
// It is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	clock    Clock
	rng      *rand.Rand
	easing   Easing
	repaint  func()
	complete func(elapsed time.Duration)

	anims  []*Animation
	driver *Driver
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the duration jitter so transitions are reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithRand uses r for duration jitter.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithEasing replaces the default ExponentialInOut curve.
func WithEasing(ease Easing) Option {
	return func(e *Engine) {
		if ease != nil {
			e.easing = ease
		}
	}
}

// WithRepaint sets the callback the driver invokes on every update.
func WithRepaint(fn func()) Option {
	return func(e *Engine) { e.repaint = fn }
}

// WithOnComplete sets a callback invoked once when the driver expires.
func WithOnComplete(fn func(elapsed time.Duration)) Option {
	return func(e *Engine) { e.complete = fn }
}

// New creates an engine reading time from clock (SystemClock when nil).
func New(clock Clock, opts ...Option) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	e := &Engine{
		clock:  clock,
		easing: ExponentialInOut,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock { return e.clock }

// TransitionTo sends every item that has a target towards it, replacing any
// transition still in flight. current holds each item's position right now;
// targets may be shorter than current, in which case the extra items are
// left alone. Each item takes a random duration in [base, 2·base), and a
// driver keeps repainting for 2·base. It returns the number of items
// animated.
func (e *Engine) TransitionTo(current []geom.Vec3, targets []layout.Target, base time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.anims = e.anims[:0]
	e.driver = nil

	now := e.clock.Now()
	n := min(len(current), len(targets))
	for i := 0; i < n; i++ {
		e.anims = append(e.anims, &Animation{
			Index:     i,
			From:      current[i],
			To:        targets[i].Position,
			StartTime: now,
			Duration:  e.jitter(base),
			Easing:    e.easing,
		})
	}
	e.driver = &Driver{StartTime: now, Duration: 2 * base}
	return n
}

func (e *Engine) jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return base + time.Duration(e.rng.Float64()*float64(base))
}

// Update advances every animation to the clock's current time, writing into
// positions. Finished animations land exactly on their target and are
// dropped. While the driver is live, including the update on which it
// expires, the repaint callback runs once. Update reports whether anything
// is still running afterwards.
func (e *Engine) Update(positions []geom.Vec3) bool {
	e.mu.Lock()
	now := e.clock.Now()

	live := e.anims[:0]
	for _, a := range e.anims {
		if a.Index < len(positions) {
			positions[a.Index] = a.Value(now)
		}
		if !a.Done(now) {
			live = append(live, a)
		}
	}
	clear(e.anims[len(live):])
	e.anims = live

	repaint := false
	var elapsed time.Duration
	finished := false
	if e.driver != nil {
		repaint = true
		if e.driver.Done(now) {
			elapsed = now.Sub(e.driver.StartTime)
			finished = true
			e.driver = nil
		}
	}
	running := len(e.anims) > 0 || e.driver != nil
	e.mu.Unlock()

	if repaint && e.repaint != nil {
		e.repaint()
	}
	if finished && e.complete != nil {
		e.complete(elapsed)
	}
	return running
}

// Active returns the number of item animations in flight.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.anims)
}

// Running reports whether any animation or the driver is still live.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.anims) > 0 || e.driver != nil
}

// Deadline returns when the current driver expires, or false when idle.
func (e *Engine) Deadline() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.driver == nil {
		return time.Time{}, false
	}
	return e.driver.End(), true
}

// Reset drops every animation and the driver without touching positions.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.anims = nil
	e.driver = nil
}
