package scene

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/geom"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/observability"
	"github.com/matzehuels/cardstage/pkg/tween"
)

// DefaultBaseDuration is the base transition duration used by mode switches.
const DefaultBaseDuration = 2000 * time.Millisecond

// ScatterExtent bounds the random starting positions: each coordinate is
// drawn from [-ScatterExtent, ScatterExtent).
const ScatterExtent = 2000

// Scene holds the cards, their precomputed layout targets, the camera and
// the transition engine.
type Scene struct {
	mu sync.Mutex

	items     []Item
	positions []geom.Vec3
	targets   layout.Set
	mode      layout.Mode

	camera   *Camera
	controls *Controls
	engine   *tween.Engine
	clock    tween.Clock
	renderer Renderer
	logger   *log.Logger
	base     time.Duration
	rng      *rand.Rand

	seq      uint64
	rendered bool
	started  time.Time
}

// Option configures a Scene.
type Option func(*config)

type config struct {
	clock    tween.Clock
	seed     *uint64
	renderer Renderer
	width    int
	height   int
	base     time.Duration
	logger   *log.Logger
	initial  layout.Mode
	easing   tween.Easing
	targets  layout.Set
}

// WithClock sets the animation clock (tween.SystemClock by default).
func WithClock(c tween.Clock) Option { return func(cfg *config) { cfg.clock = c } }

// WithSeed makes the initial scatter and the per-item durations reproducible.
func WithSeed(seed uint64) Option { return func(cfg *config) { cfg.seed = &seed } }

// WithRenderer sets where frames are drawn.
func WithRenderer(r Renderer) Option { return func(cfg *config) { cfg.renderer = r } }

// WithSize sets the initial viewport.
func WithSize(w, h int) Option {
	return func(cfg *config) { cfg.width, cfg.height = w, h }
}

// WithBaseDuration sets the base duration used by TransitionTo.
func WithBaseDuration(d time.Duration) Option { return func(cfg *config) { cfg.base = d } }

// WithLogger sets the logger used for non-fatal render failures.
func WithLogger(l *log.Logger) Option { return func(cfg *config) { cfg.logger = l } }

// WithInitialMode sets the layout the scene animates to on creation.
func WithInitialMode(m layout.Mode) Option { return func(cfg *config) { cfg.initial = m } }

// WithEasing overrides the transition easing curve.
func WithEasing(e tween.Easing) Option { return func(cfg *config) { cfg.easing = e } }

// WithTargets supplies precomputed layout targets, typically loaded from a
// cache. Modes whose slice does not match the card count are regenerated.
func WithTargets(set layout.Set) Option { return func(cfg *config) { cfg.targets = set } }

// New builds a scene for cards and starts the initial transition.
func New(cards []card.Card, opts ...Option) *Scene {
	cfg := config{
		base:    DefaultBaseDuration,
		initial: layout.Table,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = tween.SystemClock{}
	}
	if cfg.renderer == nil {
		cfg.renderer = discardRenderer{}
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if !cfg.initial.Valid() {
		cfg.initial = layout.Table
	}

	var rng *rand.Rand
	if cfg.seed != nil {
		rng = rand.New(rand.NewPCG(*cfg.seed, *cfg.seed^0xdeadbeef))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	targets := layout.Build(len(cards))
	for m, t := range cfg.targets {
		if want, ok := targets[m]; ok && len(want) == len(t) {
			targets[m] = t
		}
	}

	s := &Scene{
		items:     make([]Item, len(cards)),
		positions: make([]geom.Vec3, len(cards)),
		targets:   targets,
		camera:    NewCamera(cfg.width, cfg.height),
		clock:     cfg.clock,
		renderer:  cfg.renderer,
		logger:    cfg.logger,
		base:      cfg.base,
		rng:       rng,
	}
	s.controls = NewControls(s.camera)

	for i, c := range cards {
		p := geom.Vec3{
			X: rng.Float64()*2*ScatterExtent - ScatterExtent,
			Y: rng.Float64()*2*ScatterExtent - ScatterExtent,
			Z: rng.Float64()*2*ScatterExtent - ScatterExtent,
		}
		s.items[i] = Item{Index: i, Card: c, Position: p, Orientation: geom.Identity}
		s.positions[i] = p
	}

	engineOpts := []tween.Option{
		tween.WithRand(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))),
		tween.WithRepaint(s.renderLocked),
		tween.WithOnComplete(s.transitionComplete),
	}
	if cfg.easing != nil {
		engineOpts = append(engineOpts, tween.WithEasing(cfg.easing))
	}
	s.engine = tween.New(cfg.clock, engineOpts...)

	s.mu.Lock()
	s.transitionLocked(cfg.initial, s.base)
	s.mu.Unlock()
	return s
}

// TransitionTo animates every card to mode using the scene's base duration.
func (s *Scene) TransitionTo(mode layout.Mode) error {
	return s.TransitionToWithDuration(mode, s.base)
}

// TransitionToWithDuration animates every card to mode with base duration d.
// Starting a transition abandons any transition in flight.
func (s *Scene) TransitionToWithDuration(mode layout.Mode, d time.Duration) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown layout mode: %d", int(mode))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitionLocked(mode, d)
	return nil
}

func (s *Scene) transitionLocked(mode layout.Mode, d time.Duration) {
	s.mode = mode
	s.started = s.clock.Now()
	n := s.engine.TransitionTo(s.positions, s.targets[mode], d)
	s.logger.Debug("transition", "mode", mode, "items", n, "base", d)
	observability.Transition().OnTransitionStart(mode.String(), n, d)
}

func (s *Scene) transitionComplete(elapsed time.Duration) {
	s.logger.Debug("transition complete", "mode", s.mode, "elapsed", elapsed)
	observability.Transition().OnTransitionComplete(s.mode.String(), elapsed)
}

// Tick runs one frame: advance the transition, apply control inertia and
// draw. The transition driver and a camera change may each draw
// immediately; a frame in which neither did is still drawn once.
func (s *Scene) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rendered = false
	s.engine.Update(s.positions)
	for i := range s.items {
		s.items[i].Position = s.positions[i]
	}
	if s.controls.Update() {
		s.renderLocked()
	}
	if !s.rendered {
		s.renderLocked()
	}
}

// Render billboards every card and draws one frame.
func (s *Scene) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderLocked()
}

func (s *Scene) renderLocked() {
	for i := range s.items {
		s.items[i].Position = s.positions[i]
		s.items[i].Orientation = geom.LookAt(s.items[i].Position, s.camera.Position, s.camera.Up)
	}
	s.seq++
	s.rendered = true

	fr := Frame{
		Seq:       s.seq,
		Time:      s.clock.Now(),
		Width:     s.camera.Width,
		Height:    s.camera.Height,
		Camera:    *s.camera,
		Mode:      s.mode,
		Animating: s.engine.Running(),
		Items:     make([]Item, len(s.items)),
	}
	copy(fr.Items, s.items)
	if err := s.renderer.Render(fr); err != nil {
		s.logger.Error("render failed", "seq", fr.Seq, "err", err)
	}
}

// Resize updates the viewport and draws once.
func (s *Scene) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.SetSize(w, h)
	s.renderLocked()
}

// Rotate orbits the camera by a drag of (dx, dy) pixels and draws once.
func (s *Scene) Rotate(dx, dy float64) { s.control(func(c *Controls) { c.Rotate(dx, dy) }) }

// Pan moves the camera by a drag of (dx, dy) pixels and draws once.
func (s *Scene) Pan(dx, dy float64) { s.control(func(c *Controls) { c.Pan(dx, dy) }) }

// Zoom scales the camera distance by factor and draws once.
func (s *Scene) Zoom(factor float64) { s.control(func(c *Controls) { c.Zoom(factor) }) }

func (s *Scene) control(fn func(*Controls)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.controls)
	if s.controls.Update() {
		s.renderLocked()
	}
}

// Items returns a copy of the cards with their current placement.
func (s *Scene) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	for i := range out {
		out[i].Position = s.positions[i]
	}
	return out
}

// Targets returns the precomputed targets for mode.
func (s *Scene) Targets(mode layout.Mode) []layout.Target {
	return s.targets[mode]
}

// Mode returns the most recently selected layout.
func (s *Scene) Mode() layout.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Animating reports whether a transition is still running.
func (s *Scene) Animating() bool { return s.engine.Running() }

// Camera returns a copy of the camera.
func (s *Scene) Camera() Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.camera
}

// Len returns the number of cards.
func (s *Scene) Len() int { return len(s.items) }

// BaseDuration returns the base duration used by TransitionTo.
func (s *Scene) BaseDuration() time.Duration { return s.base }

// settleCheckEvery is how many frames Settle draws between context checks.
const settleCheckEvery = 64

// Settle advances a manual clock frame by frame until the current
// transition finishes, returning the number of frames drawn. It is meant
// for headless rendering and tests. It stops early with ctx's error once
// ctx is done.
func (s *Scene) Settle(ctx context.Context, clk *tween.ManualClock, frame time.Duration) (int, error) {
	if frame <= 0 {
		frame = time.Second / 60
	}
	frames := 0
	for s.Animating() {
		if frames%settleCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return frames, err
			}
		}
		clk.Advance(frame)
		s.Tick()
		frames++
	}
	return frames, nil
}
