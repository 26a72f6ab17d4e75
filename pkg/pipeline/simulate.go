package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/scene"
	"github.com/matzehuels/cardstage/pkg/tween"
)

// simulationEpoch is the virtual start time, fixed so identical runs
// produce identical frames.
var simulationEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Simulation is the outcome of [Simulate].
type Simulation struct {
	Frame   scene.Frame   // settled frame in the last mode
	Frames  int           // frames drawn while animating
	Elapsed time.Duration // virtual time covered
}

// Simulate builds a scene for cards on a virtual clock and plays each mode
// of opts in order, advancing frame by frame until every transition has
// finished. targets may be nil.
func Simulate(ctx context.Context, cards []card.Card, targets layout.Set, opts Options) (Simulation, error) {
	if err := opts.ValidateForSimulate(); err != nil {
		return Simulation{}, err
	}
	modes, err := ParseModes(opts.Modes)
	if err != nil {
		return Simulation{}, err
	}
	easing, err := tween.ParseEasing(opts.Easing)
	if err != nil {
		return Simulation{}, err
	}

	clk := tween.NewManualClock(simulationEpoch)
	rec := &scene.Recorder{}
	s := scene.New(cards,
		scene.WithClock(clk),
		scene.WithSeed(opts.Seed),
		scene.WithRenderer(rec),
		scene.WithSize(opts.Width, opts.Height),
		scene.WithBaseDuration(opts.BaseDuration()),
		scene.WithEasing(easing),
		scene.WithLogger(opts.Logger),
		scene.WithTargets(targets),
		scene.WithInitialMode(modes[0]),
	)

	frame := opts.FrameInterval()
	frames, err := s.Settle(ctx, clk, frame)
	if err != nil {
		return Simulation{}, err
	}
	opts.Logger.Debug("settled", "mode", modes[0], "frames", frames)

	for _, m := range modes[1:] {
		if err := s.TransitionTo(m); err != nil {
			return Simulation{}, err
		}
		n, err := s.Settle(ctx, clk, frame)
		if err != nil {
			return Simulation{}, err
		}
		frames += n
		opts.Logger.Debug("settled", "mode", m, "frames", n)
	}

	s.Render()
	return Simulation{
		Frame:   rec.Last,
		Frames:  frames,
		Elapsed: clk.Now().Sub(simulationEpoch),
	}, nil
}
