package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/observability"
)

// ComputeLayout generates the targets of n cards for one mode, reporting to
// the pipeline hooks.
func ComputeLayout(ctx context.Context, mode layout.Mode, n int) ([]layout.Target, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, mode.String(), n)
	start := time.Now()

	targets, err := layout.Generate(mode, n)

	hooks.OnLayoutComplete(ctx, mode.String(), time.Since(start), err)
	return targets, err
}
