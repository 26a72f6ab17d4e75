package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstage/pkg/cache"
	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/observability"
	"github.com/matzehuels/cardstage/pkg/scene"
	"github.com/matzehuels/cardstage/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → layout → simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	rows, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Cards = card.FromRows(rows)
	result.RowsHash = cache.HashJSON(rows)
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.CardCount = len(result.Cards)
	result.CacheInfo.FetchHit = fetchHit

	r.Logger.Info("fetched cards",
		"source", opts.Source,
		"cards", len(result.Cards),
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	targets, layoutHit, err := r.LayoutsWithCacheInfo(ctx, len(result.Cards), opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layouts",
		"modes", opts.Modes,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Simulate
	simStart := time.Now()
	sim, err := r.Simulate(ctx, result.Cards, targets, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Frame = sim.Frame
	result.Stats.Frames = sim.Frames
	result.Stats.Simulated = sim.Elapsed
	result.Stats.SimulateTime = time.Since(simStart)

	r.Logger.Info("simulated transitions",
		"frames", sim.Frames,
		"virtual", sim.Elapsed,
		"duration", result.Stats.SimulateTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sim.Frame, result.RowsHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo loads rows with caching and returns cache hit info.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) ([][]string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.RowsKey(opts.Source, opts.RowsKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var rows [][]string
		if hit, err := cache.GetJSON(ctx, r.Cache, cacheKey, &rows); err == nil && hit && len(rows) > 0 {
			return rows, true, nil
		}
	}

	src, closeSrc, err := OpenSource(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	defer closeSrc()

	rows, err := source.LoadRows(ctx, src)
	if err != nil {
		return nil, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, cacheKey, rows, cache.TTLRows); err != nil {
		r.Logger.Debug("cache rows", "error", err)
	}
	return rows, false, nil
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) ([][]string, error) {
	rows, _, err := r.FetchWithCacheInfo(ctx, opts)
	return rows, err
}

// Cards fetches rows and converts them to cards.
func (r *Runner) Cards(ctx context.Context, opts Options) ([]card.Card, error) {
	rows, err := r.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return card.FromRows(rows), nil
}

// LayoutsWithCacheInfo computes the targets of n cards for every mode in
// opts and reports whether all of them came from the cache.
func (r *Runner) LayoutsWithCacheInfo(ctx context.Context, n int, opts Options) (layout.Set, bool, error) {
	if err := opts.ValidateForSimulate(); err != nil {
		return nil, false, err
	}
	modes, err := ParseModes(opts.Modes)
	if err != nil {
		return nil, false, err
	}

	set := make(layout.Set, len(modes))
	allHit := true
	for _, m := range modes {
		if _, done := set[m]; done {
			continue
		}
		targets, hit, err := r.LayoutWithCacheInfo(ctx, m, n)
		if err != nil {
			return nil, false, err
		}
		set[m] = targets
		allHit = allHit && hit
	}
	return set, allHit, nil
}

// Layouts is a convenience wrapper that calls LayoutsWithCacheInfo and discards the cache hit info.
func (r *Runner) Layouts(ctx context.Context, n int, opts Options) (layout.Set, error) {
	set, _, err := r.LayoutsWithCacheInfo(ctx, n, opts)
	return set, err
}

// LayoutWithCacheInfo computes one mode's targets with caching.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, mode layout.Mode, n int) ([]layout.Target, bool, error) {
	cacheKey := r.Keyer.LayoutKey(mode.String(), n)

	var cached []layout.Target
	if hit, err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	targets, err := ComputeLayout(ctx, mode, n)
	if err != nil {
		return nil, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, cacheKey, targets, cache.TTLLayout); err != nil {
		r.Logger.Debug("cache layout", "mode", mode, "error", err)
	}
	return targets, false, nil
}

// Simulate runs the scene through every mode in opts. See [Simulate].
func (r *Runner) Simulate(ctx context.Context, cards []card.Card, targets layout.Set, opts Options) (Simulation, error) {
	r.applyLogger(&opts)
	return Simulate(ctx, cards, targets, opts)
}

// RenderWithCacheInfo encodes fr with caching and returns cache hit info.
// rowsHash identifies the card data the frame was simulated from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fr scene.Frame, rowsHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.FrameKey(rowsHash, opts.FrameKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderFrame(fr, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.FrameKey(rowsHash, opts.FrameKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLFrame)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, fr scene.Frame, rowsHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, fr, rowsHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
