package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstage/pkg/observability"
)

// logHooks reports pipeline, transition and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks   = logHooks{}
	_ observability.TransitionHooks = logHooks{}
	_ observability.HTTPHooks       = logHooks{}
)

// RegisterDebugHooks routes observability events to the CLI logger.
func (c *CLI) RegisterDebugHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetTransitionHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnFetchStart(_ context.Context, source string) {
	h.logger.Debug("fetch started", "source", source)
}

func (h logHooks) OnFetchComplete(_ context.Context, source string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "source", source, "error", err, "duration", d)
		return
	}
	h.logger.Debug("fetch complete", "source", source, "rows", rows, "duration", d)
}

func (h logHooks) OnLayoutStart(_ context.Context, mode string, items int) {
	h.logger.Debug("layout started", "mode", mode, "items", items)
}

func (h logHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	h.logger.Debug("layout complete", "mode", mode, "duration", d, "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnTransitionStart(mode string, items int, base time.Duration) {
	h.logger.Debug("transition", "mode", mode, "items", items, "base", base)
}

func (h logHooks) OnTransitionComplete(mode string, elapsed time.Duration) {
	h.logger.Debug("transition complete", "mode", mode, "elapsed", elapsed)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
