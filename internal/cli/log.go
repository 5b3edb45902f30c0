// Package cli implements the netergm command-line interface.
//
// Every analysis command reads a TOML project file (netergm.toml by
// default) that names the input tables, attribute kinds and the competing
// model specifications.
//
// # Commands
//
// The main commands are:
//   - fit: Estimate every model and rank them by AIC or BIC
//   - inspect: Summarize the network and the observed term statistics
//   - render: Draw the network as SVG, PNG or DOT
//   - report: Print a saved JSON report
//   - cache: Manage the fit and download cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. In verbose
// mode the library observability hooks are routed to the same logger so
// cache hits, downloads and individual fits are traced.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netergm/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Fitted 3 models (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Trace Hooks
// =============================================================================

// traceHooks logs library events at debug level.
type traceHooks struct {
	logger *log.Logger
}

func registerTraceHooks(l *log.Logger) {
	h := traceHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetFitHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h traceHooks) OnLoadStart(_ context.Context, adjacency, attributes string) {
	h.logger.Debug("loading tables", "adjacency", adjacency, "attributes", attributes)
}

func (h traceHooks) OnLoadComplete(_ context.Context, nodes, ties int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("tables loaded", "nodes", nodes, "ties", ties, "duration", d)
}

func (h traceHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("rendering", "format", format)
}

func (h traceHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "bytes", size, "duration", d)
}

func (h traceHooks) OnFitStart(_ context.Context, model string, params int) {
	h.logger.Debug("fitting", "model", model, "params", params)
}

func (h traceHooks) OnFitComplete(_ context.Context, model string, logLik float64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fit failed", "model", model, "error", err)
		return
	}
	h.logger.Debug("fitted", "model", model, "loglik", logLik, "duration", d)
}

func (h traceHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h traceHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h traceHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h traceHooks) OnRequest(_ context.Context, url string, attempt int) {
	h.logger.Debug("http request", "url", url, "attempt", attempt)
}

func (h traceHooks) OnResponse(_ context.Context, url string, status int, d time.Duration) {
	h.logger.Debug("http response", "url", url, "status", status, "duration", d)
}

func (h traceHooks) OnError(_ context.Context, url string, err error) {
	h.logger.Debug("http error", "url", url, "error", err)
}
