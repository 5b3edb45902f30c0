package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/estimate/mple"
	"github.com/matzehuels/netergm/pkg/httputil"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/observability"
	"github.com/matzehuels/netergm/pkg/render/nodelink"
	"github.com/matzehuels/netergm/pkg/table"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no per-run state besides the cache, so one Runner can be
// shared by goroutines running different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Opener reads the input tables. NewRunner sets a fetcher that caches
	// downloads in Cache.
	Opener table.Opener
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
		Opener: httputil.NewFetcher(httputil.FetcherOptions{
			Cache: c,
			Keyer: keyer,
			TTL:   cache.TTLHTTP,
		}),
	}
}

// Execute runs load, compare and render in order.
//
// When comparison fails the result is returned with the partial report and
// no plot, together with the error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, stageError("load", err)
	}
	result.Network = g
	result.NetworkHash = cache.Hash(g.Fingerprint())
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Nodes = g.N()
	result.Stats.Ties = g.TieCount()

	// Stage 2: Compare
	if !opts.SkipCompare {
		compareStart := time.Now()
		report, err := r.Compare(ctx, g, opts)
		result.Report = report
		result.Stats.CompareTime = time.Since(compareStart)
		if report != nil {
			for _, res := range report.Results {
				if res.Cached {
					result.CacheInfo.FitHits++
				}
			}
		}
		if err != nil {
			return result, stageError("compare", err)
		}
		opts.Logger.Info("compared models",
			"fitted", len(report.Results),
			"failed", len(report.Failures),
			"cached", result.CacheInfo.FitHits,
			"duration", result.Stats.CompareTime)
	}

	// Stage 3: Render
	if !opts.SkipRender {
		renderStart := time.Now()
		plot, hit, err := r.RenderWithCacheInfo(ctx, g, opts)
		if err != nil {
			return result, stageError("render", err)
		}
		result.Plot = plot
		result.CacheInfo.RenderHit = hit
		result.Stats.RenderTime = time.Since(renderStart)

		opts.Logger.Info("rendered network",
			"format", opts.Format,
			"bytes", len(plot),
			"cached", hit,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load reads both tables and assembles the network.
func (r *Runner) Load(ctx context.Context, opts Options) (*network.Network, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Sources.Adjacency, opts.Sources.Attributes)

	g, err := r.load(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnLoadComplete(ctx, g.N(), g.TieCount(), time.Since(start), nil)

	opts.Logger.Info("loaded network",
		"nodes", g.N(),
		"ties", g.TieCount(),
		"directed", g.Directed(),
		"attributes", len(g.AttributeNames()),
		"duration", time.Since(start))
	return g, nil
}

func (r *Runner) load(ctx context.Context, opts Options) (*network.Network, error) {
	adj, attrs, err := table.Load(ctx, r.Opener, opts.Sources, opts.Schema)
	if err != nil {
		return nil, err
	}
	return network.Assemble(adj, attrs, opts.Network)
}

// Compare fits every model in opts on g with maximum pseudo-likelihood.
func (r *Runner) Compare(ctx context.Context, g *network.Network, opts Options) (*compare.Report, error) {
	r.applyLogger(&opts)
	if opts.FitTTL <= 0 {
		opts.FitTTL = cache.TTLFit
	}

	cmp := compare.New(mple.New(opts.Estimator), r.Cache, r.Keyer, opts.Logger, opts.CompareOptions())
	report, err := cmp.Compare(ctx, g, opts.Models)
	if report != nil {
		report.Name = opts.Name
	}
	return report, err
}

// RenderWithCacheInfo draws g and reports whether the plot came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *network.Network, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ArtifactKey(cache.Hash(g.Fingerprint()), opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(opts.Format))
	plot, err := r.render(ctx, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, string(opts.Format), len(plot), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, plot, cache.TTLArtifact); err != nil {
		opts.Logger.Warn("could not cache plot", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(plot))
	}
	return plot, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *network.Network, opts Options) ([]byte, error) {
	plot, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return plot, err
}

func (r *Runner) render(ctx context.Context, g *network.Network, opts Options) ([]byte, error) {
	dot, err := nodelink.ToDOT(g, opts.Plot)
	if err != nil {
		return nil, err
	}
	return nodelink.Render(ctx, dot, opts.Format)
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
