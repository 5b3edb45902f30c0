// Package pipeline runs a complete network analysis.
//
// The pipeline has three stages:
//
//  1. Load: read the adjacency and attribute tables and assemble the network
//  2. Compare: fit every model specification and rank them
//  3. Render: draw the network as a node-link diagram
//
// Each stage can be run on its own through a [Runner] or as part of
// [Runner.Execute]. Fits and plots are cached by the content of the network,
// so rerunning an unchanged project only estimates models that changed.
//
// # Usage
//
//	cfg, err := config.Load("netergm.toml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.FromConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	best, _ := result.Report.Best(compare.AIC)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/config"
	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/estimate/mple"
	"github.com/matzehuels/netergm/pkg/model"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/render"
	"github.com/matzehuels/netergm/pkg/render/nodelink"
	"github.com/matzehuels/netergm/pkg/table"
)

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Name labels the report.
	Name string

	// Load options
	Sources table.Sources
	Schema  table.Schema
	Network network.Options

	// Compare options
	Models    []model.Specification
	Estimator mple.Options
	KeepGoing bool
	Refresh   bool
	FitTTL    time.Duration

	// Render options
	Format render.Format
	Plot   nodelink.Options

	SkipCompare bool
	SkipRender  bool

	Logger *log.Logger

	validated bool
}

// FromConfig converts a loaded project file to pipeline options.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Name:      cfg.Name,
		Sources:   cfg.Sources(),
		Schema:    cfg.Schema(),
		Network:   cfg.NetworkOptions(),
		Models:    cfg.Specifications(),
		Estimator: cfg.EstimatorOptions(),
		KeepGoing: cfg.Estimator.KeepGoing,
		Format:    render.Format(cfg.Render.Format),
		Plot: nodelink.Options{
			Label:  cfg.Render.Label,
			Size:   cfg.Render.Size,
			Color:  cfg.Render.Color,
			Layout: cfg.Render.Layout,
		},
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if !o.SkipCompare {
		if len(o.Models) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "at least one model is required")
		}
		if o.FitTTL <= 0 {
			o.FitTTL = cache.TTLFit
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Name == "" {
		o.Name = "netergm"
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load stage settings.
func (o *Options) ValidateForLoad() error {
	if o.Sources.Adjacency == "" {
		return errors.New(errors.ErrCodeInvalidInput, "adjacency source is required")
	}
	if o.Sources.Attributes == "" {
		return errors.New(errors.ErrCodeInvalidInput, "attribute source is required")
	}
	if err := o.Schema.Validate(); err != nil {
		return err
	}
	if s := o.Network.Symmetrize; s != "" && !network.ValidSymmetrize[s] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid symmetrize mode %q (must be strict or max)", s)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender applies render defaults and checks the format.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = render.FormatSVG
	}
	if o.Plot.Layout == "" {
		o.Plot.Layout = nodelink.DefaultLayout
	}
	if !render.ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, png, dot)", o.Format)
	}
	return nil
}

// CompareOptions returns the comparator settings.
func (o *Options) CompareOptions() compare.Options {
	return compare.Options{KeepGoing: o.KeepGoing, Refresh: o.Refresh, TTL: o.FitTTL}
}

// ArtifactKeyOpts returns cache key options for the rendered plot.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: string(o.Format),
		Layout: o.Plot.Layout,
		Label:  o.Plot.Label,
		Size:   o.Plot.Size,
		Color:  o.Plot.Color,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Network *network.Network
	// NetworkHash is the content hash used in cache keys.
	NetworkHash string
	// Report is nil when comparison was skipped. It may be partial when the
	// run failed during comparison.
	Report *compare.Report
	// Plot is nil when rendering was skipped.
	Plot []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes       int
	Ties        int
	LoadTime    time.Duration
	CompareTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	FitHits   int  // Models whose fit came from cache
	RenderHit bool // Whether the plot came from cache
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
