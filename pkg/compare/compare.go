package compare

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/model"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/observability"
)

// Options controls a comparison.
type Options struct {
	// KeepGoing records failing specifications and fits the rest.
	KeepGoing bool
	// Refresh ignores cached fits. New fits are still stored.
	Refresh bool
	// TTL is the lifetime of cached fits. Zero uses cache.TTLFit.
	TTL time.Duration
}

// Comparator fits specifications with one estimator.
type Comparator struct {
	Estimator model.Estimator
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Options   Options
}

// New returns a comparator. Nil cache, keyer and logger are replaced by a
// NullCache, the default keyer and log.Default().
func New(est model.Estimator, c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts Options) *Comparator {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLFit
	}
	return &Comparator{Estimator: est, Cache: c, Keyer: keyer, Logger: logger, Options: opts}
}

// Compare fits every specification in order.
//
// On failure without KeepGoing the returned report holds the results that
// precede the failing specification and the error names it. With KeepGoing
// the error is non-nil only when no specification could be fitted.
func (c *Comparator) Compare(ctx context.Context, g *network.Network, specs []model.Specification) (*Report, error) {
	if c.Estimator == nil {
		return nil, errors.New(errors.ErrCodeInternal, "comparator has no estimator")
	}
	if err := checkSpecs(specs); err != nil {
		return nil, err
	}
	c = c.withDefaults()

	hash := cache.Hash(g.Fingerprint())
	report := &Report{
		ID:        uuid.NewString(),
		Estimator: c.Estimator.Name(),
		Network:   describe(g, hash),
		CreatedAt: time.Now().UTC(),
	}

	var errs []error
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := c.fit(ctx, g, hash, spec)
		if err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			err = fmt.Errorf("model %s: %w", spec.Name, err)
			if !c.Options.KeepGoing {
				return report, err
			}
			c.Logger.Warn("model failed", "model", spec.Name, "error", errors.UserMessage(err))
			report.Failures = append(report.Failures, Failure{
				Model:   spec.Name,
				Code:    errors.GetCode(err),
				Message: errors.UserMessage(err),
				Err:     err,
			})
			errs = append(errs, err)
			continue
		}
		report.Results = append(report.Results, *res)
	}

	if len(report.Results) == 0 && len(errs) > 0 {
		return report, stderrors.Join(errs...)
	}
	return report, nil
}

// Fit fits a single specification.
func (c *Comparator) Fit(ctx context.Context, g *network.Network, spec model.Specification) (*Result, error) {
	c = c.withDefaults()
	return c.fit(ctx, g, cache.Hash(g.Fingerprint()), spec)
}

func (c *Comparator) fit(ctx context.Context, g *network.Network, hash string, spec model.Specification) (*Result, error) {
	start := time.Now()
	m, err := model.Bind(g, spec)
	if err != nil {
		return nil, err
	}
	labels := m.Labels()
	observability.Fit().OnFitStart(ctx, spec.Name, len(labels))

	key := c.Keyer.FitKey(hash, cache.FitKeyOpts{Estimator: c.Estimator.Name(), Terms: labels})
	fit, cached := c.lookup(ctx, key, len(labels))

	var observed []float64
	dyads := g.Dyads()
	if !cached {
		d := m.Design()
		fit, err = c.Estimator.Fit(ctx, d)
		if err == nil {
			err = fit.Validate(d)
		}
		if err != nil {
			observability.Fit().OnFitComplete(ctx, spec.Name, 0, time.Since(start), err)
			return nil, err
		}
		observed = d.Observed
		dyads = d.Dyads
		c.store(ctx, key, fit)
	} else {
		observed = m.Observed()
	}

	aic, bic := InformationCriteria(fit.LogLik, len(labels), dyads)
	res := &Result{
		Model:        spec.Name,
		Terms:        labels,
		Coefficients: coefficients(labels, fit.Coef, fit.StdErr, observed),
		LogLik:       fit.LogLik,
		AIC:          aic,
		BIC:          bic,
		Params:       len(labels),
		Dyads:        dyads,
		Iterations:   fit.Iterations,
		Cached:       cached,
		Duration:     time.Since(start),
	}
	observability.Fit().OnFitComplete(ctx, spec.Name, fit.LogLik, res.Duration, nil)
	c.Logger.Info("fitted model",
		"model", spec.Name,
		"terms", len(labels),
		"loglik", fmt.Sprintf("%.3f", fit.LogLik),
		"aic", fmt.Sprintf("%.2f", aic),
		"cached", cached,
		"duration", res.Duration)
	return res, nil
}

func (c *Comparator) lookup(ctx context.Context, key string, params int) (*model.FitResult, bool) {
	if c.Options.Refresh {
		return nil, false
	}
	var fit model.FitResult
	ok, err := cache.GetJSON(ctx, c.Cache, key, &fit)
	if err != nil {
		c.Logger.Debug("fit cache lookup failed", "error", err)
		return nil, false
	}
	if !ok || len(fit.Coef) != params || len(fit.StdErr) != params {
		observability.Cache().OnCacheMiss(ctx, "fit")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "fit")
	return &fit, true
}

func (c *Comparator) store(ctx context.Context, key string, fit *model.FitResult) {
	if err := cache.SetJSON(ctx, c.Cache, key, fit, c.Options.TTL); err != nil {
		c.Logger.Debug("fit cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "fit", len(fit.Coef))
}

func (c *Comparator) withDefaults() *Comparator {
	if c.Cache != nil && c.Keyer != nil && c.Logger != nil && c.Options.TTL > 0 {
		return c
	}
	return New(c.Estimator, c.Cache, c.Keyer, c.Logger, c.Options)
}

func checkSpecs(specs []model.Specification) error {
	if len(specs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no model specifications")
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "model specification has no name")
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "model name %q used twice", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
