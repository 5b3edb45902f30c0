// Package mple fits a model design by maximum pseudo-likelihood.
//
// Conditional on the rest of the network, every dyad is a Bernoulli trial
// whose log-odds are its change statistics times the coefficients, so the
// pseudo-likelihood is a logistic regression over the compressed design.
// The optimization itself is delegated to gonum's optimize package with its
// Newton method.
package mple

import (
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/model"
)

// Method is the estimator name used in configuration.
const Method = "mple"

const (
	DefaultMaxIterations     = 100
	DefaultGradientTolerance = 1e-8
)

// Options configures the estimator. Zero values select the defaults.
type Options struct {
	MaxIterations     int
	GradientTolerance float64
}

// Estimator implements [model.Estimator].
type Estimator struct {
	opts Options
}

var _ model.Estimator = (*Estimator)(nil)

// New returns an estimator with opts, filling in defaults.
func New(opts Options) *Estimator {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.GradientTolerance <= 0 {
		opts.GradientTolerance = DefaultGradientTolerance
	}
	return &Estimator{opts: opts}
}

// Options returns the effective settings.
func (e *Estimator) Options() Options { return e.opts }

// Name encodes the method and settings.
func (e *Estimator) Name() string {
	return fmt.Sprintf("%s(maxit=%d,tol=%g)", Method, e.opts.MaxIterations, e.opts.GradientTolerance)
}

// Fit maximizes the pseudo-likelihood of d.
func (e *Estimator) Fit(ctx context.Context, d *model.Design) (*model.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Rows() == 0 || d.Dyads == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network has no dyads")
	}

	var ties float64
	for _, t := range d.Ties {
		ties += t
	}
	if ties == 0 || ties == float64(d.Dyads) {
		return nil, errors.New(errors.ErrCodeNonConvergence, "network is %s; the pseudo-likelihood has no maximum", emptyOrComplete(ties))
	}

	ll := &logit{d: d, eta: make([]float64, d.Rows())}
	problem := optimize.Problem{
		Func: ll.negLogLik,
		Grad: ll.negGrad,
		Hess: ll.negHess,
	}
	settings := &optimize.Settings{
		GradientThreshold: e.opts.GradientTolerance,
		MajorIterations:   e.opts.MaxIterations,
	}

	res, err := optimize.Minimize(problem, initial(d, ties), settings, &optimize.Newton{})
	if err != nil && res == nil {
		return nil, errors.Wrap(errors.ErrCodeNonConvergence, err, "optimization failed")
	}
	x, iterations := res.X, res.Stats.MajorIterations
	switch res.Status {
	case optimize.GradientThreshold, optimize.Success, optimize.FunctionConvergence:
	default:
		// The line search stalls once the objective stops changing in
		// floating point, often right at the optimum.
		var ok bool
		if x, ok = ll.polish(x, e.tolerance()); !ok {
			return nil, errors.New(errors.ErrCodeNonConvergence, "optimization stopped after %d iterations: %v", iterations, res.Status)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, b := range x {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, errors.New(errors.ErrCodeNonConvergence, "estimate is %g", b).WithTerm(d.Labels[i])
		}
	}

	if r, ok := ll.separated(x); ok {
		return nil, errors.New(errors.ErrCodeNonConvergence, "fitted probabilities of %g dyads are numerically 0 or 1; the model separates tied from untied dyads", ll.d.Counts[r])
	}

	se, err := stdErrors(ll, x)
	if err != nil {
		return nil, err
	}
	return &model.FitResult{
		Coef:       x,
		StdErr:     se,
		LogLik:     -ll.negLogLik(x),
		Iterations: iterations,
	}, nil
}

// tolerance is the gradient norm accepted for a fit the optimizer did not
// report as converged.
func (e *Estimator) tolerance() float64 {
	return max(e.opts.GradientTolerance, acceptTolerance)
}

func emptyOrComplete(ties float64) string {
	if ties == 0 {
		return "empty"
	}
	return "complete"
}

// initial starts edges at the log-odds of the density and everything else
// at zero.
func initial(d *model.Design, ties float64) []float64 {
	x := make([]float64, d.Params())
	p := ties / float64(d.Dyads)
	x[0] = math.Log(p / (1 - p))
	return x
}

// stdErrors inverts the information matrix at x.
func stdErrors(ll *logit, x []float64) ([]float64, error) {
	n := len(x)
	info := mat.NewSymDense(n, nil)
	ll.negHess(info, x)

	var chol mat.Cholesky
	if ok := chol.Factorize(info); !ok {
		return nil, errors.New(errors.ErrCodeNonConvergence, "information matrix is singular; terms may be collinear")
	}
	if c := chol.Cond(); c > maxCondition {
		return nil, errors.New(errors.ErrCodeNonConvergence, "information matrix is near-singular (condition number %.3g); terms may be collinear", c)
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNonConvergence, err, "information matrix is ill-conditioned")
	}

	se := make([]float64, n)
	for i := range se {
		v := cov.At(i, i)
		if v <= 0 || math.IsNaN(v) {
			return nil, errors.New(errors.ErrCodeNonConvergence, "non-positive variance %g", v)
		}
		se[i] = math.Sqrt(v)
	}
	return se, nil
}

// logit evaluates the binomial pseudo-likelihood of a compressed design.
type logit struct {
	d   *model.Design
	eta []float64
}

func (l *logit) linear(x []float64) {
	for r := range l.eta {
		l.eta[r] = floats.Dot(l.d.X.RawRowView(r), x)
	}
}

func (l *logit) negLogLik(x []float64) float64 {
	l.linear(x)
	var sum float64
	for r, eta := range l.eta {
		sum += l.d.Ties[r]*eta - l.d.Counts[r]*softplus(eta)
	}
	return -sum
}

func (l *logit) negGrad(grad, x []float64) {
	l.linear(x)
	for k := range grad {
		grad[k] = 0
	}
	for r, eta := range l.eta {
		resid := l.d.Counts[r]*sigmoid(eta) - l.d.Ties[r]
		floats.AddScaled(grad, resid, l.d.X.RawRowView(r))
	}
}

func (l *logit) negHess(hess *mat.SymDense, x []float64) {
	l.linear(x)
	n := len(x)
	for a := range n {
		for b := a; b < n; b++ {
			hess.SetSym(a, b, 0)
		}
	}
	for r, eta := range l.eta {
		p := sigmoid(eta)
		w := l.d.Counts[r] * p * (1 - p)
		row := l.d.X.RawRowView(r)
		for a := range n {
			for b := a; b < n; b++ {
				hess.SetSym(a, b, hess.At(a, b)+w*row[a]*row[b])
			}
		}
	}
}

// polish takes up to polishSteps full Newton steps from x and reports
// whether the largest gradient component fell to tol.
func (l *logit) polish(x []float64, tol float64) ([]float64, bool) {
	n := len(x)
	x = slices.Clone(x)
	grad := make([]float64, n)
	hess := mat.NewSymDense(n, nil)
	var chol mat.Cholesky
	var step mat.VecDense
	for range polishSteps {
		l.negGrad(grad, x)
		if converged(grad, tol) {
			return x, true
		}
		l.negHess(hess, x)
		if !chol.Factorize(hess) {
			return x, false
		}
		if err := chol.SolveVecTo(&step, mat.NewVecDense(n, grad)); err != nil {
			return x, false
		}
		floats.AddScaled(x, -1, step.RawVector().Data)
	}
	l.negGrad(grad, x)
	return x, converged(grad, tol)
}

func converged(grad []float64, tol float64) bool {
	norm := floats.Norm(grad, math.Inf(1))
	return !math.IsNaN(norm) && norm <= tol
}

// separated reports the first row whose dyads are all fitted as tied or
// all as untied to within separationTolerance expected dyads.
func (l *logit) separated(x []float64) (int, bool) {
	l.linear(x)
	for r, eta := range l.eta {
		ties, n := l.d.Ties[r], l.d.Counts[r]
		switch {
		case ties == 0 && n*sigmoid(eta) < separationTolerance:
			return r, true
		case ties == n && n*sigmoid(-eta) < separationTolerance:
			return r, true
		}
	}
	return 0, false
}

const (
	separationTolerance = 1e-6
	maxCondition        = 1e12
	acceptTolerance     = 1e-7
	polishSteps         = 5
)

// softplus returns log(1+e^x) without overflow.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
