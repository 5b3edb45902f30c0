package model

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/term"
)

// BaselineTerm is the term every model starts with.
const BaselineTerm = "edges"

// Specification names an ordered list of term expressions.
type Specification struct {
	Name  string   `json:"name" toml:"name"`
	Terms []string `json:"terms" toml:"terms"`
}

// Model is a specification bound to a network.
type Model struct {
	Spec    Specification
	Terms   []term.Term
	Network *network.Network
}

// Bind parses and binds every term of spec against g. The edges term is
// placed first, and added when the specification omits it.
//
// Bind returns the term errors of [term.Bind] unchanged, and an
// INVALID_INPUT error when a term appears twice.
func Bind(g *network.Network, spec Specification) (*Model, error) {
	if spec.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "model specification has no name")
	}

	specs := make([]term.Spec, 0, len(spec.Terms)+1)
	specs = append(specs, term.Spec{Name: BaselineTerm})
	seen := map[string]bool{}
	for _, expr := range spec.Terms {
		s, err := term.Parse(expr)
		if err != nil {
			return nil, err
		}
		if s.Name == BaselineTerm && s.NumArgs() == 0 {
			continue
		}
		specs = append(specs, s)
	}

	m := &Model{Spec: spec, Network: g, Terms: make([]term.Term, 0, len(specs))}
	for _, s := range specs {
		t, err := term.Bind(s, g)
		if err != nil {
			return nil, err
		}
		if seen[t.Label()] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "term listed twice in model %s", spec.Name).WithTerm(t.Label())
		}
		seen[t.Label()] = true
		m.Terms = append(m.Terms, t)
	}
	return m, nil
}

// Labels returns the coefficient labels in term order.
func (m *Model) Labels() []string {
	out := make([]string, len(m.Terms))
	for i, t := range m.Terms {
		out[i] = t.Label()
	}
	return out
}

// Observed returns the observed statistic of every term.
func (m *Model) Observed() []float64 {
	out := make([]float64, len(m.Terms))
	for i, t := range m.Terms {
		out[i] = t.Stat(m.Network)
	}
	return out
}

// Design is the compressed change-statistic matrix of a model.
type Design struct {
	Labels   []string
	X        *mat.Dense // Unique rows × terms
	Ties     []float64  // Tied dyads per row
	Counts   []float64  // Dyads per row
	Observed []float64  // Observed statistic per term
	Dyads    int        // Total number of dyads
}

// Rows returns the number of unique covariate rows.
func (d *Design) Rows() int { return len(d.Counts) }

// Params returns the number of terms.
func (d *Design) Params() int { return len(d.Labels) }

// Design evaluates every term's change statistic on every dyad of the
// network and merges dyads with identical covariates.
func (m *Model) Design() *Design {
	g := m.Network
	p := len(m.Terms)

	var data, ties, counts []float64
	rowOf := make(map[string]int)
	row := make([]float64, p)
	var key strings.Builder

	g.ForEachDyad(func(i, j int) {
		key.Reset()
		for k, t := range m.Terms {
			row[k] = t.Change(g, i, j)
			key.WriteString(strconv.FormatUint(math.Float64bits(row[k]), 16))
			key.WriteByte(',')
		}
		r, ok := rowOf[key.String()]
		if !ok {
			r = len(counts)
			rowOf[key.String()] = r
			data = append(data, row...)
			ties = append(ties, 0)
			counts = append(counts, 0)
		}
		counts[r]++
		if g.HasTie(i, j) {
			ties[r]++
		}
	})

	d := &Design{
		Labels:   m.Labels(),
		Ties:     ties,
		Counts:   counts,
		Observed: m.Observed(),
		Dyads:    g.Dyads(),
	}
	if len(counts) > 0 {
		d.X = mat.NewDense(len(counts), p, data)
	}
	return d
}

// FitResult is an estimator's output for one design.
type FitResult struct {
	Coef       []float64 // Estimates in design label order
	StdErr     []float64 // Standard errors in design label order
	LogLik     float64   // Maximized log-likelihood
	Iterations int
}

// Estimator fits a design. Implementations return a NON_CONVERGENCE error
// when estimation fails; they must not retry with different settings.
type Estimator interface {
	// Name identifies the estimator and its settings for reports and cache keys.
	Name() string
	// Fit estimates the coefficients of d.
	Fit(ctx context.Context, d *Design) (*FitResult, error)
}

// Validate checks that r is consistent with d and that every estimate and
// standard error is finite, with positive standard errors.
func (r *FitResult) Validate(d *Design) error {
	if len(r.Coef) != d.Params() || len(r.StdErr) != d.Params() {
		return errors.New(errors.ErrCodeInternal, "estimator returned %d coefficients and %d standard errors for %d terms", len(r.Coef), len(r.StdErr), d.Params())
	}
	if math.IsNaN(r.LogLik) || math.IsInf(r.LogLik, 0) {
		return errors.New(errors.ErrCodeNonConvergence, "log-likelihood is not finite: %v", r.LogLik)
	}
	for i, c := range r.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return errors.New(errors.ErrCodeNonConvergence, "coefficient is not finite: %v", c).WithTerm(d.Labels[i])
		}
	}
	for i, se := range r.StdErr {
		if !(se > 0) || math.IsInf(se, 0) {
			return errors.New(errors.ErrCodeNonConvergence, "standard error is not a positive finite number: %v", se).WithTerm(d.Labels[i])
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (s Specification) String() string {
	return fmt.Sprintf("%s: %s", s.Name, strings.Join(s.Terms, " + "))
}
