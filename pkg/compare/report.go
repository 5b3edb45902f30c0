package compare

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
)

// Criterion selects an information criterion for ranking.
type Criterion string

const (
	AIC Criterion = "aic"
	BIC Criterion = "bic"
)

// ParseCriterion accepts "aic" or "bic" in any case.
func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case AIC, BIC:
		return c, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown criterion %q (want aic or bic)", s)
}

// Coefficient is one row of a coefficient table.
type Coefficient struct {
	Term     string  `json:"term"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_error"`
	Z        float64 `json:"z"`
	P        float64 `json:"p"`
	Stars    string  `json:"stars,omitempty"`
	Observed float64 `json:"observed"`
}

// Result is the fit of one specification.
type Result struct {
	Model        string        `json:"model"`
	Terms        []string      `json:"terms"`
	Coefficients []Coefficient `json:"coefficients"`
	LogLik       float64       `json:"log_likelihood"`
	AIC          float64       `json:"aic"`
	BIC          float64       `json:"bic"`
	Params       int           `json:"params"`
	Dyads        int           `json:"dyads"`
	Iterations   int           `json:"iterations"`
	Cached       bool          `json:"cached"`
	Duration     time.Duration `json:"duration_ns"`
}

// Score returns the value of c for r.
func (r *Result) Score(c Criterion) float64 {
	if c == BIC {
		return r.BIC
	}
	return r.AIC
}

// Coefficient returns the coefficient for a term label.
func (r *Result) Coefficient(term string) (Coefficient, bool) {
	for _, c := range r.Coefficients {
		if c.Term == term {
			return c, true
		}
	}
	return Coefficient{}, false
}

// Failure records a specification that could not be fitted.
type Failure struct {
	Model   string      `json:"model"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

// NetworkInfo describes the network a report was computed on.
type NetworkInfo struct {
	Nodes    int     `json:"nodes"`
	Ties     int     `json:"ties"`
	Dyads    int     `json:"dyads"`
	Directed bool    `json:"directed"`
	Density  float64 `json:"density"`
	Hash     string  `json:"hash"`
}

func describe(g *network.Network, hash string) NetworkInfo {
	return NetworkInfo{
		Nodes:    g.N(),
		Ties:     g.TieCount(),
		Dyads:    g.Dyads(),
		Directed: g.Directed(),
		Density:  g.Density(),
		Hash:     hash,
	}
}

// Report is the outcome of a comparison.
type Report struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Estimator string      `json:"estimator"`
	Network   NetworkInfo `json:"network"`
	Results   []Result    `json:"results"`
	Failures  []Failure   `json:"failures,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Result returns the result of the named specification.
func (r *Report) Result(model string) (*Result, bool) {
	for i := range r.Results {
		if r.Results[i].Model == model {
			return &r.Results[i], true
		}
	}
	return nil, false
}

// Ranking is one entry of a ranked comparison.
type Ranking struct {
	Rank   int     `json:"rank"`
	Model  string  `json:"model"`
	Score  float64 `json:"score"`
	Delta  float64 `json:"delta"`
	Weight float64 `json:"weight"`
}

// Rank orders the successful results by c, lowest first. Delta is the
// distance to the best score and Weight the normalized exp(-Delta/2). Equal
// scores keep specification order.
func (r *Report) Rank(c Criterion) []Ranking {
	if len(r.Results) == 0 {
		return nil
	}
	out := make([]Ranking, len(r.Results))
	for i := range r.Results {
		out[i] = Ranking{Model: r.Results[i].Model, Score: r.Results[i].Score(c)}
	}
	slices.SortStableFunc(out, func(a, b Ranking) int { return cmp.Compare(a.Score, b.Score) })

	best := out[0].Score
	var total float64
	for i := range out {
		out[i].Rank = i + 1
		out[i].Delta = out[i].Score - best
		out[i].Weight = math.Exp(-out[i].Delta / 2)
		total += out[i].Weight
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}

// RankByAIC is Rank(AIC).
func (r *Report) RankByAIC() []Ranking { return r.Rank(AIC) }

// RankByBIC is Rank(BIC).
func (r *Report) RankByBIC() []Ranking { return r.Rank(BIC) }

// Best returns the result with the lowest score under c.
func (r *Report) Best(c Criterion) (*Result, bool) {
	ranked := r.Rank(c)
	if len(ranked) == 0 {
		return nil, false
	}
	return r.Result(ranked[0].Model)
}

// Stars returns the significance marker for a two-sided p-value.
func Stars(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	case p < 0.1:
		return "."
	default:
		return ""
	}
}

// PValue returns the two-sided normal p-value of z.
func PValue(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return 2 * distuv.UnitNormal.Survival(math.Abs(z))
}

// InformationCriteria returns AIC and BIC for a log-likelihood with p
// parameters over n dyads.
func InformationCriteria(logLik float64, p, n int) (aic, bic float64) {
	aic = -2*logLik + 2*float64(p)
	bic = -2*logLik + float64(p)*math.Log(float64(n))
	return aic, bic
}

func coefficients(labels []string, coef, se, observed []float64) []Coefficient {
	out := make([]Coefficient, len(labels))
	for i, l := range labels {
		z := coef[i] / se[i]
		p := PValue(z)
		out[i] = Coefficient{
			Term:     l,
			Estimate: coef[i],
			StdErr:   se[i],
			Z:        z,
			P:        p,
			Stars:    Stars(p),
			Observed: observed[i],
		}
	}
	return out
}

// String implements fmt.Stringer.
func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Model, f.Message)
}
