package compare

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/netergm/pkg/cache"
	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/estimate/mple"
	"github.com/matzehuels/netergm/pkg/model"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/network/networktest"
)

// fakeEstimator returns a fixed log-likelihood per parameter count and
// fails on designs containing a chosen term.
type fakeEstimator struct {
	logLik map[int]float64
	failOn string
	calls  int
}

func (f *fakeEstimator) Name() string { return "fake" }

func (f *fakeEstimator) Fit(_ context.Context, d *model.Design) (*model.FitResult, error) {
	f.calls++
	if slices.Contains(d.Labels, f.failOn) {
		return nil, errors.New(errors.ErrCodeNonConvergence, "separation").WithTerm(f.failOn)
	}
	coef := make([]float64, d.Params())
	se := make([]float64, d.Params())
	for i := range coef {
		coef[i] = float64(i+1) * 0.5
		se[i] = 0.25
	}
	return &model.FitResult{Coef: coef, StdErr: se, LogLik: f.logLik[d.Params()], Iterations: 3}, nil
}

// ring is a 10-node undirected network with 45 dyads.
func ring(t *testing.T) *network.Network {
	t.Helper()
	ids := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9"}
	var ties [][2]string
	for i := range 9 {
		ties = append(ties, [2]string{ids[i], ids[i+1]})
	}
	return networktest.New(t, false, ids, ties,
		networktest.Categorical("side", "l", "l", "l", "l", "l", "r", "r", "r", "r", "r"),
		networktest.Numeric("size", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	)
}

var specs = []model.Specification{
	{Name: "baseline"},
	{Name: "covariates", Terms: []string{"nodematch(side)", "absdiff(size)"}},
}

func newFake() *fakeEstimator {
	// baseline: AIC 42.00, BIC 43.81; covariates: AIC 41.00, BIC 46.42.
	return &fakeEstimator{logLik: map[int]float64{1: -20, 3: -17.5}}
}

func TestCompare(t *testing.T) {
	est := newFake()
	report, err := New(est, nil, nil, nil, Options{}).Compare(context.Background(), ring(t), specs)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if report.ID == "" {
		t.Error("report should have an ID")
	}
	if report.Estimator != "fake" {
		t.Errorf("Estimator = %q", report.Estimator)
	}
	if report.Network.Nodes != 10 || report.Network.Ties != 9 || report.Network.Dyads != 45 {
		t.Errorf("Network = %+v", report.Network)
	}
	if len(report.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(report.Results))
	}

	base := report.Results[0]
	if base.Model != "baseline" || base.Params != 1 {
		t.Errorf("baseline = %+v", base)
	}
	if got, want := base.AIC, 42.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("baseline AIC = %v, want %v", got, want)
	}
	if got, want := base.BIC, 40+math.Log(45); math.Abs(got-want) > 1e-9 {
		t.Errorf("baseline BIC = %v, want %v", got, want)
	}

	cov := report.Results[1]
	wantTerms := []string{"edges", "nodematch.side", "absdiff.size"}
	if !slices.Equal(cov.Terms, wantTerms) {
		t.Errorf("Terms = %v, want %v", cov.Terms, wantTerms)
	}
	edges, ok := cov.Coefficient("edges")
	if !ok {
		t.Fatal("missing edges coefficient")
	}
	if edges.Observed != 9 || edges.Z != 2 {
		t.Errorf("edges = %+v", edges)
	}
	if edges.Stars != "*" {
		t.Errorf("edges stars = %q, want * (p = %.4f)", edges.Stars, edges.P)
	}
}

func TestCompareCriteriaDisagree(t *testing.T) {
	report, err := New(newFake(), nil, nil, nil, Options{}).Compare(context.Background(), ring(t), specs)
	if err != nil {
		t.Fatal(err)
	}

	if best, _ := report.Best(AIC); best.Model != "covariates" {
		t.Errorf("Best(AIC) = %s, want covariates", best.Model)
	}
	if best, _ := report.Best(BIC); best.Model != "baseline" {
		t.Errorf("Best(BIC) = %s, want baseline", best.Model)
	}

	aic := report.RankByAIC()
	if aic[0].Delta != 0 || math.Abs(aic[1].Delta-1) > 1e-9 {
		t.Errorf("AIC deltas = %v, %v", aic[0].Delta, aic[1].Delta)
	}
	if w := aic[0].Weight + aic[1].Weight; math.Abs(w-1) > 1e-12 {
		t.Errorf("weights sum to %v, want 1", w)
	}
	if aic[0].Weight <= aic[1].Weight {
		t.Error("best model should carry the larger weight")
	}
}

func TestCompareStopsAtFirstFailure(t *testing.T) {
	est := newFake()
	est.failOn = "nodematch.side"
	all := append(slices.Clone(specs), model.Specification{Name: "late", Terms: []string{"isolates"}})

	report, err := New(est, nil, nil, nil, Options{}).Compare(context.Background(), ring(t), all)
	if !errors.Is(err, errors.ErrCodeNonConvergence) {
		t.Fatalf("Compare() error = %v, want NON_CONVERGENCE", err)
	}
	if report == nil || len(report.Results) != 1 || report.Results[0].Model != "baseline" {
		t.Fatalf("partial report = %+v, want baseline only", report)
	}
	if est.calls != 2 {
		t.Errorf("estimator calls = %d, want 2", est.calls)
	}
}

func TestCompareKeepGoing(t *testing.T) {
	est := newFake()
	est.failOn = "nodematch.side"
	all := append(slices.Clone(specs), model.Specification{Name: "late", Terms: []string{"isolates"}})

	report, err := New(est, nil, nil, nil, Options{KeepGoing: true}).Compare(context.Background(), ring(t), all)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(report.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(report.Results))
	}
	if len(report.Failures) != 1 {
		t.Fatalf("len(Failures) = %d, want 1", len(report.Failures))
	}
	f := report.Failures[0]
	if f.Model != "covariates" || f.Code != errors.ErrCodeNonConvergence {
		t.Errorf("failure = %+v", f)
	}
}

func TestCompareKeepGoingAllFail(t *testing.T) {
	est := newFake()
	est.failOn = "edges"
	_, err := New(est, nil, nil, nil, Options{KeepGoing: true}).Compare(context.Background(), ring(t), specs)
	if !errors.Is(err, errors.ErrCodeNonConvergence) {
		t.Errorf("Compare() error = %v, want NON_CONVERGENCE", err)
	}
}

func TestCompareTermErrors(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		code  errors.Code
	}{
		{"unknown", []string{"triangles"}, errors.ErrCodeUnknownTerm},
		{"unsupported", []string{"istar(2)"}, errors.ErrCodeUnsupportedTerm},
		{"missing attribute", []string{"nodematch(color)"}, errors.ErrCodeSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := newFake()
			spec := []model.Specification{{Name: "m", Terms: tt.terms}}
			_, err := New(est, nil, nil, nil, Options{}).Compare(context.Background(), ring(t), spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("Compare() error = %v, want %s", err, tt.code)
			}
			if est.calls != 0 {
				t.Error("estimator should not run for an invalid specification")
			}
		})
	}
}

func TestCompareInvalidSpecs(t *testing.T) {
	c := New(newFake(), nil, nil, nil, Options{})
	g := ring(t)
	cases := map[string][]model.Specification{
		"none":      nil,
		"unnamed":   {{Terms: []string{"isolates"}}},
		"duplicate": {{Name: "a"}, {Name: "a"}},
	}
	for name, s := range cases {
		if _, err := c.Compare(context.Background(), g, s); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s: error = %v, want INVALID_INPUT", name, err)
		}
	}
}

func TestCompareCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := New(newFake(), nil, nil, nil, Options{}).Compare(ctx, ring(t), specs)
	if err != context.Canceled {
		t.Errorf("Compare() error = %v, want context.Canceled", err)
	}
	if report != nil && len(report.Results) != 0 {
		t.Error("no model should be fitted after cancellation")
	}
}

func TestCompareUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	est := newFake()
	g := ring(t)

	first, err := New(est, fc, nil, nil, Options{}).Compare(context.Background(), g, specs)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(est, fc, nil, nil, Options{}).Compare(context.Background(), g, specs)
	if err != nil {
		t.Fatal(err)
	}
	if est.calls != 2 {
		t.Errorf("estimator calls = %d, want 2", est.calls)
	}
	for i := range second.Results {
		if !second.Results[i].Cached {
			t.Errorf("%s not served from cache", second.Results[i].Model)
		}
		if second.Results[i].AIC != first.Results[i].AIC {
			t.Errorf("cached AIC = %v, want %v", second.Results[i].AIC, first.Results[i].AIC)
		}
		if second.Results[i].Coefficients[0].Observed != 9 {
			t.Error("cached result should carry observed statistics")
		}
	}

	if _, err := New(est, fc, nil, nil, Options{Refresh: true}).Compare(context.Background(), g, specs); err != nil {
		t.Fatal(err)
	}
	if est.calls != 4 {
		t.Errorf("estimator calls after refresh = %d, want 4", est.calls)
	}
}

func TestCompareNoEstimator(t *testing.T) {
	_, err := (&Comparator{}).Compare(context.Background(), ring(t), specs)
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Compare() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestCompareNestedStructuralTerm(t *testing.T) {
	nested := []model.Specification{
		{Name: "baseline"},
		{Name: "concurrent", Terms: []string{"concurrent"}},
	}
	report, err := New(mple.New(mple.Options{}), nil, nil, nil, Options{}).Compare(context.Background(), ring(t), nested)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	base, ok := report.Result("baseline")
	if !ok {
		t.Fatal("baseline missing")
	}
	conc, ok := report.Result("concurrent")
	if !ok {
		t.Fatal("concurrent missing")
	}

	// 9 of 45 dyads are tied.
	if want := 9*math.Log(0.2) + 36*math.Log(0.8); math.Abs(base.LogLik-want) > 1e-6 {
		t.Errorf("baseline LogLik = %v, want %v", base.LogLik, want)
	}
	if math.Abs(conc.LogLik-(-9.098216)) > 1e-4 {
		t.Errorf("concurrent LogLik = %v, want -9.098216", conc.LogLik)
	}
	if base.AIC == conc.AIC || base.BIC == conc.BIC {
		t.Errorf("nested models share a score: AIC %v/%v, BIC %v/%v", base.AIC, conc.AIC, base.BIC, conc.BIC)
	}
	if best, _ := report.Best(AIC); best.Model != "concurrent" {
		t.Errorf("Best(AIC) = %s, want concurrent", best.Model)
	}
	if best, _ := report.Best(BIC); best.Model != "concurrent" {
		t.Errorf("Best(BIC) = %s, want concurrent", best.Model)
	}
}
