package model

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/network/networktest"
)

// star has hub "a" tied to b and c; d is isolated.
func star(t *testing.T) *network.Network {
	t.Helper()
	return networktest.New(t, false,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}},
		networktest.Categorical("group", "x", "x", "y", "y"),
		networktest.Numeric("age", 10, 12, 15, 11),
	)
}

func TestBindPutsEdgesFirst(t *testing.T) {
	g := star(t)
	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{"empty", nil, []string{"edges"}},
		{"added", []string{"nodematch(group)"}, []string{"edges", "nodematch.group"}},
		{"moved", []string{"isolates", "edges"}, []string{"edges", "isolates"}},
		{"order kept", []string{"absdiff(age)", "nodematch(group)"}, []string{"edges", "absdiff.age", "nodematch.group"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Bind(g, Specification{Name: "m", Terms: tt.terms})
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			if got := m.Labels(); !slices.Equal(got, tt.want) {
				t.Errorf("Labels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindErrors(t *testing.T) {
	g := star(t)
	tests := []struct {
		name string
		spec Specification
		code errors.Code
	}{
		{"no name", Specification{Terms: []string{"isolates"}}, errors.ErrCodeInvalidInput},
		{"duplicate", Specification{Name: "m", Terms: []string{"isolates", "isolates"}}, errors.ErrCodeInvalidInput},
		{"unknown", Specification{Name: "m", Terms: []string{"triangles"}}, errors.ErrCodeUnknownTerm},
		{"directed only", Specification{Name: "m", Terms: []string{"istar(2)"}}, errors.ErrCodeUnsupportedTerm},
		{"missing attribute", Specification{Name: "m", Terms: []string{"absdiff(height)"}}, errors.ErrCodeSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(g, tt.spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("Bind() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestObserved(t *testing.T) {
	m, err := Bind(star(t), Specification{Name: "m", Terms: []string{"nodematch(group)", "isolates", "concurrent"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{2, 1, 1, 1}
	if got := m.Observed(); !slices.Equal(got, want) {
		t.Errorf("Observed() = %v, want %v", got, want)
	}
}

func TestDesignCompression(t *testing.T) {
	g := star(t)
	m, err := Bind(g, Specification{Name: "m", Terms: []string{"nodematch(group)"}})
	if err != nil {
		t.Fatal(err)
	}
	d := m.Design()

	if d.Dyads != 6 {
		t.Errorf("Dyads = %d, want 6", d.Dyads)
	}
	// Two covariate patterns: matching (a-b, c-d) and non-matching.
	if d.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", d.Rows())
	}
	if d.Params() != 2 {
		t.Errorf("Params() = %d, want 2", d.Params())
	}

	var total, tied float64
	for r := range d.Rows() {
		total += d.Counts[r]
		tied += d.Ties[r]
		if d.X.At(r, 0) != 1 {
			t.Errorf("X[%d][edges] = %v, want 1", r, d.X.At(r, 0))
		}
		switch d.X.At(r, 1) {
		case 1:
			if d.Counts[r] != 2 || d.Ties[r] != 1 {
				t.Errorf("matching row = %v/%v, want 1/2", d.Ties[r], d.Counts[r])
			}
		case 0:
			if d.Counts[r] != 4 || d.Ties[r] != 1 {
				t.Errorf("non-matching row = %v/%v, want 1/4", d.Ties[r], d.Counts[r])
			}
		default:
			t.Errorf("unexpected covariate %v", d.X.At(r, 1))
		}
	}
	if total != 6 || tied != 2 {
		t.Errorf("total dyads/ties = %v/%v, want 6/2", total, tied)
	}
}

func TestDesignDirected(t *testing.T) {
	g := networktest.New(t, true,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"c", "b"}},
	)
	m, err := Bind(g, Specification{Name: "m", Terms: []string{"istar(2)"}})
	if err != nil {
		t.Fatal(err)
	}
	d := m.Design()
	if d.Dyads != 6 {
		t.Errorf("Dyads = %d, want 6", d.Dyads)
	}
	var total, tied float64
	for r := range d.Rows() {
		total += d.Counts[r]
		tied += d.Ties[r]
	}
	if total != 6 || tied != 2 {
		t.Errorf("total dyads/ties = %v/%v, want 6/2", total, tied)
	}
	if d.Observed[1] != 1 {
		t.Errorf("Observed[istar2] = %v, want 1", d.Observed[1])
	}
}

func TestFitResultValidate(t *testing.T) {
	m, err := Bind(star(t), Specification{Name: "m"})
	if err != nil {
		t.Fatal(err)
	}
	d := m.Design()

	ok := &FitResult{Coef: []float64{-1}, StdErr: []float64{0.5}, LogLik: -3}
	if err := ok.Validate(d); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	short := &FitResult{Coef: nil, StdErr: nil, LogLik: -3}
	if err := short.Validate(d); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Validate(short) = %v, want INTERNAL_ERROR", err)
	}

	for _, se := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		bad := &FitResult{Coef: []float64{-1}, StdErr: []float64{se}, LogLik: -3}
		if err := bad.Validate(d); !errors.Is(err, errors.ErrCodeNonConvergence) {
			t.Errorf("Validate(stderr %v) = %v, want NON_CONVERGENCE", se, err)
		}
	}
}

type constEstimator struct{}

func (constEstimator) Name() string { return "const" }

func (constEstimator) Fit(_ context.Context, d *Design) (*FitResult, error) {
	se := make([]float64, d.Params())
	for i := range se {
		se[i] = 1
	}
	return &FitResult{Coef: make([]float64, d.Params()), StdErr: se}, nil
}

func TestEstimatorInterface(t *testing.T) {
	var est Estimator = constEstimator{}
	m, err := Bind(star(t), Specification{Name: "m", Terms: []string{"isolates"}})
	if err != nil {
		t.Fatal(err)
	}
	d := m.Design()
	res, err := est.Fit(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Validate(d); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSpecificationString(t *testing.T) {
	s := Specification{Name: "homophily", Terms: []string{"edges", "nodematch(group)"}}
	if got, want := s.String(), "homophily: edges + nodematch(group)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
