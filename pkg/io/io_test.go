package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network/networktest"
)

func TestSummarize(t *testing.T) {
	g := networktest.New(t, false,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}},
		networktest.Numeric("size", 1, 2, 3, 4),
		networktest.Categorical("side", "l", "r", "l", "r"),
	)
	s := Summarize(g)

	if s.Directed {
		t.Error("Directed = true")
	}
	if len(s.Ties) != 2 || s.Ties[0] != (Tie{From: "a", To: "b", Weight: 1}) {
		t.Errorf("Ties = %+v", s.Ties)
	}
	if !slices.Equal(s.Isolates, []string{"d"}) {
		t.Errorf("Isolates = %v", s.Isolates)
	}
	if !slices.Equal(s.DegreeDistribution, []int{1, 2, 1}) {
		t.Errorf("DegreeDistribution = %v", s.DegreeDistribution)
	}
	a := s.Nodes[0]
	if a.ID != "a" || a.Degree != 2 || a.InDegree != nil {
		t.Errorf("node a = %+v", a)
	}
	if a.Attributes["size"] != 1.0 || a.Attributes["side"] != "l" {
		t.Errorf("attributes = %v", a.Attributes)
	}
}

func TestSummarizeDirected(t *testing.T) {
	g := networktest.New(t, true, []string{"a", "b"}, [][2]string{{"a", "b"}})
	s := Summarize(g)
	if s.Nodes[0].OutDegree == nil || *s.Nodes[0].OutDegree != 1 || *s.Nodes[0].InDegree != 0 {
		t.Errorf("node a = %+v", s.Nodes[0])
	}
	if len(s.Isolates) != 0 {
		t.Errorf("Isolates = %v", s.Isolates)
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	g := networktest.New(t, false, []string{"a", "b", "c"}, nil)
	var buf bytes.Buffer
	if err := WriteSummary(g, &buf); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if iso, ok := decoded["isolates"].([]any); !ok || len(iso) != 3 {
		t.Errorf("isolates = %v", decoded["isolates"])
	}
}

func sampleReport() *compare.Report {
	return &compare.Report{
		ID:        "run-1",
		Estimator: "mple(maxit=100,tol=1e-08)",
		Network:   compare.NetworkInfo{Nodes: 10, Ties: 9, Dyads: 45},
		Results: []compare.Result{
			{Model: "baseline", Terms: []string{"edges"}, AIC: 42, BIC: 43.8, Params: 1,
				Coefficients: []compare.Coefficient{{Term: "edges", Estimate: -1.4, StdErr: 0.37, Z: -3.8, P: 0.0001, Stars: "***"}}},
			{Model: "homophily", Terms: []string{"edges", "nodematch.side"}, AIC: 40, BIC: 45, Params: 2,
				Coefficients: []compare.Coefficient{{Term: "edges"}, {Term: "nodematch.side"}}},
		},
		Failures:  []compare.Failure{{Model: "broken", Code: errors.ErrCodeNonConvergence, Message: "separation"}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := ExportReport(sampleReport(), path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportReport(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != "run-1" || len(got.Results) != 2 || len(got.Failures) != 1 {
		t.Fatalf("report = %+v", got)
	}
	if got.Failures[0].Code != errors.ErrCodeNonConvergence {
		t.Errorf("failure code = %s", got.Failures[0].Code)
	}
	if best, _ := got.Best(compare.BIC); best.Model != "baseline" {
		t.Errorf("Best(BIC) = %s, want baseline", best.Model)
	}
	if best, _ := got.Best(compare.AIC); best.Model != "homophily" {
		t.Errorf("Best(AIC) = %s, want homophily", best.Model)
	}
}

func TestReadReportErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "{"},
		{"no coefficients", `{"results": [{"model": "m"}]}`},
		{"duplicate", `{"results": [{"model": "m", "coefficients": [{"term": "edges"}]}, {"model": "m", "coefficients": [{"term": "edges"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadReport(strings.NewReader(tt.body)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadReport() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestImportReportMissing(t *testing.T) {
	_, err := ImportReport(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportReport() error = %v, want FILE_NOT_FOUND", err)
	}
}
