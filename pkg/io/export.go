package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/network"
)

// Summary is the JSON form of a network.
type Summary struct {
	Directed           bool     `json:"directed"`
	Nodes              []Node   `json:"nodes"`
	Ties               []Tie    `json:"ties"`
	Isolates           []string `json:"isolates"`
	DegreeDistribution []int    `json:"degree_distribution"`
	Density            float64  `json:"density"`
}

// Node is one node of a [Summary].
type Node struct {
	ID         string         `json:"id"`
	Degree     int            `json:"degree"`
	InDegree   *int           `json:"in_degree,omitempty"`
	OutDegree  *int           `json:"out_degree,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Tie is one tie of a [Summary].
type Tie struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Summarize describes g.
func Summarize(g *network.Network) Summary {
	s := Summary{
		Directed:           g.Directed(),
		Nodes:              make([]Node, g.N()),
		Ties:               []Tie{},
		Isolates:           []string{},
		DegreeDistribution: g.DegreeDistribution(),
		Density:            g.Density(),
	}

	names := g.AttributeNames()
	for i := range g.N() {
		n := Node{ID: g.ID(i), Degree: g.Degree(i)}
		if g.Directed() {
			in, out := g.InDegree(i), g.OutDegree(i)
			n.InDegree, n.OutDegree = &in, &out
		}
		if len(names) > 0 {
			n.Attributes = make(map[string]any, len(names))
			for _, name := range names {
				a, _ := g.Attribute(name)
				if a.IsNumeric() {
					n.Attributes[name] = a.Numeric(i)
				} else {
					n.Attributes[name] = a.Level(i)
				}
			}
		}
		s.Nodes[i] = n
	}

	for _, t := range g.Ties() {
		s.Ties = append(s.Ties, Tie{From: g.ID(t.From), To: g.ID(t.To), Weight: t.Weight})
	}
	for _, i := range g.Isolates() {
		s.Isolates = append(s.Isolates, g.ID(i))
	}
	return s
}

// WriteSummary encodes the summary of g to w.
func WriteSummary(g *network.Network, w io.Writer) error {
	return encode(w, Summarize(g))
}

// ExportSummary writes the summary of g to path.
func ExportSummary(g *network.Network, path string) error {
	return create(path, func(w io.Writer) error { return WriteSummary(g, w) })
}

// WriteReport encodes r to w.
func WriteReport(r *compare.Report, w io.Writer) error {
	return encode(w, r)
}

// ExportReport writes r to path.
func ExportReport(r *compare.Report, path string) error {
	return create(path, func(w io.Writer) error { return WriteReport(r, w) })
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func create(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
