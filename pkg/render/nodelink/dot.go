package nodelink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
)

// Options configures the diagram.
type Options struct {
	Label  string // Attribute used as node label
	Size   string // Numeric attribute mapped to node width
	Color  string // Attribute mapped to fill color
	Layout string // Graphviz engine; empty means "neato"
}

// DefaultLayout is the Graphviz engine used when none is set.
const DefaultLayout = "neato"

var layouts = map[string]bool{"dot": true, "neato": true, "fdp": true, "sfdp": true, "circo": true, "twopi": true}

const (
	minWidth = 0.3
	maxWidth = 1.2
)

// palette holds the fill colors for categorical levels, assigned in
// first-seen order and reused cyclically.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// ToDOT converts g to Graphviz DOT.
func ToDOT(g *network.Network, opts Options) (string, error) {
	layout := opts.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	if !layouts[layout] {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout %q", layout)
	}

	label, err := labels(g, opts.Label)
	if err != nil {
		return "", err
	}
	widths, err := widths(g, opts.Size)
	if err != nil {
		return "", err
	}
	fills, err := colors(g, opts.Color)
	if err != nil {
		return "", err
	}

	kind, op := "graph", "--"
	if g.Directed() {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#dddddd\", fontsize=10, fixedsize=false];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	for i := range g.N() {
		attrs := []string{fmt.Sprintf("label=%q", label[i])}
		if widths != nil {
			attrs = append(attrs, fmt.Sprintf("width=%.2f", widths[i]))
		}
		if fills != nil {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fills[i]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", g.ID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range g.Ties() {
		if t.Weight != 1 {
			fmt.Fprintf(&buf, "  %q %s %q [penwidth=%.2f];\n", g.ID(t.From), op, g.ID(t.To), penWidth(t.Weight))
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q;\n", g.ID(t.From), op, g.ID(t.To))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func lookup(g *network.Network, name, channel string) (*network.Attribute, error) {
	a, ok := g.Attribute(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "%s: unknown attribute %q", channel, name)
	}
	return a, nil
}

func labels(g *network.Network, name string) ([]string, error) {
	out := g.IDs()
	if name == "" {
		return out, nil
	}
	a, err := lookup(g, name, "label")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = a.Level(i)
	}
	return out, nil
}

func widths(g *network.Network, name string) ([]float64, error) {
	if name == "" {
		return nil, nil
	}
	a, err := lookup(g, name, "size")
	if err != nil {
		return nil, err
	}
	if !a.IsNumeric() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "size: attribute %q is %s, want numeric or ordinal", name, a.Kind)
	}
	lo, hi := span(g, a)
	out := make([]float64, g.N())
	for i := range out {
		out[i] = lerp(minWidth, maxWidth, unit(a.Numeric(i), lo, hi))
	}
	return out, nil
}

func colors(g *network.Network, name string) ([]string, error) {
	if name == "" {
		return nil, nil
	}
	a, err := lookup(g, name, "color")
	if err != nil {
		return nil, err
	}
	out := make([]string, g.N())

	if a.IsCategorical() || !a.IsNumeric() {
		index := make(map[string]int)
		for k, l := range a.Levels() {
			index[l] = k
		}
		for i := range out {
			out[i] = palette[index[a.Level(i)]%len(palette)]
		}
		return out, nil
	}

	lo, hi := span(g, a)
	for i := range out {
		out[i] = gradient(unit(a.Numeric(i), lo, hi))
	}
	return out, nil
}

func span(g *network.Network, a *network.Attribute) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range g.N() {
		lo = min(lo, a.Numeric(i))
		hi = max(hi, a.Numeric(i))
	}
	return lo, hi
}

func unit(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// gradient interpolates from light blue to dark blue.
func gradient(t float64) string {
	r := lerp(0xde, 0x08, t)
	g := lerp(0xeb, 0x30, t)
	b := lerp(0xf7, 0x6b, t)
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(r)), int(math.Round(g)), int(math.Round(b)))
}

func penWidth(w float64) float64 {
	return math.Min(6, 1+math.Log1p(math.Abs(w)))
}
