package network

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/table"
)

// Symmetrize selects how an undirected network treats an asymmetric
// adjacency matrix.
type Symmetrize string

const (
	// SymmetrizeStrict rejects asymmetric input with a shape error.
	SymmetrizeStrict Symmetrize = "strict"
	// SymmetrizeMax keeps the larger weight of each (i, j), (j, i) pair.
	SymmetrizeMax Symmetrize = "max"
)

// ValidSymmetrize is the set of supported symmetrize modes.
var ValidSymmetrize = map[Symmetrize]bool{
	SymmetrizeStrict: true,
	SymmetrizeMax:    true,
}

// Options configures network assembly.
type Options struct {
	Directed   bool
	Symmetrize Symmetrize // Undirected only; empty means SymmetrizeStrict
}

// Tie is a present tie between two nodes. For undirected networks From < To.
type Tie struct {
	From   int
	To     int
	Weight float64
}

// Network is an immutable directed or undirected graph with node attributes.
// The zero value is not usable; use [Assemble].
type Network struct {
	ids      []string
	index    map[string]int
	directed bool
	weights  *mat.Dense
	attrs    []*Attribute
}

// Assemble builds a Network from a validated adjacency matrix and attribute
// table. Attribute rows are aligned to the adjacency order first.
//
// Assemble returns an error with code:
//   - SHAPE_ERROR if there are no nodes, or an undirected network is given an
//     asymmetric matrix under [SymmetrizeStrict]
//   - ALIGNMENT_ERROR if the attribute table does not cover the node set
func Assemble(adj *table.Adjacency, attrs *table.Attributes, opts Options) (*Network, error) {
	n := adj.N()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeShape, "network has no nodes")
	}
	if len(adj.Values) != n {
		return nil, errors.New(errors.ErrCodeShape, "adjacency has %d rows for %d nodes", len(adj.Values), n)
	}
	if opts.Symmetrize == "" {
		opts.Symmetrize = SymmetrizeStrict
	}
	if !ValidSymmetrize[opts.Symmetrize] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid symmetrize mode %q (must be 'strict' or 'max')", opts.Symmetrize)
	}

	if attrs == nil {
		attrs = &table.Attributes{IDs: adj.IDs}
	}
	aligned, err := table.Align(adj, attrs)
	if err != nil {
		return nil, err
	}

	w := mat.NewDense(n, n, nil)
	for i, row := range adj.Values {
		if len(row) != n {
			return nil, errors.New(errors.ErrCodeShape, "adjacency row has %d values, want %d", len(row), n).WithNodes(adj.IDs[i])
		}
		for j, v := range row {
			if i != j {
				w.Set(i, j, v)
			}
		}
	}

	if !opts.Directed {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				a, b := w.At(i, j), w.At(j, i)
				if a == b {
					continue
				}
				if opts.Symmetrize == SymmetrizeStrict {
					return nil, errors.New(errors.ErrCodeShape, "undirected network requires a symmetric adjacency: %v vs %v", a, b).
						WithNodes(adj.IDs[i], adj.IDs[j])
				}
				m := max(a, b)
				w.Set(i, j, m)
				w.Set(j, i, m)
			}
		}
	}

	net := &Network{
		ids:      slices.Clone(adj.IDs),
		index:    make(map[string]int, n),
		directed: opts.Directed,
		weights:  w,
		attrs:    make([]*Attribute, len(aligned.Series)),
	}
	for i, id := range net.ids {
		net.index[id] = i
	}
	for i, s := range aligned.Series {
		net.attrs[i] = newAttribute(s)
	}
	return net, nil
}

// N returns the number of nodes.
func (g *Network) N() int { return len(g.ids) }

// Directed reports whether ties are ordered pairs.
func (g *Network) Directed() bool { return g.directed }

// ID returns the identifier of node i.
func (g *Network) ID(i int) string { return g.ids[i] }

// IDs returns a copy of the node identifiers in index order.
func (g *Network) IDs() []string { return slices.Clone(g.ids) }

// Index returns the position of the node with the given identifier.
func (g *Network) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Weight returns the weight of the tie i→j (i–j when undirected), 0 if absent.
func (g *Network) Weight(i, j int) float64 { return g.weights.At(i, j) }

// HasTie reports whether a tie i→j (i–j when undirected) is present.
// Self-ties are never present.
func (g *Network) HasTie(i, j int) bool { return i != j && g.weights.At(i, j) != 0 }

// Dyads returns the number of dyads: n(n-1) directed or n(n-1)/2 undirected.
func (g *Network) Dyads() int {
	n := g.N()
	if g.directed {
		return n * (n - 1)
	}
	return n * (n - 1) / 2
}

// ForEachDyad calls fn for every dyad in row-major order: every ordered
// pair i != j when directed, every pair i < j when undirected.
func (g *Network) ForEachDyad(fn func(i, j int)) {
	n := g.N()
	for i := 0; i < n; i++ {
		start := 0
		if !g.directed {
			start = i + 1
		}
		for j := start; j < n; j++ {
			if i != j {
				fn(i, j)
			}
		}
	}
}

// Ties returns every present tie in dyad order.
func (g *Network) Ties() []Tie {
	var ties []Tie
	g.ForEachDyad(func(i, j int) {
		if w := g.weights.At(i, j); w != 0 {
			ties = append(ties, Tie{From: i, To: j, Weight: w})
		}
	})
	return ties
}

// TieCount returns the number of present ties.
func (g *Network) TieCount() int {
	count := 0
	g.ForEachDyad(func(i, j int) {
		if g.weights.At(i, j) != 0 {
			count++
		}
	})
	return count
}

// Density returns TieCount divided by Dyads, or 0 for a single node.
func (g *Network) Density() float64 {
	d := g.Dyads()
	if d == 0 {
		return 0
	}
	return float64(g.TieCount()) / float64(d)
}

// OutDegree returns the number of ties sent by i.
func (g *Network) OutDegree(i int) int {
	d := 0
	for j := 0; j < g.N(); j++ {
		if g.HasTie(i, j) {
			d++
		}
	}
	return d
}

// InDegree returns the number of ties received by j.
func (g *Network) InDegree(j int) int {
	d := 0
	for i := 0; i < g.N(); i++ {
		if g.HasTie(i, j) {
			d++
		}
	}
	return d
}

// Degree returns the number of ties incident to i. For directed networks
// this is in-degree plus out-degree.
func (g *Network) Degree(i int) int {
	if g.directed {
		return g.InDegree(i) + g.OutDegree(i)
	}
	return g.OutDegree(i)
}

// Isolates returns the indices of nodes with no incident ties.
func (g *Network) Isolates() []int {
	var out []int
	for i := 0; i < g.N(); i++ {
		if g.Degree(i) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// DegreeDistribution returns counts where counts[d] is the number of nodes
// with [Network.Degree] d. The slice has length max degree + 1.
func (g *Network) DegreeDistribution() []int {
	degrees := make([]int, g.N())
	top := 0
	for i := range degrees {
		degrees[i] = g.Degree(i)
		top = max(top, degrees[i])
	}
	counts := make([]int, top+1)
	for _, d := range degrees {
		counts[d]++
	}
	return counts
}

// WithTie returns a copy of g with the tie i→j (i–j when undirected) set to
// weight. A zero weight removes the tie. The receiver is not modified.
func (g *Network) WithTie(i, j int, weight float64) *Network {
	if i == j {
		return g
	}
	w := mat.DenseCopyOf(g.weights)
	w.Set(i, j, weight)
	if !g.directed {
		w.Set(j, i, weight)
	}
	out := *g
	out.weights = w
	return &out
}

// Matrix returns a copy of the weight matrix.
func (g *Network) Matrix() *mat.Dense {
	return mat.DenseCopyOf(g.weights)
}
