// Package networktest builds small networks for tests.
package networktest

import (
	"testing"

	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/table"
)

// New assembles a network over ids with a unit-weight tie for each pair in
// ties. Undirected networks get both (a, b) and (b, a) set. It fails the test
// on any assembly error.
func New(tb testing.TB, directed bool, ids []string, ties [][2]string, attrs ...table.Series) *network.Network {
	tb.Helper()

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	values := make([][]float64, len(ids))
	for i := range values {
		values[i] = make([]float64, len(ids))
	}
	for _, t := range ties {
		i, ok := pos[t[0]]
		if !ok {
			tb.Fatalf("networktest: unknown node %q", t[0])
		}
		j, ok := pos[t[1]]
		if !ok {
			tb.Fatalf("networktest: unknown node %q", t[1])
		}
		values[i][j] = 1
		if !directed {
			values[j][i] = 1
		}
	}

	adj := &table.Adjacency{IDs: ids, Values: values}
	net, err := network.Assemble(adj, &table.Attributes{IDs: ids, Series: attrs}, network.Options{Directed: directed})
	if err != nil {
		tb.Fatalf("networktest: assemble: %v", err)
	}
	return net
}

// Numeric returns a numeric attribute series.
func Numeric(name string, values ...float64) table.Series {
	return table.Series{Column: table.Column{Name: name, Kind: table.KindNumeric}, Num: values}
}

// Ordinal returns an ordinal attribute series.
func Ordinal(name string, values ...float64) table.Series {
	return table.Series{Column: table.Column{Name: name, Kind: table.KindOrdinal}, Num: values}
}

// Categorical returns a categorical attribute series.
func Categorical(name string, values ...string) table.Series {
	return table.Series{Column: table.Column{Name: name, Kind: table.KindCategorical}, Str: values}
}

// Label returns a label attribute series.
func Label(name string, values ...string) table.Series {
	return table.Series{Column: table.Column{Name: name, Kind: table.KindLabel}, Str: values}
}
