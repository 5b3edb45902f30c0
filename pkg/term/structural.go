package term

import (
	"strconv"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
)

// Isolates counts nodes with no incident ties in an undirected network.
type Isolates struct{}

func bindIsolates(spec Spec, _ *network.Network) (Term, error) {
	if spec.NumArgs() > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes no arguments").WithTerm(spec.String())
	}
	return Isolates{}, nil
}

func (Isolates) Name() string  { return "isolates" }
func (Isolates) Label() string { return "isolates" }
func (Isolates) Kind() Kind    { return KindStructural }

func (Isolates) Stat(g *network.Network) float64 { return float64(len(g.Isolates())) }

// Change is minus the number of endpoints of (i, j) that are isolated once
// the dyad itself is excluded.
func (Isolates) Change(g *network.Network, i, j int) float64 {
	di, dj := degreeWithout(g, i, j)
	return -(b(di == 0) + b(dj == 0))
}

// Concurrent counts nodes with degree of at least two in an undirected
// network.
type Concurrent struct{}

func bindConcurrent(spec Spec, _ *network.Network) (Term, error) {
	if spec.NumArgs() > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes no arguments").WithTerm(spec.String())
	}
	return Concurrent{}, nil
}

func (Concurrent) Name() string  { return "concurrent" }
func (Concurrent) Label() string { return "concurrent" }
func (Concurrent) Kind() Kind    { return KindStructural }

func (Concurrent) Stat(g *network.Network) float64 {
	count := 0
	for i := 0; i < g.N(); i++ {
		if g.Degree(i) >= 2 {
			count++
		}
	}
	return float64(count)
}

// Change is the number of endpoints of (i, j) whose degree rises from one to
// two when the dyad is tied.
func (Concurrent) Change(g *network.Network, i, j int) float64 {
	di, dj := degreeWithout(g, i, j)
	return b(di == 1) + b(dj == 1)
}

// Istar counts k-in-stars: for every node, the number of ways to choose K of
// the ties pointing into it.
type Istar struct {
	K int
}

// DefaultStarSize is the star size of istar when no argument is given.
const DefaultStarSize = 2

func bindIstar(spec Spec, _ *network.Network) (Term, error) {
	if spec.NumArgs() > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes one argument").WithTerm(spec.String())
	}
	k := DefaultStarSize
	if raw, ok := spec.Arg(0, "k"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "k must be a positive integer, got %q", raw).WithTerm(spec.String())
		}
		k = v
	}
	return &Istar{K: k}, nil
}

func (t *Istar) Name() string  { return "istar" }
func (t *Istar) Label() string { return "istar" + strconv.Itoa(t.K) }
func (t *Istar) Kind() Kind    { return KindStructural }

func (t *Istar) Stat(g *network.Network) float64 {
	var sum float64
	for j := 0; j < g.N(); j++ {
		sum += choose(g.InDegree(j), t.K)
	}
	return sum
}

// Change is C(d, K-1) where d is the in-degree of j excluding the tie i→j.
func (t *Istar) Change(g *network.Network, i, j int) float64 {
	d := g.InDegree(j)
	if g.HasTie(i, j) {
		d--
	}
	return choose(d, t.K-1)
}

// degreeWithout returns the degrees of i and j ignoring the dyad (i, j).
func degreeWithout(g *network.Network, i, j int) (int, int) {
	di, dj := g.Degree(i), g.Degree(j)
	if g.HasTie(i, j) {
		di--
		dj--
	}
	return di, dj
}

// choose returns C(n, k), which is 0 when k > n.
func choose(n, k int) float64 {
	if k > n {
		return 0
	}
	return float64(combin.Binomial(n, k))
}
