package term

import (
	"math"
	"strconv"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
)

// Edges counts ties. It is the baseline term of every model.
type Edges struct{}

func bindEdges(spec Spec, _ *network.Network) (Term, error) {
	if spec.NumArgs() > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes no arguments").WithTerm(spec.String())
	}
	return Edges{}, nil
}

func (Edges) Name() string                              { return "edges" }
func (Edges) Label() string                             { return "edges" }
func (Edges) Kind() Kind                                { return KindDyadic }
func (Edges) Stat(g *network.Network) float64           { return float64(g.TieCount()) }
func (Edges) Change(*network.Network, int, int) float64 { return 1 }
func (Edges) Dyad(*network.Network, int, int) float64   { return 1 }

// Absdiff sums |x_i - x_j|^Pow over ties for a numeric attribute.
type Absdiff struct {
	Attr *network.Attribute
	Pow  float64
}

func bindAbsdiff(spec Spec, g *network.Network) (Term, error) {
	if spec.NumArgs() > 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes at most two arguments").WithTerm(spec.String())
	}
	a, err := attribute(spec, g, numericKinds)
	if err != nil {
		return nil, err
	}
	pow := 1.0
	if raw, ok := spec.Arg(1, "pow"); ok {
		pow, err = strconv.ParseFloat(raw, 64)
		if err != nil || pow <= 0 || math.IsInf(pow, 0) || math.IsNaN(pow) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "pow must be a positive number, got %q", raw).WithTerm(spec.String())
		}
	}
	return &Absdiff{Attr: a, Pow: pow}, nil
}

func (t *Absdiff) Name() string { return "absdiff" }

// Label returns "absdiff.<attr>", or "absdiff<pow>.<attr>" when Pow != 1.
func (t *Absdiff) Label() string {
	if t.Pow == 1 {
		return "absdiff." + t.Attr.Name
	}
	return "absdiff" + strconv.FormatFloat(t.Pow, 'g', -1, 64) + "." + t.Attr.Name
}

func (t *Absdiff) Kind() Kind                      { return KindDyadic }
func (t *Absdiff) Stat(g *network.Network) float64 { return sumOverTies(t, g) }

func (t *Absdiff) Change(g *network.Network, i, j int) float64 { return t.Dyad(g, i, j) }

// Dyad returns |x_i - x_j|^Pow.
func (t *Absdiff) Dyad(_ *network.Network, i, j int) float64 {
	d := math.Abs(t.Attr.Numeric(i) - t.Attr.Numeric(j))
	if t.Pow == 1 {
		return d
	}
	return math.Pow(d, t.Pow)
}

// Nodematch counts ties whose endpoints have equal attribute values.
type Nodematch struct {
	Attr *network.Attribute
}

func bindNodematch(spec Spec, g *network.Network) (Term, error) {
	if spec.NumArgs() > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "takes one argument").WithTerm(spec.String())
	}
	a, err := attribute(spec, g, categoricalKinds)
	if err != nil {
		return nil, err
	}
	return &Nodematch{Attr: a}, nil
}

func (t *Nodematch) Name() string                    { return "nodematch" }
func (t *Nodematch) Label() string                   { return "nodematch." + t.Attr.Name }
func (t *Nodematch) Kind() Kind                      { return KindDyadic }
func (t *Nodematch) Stat(g *network.Network) float64 { return sumOverTies(t, g) }

func (t *Nodematch) Change(g *network.Network, i, j int) float64 { return t.Dyad(g, i, j) }

// Dyad returns 1 if nodes i and j have equal values, else 0. Dyad(i, i) is 1.
func (t *Nodematch) Dyad(_ *network.Network, i, j int) float64 {
	return b(t.Attr.Equal(i, j))
}
