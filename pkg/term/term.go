package term

import (
	"maps"
	"slices"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/table"
)

// Kind distinguishes dyadic covariate terms from structural terms.
type Kind int

const (
	// KindDyadic terms are computed from one dyad and its node attributes.
	KindDyadic Kind = iota
	// KindStructural terms are computed from the graph topology alone.
	KindStructural
)

// String returns "dyadic" or "structural".
func (k Kind) String() string {
	if k == KindStructural {
		return "structural"
	}
	return "dyadic"
}

// Term is a bound model term.
type Term interface {
	// Name returns the term name, e.g. "absdiff".
	Name() string
	// Label returns the coefficient label, e.g. "absdiff.size".
	Label() string
	// Kind reports whether the term is dyadic or structural.
	Kind() Kind
	// Stat returns the observed statistic of g.
	Stat(g *network.Network) float64
	// Change returns the change in Stat from toggling dyad (i, j) on with
	// every other dyad at its observed value.
	Change(g *network.Network, i, j int) float64
}

// Dyadic is implemented by terms whose statistic is a sum over ties of a
// per-dyad value.
type Dyadic interface {
	Term
	// Dyad returns the contribution of dyad (i, j) when tied.
	Dyad(g *network.Network, i, j int) float64
}

// Info declares a term's applicability and requirements.
type Info struct {
	Name        string
	Kind        Kind
	Directed    bool         // Legal on directed networks
	Undirected  bool         // Legal on undirected networks
	AttrKinds   []table.Kind // Accepted attribute kinds; nil if no attribute
	Params      []string     // Argument names in positional order
	Usage       string
	Description string
}

// Applies reports whether the term is legal on a network with the given
// directedness.
func (i Info) Applies(directed bool) bool {
	if directed {
		return i.Directed
	}
	return i.Undirected
}

type factory func(spec Spec, g *network.Network) (Term, error)

type entry struct {
	info Info
	bind factory
}

var numericKinds = []table.Kind{table.KindNumeric, table.KindOrdinal}
var categoricalKinds = []table.Kind{table.KindCategorical, table.KindOrdinal}

var registry = map[string]entry{
	"edges": {
		info: Info{Name: "edges", Kind: KindDyadic, Directed: true, Undirected: true,
			Usage: "edges", Description: "number of ties"},
		bind: bindEdges,
	},
	"absdiff": {
		info: Info{Name: "absdiff", Kind: KindDyadic, Directed: true, Undirected: true, AttrKinds: numericKinds, Params: []string{"attr", "pow"},
			Usage: "absdiff(attr[, pow])", Description: "sum over ties of |x_i - x_j|^pow"},
		bind: bindAbsdiff,
	},
	"nodematch": {
		info: Info{Name: "nodematch", Kind: KindDyadic, Directed: true, Undirected: true, AttrKinds: categoricalKinds, Params: []string{"attr"},
			Usage: "nodematch(attr)", Description: "number of ties between nodes with equal attribute values"},
		bind: bindNodematch,
	},
	"isolates": {
		info: Info{Name: "isolates", Kind: KindStructural, Undirected: true,
			Usage: "isolates", Description: "number of nodes with degree 0"},
		bind: bindIsolates,
	},
	"concurrent": {
		info: Info{Name: "concurrent", Kind: KindStructural, Undirected: true,
			Usage: "concurrent", Description: "number of nodes with degree >= 2"},
		bind: bindConcurrent,
	},
	"istar": {
		info: Info{Name: "istar", Kind: KindStructural, Directed: true, Params: []string{"k"},
			Usage: "istar(k)", Description: "sum over nodes of C(in-degree, k)"},
		bind: bindIstar,
	},
}

// Names returns the recognized term names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Describe returns the declaration of the named term.
func Describe(name string) (Info, bool) {
	e, ok := registry[name]
	return e.info, ok
}

// Bind resolves spec against the registry and checks it against g.
//
// Bind returns an error with code:
//   - UNKNOWN_TERM if the name is not recognized
//   - UNSUPPORTED_TERM if the term is illegal for g's directedness, or the
//     attribute has the wrong kind
//   - SCHEMA_ERROR if the attribute is not present on g
//   - INVALID_INPUT if the parameters are malformed or a named parameter
//     is not declared by the term
func Bind(spec Spec, g *network.Network) (Term, error) {
	e, ok := registry[spec.Name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownTerm, "unknown term (must be one of %v)", Names()).WithTerm(spec.Name)
	}
	if !e.info.Applies(g.Directed()) {
		want := "an undirected"
		if e.info.Directed {
			want = "a directed"
		}
		return nil, errors.New(errors.ErrCodeUnsupportedTerm, "requires %s network", want).WithTerm(spec.String())
	}
	if err := checkParams(e.info, spec); err != nil {
		return nil, err
	}
	return e.bind(spec, g)
}

// checkParams rejects named arguments the term does not declare and named
// arguments that repeat a positional one.
func checkParams(info Info, spec Spec) error {
	for _, key := range slices.Sorted(maps.Keys(spec.Params)) {
		pos := slices.Index(info.Params, key)
		if pos < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "unknown parameter %q (accepts %v)", key, info.Params).WithTerm(spec.String())
		}
		if pos < len(spec.Args) {
			return errors.New(errors.ErrCodeInvalidInput, "parameter %s given by position and by name", key).WithTerm(spec.String())
		}
	}
	return nil
}

// Build parses expr and binds it to g.
func Build(expr string, g *network.Network) (Term, error) {
	spec, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return Bind(spec, g)
}

// attribute resolves the attribute named by the first argument of spec and
// checks that its kind is one of kinds.
func attribute(spec Spec, g *network.Network, kinds []table.Kind) (*network.Attribute, error) {
	name, ok := spec.Arg(0, "attr")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing attribute argument").WithTerm(spec.String())
	}
	a, ok := g.Attribute(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "network has no attribute %q (have %v)", name, g.AttributeNames()).WithTerm(spec.String())
	}
	if !slices.Contains(kinds, a.Kind) {
		return nil, errors.New(errors.ErrCodeUnsupportedTerm, "attribute %s is %s, want one of %v", name, a.Kind, kinds).WithTerm(spec.String())
	}
	return a, nil
}

// sumOverTies sums t.Dyad over the present ties of g.
func sumOverTies(t Dyadic, g *network.Network) float64 {
	var sum float64
	for _, tie := range g.Ties() {
		sum += t.Dyad(g, tie.From, tie.To)
	}
	return sum
}

// b converts a boolean to 0 or 1.
func b(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
