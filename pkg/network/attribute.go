package network

import (
	"slices"
	"strconv"

	"github.com/matzehuels/netergm/pkg/table"
)

// Attribute is a read-only node covariate aligned to network node order.
type Attribute struct {
	Name string
	Kind table.Kind
	num  []float64
	str  []string
}

func newAttribute(s table.Series) *Attribute {
	return &Attribute{
		Name: s.Column.Name,
		Kind: s.Column.Kind,
		num:  slices.Clone(s.Num),
		str:  slices.Clone(s.Str),
	}
}

// IsNumeric reports whether the attribute holds numbers (numeric or ordinal).
func (a *Attribute) IsNumeric() bool { return a.Kind.IsNumeric() }

// IsCategorical reports whether the attribute has discrete levels that can be
// compared for equality: categorical strings or ordinal scores.
func (a *Attribute) IsCategorical() bool {
	return a.Kind == table.KindCategorical || a.Kind == table.KindOrdinal
}

// Numeric returns the value of node i. It returns 0 for string attributes.
func (a *Attribute) Numeric(i int) float64 {
	if a.num == nil {
		return 0
	}
	return a.num[i]
}

// Level returns the value of node i as a string. Numbers are formatted in
// their shortest exact form.
func (a *Attribute) Level(i int) string {
	if a.num != nil {
		return strconv.FormatFloat(a.num[i], 'g', -1, 64)
	}
	return a.str[i]
}

// Equal reports whether nodes i and j have the same value: numeric equality
// for numeric kinds, case-sensitive string equality otherwise.
func (a *Attribute) Equal(i, j int) bool {
	if a.num != nil {
		return a.num[i] == a.num[j]
	}
	return a.str[i] == a.str[j]
}

// Levels returns the distinct values of the attribute in first-seen order.
func (a *Attribute) Levels() []string {
	var out []string
	seen := make(map[string]bool)
	for i := range max(len(a.num), len(a.str)) {
		l := a.Level(i)
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// Attribute returns the named node attribute.
func (g *Network) Attribute(name string) (*Attribute, bool) {
	for _, a := range g.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// AttributeNames returns the attribute names in declaration order.
func (g *Network) AttributeNames() []string {
	names := make([]string, len(g.attrs))
	for i, a := range g.attrs {
		names[i] = a.Name
	}
	return names
}
