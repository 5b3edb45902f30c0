package table

import (
	"fmt"

	"github.com/matzehuels/netergm/pkg/errors"
)

// Kind is the declared type of an attribute column.
type Kind string

// Attribute kinds.
const (
	KindNumeric     Kind = "numeric"
	KindOrdinal     Kind = "ordinal"
	KindCategorical Kind = "categorical"
	KindLabel       Kind = "label"
)

// DefaultIDColumn is the attribute table column holding node identifiers
// when a schema does not name one.
const DefaultIDColumn = "id"

// ValidKinds is the set of supported attribute kinds.
var ValidKinds = map[Kind]bool{
	KindNumeric:     true,
	KindOrdinal:     true,
	KindCategorical: true,
	KindLabel:       true,
}

// IsNumeric reports whether values of kind k are parsed as numbers.
func (k Kind) IsNumeric() bool { return k == KindNumeric || k == KindOrdinal }

// Column declares one attribute column.
type Column struct {
	Name   string // Attribute name used in terms (e.g. "size")
	Source string // Header in the attribute table; defaults to Name
	Kind   Kind
}

// Header returns the table header the column is read from.
func (c Column) Header() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Name
}

// Schema describes the required columns of an attribute table.
type Schema struct {
	IDColumn string
	Columns  []Column
}

// idColumn returns the ID column header, falling back to [DefaultIDColumn].
func (s Schema) idColumn() string {
	if s.IDColumn != "" {
		return s.IDColumn
	}
	return DefaultIDColumn
}

// Validate checks attribute names, kinds and uniqueness.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if err := errors.ValidateAttributeName(c.Name); err != nil {
			return err
		}
		if !ValidKinds[c.Kind] {
			return errors.New(errors.ErrCodeInvalidConfig, "attribute %s: invalid kind %q (must be numeric, ordinal, categorical or label)", c.Name, c.Kind)
		}
		if seen[c.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "attribute %s declared twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Kind)
}
