package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/netergm/pkg/errors"
)

// Series holds the parsed values of one attribute column. Numeric and
// ordinal columns fill Num; categorical and label columns fill Str.
type Series struct {
	Column Column
	Num    []float64
	Str    []string
}

// Attributes is a validated node attribute table. Row i of every series
// refers to the node IDs[i].
type Attributes struct {
	IDs    []string
	Series []Series
}

// Len returns the number of rows.
func (a *Attributes) Len() int { return len(a.IDs) }

// Lookup returns the series for the named attribute.
func (a *Attributes) Lookup(name string) (*Series, bool) {
	for i := range a.Series {
		if a.Series[i].Column.Name == name {
			return &a.Series[i], true
		}
	}
	return nil, false
}

// ReadAttributes parses a delimited attribute table from r using schema.
//
// ReadAttributes returns an error with code:
//   - SCHEMA_ERROR if the ID column or a declared column is missing, or a
//     value does not parse under its declared kind
//   - ALIGNMENT_ERROR if a node identifier appears more than once
//
// Columns present in the table but absent from the schema are ignored.
// ReadAttributes does not close r.
func ReadAttributes(r io.Reader, schema Schema) (*Attributes, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "parse attribute table")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "attribute table is empty")
	}

	header := indexOf(records[0])
	idCol, ok := header[schema.idColumn()]
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "attribute table is missing ID column %q", schema.idColumn())
	}

	var missing []string
	positions := make([]int, len(schema.Columns))
	for i, c := range schema.Columns {
		pos, ok := header[c.Header()]
		if !ok {
			missing = append(missing, c.Header())
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeSchema, "attribute table is missing required columns: %s", strings.Join(missing, ", "))
	}

	rows := records[1:]
	attrs := &Attributes{
		IDs:    make([]string, len(rows)),
		Series: make([]Series, len(schema.Columns)),
	}
	for i, c := range schema.Columns {
		attrs.Series[i].Column = c
		if c.Kind.IsNumeric() {
			attrs.Series[i].Num = make([]float64, len(rows))
		} else {
			attrs.Series[i].Str = make([]string, len(rows))
		}
	}

	for r, rec := range rows {
		if len(rec) != len(records[0]) {
			return nil, errors.New(errors.ErrCodeSchema, "attribute row %d has %d fields, want %d", r+1, len(rec), len(records[0]))
		}
		id := rec[idCol]
		attrs.IDs[r] = id
		for i, c := range schema.Columns {
			cell := rec[positions[i]]
			if err := attrs.Series[i].set(r, cell); err != nil {
				return nil, errors.Wrap(errors.ErrCodeSchema, err, "attribute %s", c.Name).WithNodes(id)
			}
		}
	}
	if err := checkIDs(attrs.IDs, "attribute"); err != nil {
		return nil, err
	}

	return attrs, nil
}

// set parses cell under the series kind and stores it at row r.
func (s *Series) set(r int, cell string) error {
	switch s.Column.Kind {
	case KindNumeric:
		v, err := parseNumber(cell)
		if err != nil {
			return err
		}
		s.Num[r] = v
	case KindOrdinal:
		v, err := parseNumber(cell)
		if err != nil {
			return err
		}
		if v != math.Trunc(v) {
			return fmt.Errorf("ordinal value %q is not an integer", cell)
		}
		s.Num[r] = v
	case KindCategorical:
		if isMissing(strings.TrimSpace(cell)) {
			return fmt.Errorf("missing value %q", cell)
		}
		s.Str[r] = cell
	case KindLabel:
		s.Str[r] = cell
	}
	return nil
}

func parseNumber(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if isMissing(cell) {
		return 0, fmt.Errorf("missing value %q", cell)
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %q", cell)
	}
	return v, nil
}

// Align checks that attrs covers exactly the node set of adj and returns a
// copy of attrs with rows in adjacency order.
//
// Align returns an ALIGNMENT_ERROR listing every identifier present in one
// table but not the other.
func Align(adj *Adjacency, attrs *Attributes) (*Attributes, error) {
	missing, extra := diffIDs(adj.IDs, attrs.IDs)
	if len(missing) > 0 || len(extra) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("%d without attributes", len(missing)))
		}
		if len(extra) > 0 {
			parts = append(parts, fmt.Sprintf("%d not in adjacency", len(extra)))
		}
		return nil, errors.New(errors.ErrCodeAlignment, "attribute table does not match adjacency nodes: %s", strings.Join(parts, ", ")).
			WithNodes(append(missing, extra...)...)
	}

	position := indexOf(attrs.IDs)
	out := &Attributes{
		IDs:    make([]string, len(adj.IDs)),
		Series: make([]Series, len(attrs.Series)),
	}
	copy(out.IDs, adj.IDs)
	for s, src := range attrs.Series {
		dst := Series{Column: src.Column}
		if src.Num != nil {
			dst.Num = make([]float64, len(adj.IDs))
		}
		if src.Str != nil {
			dst.Str = make([]string, len(adj.IDs))
		}
		for i, id := range adj.IDs {
			p := position[id]
			if src.Num != nil {
				dst.Num[i] = src.Num[p]
			}
			if src.Str != nil {
				dst.Str[i] = src.Str[p]
			}
		}
		out.Series[s] = dst
	}
	return out, nil
}
