package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/netergm/pkg/errors"
)

// Adjacency is a validated square tie-weight matrix. Row i and column i
// refer to the node IDs[i].
type Adjacency struct {
	IDs    []string
	Values [][]float64
}

// N returns the number of nodes.
func (a *Adjacency) N() int { return len(a.IDs) }

// ReadAdjacency parses a delimited adjacency table from r.
//
// ReadAdjacency returns an error with code:
//   - SHAPE_ERROR if the table is empty, ragged or not square
//   - ALIGNMENT_ERROR if identifiers repeat or rows and columns name different nodes
//   - SCHEMA_ERROR if an identifier is invalid or a cell is not a non-negative number
//
// ReadAdjacency does not close r.
func ReadAdjacency(r io.Reader) (*Adjacency, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "parse adjacency table")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeShape, "adjacency table is empty")
	}

	cols := records[0][1:]
	rows := records[1:]
	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeShape, "adjacency table has no columns")
	}
	if len(rows) != len(cols) {
		return nil, errors.New(errors.ErrCodeShape, "adjacency table is not square: %d rows, %d columns", len(rows), len(cols))
	}

	if err := checkIDs(cols, "column"); err != nil {
		return nil, err
	}
	rowIDs := make([]string, len(rows))
	for i, rec := range rows {
		if len(rec) != len(cols)+1 {
			return nil, errors.New(errors.ErrCodeShape, "adjacency row %d has %d values, want %d", i+1, len(rec)-1, len(cols)).WithNodes(rec[0])
		}
		rowIDs[i] = rec[0]
	}
	if err := checkIDs(rowIDs, "row"); err != nil {
		return nil, err
	}
	if missing, extra := diffIDs(cols, rowIDs); len(missing)+len(extra) > 0 {
		return nil, errors.New(errors.ErrCodeAlignment, "adjacency rows and columns name different nodes").
			WithNodes(append(missing, extra...)...)
	}

	position := indexOf(rowIDs)
	values := make([][]float64, len(cols))
	for i, id := range cols {
		rec := rows[position[id]]
		values[i] = make([]float64, len(cols))
		for j, cell := range rec[1:] {
			v, err := parseWeight(cell)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeSchema, err, "adjacency cell").WithNodes(id, cols[j])
			}
			values[i][j] = v
		}
	}

	return &Adjacency{IDs: slices.Clone(cols), Values: values}, nil
}

// parseWeight parses one adjacency cell.
func parseWeight(cell string) (float64, error) {
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
	if v < 0 {
		return 0, fmt.Errorf("negative tie weight %v", v)
	}
	return v, nil
}

// isMissing reports whether cell is an empty or NA marker.
func isMissing(cell string) bool {
	return cell == "" || cell == "NA"
}

// checkIDs validates each identifier and rejects duplicates.
func checkIDs(ids []string, what string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
		if seen[id] {
			return errors.New(errors.ErrCodeAlignment, "duplicate %s identifier", what).WithNodes(id)
		}
		seen[id] = true
	}
	return nil
}

// diffIDs returns the identifiers of want absent from got (missing) and
// the identifiers of got absent from want (extra), each sorted.
func diffIDs(want, got []string) (missing, extra []string) {
	w, g := indexOf(want), indexOf(got)
	for _, id := range want {
		if _, ok := g[id]; !ok {
			missing = append(missing, id)
		}
	}
	for _, id := range got {
		if _, ok := w[id]; !ok {
			extra = append(extra, id)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return missing, extra
}

func indexOf(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
