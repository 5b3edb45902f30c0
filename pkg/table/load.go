package table

import (
	"context"
	"fmt"
	"io"
)

// Opener opens a data source (a local path or a URL) as a byte stream.
type Opener interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// Sources names the two inputs of a network analysis.
type Sources struct {
	Adjacency  string
	Attributes string
}

// Load opens both sources, parses them and aligns the attribute rows to the
// adjacency order. The returned pair satisfies: same node set, same order,
// no duplicates, square adjacency.
func Load(ctx context.Context, op Opener, src Sources, schema Schema) (*Adjacency, *Attributes, error) {
	adj, err := readWith(ctx, op, src.Adjacency, ReadAdjacency)
	if err != nil {
		return nil, nil, err
	}

	attrs, err := readWith(ctx, op, src.Attributes, func(r io.Reader) (*Attributes, error) {
		return ReadAttributes(r, schema)
	})
	if err != nil {
		return nil, nil, err
	}

	aligned, err := Align(adj, attrs)
	if err != nil {
		return nil, nil, err
	}
	return adj, aligned, nil
}

func readWith[T any](ctx context.Context, op Opener, source string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	rc, err := op.Open(ctx, source)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", source, err)
	}
	defer rc.Close()

	v, err := read(rc)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", source, err)
	}
	return v, nil
}
