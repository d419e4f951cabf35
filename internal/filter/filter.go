// Package filter implements the console query pipeline: a chain of
// filters where each member pulls candidates from the next, reshapes
// them, and hands the result upstream to the caller.
package filter

import "context"

// QueryFilter is one member of the chain. Query runs the supplied query
// strings against the filter and everything downstream of it, returning
// the reshaped results.
type QueryFilter interface {
	Query(ctx context.Context, queries []string) ([]any, error)
}

// StubQueryFilter terminates a chain with a fixed data set. It is used
// as the source in tests and wherever candidates are already in hand.
type StubQueryFilter struct {
	data []any
}

// NewStubQueryFilter constructs a terminal filter over data.
func NewStubQueryFilter(data []any) *StubQueryFilter {
	copied := make([]any, len(data))
	copy(copied, data)
	return &StubQueryFilter{data: copied}
}

// Query returns the fixed data set regardless of the queries.
func (f *StubQueryFilter) Query(ctx context.Context, _ []string) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]any, len(f.data))
	copy(out, f.data)
	return out, nil
}
