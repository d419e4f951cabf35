package filter

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/danielsoro/activemq/internal/transform"
)

// Option customises a MapTransformFilter during construction.
type Option func(*MapTransformFilter)

// WithConcurrency enables bounded concurrent transformation of the
// candidates returned by the next filter. Values below two keep the
// sequential path.
func WithConcurrency(n int) Option {
	return func(f *MapTransformFilter) {
		if n > 1 {
			f.concurrency = n
		}
	}
}

// MapTransformFilter flattens every candidate produced by the next
// filter into an ordered property map. Candidates without a registered
// transformation are dropped after the transformer reports them; a
// field read failure aborts the whole query.
type MapTransformFilter struct {
	next        QueryFilter
	transformer *transform.MapTransformer
	logger      zerolog.Logger
	concurrency int
}

// NewMapTransformFilter constructs the filter. Both the next filter and
// the transformer are required.
func NewMapTransformFilter(next QueryFilter, transformer *transform.MapTransformer, logger zerolog.Logger, opts ...Option) (*MapTransformFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	if transformer == nil {
		return nil, errors.New("filter: transformer is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	f := &MapTransformFilter{
		next:        next,
		transformer: transformer,
		logger:      logger.With().Str("component", "map_transform_filter").Logger(),
		concurrency: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Query implements QueryFilter.
func (f *MapTransformFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	candidates, err := f.next.Query(ctx, queries)
	if err != nil {
		return nil, err
	}

	if f.concurrency <= 1 {
		return f.transformSequential(candidates)
	}
	return f.transformConcurrent(ctx, candidates)
}

func (f *MapTransformFilter) transformSequential(candidates []any) ([]any, error) {
	results := make([]any, 0, len(candidates))
	for _, candidate := range candidates {
		props, err := f.transformer.Transform(candidate)
		if err != nil {
			return nil, err
		}
		if props != nil {
			results = append(results, props)
		}
	}
	return results, nil
}

// transformConcurrent fans candidates out under a weighted semaphore,
// keeping result order aligned with candidate order. The transformer is
// stateless, so sharing it across goroutines is safe.
func (f *MapTransformFilter) transformConcurrent(ctx context.Context, candidates []any) ([]any, error) {
	sem := semaphore.NewWeighted(int64(f.concurrency))
	slots := make([]*transform.Properties, len(candidates))
	errs := make([]error, len(candidates))

	for i, candidate := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, candidate any) {
			defer sem.Release(1)
			slots[i], errs[i] = f.transformer.Transform(candidate)
		}(i, candidate)
	}

	// Draining the semaphore waits for all in-flight transforms.
	if err := sem.Acquire(ctx, int64(f.concurrency)); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err != nil {
			f.logger.Warn().Int("candidate", i).Err(err).Msg("filter: transform failed")
			return nil, err
		}
	}

	results := make([]any, 0, len(candidates))
	for _, props := range slots {
		if props != nil {
			results = append(results, props)
		}
	}
	return results, nil
}
