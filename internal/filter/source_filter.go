package filter

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/mbean"
)

// MessageSource supplies queued-message candidates for the destinations
// named by the queries. The Kafka browser implements it.
type MessageSource interface {
	Messages(ctx context.Context, destinations []string) ([]any, error)
}

// MessageQueryFilter terminates a chain at a message source.
type MessageQueryFilter struct {
	source MessageSource
	logger zerolog.Logger
}

// NewMessageQueryFilter constructs the terminal message filter.
func NewMessageQueryFilter(source MessageSource, logger zerolog.Logger) (*MessageQueryFilter, error) {
	if source == nil {
		return nil, errors.New("filter: message source is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &MessageQueryFilter{
		source: source,
		logger: logger.With().Str("component", "message_query_filter").Logger(),
	}, nil
}

// Query implements QueryFilter.
func (f *MessageQueryFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	candidates, err := f.source.Messages(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("filter: query message source: %w", err)
	}
	f.logger.Debug().Int("candidates", len(candidates)).Msg("filter: message source returned candidates")
	return candidates, nil
}

// BeanSource lists administrative-bean instances matching the queried
// destination names. The Kafka cluster-admin wrapper implements it.
type BeanSource interface {
	Beans(ctx context.Context, queries []string) ([]any, error)
}

// BeanQueryFilter terminates a chain at a bean source.
type BeanQueryFilter struct {
	source BeanSource
	logger zerolog.Logger
}

// NewBeanQueryFilter constructs the terminal bean filter.
func NewBeanQueryFilter(source BeanSource, logger zerolog.Logger) (*BeanQueryFilter, error) {
	if source == nil {
		return nil, errors.New("filter: bean source is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &BeanQueryFilter{
		source: source,
		logger: logger.With().Str("component", "bean_query_filter").Logger(),
	}, nil
}

// Query implements QueryFilter.
func (f *BeanQueryFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	beans, err := f.source.Beans(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("filter: query bean source: %w", err)
	}
	f.logger.Debug().Int("beans", len(beans)).Msg("filter: bean source returned instances")
	return beans, nil
}

// AttributeSource resolves the current attribute list of a bean identity.
// The Kafka cluster-admin wrapper implements it.
type AttributeSource interface {
	Attributes(ctx context.Context, name mbean.ObjectName, view []string) (mbean.AttributeList, error)
}

// BeanAttributeQueryFilter expands each ObjectInstance produced by the
// next filter into its attribute list, prepending the bean identity
// under mbean.KeyObjectNameAttribute so the transformer can merge it.
type BeanAttributeQueryFilter struct {
	next   QueryFilter
	source AttributeSource
	view   []string
	logger zerolog.Logger
}

// NewBeanAttributeQueryFilter constructs the filter. view limits which
// attributes are fetched; empty means all.
func NewBeanAttributeQueryFilter(next QueryFilter, source AttributeSource, view []string, logger zerolog.Logger) (*BeanAttributeQueryFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	if source == nil {
		return nil, errors.New("filter: attribute source is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &BeanAttributeQueryFilter{
		next:   next,
		source: source,
		view:   append([]string(nil), view...),
		logger: logger.With().Str("component", "bean_attribute_query_filter").Logger(),
	}, nil
}

// Query implements QueryFilter.
func (f *BeanAttributeQueryFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	instances, err := f.next.Query(ctx, queries)
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, len(instances))
	for _, candidate := range instances {
		inst, ok := candidate.(mbean.ObjectInstance)
		if !ok {
			f.logger.Warn().Str("type", fmt.Sprintf("%T", candidate)).Msg("filter: skipping non-bean candidate")
			continue
		}
		attrs, err := f.source.Attributes(ctx, inst.Name, f.view)
		if err != nil {
			return nil, fmt.Errorf("filter: fetch attributes of %s: %w", inst.Name.String(), err)
		}
		list := make(mbean.AttributeList, 0, len(attrs)+1)
		list = append(list, mbean.Attribute{Name: mbean.KeyObjectNameAttribute, Value: inst.Name})
		list = append(list, attrs...)
		results = append(results, list)
	}
	return results, nil
}
