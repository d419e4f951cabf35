package filter

import (
	"context"
	"errors"
	"strings"

	"github.com/danielsoro/activemq/internal/transform"
)

// PropertiesViewFilter narrows each flattened result to a requested set
// of keys, preserving the order of the survivors. An empty view passes
// every entry through untouched.
type PropertiesViewFilter struct {
	next QueryFilter
	view map[string]struct{}
}

// NewPropertiesViewFilter constructs a view filter retaining only the
// listed keys.
func NewPropertiesViewFilter(next QueryFilter, view []string) (*PropertiesViewFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	keep := make(map[string]struct{}, len(view))
	for _, key := range view {
		key = strings.TrimSpace(key)
		if key != "" {
			keep[key] = struct{}{}
		}
	}
	return &PropertiesViewFilter{next: next, view: keep}, nil
}

// Query implements QueryFilter.
func (f *PropertiesViewFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	results, err := f.next.Query(ctx, queries)
	if err != nil {
		return nil, err
	}
	if len(f.view) == 0 {
		return results, nil
	}
	for _, result := range results {
		props, ok := result.(*transform.Properties)
		if !ok || props == nil {
			continue
		}
		props.Retain(func(key string) bool {
			_, keep := f.view[key]
			return keep
		})
	}
	return results, nil
}

// Group names accepted by GroupPropertiesViewFilter, mapped to the key
// prefixes that make up each group.
var groupPrefixes = map[string]string{
	"header": transform.HeaderPrefix,
	"body":   transform.BodyPrefix,
	"custom": transform.CustomPrefix,
}

// GroupPropertiesViewFilter narrows each flattened result to whole
// semantic groups (header, body, custom) instead of individual keys.
type GroupPropertiesViewFilter struct {
	next     QueryFilter
	prefixes []string
}

// NewGroupPropertiesViewFilter constructs a group view filter. Unknown
// group names are rejected.
func NewGroupPropertiesViewFilter(next QueryFilter, groups []string) (*GroupPropertiesViewFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	var prefixes []string
	for _, group := range groups {
		prefix, ok := groupPrefixes[strings.ToLower(strings.TrimSpace(group))]
		if !ok {
			return nil, errors.New("filter: unknown property group " + group)
		}
		prefixes = append(prefixes, prefix)
	}
	return &GroupPropertiesViewFilter{next: next, prefixes: prefixes}, nil
}

// Query implements QueryFilter.
func (f *GroupPropertiesViewFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	results, err := f.next.Query(ctx, queries)
	if err != nil {
		return nil, err
	}
	if len(f.prefixes) == 0 {
		return results, nil
	}
	for _, result := range results {
		props, ok := result.(*transform.Properties)
		if !ok || props == nil {
			continue
		}
		props.Retain(func(key string) bool {
			for _, prefix := range f.prefixes {
				if strings.HasPrefix(key, prefix) {
					return true
				}
			}
			return false
		})
	}
	return results, nil
}
