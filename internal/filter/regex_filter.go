package filter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/danielsoro/activemq/internal/transform"
)

// regexMarker tags a query string that has already been converted to an
// anchored regular expression by the wildcard filter.
const regexMarker = "regex:"

// WildcardTransformFilter rewrites query tokens containing the shell
// wildcards '*' and '?' into anchored regular expressions before
// delegating, so a downstream RegExQueryFilter can apply them. Tokens
// without wildcards pass through unchanged.
type WildcardTransformFilter struct {
	next QueryFilter
}

// NewWildcardTransformFilter constructs the filter.
func NewWildcardTransformFilter(next QueryFilter) (*WildcardTransformFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	return &WildcardTransformFilter{next: next}, nil
}

// Query implements QueryFilter.
func (f *WildcardTransformFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	rewritten := make([]string, len(queries))
	for i, query := range queries {
		if strings.ContainsAny(query, "*?") {
			rewritten[i] = regexMarker + wildcardToRegex(query)
		} else {
			rewritten[i] = query
		}
	}
	return f.next.Query(ctx, rewritten)
}

func wildcardToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}

// RegExQueryFilter retains only the flattened results in which at least
// one value matches every regex query. Non-regex queries are forwarded
// to the next filter untouched, so sources still see their own query
// vocabulary (destination names, attribute names).
type RegExQueryFilter struct {
	next QueryFilter
}

// NewRegExQueryFilter constructs the filter.
func NewRegExQueryFilter(next QueryFilter) (*RegExQueryFilter, error) {
	if next == nil {
		return nil, errors.New("filter: next filter is required")
	}
	return &RegExQueryFilter{next: next}, nil
}

// Query implements QueryFilter.
func (f *RegExQueryFilter) Query(ctx context.Context, queries []string) ([]any, error) {
	var regexes []*regexp.Regexp
	var passthrough []string
	for _, query := range queries {
		expr, ok := strings.CutPrefix(query, regexMarker)
		if !ok {
			passthrough = append(passthrough, query)
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("filter: compile query %q: %w", expr, err)
		}
		regexes = append(regexes, re)
	}

	results, err := f.next.Query(ctx, passthrough)
	if err != nil {
		return nil, err
	}
	if len(regexes) == 0 {
		return results, nil
	}

	filtered := make([]any, 0, len(results))
	for _, result := range results {
		props, ok := result.(*transform.Properties)
		if !ok || props == nil {
			continue
		}
		if matchesAll(props, regexes) {
			filtered = append(filtered, props)
		}
	}
	return filtered, nil
}

func matchesAll(props *transform.Properties, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		matched := false
		for _, key := range props.Keys() {
			val, _ := props.Get(key)
			if re.MatchString(val) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
