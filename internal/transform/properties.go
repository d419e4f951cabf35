package transform

// Properties is a flat, insertion-ordered mapping of string keys to
// string values. Set follows insert-or-overwrite semantics: writing an
// existing key replaces its value but keeps its original position, so
// the caller controls ordering by controlling write order. A Properties
// is built fresh per transformation and handed to the caller; it is not
// safe for concurrent mutation.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Set inserts the key/value pair, overwriting the value in place when
// the key is already present.
func (p *Properties) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (p *Properties) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of entries.
func (p *Properties) Len() int { return len(p.keys) }

// Merge writes every entry of other into p in other's order, overwriting
// values for keys already present.
func (p *Properties) Merge(other *Properties) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		p.Set(key, other.values[key])
	}
}

// Retain keeps only the entries whose keep callback returns true,
// preserving the order of the survivors.
func (p *Properties) Retain(keep func(key string) bool) {
	kept := p.keys[:0]
	for _, key := range p.keys {
		if keep(key) {
			kept = append(kept, key)
		} else {
			delete(p.values, key)
		}
	}
	p.keys = kept
}

// Equal reports whether both maps hold the same entries in the same
// key order.
func (p *Properties) Equal(other *Properties) bool {
	if other == nil || len(p.keys) != len(other.keys) {
		return false
	}
	for i, key := range p.keys {
		if other.keys[i] != key || other.values[key] != p.values[key] {
			return false
		}
	}
	return true
}
