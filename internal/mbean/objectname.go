package mbean

import (
	"errors"
	"fmt"
	"strings"
)

// KeyObjectNameAttribute is the well-known attribute name under which a
// bean's own identity is embedded inside an AttributeList.
const KeyObjectNameAttribute = "ObjectName"

// KeyProperty is a single key=value component of a bean identity. The
// component order within an ObjectName is significant and preserved.
type KeyProperty struct {
	Key   string
	Value string
}

// ObjectName uniquely identifies a manageable broker component. It is
// composed of a domain and an ordered list of key=value components, e.g.
// "org.apache.activemq:BrokerName=localhost,Type=Queue,Destination=orders".
type ObjectName struct {
	domain string
	props  []KeyProperty
}

// NewObjectName constructs an ObjectName from a domain and its ordered
// key properties.
func NewObjectName(domain string, props ...KeyProperty) ObjectName {
	copied := make([]KeyProperty, len(props))
	copy(copied, props)
	return ObjectName{domain: domain, props: copied}
}

// ParseObjectName parses the canonical "domain:key=value,key=value" form.
func ParseObjectName(name string) (ObjectName, error) {
	domain, rest, ok := strings.Cut(name, ":")
	if !ok {
		return ObjectName{}, fmt.Errorf("mbean: object name %q is missing a domain separator", name)
	}
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ObjectName{}, errors.New("mbean: object name domain is empty")
	}

	var props []KeyProperty
	if strings.TrimSpace(rest) != "" {
		for _, part := range strings.Split(rest, ",") {
			key, val, found := strings.Cut(part, "=")
			if !found {
				return ObjectName{}, fmt.Errorf("mbean: object name component %q is not key=value", part)
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return ObjectName{}, fmt.Errorf("mbean: object name component %q has an empty key", part)
			}
			props = append(props, KeyProperty{Key: key, Value: strings.TrimSpace(val)})
		}
	}

	return ObjectName{domain: domain, props: props}, nil
}

// Domain returns the object name domain.
func (n ObjectName) Domain() string { return n.domain }

// KeyProperties returns the ordered key=value components. The returned
// slice is a copy; mutating it does not affect the ObjectName.
func (n ObjectName) KeyProperties() []KeyProperty {
	copied := make([]KeyProperty, len(n.props))
	copy(copied, n.props)
	return copied
}

// KeyProperty looks up a single component value by key.
func (n ObjectName) KeyProperty(key string) (string, bool) {
	for _, p := range n.props {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// String renders the canonical "domain:key=value,..." form.
func (n ObjectName) String() string {
	var b strings.Builder
	b.WriteString(n.domain)
	b.WriteByte(':')
	for i, p := range n.props {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
