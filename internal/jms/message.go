package jms

import (
	"fmt"
	"sort"
)

// DeliveryMode indicates whether the broker persists a message.
type DeliveryMode int

const (
	// NonPersistent messages are lost if the broker restarts.
	NonPersistent DeliveryMode = 1
	// Persistent messages survive a broker restart.
	Persistent DeliveryMode = 2
)

// String renders the mode as the literal used in flattened views. The
// literal, never the numeric code, is the observable value.
func (m DeliveryMode) String() string {
	if m == Persistent {
		return "persistent"
	}
	return "non-persistent"
}

// Header carries the standard fields every queued message has, plus the
// application-supplied custom properties. String fields with a zero value
// and nil pointers model absent fields and are omitted when flattened.
type Header struct {
	CorrelationID string
	DeliveryMode  DeliveryMode
	Destination   *Destination
	Expiration    int64
	MessageID     string
	Priority      int
	Redelivered   bool
	ReplyTo       *Destination
	Timestamp     int64
	Type          string

	// Properties holds application-custom properties. Values must render
	// meaningfully via fmt; nil values are treated as absent.
	Properties map[string]any
}

// PropertyNames returns the names of all custom properties in sorted
// order. The origin system leaves enumeration order unspecified, so a
// deterministic order is chosen to keep repeated reads identical.
func (h *Header) PropertyNames() []string {
	names := make([]string, 0, len(h.Properties))
	for name := range h.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Message is the base embedded by every payload variant. A body fault
// recorded here surfaces from every payload accessor, mirroring a broker
// read error that occurs after the header was already delivered.
type Message struct {
	Header

	bodyFault error
}

// SetBodyFault records a deferred body read failure. Subsequent payload
// accessor calls return the fault.
func (m *Message) SetBodyFault(err error) { m.bodyFault = err }

// BodyFault returns the recorded body read failure, if any.
func (m *Message) BodyFault() error { return m.bodyFault }

// TextMessage carries an optional text payload. A nil body is distinct
// from an empty string: it means the message has no text at all.
type TextMessage struct {
	Message
	Body *string
}

// Text returns the text payload, or nil when the message carries none.
func (m *TextMessage) Text() (*string, error) {
	if err := m.BodyFault(); err != nil {
		return nil, err
	}
	return m.Body, nil
}

// BytesMessage carries a binary payload. Length records the full payload
// size as reported by the broker; Body holds the captured prefix, which
// may be shorter than Length when the payload exceeded the capture limit.
type BytesMessage struct {
	Message
	Body   []byte
	Length int64
}

// BodyLength returns the total payload length in bytes.
func (m *BytesMessage) BodyLength() (int64, error) {
	if err := m.BodyFault(); err != nil {
		return 0, err
	}
	if m.Length < int64(len(m.Body)) {
		return int64(len(m.Body)), nil
	}
	return m.Length, nil
}

// ObjectMessage wraps an arbitrary application object.
type ObjectMessage struct {
	Message
	Body any
}

// Object returns the wrapped object, which may be nil.
func (m *ObjectMessage) Object() (any, error) {
	if err := m.BodyFault(); err != nil {
		return nil, err
	}
	return m.Body, nil
}

// MapMessage carries a set of named fields.
type MapMessage struct {
	Message
	Body map[string]any
}

// FieldNames returns the field names in sorted order; see
// Header.PropertyNames for why the order is made deterministic.
func (m *MapMessage) FieldNames() ([]string, error) {
	if err := m.BodyFault(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Body))
	for name := range m.Body {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Field returns the named field value, which may be nil.
func (m *MapMessage) Field(name string) (any, error) {
	if err := m.BodyFault(); err != nil {
		return nil, err
	}
	return m.Body[name], nil
}

// StreamMessage carries an ordered sequence of primitive elements.
type StreamMessage struct {
	Message
	Elements []any
}

// Render produces the single-line rendering of the whole message used in
// flattened views. Individual elements are not decomposed.
func (m *StreamMessage) Render() (string, error) {
	if err := m.BodyFault(); err != nil {
		return "", err
	}
	return fmt.Sprintf("StreamMessage{id=%s, elements=%v}", m.MessageID, m.Elements), nil
}
