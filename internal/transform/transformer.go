// Package transform flattens heterogeneous broker objects (bean
// descriptors and queued-message variants) into a uniform ordered
// key/value representation suitable for display, export, or filtering.
package transform

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/danielsoro/activemq/internal/jms"
	"github.com/danielsoro/activemq/internal/mbean"
)

// Key prefixes namespacing the semantic origin of each flattened entry.
// They keep an application property from colliding with a standard
// header field of the same name.
const (
	HeaderPrefix = "JMS_HEADER_FIELD:"
	BodyPrefix   = "JMS_BODY_FIELD:"
	CustomPrefix = "JMS_CUSTOM_FIELD:"
)

// maxChunk bounds the size of a single flattened bytes-body entry. A
// payload longer than this is split into successive chunks.
const maxChunk = int64(math.MaxInt32)

// DiagnosticSink receives one line per candidate whose concrete type has
// no registered transformation. Implementations must be safe for
// concurrent use if the transformer is shared across goroutines.
type DiagnosticSink interface {
	Print(line string)
}

type handlerFunc func(candidate any) (*Properties, error)

// MapTransformer converts a closed set of candidate shapes into flat
// property maps. Dispatch is by exact concrete type: the handler table
// is built once at construction and never consults interfaces or
// embedded types, so every supported shape has exactly one entry.
//
// The transformer is stateless across invocations and safe for
// concurrent use on independent candidates.
type MapTransformer struct {
	sink     DiagnosticSink
	handlers map[reflect.Type]handlerFunc
}

// NewMapTransformer constructs a transformer reporting unsupported
// candidates to sink. A nil sink silently drops diagnostics.
func NewMapTransformer(sink DiagnosticSink) *MapTransformer {
	t := &MapTransformer{sink: sink}
	t.handlers = map[reflect.Type]handlerFunc{
		reflect.TypeOf(mbean.ObjectInstance{}): t.objectInstanceToMap,
		reflect.TypeOf(mbean.ObjectName{}):     t.objectNameToMap,
		reflect.TypeOf(mbean.AttributeList{}):  t.attributeListToMap,
		reflect.TypeOf(&jms.TextMessage{}):     t.textMessageToMap,
		reflect.TypeOf(&jms.BytesMessage{}):    t.bytesMessageToMap,
		reflect.TypeOf(&jms.ObjectMessage{}):   t.objectMessageToMap,
		reflect.TypeOf(&jms.MapMessage{}):      t.mapMessageToMap,
		reflect.TypeOf(&jms.StreamMessage{}):   t.streamMessageToMap,
	}
	return t
}

// Transform flattens one candidate. When the candidate's concrete type
// has no registered handler the diagnostic sink receives one line and
// both return values are nil: an unsupported shape is not a failure.
// A failure while reading one of the candidate's fields returns a nil
// map and the error; a map is never partially populated on return.
func (t *MapTransformer) Transform(candidate any) (*Properties, error) {
	if candidate == nil {
		t.reportUnsupported("<nil>")
		return nil, nil
	}
	handler, ok := t.handlers[reflect.TypeOf(candidate)]
	if !ok {
		t.reportUnsupported(fmt.Sprintf("%T", candidate))
		return nil, nil
	}
	return handler(candidate)
}

func (t *MapTransformer) reportUnsupported(typeName string) {
	if t.sink == nil {
		return
	}
	t.sink.Print(fmt.Sprintf("Unable to transform mbean of type: %s. No corresponding transformToMap method found.", typeName))
}

func (t *MapTransformer) objectInstanceToMap(candidate any) (*Properties, error) {
	return t.objectNameToMap(candidate.(mbean.ObjectInstance).Name)
}

// objectNameToMap flattens a bean identity: each key=value component
// becomes one entry, without any prefix. The attribute-list handler
// reuses it to merge an embedded identity wholesale.
func (t *MapTransformer) objectNameToMap(candidate any) (*Properties, error) {
	name := candidate.(mbean.ObjectName)
	props := NewProperties()
	for _, kp := range name.KeyProperties() {
		props.Set(kp.Key, kp.Value)
	}
	return props, nil
}

func (t *MapTransformer) attributeListToMap(candidate any) (*Properties, error) {
	list := candidate.(mbean.AttributeList)
	props := NewProperties()
	for _, attrib := range list {
		if attrib.Name == mbean.KeyObjectNameAttribute {
			if name, ok := attrib.Value.(mbean.ObjectName); ok {
				identity, err := t.objectNameToMap(name)
				if err != nil {
					return nil, err
				}
				props.Merge(identity)
				continue
			}
		}
		if attrib.Value != nil {
			props.Set(attrib.Name, stringify(attrib.Value))
		}
	}
	return props, nil
}

func (t *MapTransformer) textMessageToMap(candidate any) (*Properties, error) {
	msg := candidate.(*jms.TextMessage)
	props := headerToMap(&msg.Header)
	text, err := msg.Text()
	if err != nil {
		return nil, fmt.Errorf("transform: read text body: %w", err)
	}
	if text != nil {
		props.Set(BodyPrefix+"JMSText", *text)
	}
	return props, nil
}

func (t *MapTransformer) bytesMessageToMap(candidate any) (*Properties, error) {
	msg := candidate.(*jms.BytesMessage)
	props := headerToMap(&msg.Header)

	length, err := msg.BodyLength()
	if err != nil {
		return nil, fmt.Errorf("transform: read bytes body length: %w", err)
	}

	// A single entry is bounded by the maximum 32-bit chunk, so the body
	// is split into full-size chunks plus a trailing remainder. The
	// remainder entry is always present, even when it is empty.
	chunk := 1
	for i := int64(0); i < length/maxChunk; i++ {
		props.Set(fmt.Sprintf("%sJMSBytes:%d", BodyPrefix, chunk), renderChunk(maxChunk))
		chunk++
	}
	props.Set(fmt.Sprintf("%sJMSBytes:%d", BodyPrefix, chunk), renderChunk(length%maxChunk))

	return props, nil
}

// renderChunk is the placeholder rendering of a raw chunk. The raw bytes
// are not reproduced; only the chunk partitioning is observable.
func renderChunk(size int64) string {
	return fmt.Sprintf("<%d bytes>", size)
}

func (t *MapTransformer) objectMessageToMap(candidate any) (*Properties, error) {
	msg := candidate.(*jms.ObjectMessage)
	props := headerToMap(&msg.Header)
	obj, err := msg.Object()
	if err != nil {
		return nil, fmt.Errorf("transform: read object body: %w", err)
	}
	if obj != nil {
		props.Set(BodyPrefix+"JMSObjectClass", fmt.Sprintf("%T", obj))
		props.Set(BodyPrefix+"JMSObjectString", stringify(obj))
	}
	return props, nil
}

func (t *MapTransformer) mapMessageToMap(candidate any) (*Properties, error) {
	msg := candidate.(*jms.MapMessage)
	props := headerToMap(&msg.Header)
	names, err := msg.FieldNames()
	if err != nil {
		return nil, fmt.Errorf("transform: read map field names: %w", err)
	}
	for _, name := range names {
		val, err := msg.Field(name)
		if err != nil {
			return nil, fmt.Errorf("transform: read map field %q: %w", name, err)
		}
		if val != nil {
			props.Set(BodyPrefix+name, stringify(val))
		}
	}
	return props, nil
}

func (t *MapTransformer) streamMessageToMap(candidate any) (*Properties, error) {
	msg := candidate.(*jms.StreamMessage)
	props := headerToMap(&msg.Header)
	rendering, err := msg.Render()
	if err != nil {
		return nil, fmt.Errorf("transform: render stream body: %w", err)
	}
	props.Set(BodyPrefix+"JMSStreamMessage", rendering)
	return props, nil
}

// headerToMap flattens the standard header fields and custom properties
// shared by every message kind. Every payload handler merges this first,
// so header entries always precede body entries. Absent fields are
// omitted; primitive-backed fields (delivery mode, expiration, message
// id, priority, redelivered, timestamp) are always emitted.
func headerToMap(h *jms.Header) *Properties {
	props := NewProperties()

	if h.CorrelationID != "" {
		props.Set(HeaderPrefix+"JMSCorrelationID", h.CorrelationID)
	}
	props.Set(HeaderPrefix+"JMSDeliveryMode", h.DeliveryMode.String())
	if h.Destination != nil {
		props.Set(HeaderPrefix+"JMSDestination", h.Destination.PhysicalName())
	}
	props.Set(HeaderPrefix+"JMSExpiration", strconv.FormatInt(h.Expiration, 10))
	props.Set(HeaderPrefix+"JMSMessageID", h.MessageID)
	props.Set(HeaderPrefix+"JMSPriority", strconv.Itoa(h.Priority))
	props.Set(HeaderPrefix+"JMSRedelivered", strconv.FormatBool(h.Redelivered))
	if h.ReplyTo != nil {
		props.Set(HeaderPrefix+"JMSReplyTo", h.ReplyTo.PhysicalName())
	}
	props.Set(HeaderPrefix+"JMSTimestamp", strconv.FormatInt(h.Timestamp, 10))
	if h.Type != "" {
		props.Set(HeaderPrefix+"JMSType", h.Type)
	}

	for _, name := range h.PropertyNames() {
		if val := h.Properties[name]; val != nil {
			props.Set(CustomPrefix+name, stringify(val))
		}
	}

	return props
}

func stringify(v any) string {
	return fmt.Sprintf("%v", v)
}
