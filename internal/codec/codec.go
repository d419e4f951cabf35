// Package codec decodes browsed broker records into the queued-message
// variants the transform pipeline understands.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/jms"
)

// Message kinds accepted in the envelope.
const (
	KindText   = "text"
	KindBytes  = "bytes"
	KindObject = "object"
	KindMap    = "map"
	KindStream = "stream"
)

// ErrEmptyPayload is returned when a record carries no payload at all.
var ErrEmptyPayload = errors.New("codec: payload is empty")

type destinationEnvelope struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

type headerEnvelope struct {
	CorrelationID string               `json:"correlation_id,omitempty"`
	DeliveryMode  string               `json:"delivery_mode,omitempty"`
	Destination   *destinationEnvelope `json:"destination,omitempty"`
	Expiration    int64                `json:"expiration,omitempty"`
	MessageID     string               `json:"message_id,omitempty"`
	Priority      int                  `json:"priority,omitempty"`
	Redelivered   bool                 `json:"redelivered,omitempty"`
	ReplyTo       *destinationEnvelope `json:"reply_to,omitempty"`
	Timestamp     int64                `json:"timestamp,omitempty"`
	Type          string               `json:"type,omitempty"`
	Properties    map[string]any       `json:"properties,omitempty"`
}

type envelope struct {
	Kind   string          `json:"kind"`
	Header headerEnvelope  `json:"header"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type bytesBody struct {
	Data   []byte `json:"data,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// Decoder parses JSON message envelopes into jms message variants.
type Decoder struct {
	logger zerolog.Logger
}

// NewDecoder constructs a Decoder.
func NewDecoder(logger zerolog.Logger) *Decoder {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Decoder{logger: logger.With().Str("component", "codec").Logger()}
}

// Decode parses one record payload. recordTime supplies the broker
// timestamp used when the envelope omits one. A malformed body section
// inside a well-formed envelope does not fail the decode: the returned
// message carries a deferred body fault that surfaces on payload access.
func (d *Decoder) Decode(payload []byte, recordTime time.Time) (any, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("codec: decode envelope: %w", err)
	}

	header, err := d.buildHeader(env.Header, recordTime)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(env.Kind)) {
	case KindText:
		return d.decodeText(header, env.Body), nil
	case KindBytes:
		return d.decodeBytes(header, env.Body), nil
	case KindObject:
		return d.decodeObject(header, env.Body), nil
	case KindMap:
		return d.decodeMap(header, env.Body), nil
	case KindStream:
		return d.decodeStream(header, env.Body), nil
	default:
		return nil, fmt.Errorf("codec: unknown message kind %q", env.Kind)
	}
}

func (d *Decoder) buildHeader(h headerEnvelope, recordTime time.Time) (jms.Header, error) {
	mode := jms.NonPersistent
	switch strings.ToLower(strings.TrimSpace(h.DeliveryMode)) {
	case "", "non-persistent":
	case "persistent":
		mode = jms.Persistent
	default:
		return jms.Header{}, fmt.Errorf("codec: unknown delivery mode %q", h.DeliveryMode)
	}

	header := jms.Header{
		CorrelationID: strings.TrimSpace(h.CorrelationID),
		DeliveryMode:  mode,
		Expiration:    h.Expiration,
		MessageID:     strings.TrimSpace(h.MessageID),
		Priority:      h.Priority,
		Redelivered:   h.Redelivered,
		Timestamp:     h.Timestamp,
		Type:          strings.TrimSpace(h.Type),
		Properties:    h.Properties,
	}

	if header.MessageID == "" {
		header.MessageID = "ID:" + uuid.NewString()
		d.logger.Debug().Str("message_id", header.MessageID).Msg("codec: generated missing message id")
	}
	if header.Timestamp == 0 && !recordTime.IsZero() {
		header.Timestamp = recordTime.UnixMilli()
	}

	dest, err := destinationFrom(h.Destination)
	if err != nil {
		return jms.Header{}, err
	}
	header.Destination = dest

	replyTo, err := destinationFrom(h.ReplyTo)
	if err != nil {
		return jms.Header{}, err
	}
	header.ReplyTo = replyTo

	return header, nil
}

func destinationFrom(env *destinationEnvelope) (*jms.Destination, error) {
	if env == nil {
		return nil, nil
	}
	name := strings.TrimSpace(env.Name)
	if name == "" {
		return nil, errors.New("codec: destination name is empty")
	}
	switch strings.ToLower(strings.TrimSpace(env.Kind)) {
	case "", string(jms.QueueKind):
		return jms.NewQueue(name), nil
	case string(jms.TopicKind):
		return jms.NewTopic(name), nil
	default:
		return nil, fmt.Errorf("codec: unknown destination kind %q", env.Kind)
	}
}

func (d *Decoder) decodeText(header jms.Header, body json.RawMessage) *jms.TextMessage {
	msg := &jms.TextMessage{}
	msg.Header = header
	if len(body) == 0 {
		return msg
	}
	var text *string
	if err := json.Unmarshal(body, &text); err != nil {
		d.faulted(msg.MessageID, err)
		msg.SetBodyFault(fmt.Errorf("codec: decode text body: %w", err))
		return msg
	}
	msg.Body = text
	return msg
}

func (d *Decoder) decodeBytes(header jms.Header, body json.RawMessage) *jms.BytesMessage {
	msg := &jms.BytesMessage{}
	msg.Header = header
	if len(body) == 0 {
		return msg
	}
	var b bytesBody
	if err := json.Unmarshal(body, &b); err != nil {
		d.faulted(msg.MessageID, err)
		msg.SetBodyFault(fmt.Errorf("codec: decode bytes body: %w", err))
		return msg
	}
	msg.Body = b.Data
	msg.Length = b.Length
	if msg.Length == 0 {
		msg.Length = int64(len(b.Data))
	}
	return msg
}

func (d *Decoder) decodeObject(header jms.Header, body json.RawMessage) *jms.ObjectMessage {
	msg := &jms.ObjectMessage{}
	msg.Header = header
	if len(body) == 0 {
		return msg
	}
	var obj any
	if err := json.Unmarshal(body, &obj); err != nil {
		d.faulted(msg.MessageID, err)
		msg.SetBodyFault(fmt.Errorf("codec: decode object body: %w", err))
		return msg
	}
	msg.Body = obj
	return msg
}

func (d *Decoder) decodeMap(header jms.Header, body json.RawMessage) *jms.MapMessage {
	msg := &jms.MapMessage{}
	msg.Header = header
	if len(body) == 0 {
		return msg
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		d.faulted(msg.MessageID, err)
		msg.SetBodyFault(fmt.Errorf("codec: decode map body: %w", err))
		return msg
	}
	msg.Body = fields
	return msg
}

func (d *Decoder) decodeStream(header jms.Header, body json.RawMessage) *jms.StreamMessage {
	msg := &jms.StreamMessage{}
	msg.Header = header
	if len(body) == 0 {
		return msg
	}
	var elements []any
	if err := json.Unmarshal(body, &elements); err != nil {
		d.faulted(msg.MessageID, err)
		msg.SetBodyFault(fmt.Errorf("codec: decode stream body: %w", err))
		return msg
	}
	msg.Elements = elements
	return msg
}

func (d *Decoder) faulted(messageID string, err error) {
	d.logger.Warn().Str("message_id", messageID).Err(err).Msg("codec: body section unreadable; deferring fault to access time")
}
