package jms

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDeliveryModeString(t *testing.T) {
	if Persistent.String() != "persistent" {
		t.Fatalf("expected persistent literal, got %q", Persistent.String())
	}
	if NonPersistent.String() != "non-persistent" {
		t.Fatalf("expected non-persistent literal, got %q", NonPersistent.String())
	}
}

func TestDestination(t *testing.T) {
	q := NewQueue("orders")
	if q.PhysicalName() != "orders" {
		t.Fatalf("unexpected physical name %q", q.PhysicalName())
	}
	if q.String() != "queue://orders" {
		t.Fatalf("unexpected rendering %q", q.String())
	}
	if NewTopic("events").Kind() != TopicKind {
		t.Fatalf("expected topic kind")
	}
}

func TestPropertyNamesSorted(t *testing.T) {
	h := Header{Properties: map[string]any{"z": 1, "a": 2, "m": 3}}
	if got := h.PropertyNames(); !reflect.DeepEqual(got, []string{"a", "m", "z"}) {
		t.Fatalf("expected sorted names, got %v", got)
	}
}

func TestBodyFaultSurfacesFromAccessors(t *testing.T) {
	fault := errors.New("truncated frame")

	text := &TextMessage{}
	text.SetBodyFault(fault)
	if _, err := text.Text(); !errors.Is(err, fault) {
		t.Fatalf("expected text accessor to surface fault, got %v", err)
	}

	bytes := &BytesMessage{Length: 10}
	bytes.SetBodyFault(fault)
	if _, err := bytes.BodyLength(); !errors.Is(err, fault) {
		t.Fatalf("expected bytes accessor to surface fault, got %v", err)
	}

	obj := &ObjectMessage{Body: 1}
	obj.SetBodyFault(fault)
	if _, err := obj.Object(); !errors.Is(err, fault) {
		t.Fatalf("expected object accessor to surface fault, got %v", err)
	}

	mm := &MapMessage{Body: map[string]any{"a": 1}}
	mm.SetBodyFault(fault)
	if _, err := mm.FieldNames(); !errors.Is(err, fault) {
		t.Fatalf("expected map accessor to surface fault, got %v", err)
	}

	stream := &StreamMessage{Elements: []any{1}}
	stream.SetBodyFault(fault)
	if _, err := stream.Render(); !errors.Is(err, fault) {
		t.Fatalf("expected stream accessor to surface fault, got %v", err)
	}
}

func TestBytesMessageLengthFloor(t *testing.T) {
	// A recorded length shorter than the captured bytes is corrected to
	// the captured size.
	msg := &BytesMessage{Body: []byte("abcdef"), Length: 2}
	length, err := msg.BodyLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if length != 6 {
		t.Fatalf("expected corrected length 6, got %d", length)
	}
}

func TestMapMessageFieldNamesSorted(t *testing.T) {
	msg := &MapMessage{Body: map[string]any{"b": 1, "a": 2}}
	names, err := msg.FieldNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("expected sorted field names, got %v", names)
	}
}

func TestStreamMessageRender(t *testing.T) {
	msg := &StreamMessage{Elements: []any{1, "two"}}
	msg.MessageID = "ID:9"

	out, err := msg.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ID:9") || !strings.Contains(out, "two") {
		t.Fatalf("unexpected rendering %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Fatalf("rendering must be a single line: %q", out)
	}
}
