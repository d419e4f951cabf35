package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danielsoro/activemq/internal/jms"
	"github.com/danielsoro/activemq/internal/mbean"
	"github.com/danielsoro/activemq/internal/transform"
)

func strptr(s string) *string { return &s }

func textMessage(id, text string) *jms.TextMessage {
	msg := &jms.TextMessage{Body: strptr(text)}
	msg.Header = jms.Header{MessageID: id, DeliveryMode: jms.Persistent}
	return msg
}

func TestStubQueryFilterReturnsCopy(t *testing.T) {
	data := []any{"a", "b"}
	stub := NewStubQueryFilter(data)

	out, err := stub.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out[0] = "mutated"

	again, _ := stub.Query(context.Background(), nil)
	if again[0] != "a" {
		t.Fatalf("expected stub data to be isolated from callers")
	}
}

func TestMapTransformFilterFlattens(t *testing.T) {
	stub := NewStubQueryFilter([]any{
		textMessage("ID:1", "hello"),
		struct{}{}, // unsupported, dropped
		textMessage("ID:2", "world"),
	})

	f, err := NewMapTransformFilter(stub, transform.NewMapTransformer(nil), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := f.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected unsupported candidate to be dropped, got %d results", len(results))
	}

	first := results[0].(*transform.Properties)
	if got, _ := first.Get(transform.BodyPrefix + "JMSText"); got != "hello" {
		t.Fatalf("expected first result to keep candidate order, got %q", got)
	}
}

func TestMapTransformFilterConcurrentKeepsOrder(t *testing.T) {
	candidates := make([]any, 0, 16)
	for i := 0; i < 16; i++ {
		candidates = append(candidates, textMessage(string(rune('a'+i)), "body"))
	}

	f, err := NewMapTransformFilter(
		NewStubQueryFilter(candidates),
		transform.NewMapTransformer(nil),
		zerolog.Nop(),
		WithConcurrency(4),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := f.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(candidates) {
		t.Fatalf("expected %d results, got %d", len(candidates), len(results))
	}
	for i, result := range results {
		props := result.(*transform.Properties)
		want := string(rune('a' + i))
		if got, _ := props.Get(transform.HeaderPrefix + "JMSMessageID"); got != want {
			t.Fatalf("result %d: expected message id %q, got %q", i, want, got)
		}
	}
}

func TestMapTransformFilterAbortsOnFieldFault(t *testing.T) {
	broken := textMessage("ID:broken", "x")
	broken.SetBodyFault(errors.New("accessor failed"))

	f, err := NewMapTransformFilter(
		NewStubQueryFilter([]any{textMessage("ID:ok", "fine"), broken}),
		transform.NewMapTransformer(nil),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.Query(context.Background(), nil); err == nil {
		t.Fatalf("expected field fault to abort the query")
	}
}

func TestPropertiesViewFilter(t *testing.T) {
	f1, err := NewMapTransformFilter(
		NewStubQueryFilter([]any{textMessage("ID:1", "hello")}),
		transform.NewMapTransformer(nil),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := NewPropertiesViewFilter(f1, []string{
		transform.HeaderPrefix + "JMSMessageID",
		transform.BodyPrefix + "JMSText",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := view.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := results[0].(*transform.Properties)
	want := []string{
		transform.HeaderPrefix + "JMSMessageID",
		transform.BodyPrefix + "JMSText",
	}
	if got := props.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected view keys %v, got %v", want, got)
	}
}

func TestGroupPropertiesViewFilter(t *testing.T) {
	msg := textMessage("ID:1", "hello")
	msg.Properties = map[string]any{"tenant": "acme"}

	f1, err := NewMapTransformFilter(
		NewStubQueryFilter([]any{msg}),
		transform.NewMapTransformer(nil),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := NewGroupPropertiesViewFilter(f1, []string{"custom", "body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := view.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := results[0].(*transform.Properties)
	for _, key := range props.Keys() {
		if key != transform.CustomPrefix+"tenant" && key != transform.BodyPrefix+"JMSText" {
			t.Fatalf("unexpected surviving key %q", key)
		}
	}
	if props.Len() != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", props.Len())
	}
}

func TestGroupPropertiesViewFilterRejectsUnknownGroup(t *testing.T) {
	if _, err := NewGroupPropertiesViewFilter(NewStubQueryFilter(nil), []string{"nope"}); err == nil {
		t.Fatalf("expected unknown group to be rejected")
	}
}

func TestWildcardAndRegExFilters(t *testing.T) {
	f1, err := NewMapTransformFilter(
		NewStubQueryFilter([]any{
			textMessage("ID:order-1", "hello"),
			textMessage("ID:audit-1", "hello"),
		}),
		transform.NewMapTransformer(nil),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regex, err := NewRegExQueryFilter(f1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wildcard, err := NewWildcardTransformFilter(regex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := wildcard.Query(context.Background(), []string{"ID:order-*"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one matching result, got %d", len(results))
	}
	props := results[0].(*transform.Properties)
	if got, _ := props.Get(transform.HeaderPrefix + "JMSMessageID"); got != "ID:order-1" {
		t.Fatalf("expected order message to survive, got %q", got)
	}
}

func TestWildcardToRegexEscapesMetaChars(t *testing.T) {
	got := wildcardToRegex("a.b*c?d")
	want := `^a\.b.*c.d$`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

type fakeAttributeSource struct {
	attrs mbean.AttributeList
	err   error
}

func (s *fakeAttributeSource) Attributes(_ context.Context, _ mbean.ObjectName, _ []string) (mbean.AttributeList, error) {
	return s.attrs, s.err
}

func TestBeanAttributeQueryFilter(t *testing.T) {
	name := mbean.NewObjectName("d", mbean.KeyProperty{Key: "Destination", Value: "orders"})
	stub := NewStubQueryFilter([]any{
		mbean.ObjectInstance{Name: name, Class: "Queue"},
		"not a bean",
	})
	source := &fakeAttributeSource{attrs: mbean.AttributeList{{Name: "QueueSize", Value: 3}}}

	f, err := NewBeanAttributeQueryFilter(stub, source, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := f.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected non-bean candidates to be skipped, got %d results", len(results))
	}

	list := results[0].(mbean.AttributeList)
	if list[0].Name != mbean.KeyObjectNameAttribute {
		t.Fatalf("expected identity attribute first, got %q", list[0].Name)
	}
	if _, ok := list.Get("QueueSize"); !ok {
		t.Fatalf("expected fetched attribute to be present")
	}
}

func TestBeanAttributeQueryFilterPropagatesSourceError(t *testing.T) {
	name := mbean.NewObjectName("d")
	stub := NewStubQueryFilter([]any{mbean.ObjectInstance{Name: name}})
	source := &fakeAttributeSource{err: errors.New("admin unavailable")}

	f, err := NewBeanAttributeQueryFilter(stub, source, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Query(context.Background(), nil); err == nil {
		t.Fatalf("expected source error to propagate")
	}
}
