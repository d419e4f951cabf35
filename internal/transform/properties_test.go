package transform

import (
	"reflect"
	"testing"
)

func TestPropertiesInsertOrderPreserved(t *testing.T) {
	props := NewProperties()
	props.Set("c", "3")
	props.Set("a", "1")
	props.Set("b", "2")

	want := []string{"c", "a", "b"}
	if got := props.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
}

func TestPropertiesOverwriteKeepsPosition(t *testing.T) {
	props := NewProperties()
	props.Set("a", "1")
	props.Set("b", "2")
	props.Set("a", "override")

	if got := props.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected overwrite to keep key position, got %v", got)
	}
	if val, _ := props.Get("a"); val != "override" {
		t.Fatalf("expected overwritten value, got %q", val)
	}
	if props.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", props.Len())
	}
}

func TestPropertiesMergeOverwrites(t *testing.T) {
	base := NewProperties()
	base.Set("x", "5")
	base.Set("keep", "yes")

	incoming := NewProperties()
	incoming.Set("x", "7")
	incoming.Set("new", "entry")

	base.Merge(incoming)

	if val, _ := base.Get("x"); val != "7" {
		t.Fatalf("expected merged value to win, got %q", val)
	}
	if got := base.Keys(); !reflect.DeepEqual(got, []string{"x", "keep", "new"}) {
		t.Fatalf("unexpected key order after merge: %v", got)
	}
}

func TestPropertiesRetain(t *testing.T) {
	props := NewProperties()
	props.Set("a", "1")
	props.Set("b", "2")
	props.Set("c", "3")

	props.Retain(func(key string) bool { return key != "b" })

	if got := props.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("expected b to be dropped, got %v", got)
	}
	if _, ok := props.Get("b"); ok {
		t.Fatalf("expected b to be removed from values")
	}
}

func TestPropertiesEqual(t *testing.T) {
	left := NewProperties()
	left.Set("a", "1")
	left.Set("b", "2")

	right := NewProperties()
	right.Set("a", "1")
	right.Set("b", "2")

	if !left.Equal(right) {
		t.Fatalf("expected maps with identical entries and order to be equal")
	}

	reordered := NewProperties()
	reordered.Set("b", "2")
	reordered.Set("a", "1")

	if left.Equal(reordered) {
		t.Fatalf("expected maps with different key order to differ")
	}
}
