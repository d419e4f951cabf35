package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("production", "chatty"); err == nil {
		t.Fatalf("expected unknown level to be rejected")
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("production", "", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug output to be suppressed at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("expected info output to be emitted")
	}
}

func TestNewWritesToSuppliedWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("development", "debug", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Info().Str("component", "test").Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected log line in supplied writer, got %q", buf.String())
	}
}
