package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTraceID(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()

	if a == b {
		t.Fatal("expected unique trace IDs")
	}

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("trace ID is not a UUID: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected UUIDv7, got version %d", parsed.Version())
	}
}
