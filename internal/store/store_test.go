package store

import (
	"testing"

	"github.com/meridianai/promptforge/internal/cost"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	s := NewInMemory()

	if err := s.SaveSession(SessionRecord{UserID: "u1", Payload: "record"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AppendCost(cost.Record{Model: "grok-4-fast"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Sessions()) != 1 {
		t.Errorf("expected 1 session, got %d", len(s.Sessions()))
	}
	if len(s.Costs()) != 1 {
		t.Errorf("expected 1 cost record, got %d", len(s.Costs()))
	}
	if !s.CheckUsage("u1") {
		t.Error("expected CheckUsage to always permit")
	}
	if !s.Reachable() {
		t.Error("expected in-memory store to always be reachable")
	}
}
