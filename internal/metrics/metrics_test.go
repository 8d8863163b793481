package metrics

import (
	"testing"
	"time"
)

func TestCountersIncrement(t *testing.T) {
	r := New()
	r.IncAPIRequest()
	r.IncAPIRequest()
	r.IncCacheHit()
	r.IncRetry()

	snap := r.Snapshot()
	if snap.APIRequests != 2 {
		t.Errorf("expected 2 api requests, got %d", snap.APIRequests)
	}
	if snap.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", snap.CacheHits)
	}
	if snap.RetriesTotal != 1 {
		t.Errorf("expected 1 retry, got %d", snap.RetriesTotal)
	}
}

func TestSetCircuitStateCountsTransitionToOpen(t *testing.T) {
	r := New()
	r.SetCircuitState("open")
	r.SetCircuitState("open")
	r.SetCircuitState("closed")
	r.SetCircuitState("open")

	snap := r.Snapshot()
	if snap.CircuitOpens != 2 {
		t.Errorf("expected 2 open transitions, got %d", snap.CircuitOpens)
	}
	if snap.CircuitState != "open" {
		t.Errorf("expected final state open, got %q", snap.CircuitState)
	}
}

func TestObserveRoleDurationPercentile(t *testing.T) {
	r := New()
	r.ObserveRoleDuration("designer", 100*time.Millisecond)
	r.ObserveRoleDuration("designer", 200*time.Millisecond)
	r.ObserveRoleDuration("designer", 300*time.Millisecond)

	snap := r.Snapshot()
	if snap.RoleP50Ms["designer"] != 200 {
		t.Errorf("expected p50 of 200ms, got %v", snap.RoleP50Ms["designer"])
	}
}

func TestProbeHealthyWhenAllConditionsMet(t *testing.T) {
	status := Probe(true, true, "closed")
	if !status.OK {
		t.Errorf("expected healthy, got reasons: %v", status.Reasons)
	}
}

func TestProbeUnhealthyWhenCircuitOpen(t *testing.T) {
	status := Probe(true, true, "open")
	if status.OK {
		t.Error("expected unhealthy when circuit is open")
	}
	if len(status.Reasons) != 1 {
		t.Errorf("expected exactly one reason, got %v", status.Reasons)
	}
}

func TestProbeUnhealthyWhenUpstreamNotConfigured(t *testing.T) {
	status := Probe(true, false, "closed")
	if status.OK {
		t.Error("expected unhealthy when upstream not configured")
	}
}

func TestProbeNeverGatesOnPerformanceGauges(t *testing.T) {
	// A healthy probe call never inspects CPU, memory, or goroutine gauges.
	status := Probe(true, true, "half_open")
	if !status.OK {
		t.Errorf("expected half_open circuit to be healthy, got reasons: %v", status.Reasons)
	}
}
