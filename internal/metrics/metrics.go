// Package metrics implements the Metrics component: counters, gauges, and per-role
// timing histograms, plus the /health probe described in §4.11.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Registry is a process-wide, thread-safe metrics collector. It is a singleton passed
// by reference through the dependency struct, not imported module state.
type Registry struct {
	mu sync.RWMutex

	apiRequests       int64
	cacheHits         int64
	circuitOpens      int64
	retriesTotal      int64
	circuitRejections int64

	openConnections int64
	circuitState    string

	roleDurations    map[string][]time.Duration
	requestDurations []time.Duration

	startTime time.Time
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		circuitState:  "closed",
		roleDurations: make(map[string][]time.Duration),
		startTime:     time.Now(),
	}
}

// IncAPIRequest increments the top-level request counter.
func (r *Registry) IncAPIRequest() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apiRequests++
}

// IncCacheHit increments the cache-hit counter.
func (r *Registry) IncCacheHit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheHits++
}

// IncCircuitOpen increments the circuit-opened counter, fired each time the breaker
// transitions Closed/HalfOpen -> Open.
func (r *Registry) IncCircuitOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.circuitOpens++
}

// IncCircuitOpenRejection is fired whenever a call is fast-failed because the circuit
// is already Open; it does not itself count as a new circuit-open transition.
func (r *Registry) IncCircuitOpenRejection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.circuitRejections++
}

// IncRetry increments the total-retries counter.
func (r *Registry) IncRetry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retriesTotal++
}

// SetOpenConnections records the pool's current in-flight gauge.
func (r *Registry) SetOpenConnections(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openConnections = n
}

// SetCircuitState records the breaker's current state gauge.
func (r *Registry) SetCircuitState(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state != r.circuitState && state == "open" {
		r.circuitOpens++
	}
	r.circuitState = state
}

// ObserveRoleDuration appends one role-call duration to its histogram bucket.
func (r *Registry) ObserveRoleDuration(role string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleDurations[role] = append(r.roleDurations[role], d)
}

// ObserveRequestDuration appends one end-to-end optimisation-request duration.
func (r *Registry) ObserveRequestDuration(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestDurations = append(r.requestDurations, d)
}

// Snapshot is a point-in-time rendering of every counter, gauge, and histogram summary.
type Snapshot struct {
	APIRequests     int64              `json:"api_requests"`
	CacheHits       int64              `json:"api_cache_hits"`
	CircuitOpens      int64            `json:"circuit_opens"`
	CircuitRejections int64            `json:"circuit_rejections"`
	RetriesTotal      int64            `json:"retries_total"`
	OpenConnections int64              `json:"open_connections"`
	CircuitState    string             `json:"circuit_state"`
	RoleP50Ms       map[string]float64 `json:"role_p50_ms"`
	RequestP50Ms    float64            `json:"request_p50_ms"`
	GoroutineCount  int                `json:"goroutine_count"`
	CPUPercent      float64            `json:"cpu_percent"`
	MemUsedPercent  float64            `json:"mem_used_percent"`
	UptimeSeconds   float64            `json:"uptime_seconds"`
}

// Snapshot renders the current counters and gauges, enriched with gopsutil-sourced
// system gauges. System sampling failures are tolerated; the corresponding field is
// left at zero rather than failing the snapshot.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roleP50 := make(map[string]float64, len(r.roleDurations))
	for role, samples := range r.roleDurations {
		roleP50[role] = percentileMs(samples, 0.5)
	}

	cpuPercent := 0.0
	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		cpuPercent = percentages[0]
	}
	memUsedPercent := 0.0
	if vmem, err := mem.VirtualMemory(); err == nil {
		memUsedPercent = vmem.UsedPercent
	}

	return Snapshot{
		APIRequests:       r.apiRequests,
		CacheHits:         r.cacheHits,
		CircuitOpens:      r.circuitOpens,
		CircuitRejections: r.circuitRejections,
		RetriesTotal:      r.retriesTotal,
		OpenConnections: r.openConnections,
		CircuitState:    r.circuitState,
		RoleP50Ms:       roleP50,
		RequestP50Ms:    percentileMs(r.requestDurations, 0.5),
		GoroutineCount:  runtime.NumGoroutine(),
		CPUPercent:      cpuPercent,
		MemUsedPercent:  memUsedPercent,
		UptimeSeconds:   time.Since(r.startTime).Seconds(),
	}
}

func percentileMs(samples []time.Duration, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	idx := int(p * float64(len(sorted)-1))
	return float64(sorted[idx].Microseconds()) / 1000.0
}

// HealthStatus is the GET /health payload.
type HealthStatus struct {
	OK      bool     `json:"ok"`
	Reasons []string `json:"reasons,omitempty"`
}

// Probe reports the three-condition health check from §4.11: the store is reachable,
// the upstream base URL and credential are configured, and the circuit for the upstream
// is not Open. It never gates on performance gauges like CPU or goroutine count.
func Probe(storeReachable bool, upstreamConfigured bool, circuitState string) HealthStatus {
	var reasons []string
	if !storeReachable {
		reasons = append(reasons, "store unreachable")
	}
	if !upstreamConfigured {
		reasons = append(reasons, "upstream base URL or credential not configured")
	}
	if circuitState == "open" {
		reasons = append(reasons, "circuit open")
	}
	return HealthStatus{OK: len(reasons) == 0, Reasons: reasons}
}
