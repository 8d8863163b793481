// Package pool implements the Connection Pool: a process-wide singleton around one
// keep-alive HTTP client with a bounded number of in-flight requests.
package pool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/meridianai/promptforge/internal/errs"
)

const (
	maxIdleConns    = 20
	idleConnTimeout = 30 * time.Second
	maxInFlight     = 100
	acquireTimeout  = 5 * time.Second
)

// ErrPoolTimeout is returned when the pool cannot admit a new request within the
// acquire budget.
var ErrPoolTimeout = errors.New("connection pool exhausted")

// Pool wraps one shared *http.Client with a weighted semaphore bounding concurrent
// in-flight requests to maxInFlight.
type Pool struct {
	client *http.Client
	sem    *semaphore.Weighted
}

// New constructs the singleton pool. Callers should build exactly one Pool per process
// and share it across every Model Client.
func New() *Pool {
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
		ForceAttemptHTTP2:   false,
	}
	return &Pool{
		client: &http.Client{Transport: transport},
		sem:    semaphore.NewWeighted(maxInFlight),
	}
}

// Send acquires a pool slot bounded by acquireTimeout, then issues req over the shared
// client. Callers should carry their own request timeout on req's context — acquire and
// round-trip are budgeted independently.
func (p *Pool) Send(req *http.Request) (*http.Response, error) {
	acquireCtx, cancel := context.WithTimeout(req.Context(), acquireTimeout)
	defer cancel()

	if err := p.sem.Acquire(acquireCtx, 1); err != nil {
		return nil, errs.New(errs.Transient, fmt.Errorf("%w: %v", ErrPoolTimeout, err), false)
	}
	defer p.sem.Release(1)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errs.New(errs.Transient, fmt.Errorf("transport error: %w", err), true)
	}
	return resp, nil
}

// InFlightCapacity reports the pool's configured in-flight bound, for metrics gauges.
func (p *Pool) InFlightCapacity() int64 {
	return maxInFlight
}
