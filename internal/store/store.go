// Package store defines the narrow persistence interface the core consumes (§6) and
// ships an in-memory reference implementation. Persistence correctness is explicitly
// out of the core's correctness model; any backing store satisfying the interface is
// acceptable.
package store

import (
	"sync"

	"github.com/meridianai/promptforge/internal/cost"
)

// SessionRecord is the opaque payload save_session persists. The core never reads it
// back; it only ever appends.
type SessionRecord struct {
	UserID  string
	Payload any
}

// Store is the interface external collaborators implement to receive optimisation
// session records and cost entries, and to answer usage checks. The core neither loads
// nor owns a concrete store; it only depends on this interface.
type Store interface {
	SaveSession(record SessionRecord) error
	AppendCost(record cost.Record) error
	CheckUsage(userID string) bool
	Reachable() bool
}

// InMemoryStore is a process-local reference implementation suitable for tests and for
// running without an external backing store. CheckUsage always returns true, per the
// interface's documented "free to always return true" contract.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions []SessionRecord
	costs    []cost.Record
}

// NewInMemory constructs an empty InMemoryStore.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

// SaveSession appends record to the in-process session log.
func (s *InMemoryStore) SaveSession(record SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, record)
	return nil
}

// AppendCost appends record to the in-process cost log.
func (s *InMemoryStore) AppendCost(record cost.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs = append(s.costs, record)
	return nil
}

// CheckUsage always permits; quota enforcement lives outside the core.
func (s *InMemoryStore) CheckUsage(userID string) bool {
	return true
}

// Reachable is always true for the in-memory store.
func (s *InMemoryStore) Reachable() bool {
	return true
}

// Sessions returns a copy of every session recorded so far, for tests.
func (s *InMemoryStore) Sessions() []SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SessionRecord(nil), s.sessions...)
}

// Costs returns a copy of every cost record recorded so far, for tests.
func (s *InMemoryStore) Costs() []cost.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cost.Record(nil), s.costs...)
}
