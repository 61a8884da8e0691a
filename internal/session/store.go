package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Store.Get for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Store keeps session state between requests.
type Store interface {
	// Get returns the state of session id.
	Get(ctx context.Context, id string) (State, error)
	// Update atomically replaces the state of session id with fn's result.
	// A missing session starts from NewState. The TTL is refreshed.
	Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore is a process-local Store. Expired sessions are dropped lazily
// and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore returns a MemoryStore whose sessions live for ttl after
// their last update.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || !m.now().Before(e.expires) {
		delete(m.entries, id)
		return State{}, ErrNotFound
	}
	return e.state, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(State) (State, error)) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := NewState()
	if e, ok := m.entries[id]; ok && m.now().Before(e.expires) {
		cur = e.state
	}

	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	m.entries[id] = memoryEntry{state: next, expires: m.now().Add(m.ttl)}
	return next, nil
}

// Sweep removes expired sessions and reports how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int
	for id, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
