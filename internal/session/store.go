// Package session keeps consolidation results in memory between the request
// that produced them and the requests that view or download them.
package session

import (
	"sync"
	"time"

	"consolidador/domain/core"
)

// DefaultTTL is how long a stored result stays retrievable.
const DefaultTTL = 30 * time.Minute

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is an in-memory, TTL-bound result store keyed by ResultID. A
// background janitor evicts expired entries.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[core.ResultID]entry[T]
	ttl     time.Duration
	done    chan struct{}
	closeMu sync.Once
}

// NewStore creates a store with the given TTL and starts its janitor.
func NewStore[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store[T]{
		entries: make(map[core.ResultID]entry[T]),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Put stores a value under a fresh ResultID and returns the ID.
func (s *Store[T]) Put(value T) core.ResultID {
	id := core.ResultID(core.NewID())
	s.mu.Lock()
	s.entries[id] = entry[T]{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id
}

// Get retrieves a stored value. Expired entries are treated as absent.
func (s *Store[T]) Get(id core.ResultID) (T, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Delete removes a stored value.
func (s *Store[T]) Delete(id core.ResultID) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of live entries.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// Close stops the janitor.
func (s *Store[T]) Close() {
	s.closeMu.Do(func() { close(s.done) })
}

func (s *Store[T]) janitor() {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store[T]) evictExpired() {
	now := time.Now()
	s.mu.Lock()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
}
