// Package cache provides the in-memory TTL store that backs the
// fetch-and-cache layer. Entries never outlive the configured TTL and the
// only invalidation primitive is global.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Store is a process-local TTL cache. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewStore creates a Store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock overrides the time source. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get returns the cached value for key, or false if the key is absent or
// its entry has exceeded the TTL.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, stamped with the current time.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: s.now()}
	s.mu.Unlock()
}

// IsExpired reports whether key holds an entry past its TTL. Absent keys
// are not expired, merely missing.
func (s *Store) IsExpired(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return ok && s.expired(e)
}

// InvalidateAll drops every entry and returns how many were removed.
func (s *Store) InvalidateAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	return n
}

// Len returns the number of entries, including any not yet swept expired ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(e entry) bool {
	return s.now().Sub(e.storedAt) > s.ttl
}
