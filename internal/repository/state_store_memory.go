package repository

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryStateStore keeps state in process memory. Only suitable for a single instance.
func NewMemoryStateStore() StateStore {
	return newMemoryStateStore(time.Now)
}

func newMemoryStateStore(now func() time.Time) *memoryStateStore {
	return &memoryStateStore{
		entries: make(map[string]memEntry),
		now:     now,
	}
}

func (s *memoryStateStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *memoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}
	return entry.value, nil
}

func (s *memoryStateStore) Take(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}
	delete(s.entries, key)
	return entry.value, nil
}

func (s *memoryStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryStateStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(key)
	return ok, nil
}

// lookup must be called with mu held. Expired entries are dropped on sight.
func (s *memoryStateStore) lookup(key string) (memEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return memEntry{}, false
	}
	return entry, true
}
