package cache

import (
	"context"
	"sync"
	"time"

	"github.com/admitdesk/backoffice/pkg/lead"
	"github.com/admitdesk/backoffice/pkg/metrics"
)

type memoryEntry struct {
	leads     []lead.Lead
	expiresAt time.Time
}

// MemoryStore is the default in-process cache: a mutex-guarded map with TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[lead.Status]memoryEntry
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewMemoryStore creates an in-process cache with the given TTL.
func NewMemoryStore(ttl time.Duration, m *metrics.Metrics) *MemoryStore {
	return &MemoryStore{
		entries: make(map[lead.Status]memoryEntry),
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, tab lead.Status) ([]lead.Lead, bool) {
	s.mu.RLock()
	entry, ok := s.entries[tab]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		s.metrics.RecordCacheMiss("memory")
		return nil, false
	}
	s.metrics.RecordCacheHit("memory")
	return entry.leads, true
}

func (s *MemoryStore) Set(_ context.Context, tab lead.Status, leads []lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tab] = memoryEntry{leads: leads, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, tab lead.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tab)
	return nil
}

func (s *MemoryStore) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[lead.Status]memoryEntry)
	return nil
}
