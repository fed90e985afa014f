package weathercache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
)

type cachedReading struct {
	payload   forecast.Reading
	expiresAt time.Time
}

// MemoryStore is an in-memory reading cache for tests/dev and for deployments
// without a Valkey instance.
type MemoryStore struct {
	mu       sync.RWMutex
	readings map[string]cachedReading
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{readings: make(map[string]cachedReading)}
}

// Get implements forecast.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (forecast.Reading, bool, error) {
	s.mu.RLock()
	record, ok := s.readings[key]
	s.mu.RUnlock()
	if !ok {
		return forecast.Reading{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.readings, key)
		s.mu.Unlock()
		return forecast.Reading{}, false, nil
	}
	return record.payload, true, nil
}

// Save caches the reading with optional TTL.
func (s *MemoryStore) Save(_ context.Context, key string, reading forecast.Reading, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.readings[key] = cachedReading{payload: reading, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func hasExpired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && time.Now().After(expiresAt)
}

var _ forecast.Store = (*MemoryStore)(nil)
