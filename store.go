package psyche

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zoobzio/capitan"
)

// Store is the durable key/value adapter consumed by the state machine and
// the scan archive. Implementations must never propagate errors to
// callers: a failed write is best-effort, a failed read behaves as a miss.
type Store interface {
	Set(key, value string)
	Get(key string) (string, bool)
	Delete(key string)
}

// SaveJSON serializes v and writes it under key. Serialization or store
// failures are absorbed here and reported as a StoreSaveFailed signal; the
// caller proceeds as if the write succeeded.
func SaveJSON(ctx context.Context, s Store, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		capitan.Error(ctx, StoreSaveFailed,
			FieldStoreKey.Field(key),
			FieldError.Field(err),
		)
		return
	}
	s.Set(key, string(data))
}

// LoadJSON reads and deserializes the value under key. A missing key or a
// corrupt stored value returns the fallback, never an error.
func LoadJSON[T any](s Store, key string, fallback T) T {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

// MemoryStore is a process-local Store, used as the default when no
// durable backend is injected and as the fake in tests.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
