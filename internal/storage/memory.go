package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store with an optional byte quota. It backs
// tests and is the reference implementation of the quota behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int // 0 means unlimited
}

// NewMemoryStore creates an empty MemoryStore capped at maxBytes (0 = unlimited).
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{
		data:     map[string]string{},
		maxBytes: maxBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxBytes > 0 {
		total := EntrySize(key, value)
		for k, v := range s.data {
			if k == key {
				continue
			}
			total += EntrySize(k, v)
		}
		if total > s.maxBytes {
			return ErrQuotaExceeded
		}
	}

	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored entries. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
