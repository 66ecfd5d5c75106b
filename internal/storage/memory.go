package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/service"
)

var _ service.Store = (*MemoryStore)(nil)

// MemoryStore is a process-local service.Store. It backs --ephemeral runs
// and tests; FailWrites makes every mutation fail with ErrPersistence.
type MemoryStore struct {
	values    map[string]string
	failErr   error
	mu        sync.RWMutex
	setCalls  int
	failWrite bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// FailWrites makes subsequent Set and Remove calls fail with err wrapped in
// common.ErrPersistence. A nil err restores normal behavior.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = err != nil
	m.failErr = err
}

// SetCalls reports how many successful Set calls were made.
func (m *MemoryStore) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setCalls
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("%w: failed to write %q: %w", common.ErrPersistence, key, m.failErr)
	}
	m.values[key] = value
	m.setCalls++
	return nil
}

// Remove deletes key if present.
func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return fmt.Errorf("%w: failed to remove %q: %w", common.ErrPersistence, key, m.failErr)
	}
	delete(m.values, key)
	return nil
}

// Keys lists every stored key, sorted.
func (m *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
