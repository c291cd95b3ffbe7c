// Package storage provides the persisted key-value store backing the
// catalog, playlist, history, and theme snapshots.
package storage

import "sync"

// Well-known store keys. Each logical store persists a single JSON blob
// (or scalar string) under its own key.
const (
	KeyMusicData     = "musicData"
	KeyPlaylists     = "playlists"
	KeyTheme         = "theme"
	KeyHistoryRecent = "history:recent"
	KeyHistoryCounts = "history:counts"
)

// Store is a namespaced string key-value store.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// MemoryStore is an in-memory Store used in tests and as a fallback when
// no database path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set writes value under key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
