// Package theme persists the light/dark appearance preference.
package theme

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

// Theme is the appearance preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// DefaultTheme is used when nothing valid is persisted.
const DefaultTheme = Dark

// Store holds the current theme and persists it on every change.
type Store struct {
	mu      sync.RWMutex
	kv      storage.Store
	current Theme
}

// NewStore creates a theme store, restoring the persisted preference.
func NewStore(kv storage.Store) *Store {
	s := &Store{kv: kv, current: DefaultTheme}

	raw, ok, err := kv.Get(storage.KeyTheme)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read theme preference")
		return s
	}
	if ok {
		if t := Theme(raw); t == Light || t == Dark {
			s.current = t
		}
	}
	return s
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Toggle flips between light and dark and returns the new theme.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == Dark {
		s.current = Light
	} else {
		s.current = Dark
	}
	s.persistLocked()
	return s.current
}

// Set selects a theme explicitly. Unknown values are ignored.
func (s *Store) Set(t Theme) {
	if t != Light && t != Dark {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
	s.persistLocked()
}

func (s *Store) persistLocked() {
	if err := s.kv.Set(storage.KeyTheme, string(s.current)); err != nil {
		log.Error().Err(err).Msg("Failed to persist theme preference")
	}
}
