package library

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

// Scanner discovers audio tracks from the device's media subsystem.
type Scanner interface {
	Scan(ctx context.Context) ([]Track, error)
}

// Service owns the track catalog and its derived index. The catalog is
// replaced wholesale by Scan, persisted as a flat snapshot, and restored
// by Load at startup without rescanning.
type Service struct {
	mu          sync.RWMutex
	store       storage.Store
	scanner     Scanner
	labeler     FolderLabeler
	minDuration int

	tracks []Track
	byID   map[string]Track
	index  Index
}

// snapshot is the persisted catalog blob. Groupings are derived state and
// are rebuilt from the songs on load rather than stored.
type snapshot struct {
	Songs []Track `json:"songs"`
}

// NewService creates a library service. A minDuration of zero or less
// selects the default minimum track length.
func NewService(store storage.Store, scanner Scanner, labeler FolderLabeler, minDuration int) *Service {
	if labeler == nil {
		labeler = NewKnownFoldersLabeler()
	}
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}
	return &Service{
		store:       store,
		scanner:     scanner,
		labeler:     labeler,
		minDuration: minDuration,
		byID:        make(map[string]Track),
	}
}

// Load restores the persisted catalog snapshot. An absent snapshot leaves
// the catalog empty and is not an error.
func (s *Service) Load() error {
	raw, ok, err := s.store.Get(storage.KeyMusicData)
	if err != nil {
		return fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	if !ok {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return fmt.Errorf("failed to parse catalog snapshot: %w", err)
	}

	s.replace(snap.Songs)
	log.Info().Int("tracks", len(snap.Songs)).Msg("Loaded catalog snapshot")
	return nil
}

// Scan rebuilds the catalog from the media scanner, replacing the current
// snapshot wholesale and persisting the result. The previous catalog is
// kept when the scan itself fails.
func (s *Service) Scan(ctx context.Context) ([]Track, error) {
	scanned, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("media scan failed: %w", err)
	}

	tracks := make([]Track, 0, len(scanned))
	for _, track := range scanned {
		// A zero duration means the scanner could not determine one;
		// only known-short files are dropped.
		if track.Duration > 0 && track.Duration < s.minDuration {
			continue
		}
		if track.ID == "" {
			track.ID = TrackID(track.URI)
		}
		if track.Folder == "" {
			track.Folder = s.labeler.Label(track.URI)
		}
		tracks = append(tracks, track)
	}

	s.replace(tracks)
	s.persist()

	log.Info().
		Int("scanned", len(scanned)).
		Int("tracks", len(tracks)).
		Msg("Catalog scan complete")

	return s.Tracks(), nil
}

// replace swaps in a new catalog snapshot and rebuilds the derived index.
func (s *Service) replace(tracks []Track) {
	byID := make(map[string]Track, len(tracks))
	for _, track := range tracks {
		byID[track.ID] = track
	}

	index := BuildIndex(tracks)

	s.mu.Lock()
	s.tracks = tracks
	s.byID = byID
	s.index = index
	s.mu.Unlock()
}

// persist writes the catalog snapshot. Storage failures are logged; the
// in-memory catalog stays authoritative for the session.
func (s *Service) persist() {
	s.mu.RLock()
	snap := snapshot{Songs: s.tracks}
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal catalog snapshot")
		return
	}
	if err := s.store.Set(storage.KeyMusicData, string(data)); err != nil {
		log.Error().Err(err).Msg("Failed to persist catalog snapshot")
	}
}

// Empty reports whether the catalog has no tracks.
func (s *Service) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks) == 0
}

// Tracks returns a copy of the catalog in scan order.
func (s *Service) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// TrackByID looks up a track by its identifier.
func (s *Service) TrackByID(id string) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	track, ok := s.byID[id]
	return track, ok
}

// Albums returns the derived album grouping in first-seen order.
func (s *Service) Albums() []Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Album, len(s.index.Albums))
	copy(out, s.index.Albums)
	return out
}

// Artists returns the derived artist grouping in first-seen order.
func (s *Service) Artists() []Artist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Artist, len(s.index.Artists))
	copy(out, s.index.Artists)
	return out
}

// Folders returns the derived folder grouping in first-seen order.
func (s *Service) Folders() []Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Folder, len(s.index.Folders))
	copy(out, s.index.Folders)
	return out
}

// Search returns tracks whose title, artist, or album contains the query,
// case-insensitively. An empty query returns nothing.
func (s *Service) Search(query string) []Track {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Track
	for _, track := range s.tracks {
		if strings.Contains(strings.ToLower(track.Title), query) ||
			strings.Contains(strings.ToLower(track.Artist), query) ||
			strings.Contains(strings.ToLower(track.Album), query) {
			out = append(out, track)
		}
	}
	return out
}
