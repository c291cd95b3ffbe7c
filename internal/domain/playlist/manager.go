// Package playlist manages named, user-created track orderings.
// Playlists hold track ID references into the catalog, never track
// values, so deleting a track from the catalog cannot corrupt them;
// dangling IDs are filtered out at resolve time.
package playlist

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

// Playlist is a named, ordered sequence of track ID references.
type Playlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	TrackIDs  []string `json:"songIds"`
	CreatedAt int64    `json:"createdAt"` // unix seconds
	UpdatedAt int64    `json:"updatedAt"`
}

// Resolver maps a track ID to its catalog track.
type Resolver func(trackID string) (library.Track, bool)

// Manager owns the playlist map. Every mutation persists the full blob
// immediately, last-write-wins; there is no partial-update protocol
// because the process is the sole writer.
type Manager struct {
	mu        sync.RWMutex
	store     storage.Store
	playlists map[string]*Playlist

	now   func() time.Time
	newID func() string
}

// NewManager creates a playlist manager and loads the persisted map.
func NewManager(store storage.Store) *Manager {
	m := &Manager{
		store:     store,
		playlists: make(map[string]*Playlist),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	m.load()
	return m
}

// load restores the persisted playlist map. Absent or corrupt blobs
// fall back to an empty map.
func (m *Manager) load() {
	raw, ok, err := m.store.Get(storage.KeyPlaylists)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read playlists")
		return
	}
	if !ok {
		return
	}

	playlists := make(map[string]*Playlist)
	if err := json.Unmarshal([]byte(raw), &playlists); err != nil {
		log.Warn().Err(err).Msg("Failed to parse playlists")
		return
	}
	m.playlists = playlists
	log.Info().Int("count", len(playlists)).Msg("Loaded playlists")
}

// persistLocked writes the full playlist map (caller holds the lock).
func (m *Manager) persistLocked() error {
	data, err := json.Marshal(m.playlists)
	if err != nil {
		return fmt.Errorf("failed to marshal playlists: %w", err)
	}
	if err := m.store.Set(storage.KeyPlaylists, string(data)); err != nil {
		return fmt.Errorf("failed to persist playlists: %w", err)
	}
	return nil
}

// Create adds a new empty playlist. The storage error, if any, is
// surfaced to the caller; this is the one mutation whose failure the UI
// shows explicitly.
func (m *Manager) Create(name string) (Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Unix()
	p := &Playlist{
		ID:        m.newID(),
		Name:      name,
		TrackIDs:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.playlists[p.ID] = p

	err := m.persistLocked()
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to persist new playlist")
	} else {
		log.Info().Str("id", p.ID).Str("name", name).Msg("Created playlist")
	}
	return *p, err
}

// AddSong appends a track reference. It is a no-op returning false when
// the playlist is absent or the track is already present, so repeated
// adds are idempotent.
func (m *Manager) AddSong(playlistID, trackID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.playlists[playlistID]
	if !ok {
		return false
	}
	for _, id := range p.TrackIDs {
		if id == trackID {
			return false
		}
	}

	p.TrackIDs = append(p.TrackIDs, trackID)
	p.UpdatedAt = m.now().Unix()

	if err := m.persistLocked(); err != nil {
		log.Error().Err(err).Str("playlist", playlistID).Msg("Failed to persist playlist")
	}
	return true
}

// RemoveSong removes the first matching track reference. It is a no-op
// returning false when the playlist or track is absent.
func (m *Manager) RemoveSong(playlistID, trackID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.playlists[playlistID]
	if !ok {
		return false
	}

	for i, id := range p.TrackIDs {
		if id == trackID {
			p.TrackIDs = append(p.TrackIDs[:i], p.TrackIDs[i+1:]...)
			p.UpdatedAt = m.now().Unix()
			if err := m.persistLocked(); err != nil {
				log.Error().Err(err).Str("playlist", playlistID).Msg("Failed to persist playlist")
			}
			return true
		}
	}
	return false
}

// Rename changes a playlist's name.
func (m *Manager) Rename(playlistID, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.playlists[playlistID]
	if !ok {
		return false
	}

	p.Name = name
	p.UpdatedAt = m.now().Unix()
	if err := m.persistLocked(); err != nil {
		log.Error().Err(err).Str("playlist", playlistID).Msg("Failed to persist playlist")
	}
	return true
}

// Delete removes a playlist from the map.
func (m *Manager) Delete(playlistID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.playlists[playlistID]; !ok {
		return false
	}
	delete(m.playlists, playlistID)

	if err := m.persistLocked(); err != nil {
		log.Error().Err(err).Str("playlist", playlistID).Msg("Failed to persist playlist deletion")
	}
	return true
}

// Get returns a copy of the playlist.
func (m *Manager) Get(playlistID string) (Playlist, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.playlists[playlistID]
	if !ok {
		return Playlist{}, false
	}
	return copyPlaylist(p), true
}

// All returns all playlists ordered by creation time.
func (m *Manager) All() []Playlist {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Playlist, 0, len(m.playlists))
	for _, p := range m.playlists {
		out = append(out, copyPlaylist(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Resolve maps a playlist's track references to catalog tracks,
// filtering out IDs the catalog no longer knows.
func (m *Manager) Resolve(playlistID string, resolve Resolver) ([]library.Track, bool) {
	p, ok := m.Get(playlistID)
	if !ok {
		return nil, false
	}

	tracks := make([]library.Track, 0, len(p.TrackIDs))
	for _, id := range p.TrackIDs {
		if track, found := resolve(id); found {
			tracks = append(tracks, track)
		}
	}
	return tracks, true
}

func copyPlaylist(p *Playlist) Playlist {
	out := *p
	out.TrackIDs = make([]string, len(p.TrackIDs))
	copy(out.TrackIDs, p.TrackIDs)
	return out
}
