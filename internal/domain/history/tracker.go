// Package history tracks play counts and recency, keyed by track ID.
// Statistics live here, in a side table, rather than on the catalog's
// tracks, so the raw catalog and derived stats cannot diverge.
package history

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
)

const (
	// DefaultRecentCap bounds the persisted recency list.
	DefaultRecentCap = 100

	// ViewCap bounds the ranked views handed to screens.
	ViewCap = 20
)

// Entry records a single position in the recency list.
type Entry struct {
	TrackID  string `json:"songId"`
	PlayedAt int64  `json:"playedAt"` // unix seconds
}

// Resolver maps a track ID to its catalog track. Missing IDs report
// ok=false and are filtered out of the ranked views.
type Resolver func(trackID string) (library.Track, bool)

// Tracker maintains the bounded recency list and the play-count map.
// Every mutation persists both synchronously.
type Tracker struct {
	mu        sync.RWMutex
	store     storage.Store
	recent    []Entry // most-recent-first, no duplicate IDs
	counts    map[string]int
	recentCap int

	now func() time.Time
}

// NewTracker creates a tracker over the given store and loads any
// persisted state. A recentCap of zero or less selects the default.
func NewTracker(store storage.Store, recentCap int) *Tracker {
	if recentCap <= 0 {
		recentCap = DefaultRecentCap
	}
	t := &Tracker{
		store:     store,
		counts:    make(map[string]int),
		recentCap: recentCap,
		now:       time.Now,
	}
	t.load()
	return t
}

// load restores the recency list and count map. Corrupt or absent blobs
// fall back to empty state.
func (t *Tracker) load() {
	if raw, ok, err := t.store.Get(storage.KeyHistoryRecent); err != nil {
		log.Warn().Err(err).Msg("Failed to read play history")
	} else if ok {
		var recent []Entry
		if err := json.Unmarshal([]byte(raw), &recent); err != nil {
			log.Warn().Err(err).Msg("Failed to parse recency list")
		} else {
			t.recent = recent
		}
	}

	if raw, ok, err := t.store.Get(storage.KeyHistoryCounts); err != nil {
		log.Warn().Err(err).Msg("Failed to read play counts")
	} else if ok {
		counts := make(map[string]int)
		if err := json.Unmarshal([]byte(raw), &counts); err != nil {
			log.Warn().Err(err).Msg("Failed to parse play counts")
		} else {
			t.counts = counts
		}
	}
}

// RecordPlay increments the track's play count, stamps its last-played
// time, and moves it to the front of the recency list.
func (t *Tracker) RecordPlay(trackID string) {
	if trackID == "" {
		return
	}

	t.mu.Lock()

	t.counts[trackID]++

	// Remove any prior occurrence so each ID appears at most once.
	filtered := t.recent[:0]
	for _, entry := range t.recent {
		if entry.TrackID != trackID {
			filtered = append(filtered, entry)
		}
	}
	entry := Entry{TrackID: trackID, PlayedAt: t.now().Unix()}
	t.recent = append([]Entry{entry}, filtered...)
	if len(t.recent) > t.recentCap {
		t.recent = t.recent[:t.recentCap]
	}

	recentCopy := make([]Entry, len(t.recent))
	copy(recentCopy, t.recent)
	countsCopy := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		countsCopy[k] = v
	}

	t.mu.Unlock()

	log.Debug().Str("trackId", trackID).Msg("Recorded play")
	t.persist(recentCopy, countsCopy)
}

// persist writes both history blobs. Failures are logged; the in-memory
// state stays authoritative for the session.
func (t *Tracker) persist(recent []Entry, counts map[string]int) {
	if data, err := json.Marshal(recent); err != nil {
		log.Error().Err(err).Msg("Failed to marshal recency list")
	} else if err := t.store.Set(storage.KeyHistoryRecent, string(data)); err != nil {
		log.Error().Err(err).Msg("Failed to persist recency list")
	}

	if data, err := json.Marshal(counts); err != nil {
		log.Error().Err(err).Msg("Failed to marshal play counts")
	} else if err := t.store.Set(storage.KeyHistoryCounts, string(data)); err != nil {
		log.Error().Err(err).Msg("Failed to persist play counts")
	}
}

// PlayCount returns the play count for a track (zero when never played).
func (t *Tracker) PlayCount(trackID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[trackID]
}

// Recent returns a copy of the recency list, most recent first.
func (t *Tracker) Recent() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.recent))
	copy(out, t.recent)
	return out
}

// RecentlyPlayed maps the recency list to catalog tracks, filtering out
// IDs the catalog no longer knows, capped at ViewCap.
func (t *Tracker) RecentlyPlayed(resolve Resolver) []library.Track {
	t.mu.RLock()
	recent := make([]Entry, len(t.recent))
	copy(recent, t.recent)
	t.mu.RUnlock()

	var out []library.Track
	for _, entry := range recent {
		if len(out) >= ViewCap {
			break
		}
		if track, ok := resolve(entry.TrackID); ok {
			out = append(out, track)
		}
	}
	return out
}

// MostPlayed returns all played tracks sorted descending by play count,
// capped at ViewCap. Ties may appear in any order.
func (t *Tracker) MostPlayed(resolve Resolver) []library.Track {
	type ranked struct {
		track library.Track
		count int
	}

	t.mu.RLock()
	candidates := make([]ranked, 0, len(t.counts))
	for id, count := range t.counts {
		if count <= 0 {
			continue
		}
		if track, ok := resolve(id); ok {
			candidates = append(candidates, ranked{track: track, count: count})
		}
	}
	t.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].count > candidates[j].count
	})

	if len(candidates) > ViewCap {
		candidates = candidates[:ViewCap]
	}
	out := make([]library.Track, len(candidates))
	for i, c := range candidates {
		out[i] = c.track
	}
	return out
}

// Clear drops all history and persists the empty state.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.recent = nil
	t.counts = make(map[string]int)
	t.mu.Unlock()

	t.persist(nil, map[string]int{})
	log.Info().Msg("Play history cleared")
}
