package scanner

import (
	"context"
	"strconv"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

// Database lists the songs MPD knows about.
type Database interface {
	ListAllInfo(uri string) ([]mpd.Attrs, error)
}

// MPDScanner builds the catalog from MPD's own music database. Unlike
// the filesystem walker, MPD reports real durations.
type MPDScanner struct {
	db Database
}

// NewMPDScanner creates a scanner over the given MPD database.
func NewMPDScanner(db Database) *MPDScanner {
	return &MPDScanner{db: db}
}

// Scan lists every song in the MPD database and maps it to a track.
// Entries without a file attribute (directories, playlists) are
// skipped.
func (s *MPDScanner) Scan(ctx context.Context) ([]library.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.db.ListAllInfo("")
	if err != nil {
		return nil, err
	}

	tracks := make([]library.Track, 0, len(entries))
	for _, attrs := range entries {
		uri, ok := attrs["file"]
		if !ok || uri == "" {
			continue
		}
		tracks = append(tracks, trackFromAttrs(uri, attrs))
	}

	log.Info().Int("tracks", len(tracks)).Msg("MPD database scan complete")
	return tracks, nil
}

// trackFromAttrs maps an MPD song entry to a track.
func trackFromAttrs(uri string, attrs mpd.Attrs) library.Track {
	track := library.Track{
		ID:     library.TrackID(uri),
		URI:    uri,
		Title:  attrs["Title"],
		Artist: attrs["Artist"],
		Album:  attrs["Album"],
	}
	track.Artwork = "/albumart?songId=" + track.ID

	if track.Title == "" {
		track.Title = uri
	}
	if track.Artist == "" {
		track.Artist = "Unknown Artist"
	}
	if track.Album == "" {
		track.Album = "Unknown Album"
	}

	if d, err := strconv.ParseFloat(attrs["duration"], 64); err == nil {
		track.Duration = int(d)
	} else if t, err := strconv.Atoi(attrs["Time"]); err == nil {
		track.Duration = t
	}

	if mod, err := time.Parse(time.RFC3339, attrs["Last-Modified"]); err == nil {
		track.DateAdded = mod.Unix()
	}

	return track
}
