// Package scanner provides the media discovery backends that feed the
// library catalog. Two implementations exist: a filesystem walker that
// reads tags directly, and one that queries the MPD database.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

// audioExtensions lists the file extensions treated as audio.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".aac":  true,
	".wav":  true,
	".wma":  true,
}

// FSScanner walks configured music directories and reads embedded tags.
// Files whose tags cannot be read still become tracks, with metadata
// derived from the filename. Tag headers carry no duration, so scanned
// tracks report a duration of zero.
type FSScanner struct {
	roots []string
}

// NewFSScanner creates a filesystem scanner over the given root
// directories.
func NewFSScanner(roots []string) *FSScanner {
	return &FSScanner{roots: roots}
}

// Scan walks every root and returns the discovered tracks. Roots that
// do not exist are skipped with a warning. The walk checks ctx between
// files and aborts on cancellation.
func (s *FSScanner) Scan(ctx context.Context) ([]library.Track, error) {
	var tracks []library.Track

	for _, root := range s.roots {
		if _, err := os.Stat(root); err != nil {
			log.Warn().Str("root", root).Err(err).Msg("Skipping unreadable music root")
			continue
		}

		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.Debug().Str("path", path).Err(err).Msg("Skipping unreadable entry")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if info.IsDir() {
				return nil
			}
			if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			tracks = append(tracks, s.scanFile(path, info))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	log.Info().Int("tracks", len(tracks)).Int("roots", len(s.roots)).Msg("Filesystem scan complete")
	return tracks, nil
}

// scanFile reads a single file's tags, falling back to filename-derived
// metadata when the tags are missing or unreadable.
func (s *FSScanner) scanFile(path string, info os.FileInfo) library.Track {
	track := library.Track{
		ID:        library.TrackID(path),
		URI:       path,
		DateAdded: info.ModTime().Unix(),
	}
	track.Artwork = "/albumart?songId=" + track.ID

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if m, err := tag.ReadFrom(f); err == nil {
			track.Title = m.Title()
			track.Artist = m.Artist()
			track.Album = m.Album()
		} else {
			log.Debug().Str("path", path).Err(err).Msg("Tag read failed, using filename")
		}
	}

	if track.Title == "" {
		base := filepath.Base(path)
		track.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if track.Artist == "" {
		track.Artist = "Unknown Artist"
	}
	if track.Album == "" {
		track.Album = "Unknown Album"
	}

	return track
}
