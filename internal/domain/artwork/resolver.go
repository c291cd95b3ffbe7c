// Package artwork resolves cover images for tracks.
package artwork

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog/log"
)

// ErrNoArtwork is returned when no source has an image for the track.
var ErrNoArtwork = errors.New("no artwork found")

// MPDArtworkProvider fetches artwork through the MPD protocol.
type MPDArtworkProvider interface {
	// ReadPicture returns the picture embedded in the file's tags.
	ReadPicture(uri string) ([]byte, error)
	// AlbumArt returns a cover file from the song's directory.
	AlbumArt(uri string) ([]byte, error)
}

// Result is a resolved cover image.
type Result struct {
	Data     []byte
	MimeType string
	Source   string
}

// Resolver finds cover images with multi-source fallback.
// Resolution order:
// 1. Disk cache
// 2. Embedded picture read directly from a local file
// 3. MPD readpicture, then MPD albumart
type Resolver struct {
	mpd      MPDArtworkProvider
	cacheDir string
}

// NewResolver creates a resolver. mpd may be nil when no engine
// connection is available; cacheDir may be empty to disable caching.
func NewResolver(mpd MPDArtworkProvider, cacheDir string) *Resolver {
	return &Resolver{mpd: mpd, cacheDir: cacheDir}
}

// Resolve finds the cover image for a track. trackID keys the cache,
// uri locates the audio file (a local path or an MPD database URI).
func (r *Resolver) Resolve(trackID, uri string) (*Result, error) {
	if cached := r.checkCache(trackID); cached != nil {
		return cached, nil
	}

	if data := readEmbedded(uri); len(data) > 0 {
		return r.save(trackID, data, "embedded"), nil
	}

	if r.mpd != nil {
		if data, err := r.mpd.ReadPicture(uri); err == nil && len(data) > 0 {
			return r.save(trackID, data, "mpd"), nil
		}
		if data, err := r.mpd.AlbumArt(uri); err == nil && len(data) > 0 {
			return r.save(trackID, data, "mpd"), nil
		}
	}

	return nil, ErrNoArtwork
}

// checkCache looks for a previously saved image on disk.
func (r *Resolver) checkCache(trackID string) *Result {
	if r.cacheDir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(r.cacheDir, trackID+".*"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	data, err := os.ReadFile(matches[0])
	if err != nil || len(data) == 0 {
		return nil
	}
	return &Result{Data: data, MimeType: DetectMimeType(data), Source: "cache"}
}

// readEmbedded extracts the picture from a local file's tags. Returns
// nil when the path does not exist or carries no picture.
func readEmbedded(uri string) []byte {
	if !filepath.IsAbs(uri) {
		return nil
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}
	if pic := m.Picture(); pic != nil {
		return pic.Data
	}
	return nil
}

// save writes the image to the cache and returns the result. Cache
// failures are logged, not surfaced.
func (r *Resolver) save(trackID string, data []byte, source string) *Result {
	mime := DetectMimeType(data)

	if r.cacheDir != "" {
		if err := os.MkdirAll(r.cacheDir, 0o755); err == nil {
			path := filepath.Join(r.cacheDir, trackID+ExtensionForMime(mime))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				log.Warn().Err(err).Str("track", trackID).Msg("Failed to cache artwork")
			}
		}
	}

	return &Result{Data: data, MimeType: mime, Source: source}
}

// DetectMimeType detects the MIME type from image magic bytes.
func DetectMimeType(data []byte) string {
	if len(data) < 4 {
		return "application/octet-stream"
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	if len(data) >= 8 &&
		data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A {
		return "image/png"
	}
	if data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' {
		return "image/gif"
	}
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return "image/webp"
	}

	return "application/octet-stream"
}

// ExtensionForMime returns the file extension for a MIME type.
func ExtensionForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// CacheKey sanity-checks a track ID before it is used as a filename.
func CacheKey(trackID string) (string, error) {
	if trackID == "" || trackID != filepath.Base(trackID) {
		return "", fmt.Errorf("invalid track id: %q", trackID)
	}
	return trackID, nil
}
