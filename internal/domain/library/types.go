// Package library provides the track catalog and its derived groupings.
package library

import (
	"crypto/md5"
	"encoding/hex"
)

// Track represents a single playable audio item with metadata.
// Tracks are immutable once scanned; play statistics live in the history
// tracker, keyed by track ID, so the raw catalog never diverges from them.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Duration  int    `json:"duration"` // seconds
	URI       string `json:"uri"`
	Artwork   string `json:"artwork,omitempty"`
	Folder    string `json:"folder"`
	DateAdded int64  `json:"dateAdded,omitempty"` // unix seconds
}

// Album is a derived grouping of tracks sharing an (album, artist) pair.
// Albums are recomputed from the catalog, never persisted independently.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Artist string  `json:"artist"`
	Tracks []Track `json:"tracks"`
}

// Artist is a derived grouping of tracks sharing an artist name, together
// with the albums attributed to that artist.
type Artist struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
	Albums []Album `json:"albums"`
}

// Folder is a derived grouping of tracks sharing a folder label.
type Folder struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// AlbumID returns the stable identifier for an (album, artist) pair.
func AlbumID(album, artist string) string {
	sum := md5.Sum([]byte(album + "\x00" + artist))
	return hex.EncodeToString(sum[:])
}

// TrackID returns the stable identifier for a track URI, used when the
// media subsystem does not supply an asset ID of its own.
func TrackID(uri string) string {
	sum := md5.Sum([]byte(uri))
	return hex.EncodeToString(sum[:])
}

// DefaultMinDuration is the minimum track length (seconds) included in a
// scan. Shorter files are treated as ringtones/notification sounds.
const DefaultMinDuration = 60
