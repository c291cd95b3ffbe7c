package artwork

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// jpegHeader is enough magic bytes to classify the payload.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

type fakeMPDArt struct {
	picture  []byte
	albumArt []byte
}

func (f *fakeMPDArt) ReadPicture(uri string) ([]byte, error) {
	if f.picture == nil {
		return nil, errors.New("no embedded picture")
	}
	return f.picture, nil
}

func (f *fakeMPDArt) AlbumArt(uri string) ([]byte, error) {
	if f.albumArt == nil {
		return nil, errors.New("no album art")
	}
	return f.albumArt, nil
}

func TestResolveFromMPDReadPicture(t *testing.T) {
	r := NewResolver(&fakeMPDArt{picture: jpegHeader}, "")

	got, err := r.Resolve("t1", "Music/a.mp3")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", got.MimeType)
	}
	if got.Source != "mpd" {
		t.Errorf("Source = %q, want mpd", got.Source)
	}
}

func TestResolveFallsBackToAlbumArt(t *testing.T) {
	r := NewResolver(&fakeMPDArt{albumArt: pngHeader}, "")

	got, err := r.Resolve("t1", "Music/a.mp3")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", got.MimeType)
	}
}

func TestResolveNoArtwork(t *testing.T) {
	r := NewResolver(&fakeMPDArt{}, "")

	if _, err := r.Resolve("t1", "Music/a.mp3"); !errors.Is(err, ErrNoArtwork) {
		t.Errorf("err = %v, want ErrNoArtwork", err)
	}
}

func TestResolveUsesCache(t *testing.T) {
	dir := t.TempDir()
	mpd := &fakeMPDArt{picture: jpegHeader}
	r := NewResolver(mpd, dir)

	if _, err := r.Resolve("t1", "Music/a.mp3"); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}

	// Second lookup must not need the provider anymore.
	mpd.picture = nil
	got, err := r.Resolve("t1", "Music/a.mp3")
	if err != nil {
		t.Fatalf("cached Resolve failed: %v", err)
	}
	if got.Source != "cache" {
		t.Errorf("Source = %q, want cache", got.Source)
	}
	if got.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", got.MimeType)
	}
}

func TestResolveNilProvider(t *testing.T) {
	r := NewResolver(nil, "")

	if _, err := r.Resolve("t1", filepath.Join(t.TempDir(), "missing.mp3")); !errors.Is(err, ErrNoArtwork) {
		t.Errorf("err = %v, want ErrNoArtwork", err)
	}
}

func TestCacheFilesUseDetectedExtension(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(&fakeMPDArt{picture: pngHeader}, dir)

	if _, err := r.Resolve("t2", "Music/b.mp3"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "t2.png")); err != nil {
		t.Errorf("expected cached png file: %v", err)
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", jpegHeader, "image/jpeg"},
		{"png", pngHeader, "image/png"},
		{"gif", []byte("GIF89a"), "image/gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, "application/octet-stream"},
		{"short", []byte{0xFF}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.data); got != tt.want {
				t.Errorf("DetectMimeType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	if _, err := CacheKey("abc123"); err != nil {
		t.Errorf("plain id should be valid: %v", err)
	}
	if _, err := CacheKey("../etc/passwd"); err == nil {
		t.Error("path traversal should be rejected")
	}
	if _, err := CacheKey(""); err == nil {
		t.Error("empty id should be rejected")
	}
}
