package library_test

import (
	"testing"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

func TestKnownFoldersLabeler(t *testing.T) {
	labeler := library.NewKnownFoldersLabeler()

	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"music folder", "/storage/emulated/0/Music/album/track.mp3", "Music"},
		{"downloads folder", "/storage/emulated/0/Download/track.mp3", "Download"},
		{"case-insensitive match", "/sdcard/my music/track.mp3", "my music"},
		{"substring match", "/sdcard/WhatsApp Audio/track.mp3", "WhatsApp Audio"},
		{"fallback to parent", "/storage/emulated/0/Recordings/track.mp3", "Recordings"},
		{"no parent", "track.mp3", library.UnknownFolder},
		{"empty uri", "", library.UnknownFolder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labeler.Label(tt.uri)
			if got != tt.expected {
				t.Errorf("Label(%q) = %q, want %q", tt.uri, got, tt.expected)
			}
		})
	}
}

func TestKnownFoldersLabelerCustomNames(t *testing.T) {
	labeler := library.NewKnownFoldersLabeler("Podcasts")

	if got := labeler.Label("/sdcard/Podcasts/ep1.mp3"); got != "Podcasts" {
		t.Errorf("Label = %q, want Podcasts", got)
	}
	// Default names no longer match; falls back to parent directory.
	if got := labeler.Label("/sdcard/Music/track.mp3"); got != "Music" {
		t.Errorf("Label = %q, want Music (parent fallback)", got)
	}
}

func TestParentFolderLabeler(t *testing.T) {
	labeler := library.ParentFolderLabeler{}

	tests := []struct {
		uri      string
		expected string
	}{
		{"/storage/Music/album/track.mp3", "album"},
		{"/a/b.mp3", "a"},
		{"b.mp3", library.UnknownFolder},
	}

	for _, tt := range tests {
		if got := labeler.Label(tt.uri); got != tt.expected {
			t.Errorf("Label(%q) = %q, want %q", tt.uri, got, tt.expected)
		}
	}
}
