package player

import "github.com/Vinoth-46/isai-backend/internal/domain/library"

// EventType identifies an engine event.
type EventType int

const (
	// EventStateChanged reports the engine's playing flag.
	EventStateChanged EventType = iota
	// EventTrackChanged reports the engine's current queue index.
	EventTrackChanged
	// EventProgress reports playback position and duration.
	EventProgress
)

// Event is a state notification emitted by the playback engine.
type Event struct {
	Type     EventType
	Playing  bool // EventStateChanged
	Index    int  // EventTrackChanged
	Position int  // EventProgress, seconds
	Duration int  // EventProgress, seconds
}

// Engine is the external component that performs actual audio decoding
// and output. The controller owns the queue and mirrors the engine's
// reported state; the engine owns the audio session.
type Engine interface {
	// AddTracks appends tracks to the engine's queue.
	AddTracks(tracks []library.Track) error
	// Play starts or resumes playback.
	Play() error
	// Pause pauses playback.
	Pause() error
	// Stop halts playback.
	Stop() error
	// Reset clears the engine's queue and stops playback.
	Reset() error
	// SkipTo jumps to the given queue index and plays it.
	SkipTo(index int) error
	// SkipToNext advances to the next track, honoring the repeat mode.
	SkipToNext() error
	// SkipToPrevious moves back one track.
	SkipToPrevious() error
	// SeekTo seeks within the current track; the engine clamps the
	// position to [0, duration].
	SeekTo(seconds int) error
	// SetRepeatMode forwards the repeat mode so native skips honor
	// wraparound and track repeat.
	SetRepeatMode(mode RepeatMode) error
	// IsPlaying reports the engine's current playing state.
	IsPlaying() (bool, error)
	// Events returns the engine's event stream. The channel is closed
	// when the engine shuts down.
	Events() <-chan Event
}
