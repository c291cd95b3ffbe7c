// Package player provides the core playback domain logic: the session
// queue, the playback state machine, and the engine-facing controller.
package player

import (
	"sync"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

// RepeatMode selects how the queue wraps around.
type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatAll RepeatMode = "all"
	RepeatOne RepeatMode = "one"
)

// Next returns the mode following m in the off → all → one → off cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// Snapshot is an immutable copy of the player state handed to subscribers.
type Snapshot struct {
	CurrentTrack *library.Track
	Playing      bool
	Position     int // seconds
	Duration     int // seconds, as reported by the engine
	Queue        []library.Track
	CurrentIndex int
	Shuffle      bool
	Repeat       RepeatMode
}

// State holds the live player state. The queue is session-scoped and owns
// track values outright, so a catalog reload cannot invalidate it.
// It is safe for concurrent access.
//
// Invariants: CurrentIndex is a valid queue index or -1 when the queue is
// empty, and the current track always equals queue[CurrentIndex].
type State struct {
	mu sync.RWMutex

	playing      bool
	position     int
	duration     int
	queue        []library.Track
	currentIndex int
	shuffle      bool
	repeat       RepeatMode
}

// NewState creates a player state in the Empty position.
func NewState() *State {
	return &State{
		currentIndex: -1,
		repeat:       RepeatOff,
	}
}

// ReplaceQueue swaps in a new queue and jumps to index, resetting the
// playback position.
func (s *State) ReplaceQueue(tracks []library.Track, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = make([]library.Track, len(tracks))
	copy(s.queue, tracks)
	s.position = 0
	if len(s.queue) == 0 {
		s.currentIndex = -1
		return
	}
	if index < 0 || index >= len(s.queue) {
		index = 0
	}
	s.currentIndex = index
}

// Append adds a track to the end of the queue. With an empty queue the
// appended track does not start playing; the index stays at -1 until a
// jump occurs.
func (s *State) Append(track library.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, track)
}

// JumpTo moves the current index within the queue, resetting the
// position. Out-of-range indices are ignored.
func (s *State) JumpTo(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.queue) {
		return false
	}
	s.currentIndex = index
	s.position = 0
	return true
}

// SetPlaying updates the playing flag.
func (s *State) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
}

// SetProgress records the position and duration reported by the engine.
func (s *State) SetProgress(position, duration int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = position
	s.duration = duration
}

// ToggleShuffle flips the shuffle flag and returns the new value.
func (s *State) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = !s.shuffle
	return s.shuffle
}

// SetRepeat sets the repeat mode.
func (s *State) SetRepeat(mode RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = mode
}

// ClearQueue empties the queue. The playing flag is left to be reconciled
// by the engine's next state event.
func (s *State) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
	s.currentIndex = -1
	s.position = 0
}

// Reset returns the state to Empty.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.position = 0
	s.duration = 0
	s.queue = nil
	s.currentIndex = -1
}

// CurrentIndex returns the current queue index, or -1.
func (s *State) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// QueueLen returns the queue length.
func (s *State) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

// Shuffle returns the shuffle flag.
func (s *State) Shuffle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffle
}

// Repeat returns the repeat mode.
func (s *State) Repeat() RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// Playing returns the playing flag.
func (s *State) Playing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

// CurrentTrack returns a copy of the current track, or nil when the
// queue is empty.
func (s *State) CurrentTrack() *library.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTrackLocked()
}

func (s *State) currentTrackLocked() *library.Track {
	if s.currentIndex < 0 || s.currentIndex >= len(s.queue) {
		return nil
	}
	track := s.queue[s.currentIndex]
	return &track
}

// Snapshot returns a copy of the full state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queue := make([]library.Track, len(s.queue))
	copy(queue, s.queue)

	return Snapshot{
		CurrentTrack: s.currentTrackLocked(),
		Playing:      s.playing,
		Position:     s.position,
		Duration:     s.duration,
		Queue:        queue,
		CurrentIndex: s.currentIndex,
		Shuffle:      s.shuffle,
		Repeat:       s.repeat,
	}
}
