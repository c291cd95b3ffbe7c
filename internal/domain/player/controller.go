package player

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
)

// HistoryRecorder receives play events for ranked history views.
type HistoryRecorder interface {
	RecordPlay(trackID string)
}

// Controller owns the session queue and drives the playback engine. All
// audio I/O is delegated to the engine; the controller mirrors the
// engine's reported state back to subscribers.
//
// Engine failures are logged and leave the local state unchanged, so a
// failed command never produces a state transition.
type Controller struct {
	state   *State
	engine  Engine
	history HistoryRecorder

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int

	// randIntn is swapped out in tests for deterministic shuffle.
	randIntn func(n int) int

	sleepMu     sync.Mutex
	sleepTimer  *time.Timer
	sleepEndsAt time.Time
}

// NewController creates a playback controller over the given engine.
// history may be nil when play tracking is not wanted.
func NewController(engine Engine, history HistoryRecorder) *Controller {
	return &Controller{
		state:    NewState(),
		engine:   engine,
		history:  history,
		subs:     make(map[int]func(Snapshot)),
		randIntn: rand.Intn,
	}
}

// Subscribe registers a listener for state snapshots and returns an
// unsubscribe function.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// publish fans the current snapshot out to all subscribers.
func (c *Controller) publish() {
	snapshot := c.state.Snapshot()

	c.subMu.Lock()
	listeners := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.subMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Start consumes engine events until the context is cancelled or the
// engine closes its event channel.
func (c *Controller) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-c.engine.Events():
				if !ok {
					return
				}
				c.handleEvent(event)
			}
		}
	}()
}

// handleEvent applies an engine event to the local state. Events may
// arrive out of order with respect to the command that caused them; the
// last-applied event wins.
func (c *Controller) handleEvent(event Event) {
	switch event.Type {
	case EventStateChanged:
		c.state.SetPlaying(event.Playing)
		c.publish()

	case EventTrackChanged:
		if event.Index == c.state.CurrentIndex() {
			return
		}
		if !c.state.JumpTo(event.Index) {
			return
		}
		if track := c.state.CurrentTrack(); track != nil && c.history != nil {
			c.history.RecordPlay(track.ID)
		}
		c.publish()

	case EventProgress:
		c.state.SetProgress(event.Position, event.Duration)
		c.publish()
	}
}

// Snapshot returns the current player state.
func (c *Controller) Snapshot() Snapshot {
	return c.state.Snapshot()
}

// PlayQueue replaces the queue wholesale and starts playback at
// startIndex. This is the Empty → Playing transition.
func (c *Controller) PlayQueue(tracks []library.Track, startIndex int) error {
	if len(tracks) == 0 {
		return fmt.Errorf("cannot play an empty queue")
	}
	if startIndex < 0 || startIndex >= len(tracks) {
		startIndex = 0
	}

	log.Info().Int("tracks", len(tracks)).Int("start", startIndex).Msg("Play queue")

	if err := c.engine.Reset(); err != nil {
		log.Error().Err(err).Msg("Engine reset failed")
		return fmt.Errorf("engine reset failed: %w", err)
	}
	if err := c.engine.AddTracks(tracks); err != nil {
		log.Error().Err(err).Msg("Engine add tracks failed")
		return fmt.Errorf("engine add failed: %w", err)
	}
	if err := c.engine.SkipTo(startIndex); err != nil {
		log.Error().Err(err).Msg("Engine skip failed")
		return fmt.Errorf("engine skip failed: %w", err)
	}
	if err := c.engine.Play(); err != nil {
		log.Error().Err(err).Msg("Engine play failed")
		return fmt.Errorf("engine play failed: %w", err)
	}

	c.state.ReplaceQueue(tracks, startIndex)
	c.state.SetPlaying(true)

	if track := c.state.CurrentTrack(); track != nil && c.history != nil {
		c.history.RecordPlay(track.ID)
	}

	c.publish()
	return nil
}

// PlayTrack plays a single track, optionally within a surrounding queue.
func (c *Controller) PlayTrack(track library.Track, queue []library.Track) error {
	if len(queue) == 0 {
		return c.PlayQueue([]library.Track{track}, 0)
	}
	start := 0
	for i, t := range queue {
		if t.ID == track.ID {
			start = i
			break
		}
	}
	return c.PlayQueue(queue, start)
}

// TogglePlayPause pauses when the engine reports playing, resumes
// otherwise. The local flag is set optimistically and reconciled by the
// engine's next state event.
func (c *Controller) TogglePlayPause() {
	playing, err := c.engine.IsPlaying()
	if err != nil {
		log.Warn().Err(err).Msg("Engine state query failed, using local flag")
		playing = c.state.Playing()
	}

	if playing {
		if err := c.engine.Pause(); err != nil {
			log.Error().Err(err).Msg("Engine pause failed")
			return
		}
	} else {
		if err := c.engine.Play(); err != nil {
			log.Error().Err(err).Msg("Engine play failed")
			return
		}
	}

	c.state.SetPlaying(!playing)
	c.publish()
}

// SkipToNext advances to the next track. With shuffle enabled a uniformly
// random index other than the current one is jumped to instead; a queue
// of length 1 short-circuits to a no-op.
func (c *Controller) SkipToNext() {
	if c.state.Shuffle() {
		c.skipToRandom()
		return
	}
	if err := c.engine.SkipToNext(); err != nil {
		log.Error().Err(err).Msg("Engine skip to next failed")
	}
}

// skipToRandom jumps to a random queue index distinct from the current
// one, by rejection sampling. Index and history follow the engine's own
// track-changed event.
func (c *Controller) skipToRandom() {
	length := c.state.QueueLen()
	if length <= 1 {
		return
	}

	current := c.state.CurrentIndex()
	index := current
	for index == current {
		index = c.randIntn(length)
	}

	if err := c.engine.SkipTo(index); err != nil {
		log.Error().Err(err).Msg("Engine shuffle skip failed")
	}
}

// SkipToPrevious moves back one track.
func (c *Controller) SkipToPrevious() {
	if err := c.engine.SkipToPrevious(); err != nil {
		log.Error().Err(err).Msg("Engine skip to previous failed")
	}
}

// SeekTo seeks within the current track. Position updates are driven by
// the engine's progress events, never set locally.
func (c *Controller) SeekTo(seconds int) {
	if err := c.engine.SeekTo(seconds); err != nil {
		log.Error().Err(err).Msg("Engine seek failed")
	}
}

// ToggleShuffle flips the local shuffle flag. The engine's native
// ordering is untouched; shuffle only changes SkipToNext behavior.
func (c *Controller) ToggleShuffle() bool {
	shuffle := c.state.ToggleShuffle()
	log.Info().Bool("shuffle", shuffle).Msg("Toggle shuffle")
	c.publish()
	return shuffle
}

// ToggleRepeat cycles the repeat mode off → all → one → off and forwards
// it to the engine so native skips honor wraparound.
func (c *Controller) ToggleRepeat() RepeatMode {
	mode := c.state.Repeat().Next()

	if err := c.engine.SetRepeatMode(mode); err != nil {
		log.Error().Err(err).Msg("Engine set repeat mode failed")
		return c.state.Repeat()
	}

	c.state.SetRepeat(mode)
	log.Info().Str("repeat", string(mode)).Msg("Toggle repeat")
	c.publish()
	return mode
}

// AddToQueue appends a track to the live queue, mirrored to the engine.
func (c *Controller) AddToQueue(track library.Track) {
	if err := c.engine.AddTracks([]library.Track{track}); err != nil {
		log.Error().Err(err).Msg("Engine add to queue failed")
		return
	}
	c.state.Append(track)
	c.publish()
}

// ClearQueue resets the live queue and the engine's queue.
func (c *Controller) ClearQueue() {
	if err := c.engine.Reset(); err != nil {
		log.Error().Err(err).Msg("Engine reset failed")
		return
	}
	c.state.ClearQueue()
	c.publish()
}

// Stop fully resets the player to Empty and resets the engine.
func (c *Controller) Stop() {
	if err := c.engine.Stop(); err != nil {
		log.Error().Err(err).Msg("Engine stop failed")
		return
	}
	if err := c.engine.Reset(); err != nil {
		log.Error().Err(err).Msg("Engine reset failed")
	}
	c.state.Reset()
	c.publish()
}

// SetSleepTimer pauses playback after the given duration. Setting a new
// timer replaces any pending one. Durations of zero or less cancel.
func (c *Controller) SetSleepTimer(d time.Duration) {
	c.sleepMu.Lock()
	defer c.sleepMu.Unlock()

	if c.sleepTimer != nil {
		c.sleepTimer.Stop()
		c.sleepTimer = nil
		c.sleepEndsAt = time.Time{}
	}
	if d <= 0 {
		log.Info().Msg("Sleep timer cancelled")
		return
	}

	c.sleepEndsAt = time.Now().Add(d)
	c.sleepTimer = time.AfterFunc(d, c.sleepExpired)
	log.Info().Dur("duration", d).Msg("Sleep timer set")
}

// CancelSleepTimer clears any pending sleep timer.
func (c *Controller) CancelSleepTimer() {
	c.SetSleepTimer(0)
}

// SleepTimerRemaining returns the time left on the sleep timer, or zero
// when none is pending.
func (c *Controller) SleepTimerRemaining() time.Duration {
	c.sleepMu.Lock()
	defer c.sleepMu.Unlock()

	if c.sleepTimer == nil {
		return 0
	}
	remaining := time.Until(c.sleepEndsAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// sleepExpired fires when the sleep timer runs out and pauses playback.
func (c *Controller) sleepExpired() {
	c.sleepMu.Lock()
	c.sleepTimer = nil
	c.sleepEndsAt = time.Time{}
	c.sleepMu.Unlock()

	log.Info().Msg("Sleep timer expired, pausing playback")
	if !c.state.Snapshot().Playing {
		return
	}
	if err := c.engine.Pause(); err != nil {
		log.Error().Err(err).Msg("Engine pause failed")
		return
	}
	c.state.SetPlaying(false)
	c.publish()
}
