package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/domain/library"
	"github.com/Vinoth-46/isai-backend/internal/domain/player"
)

// mpdConn is the slice of the MPD client the engine drives.
type mpdConn interface {
	Status() (mpd.Attrs, error)
	Play(pos int) error
	Pause(pause bool) error
	Stop() error
	Next() error
	Previous() error
	Seek(pos int) error
	SetRepeat(on bool) error
	SetSingle(on bool) error
	Clear() error
	Add(uri string) error
	Watch(subsystems ...string) (<-chan string, error)
}

// progressInterval is how often the engine polls MPD for elapsed time
// while connected.
const progressInterval = time.Second

// MPDEngine implements the playback engine on top of MPD. It issues
// protocol commands for control and feeds idle notifications plus a
// progress poll back as engine events.
type MPDEngine struct {
	client mpdConn

	mu        sync.Mutex
	events    chan player.Event
	lastIndex int
	lastState string
	closed    bool
}

// NewMPDEngine creates an engine backed by the given MPD client.
func NewMPDEngine(client *Client) *MPDEngine {
	return &MPDEngine{
		client:    client,
		events:    make(chan player.Event, 16),
		lastIndex: -1,
	}
}

// Start connects the event loop. It watches the MPD player subsystem
// and polls elapsed time until ctx is cancelled.
func (e *MPDEngine) Start(ctx context.Context) error {
	watch, err := e.client.Watch("player")
	if err != nil {
		return fmt.Errorf("failed to start MPD watcher: %w", err)
	}

	go e.loop(ctx, watch)
	return nil
}

func (e *MPDEngine) loop(ctx context.Context, watch <-chan string) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	defer e.closeEvents()

	// Seed the mirror so the first idle event is not swallowed as a
	// duplicate.
	e.pollStatus(true)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-watch:
			if !ok {
				return
			}
			e.pollStatus(true)
		case <-ticker.C:
			e.pollStatus(false)
		}
	}
}

// pollStatus reads MPD status and publishes anything that changed.
// Track and play-state transitions are only detected on idle wakeups
// (full=true); the ticker path reports progress alone.
func (e *MPDEngine) pollStatus(full bool) {
	status, err := e.client.Status()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read MPD status")
		return
	}

	state := status["state"]

	if full {
		var events []player.Event

		e.mu.Lock()
		if state != e.lastState {
			e.lastState = state
			events = append(events, player.Event{
				Type:    player.EventStateChanged,
				Playing: state == "play",
			})
		}
		if idx, err := strconv.Atoi(status["song"]); err == nil && idx != e.lastIndex {
			e.lastIndex = idx
			events = append(events, player.Event{Type: player.EventTrackChanged, Index: idx})
		}
		e.mu.Unlock()

		for _, ev := range events {
			e.publish(ev)
		}
	}

	if state != "play" {
		return
	}
	elapsed, _ := strconv.ParseFloat(status["elapsed"], 64)
	duration, _ := strconv.ParseFloat(status["duration"], 64)
	e.publish(player.Event{
		Type:     player.EventProgress,
		Position: int(elapsed),
		Duration: int(duration),
	})
}

func (e *MPDEngine) publish(ev player.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
		log.Debug().Int("type", int(ev.Type)).Msg("Dropping engine event, consumer is behind")
	}
}

func (e *MPDEngine) closeEvents() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
}

// Events returns the engine event stream.
func (e *MPDEngine) Events() <-chan player.Event {
	return e.events
}

// AddTracks appends tracks to the MPD queue.
func (e *MPDEngine) AddTracks(tracks []library.Track) error {
	for _, t := range tracks {
		if err := e.client.Add(t.URI); err != nil {
			return fmt.Errorf("failed to add %s to queue: %w", t.URI, err)
		}
	}
	return nil
}

// Play resumes playback. MPD's play command handles both the paused
// and the stopped state; pause 0 would be ignored after the queue runs
// out.
func (e *MPDEngine) Play() error {
	return e.client.Play(-1)
}

// Pause pauses playback.
func (e *MPDEngine) Pause() error {
	return e.client.Pause(true)
}

// Stop halts playback.
func (e *MPDEngine) Stop() error {
	return e.client.Stop()
}

// Reset clears the MPD queue.
func (e *MPDEngine) Reset() error {
	e.mu.Lock()
	e.lastIndex = -1
	e.mu.Unlock()
	return e.client.Clear()
}

// SkipTo starts playback at the given queue index.
func (e *MPDEngine) SkipTo(index int) error {
	return e.client.Play(index)
}

// SkipToNext advances one queue entry.
func (e *MPDEngine) SkipToNext() error {
	return e.client.Next()
}

// SkipToPrevious moves back one queue entry.
func (e *MPDEngine) SkipToPrevious() error {
	return e.client.Previous()
}

// SeekTo seeks within the current track.
func (e *MPDEngine) SeekTo(seconds int) error {
	return e.client.Seek(seconds)
}

// SetRepeatMode maps the repeat mode onto MPD's repeat and single
// flags.
func (e *MPDEngine) SetRepeatMode(mode player.RepeatMode) error {
	repeat := mode != player.RepeatOff
	single := mode == player.RepeatOne
	if err := e.client.SetRepeat(repeat); err != nil {
		return err
	}
	return e.client.SetSingle(single)
}

// IsPlaying reports whether MPD is in the play state.
func (e *MPDEngine) IsPlaying() (bool, error) {
	status, err := e.client.Status()
	if err != nil {
		return false, err
	}
	return status["state"] == "play", nil
}
