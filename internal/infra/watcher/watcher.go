// Package watcher observes the music directories and triggers a rescan
// when files change. Events are debounced so a bulk copy results in a
// single rescan.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultSettle is how long the directories must be quiet before a
// rescan fires.
const DefaultSettle = 5 * time.Second

// Watcher debounces filesystem change events into rescan callbacks.
type Watcher struct {
	roots    []string
	settle   time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
	fsw   *fsnotify.Watcher
}

// New creates a watcher over the given roots. onChange runs after the
// directories have been quiet for settle; it is never called
// concurrently with itself by the same watcher.
func New(roots []string, settle time.Duration, onChange func()) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		roots:    roots,
		settle:   settle,
		onChange: onChange,
	}
}

// Start registers the roots and their subdirectories and begins
// watching. It returns an error only if the watcher itself cannot be
// created; unreadable roots are skipped with a warning.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	watched := 0
	for _, root := range w.roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || !info.IsDir() {
				return nil
			}
			if err := fsw.Add(path); err != nil {
				log.Debug().Str("dir", path).Err(err).Msg("Failed to watch directory")
				return nil
			}
			watched++
			return nil
		})
		if err != nil {
			log.Warn().Str("root", root).Err(err).Msg("Skipping unwatchable music root")
		}
	}
	log.Info().Int("dirs", watched).Msg("Watching music directories")

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.fsw.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Filesystem watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New directories need their own watch so nested copies are seen.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				log.Debug().Str("dir", event.Name).Err(err).Msg("Failed to watch new directory")
			}
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, func() {
		log.Info().Msg("Music directories changed, triggering rescan")
		w.onChange()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
