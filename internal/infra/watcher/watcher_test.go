package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherFiresOnceAfterBurst(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int32
	w := New([]string{dir}, 100*time.Millisecond, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "track"+string(rune('a'+i))+".mp3")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	if got := fired.Load(); got != 1 {
		t.Errorf("onChange fired %d times, want 1", got)
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int32
	w := New([]string{dir}, 50*time.Millisecond, func() {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "late.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("onChange fired %d times after cancel, want 0", got)
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "nope")}, 50*time.Millisecond, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Errorf("Start should tolerate missing roots, got %v", err)
	}
}
