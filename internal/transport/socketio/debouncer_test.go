package socketio

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRapidStateTriggersCollapseToOne(t *testing.T) {
	var stateCalls int32
	var libraryCalls int32

	d := NewBroadcastDebouncer(50*time.Millisecond,
		func() { atomic.AddInt32(&stateCalls, 1) },
		func() { atomic.AddInt32(&libraryCalls, 1) },
	)
	defer d.Stop()

	// Fire a burst of snapshot updates
	for i := 0; i < 10; i++ {
		d.Trigger(KindState)
	}

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&stateCalls); got != 1 {
		t.Errorf("expected 1 state callback, got %d", got)
	}
	if got := atomic.LoadInt32(&libraryCalls); got != 0 {
		t.Errorf("expected 0 library callbacks, got %d", got)
	}
}

func TestDebouncerMixedKindsFireBoth(t *testing.T) {
	var stateCalls int32
	var libraryCalls int32

	d := NewBroadcastDebouncer(50*time.Millisecond,
		func() { atomic.AddInt32(&stateCalls, 1) },
		func() { atomic.AddInt32(&libraryCalls, 1) },
	)
	defer d.Stop()

	d.Trigger(KindState)
	d.Trigger(KindLibrary)
	d.Trigger(KindState)

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&stateCalls); got != 1 {
		t.Errorf("expected 1 state callback, got %d", got)
	}
	if got := atomic.LoadInt32(&libraryCalls); got != 1 {
		t.Errorf("expected 1 library callback, got %d", got)
	}
}

func TestDebouncerSeparateBurstsFireSeparately(t *testing.T) {
	var stateCalls int32

	d := NewBroadcastDebouncer(30*time.Millisecond,
		func() { atomic.AddInt32(&stateCalls, 1) },
		func() {},
	)
	defer d.Stop()

	d.Trigger(KindState)
	time.Sleep(80 * time.Millisecond)
	d.Trigger(KindState)
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&stateCalls); got != 2 {
		t.Errorf("expected 2 state callbacks, got %d", got)
	}
}

func TestDebouncerStopPreventsCallbacks(t *testing.T) {
	var stateCalls int32

	d := NewBroadcastDebouncer(30*time.Millisecond,
		func() { atomic.AddInt32(&stateCalls, 1) },
		func() {},
	)

	d.Trigger(KindState)
	d.Stop()

	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&stateCalls); got != 0 {
		t.Errorf("expected no callbacks after Stop, got %d", got)
	}

	// Triggers after Stop are ignored.
	d.Trigger(KindState)
	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&stateCalls); got != 0 {
		t.Errorf("expected no callbacks after Stop, got %d", got)
	}
}

func TestDebouncerUnknownKindDoesNothing(t *testing.T) {
	var calls int32

	d := NewBroadcastDebouncer(30*time.Millisecond,
		func() { atomic.AddInt32(&calls, 1) },
		func() { atomic.AddInt32(&calls, 1) },
	)
	defer d.Stop()

	d.Trigger("bogus")
	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no callbacks for unknown kind, got %d", got)
	}
}
