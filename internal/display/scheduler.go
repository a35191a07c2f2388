package display

import (
	"context"
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/toastui/internal/loop"
)

// Scheduler is a loop.Scheduler backed by the GTK main loop.
type Scheduler struct{}

// NewScheduler returns a scheduler for the default main context.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Defer implements loop.Scheduler.
func (s *Scheduler) Defer(fn func()) {
	glib.IdleAdd(fn)
}

// AfterFunc implements loop.Scheduler. Durations are rounded up to whole milliseconds.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms < 0 {
		ms = 0
	}

	t := &sourceTimer{}
	t.handle = glib.TimeoutAdd(uint(ms), func() {
		if t.done {
			return
		}
		t.done = true
		fn()
	})
	return t
}

// Call runs fn on the main loop and waits for it. It is safe to use from any goroutine.
func (s *Scheduler) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	glib.IdleAdd(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sourceTimer is a one-shot glib timeout. It is only touched on the main loop.
type sourceTimer struct {
	handle glib.SourceHandle
	done   bool
}

func (t *sourceTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	glib.SourceRemove(t.handle)
	return true
}
