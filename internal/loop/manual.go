package loop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by hand against a virtual clock.
// It is not safe for concurrent use.
type Manual struct {
	now    time.Duration
	seq    uint64
	tasks  []func()
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Defer implements Scheduler.
func (m *Manual) Defer(fn func()) {
	m.tasks = append(m.tasks, fn)
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Flush runs deferred tasks, including ones queued while flushing.
// It returns the number of tasks run.
func (m *Manual) Flush() int {
	n := 0
	for len(m.tasks) > 0 {
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		task()
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in order and
// flushing deferred tasks before and after each one.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		m.Flush()
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		next.fired = true
		next.fn()
	}
	m.now = target
	m.Flush()
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.Slice(live, func(i, j int) bool {
		if live[i].at == live[j].at {
			return live[i].seq < live[j].seq
		}
		return live[i].at < live[j].at
	})
	if len(live) == 0 || live[0].at > limit {
		return nil
	}
	return live[0]
}
