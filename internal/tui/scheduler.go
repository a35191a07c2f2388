package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/loop"
)

// flushMsg runs the deferred task queue.
type flushMsg struct{}

// timerMsg fires the timer with the given id, unless it was stopped.
type timerMsg struct{ id uint64 }

// scheduler implements loop.Scheduler on top of the program's message loop.
// Tasks and timer callbacks run inside Update; Defer and AfterFunc only
// collect commands, which Update hands back to the program via take.
type scheduler struct {
	queue    []func()
	flushing bool
	seq      uint64
	timers   map[uint64]func()
	cmds     []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[uint64]func())}
}

// Defer implements loop.Scheduler. Tasks deferred together run in order on a
// single flushMsg.
func (s *scheduler) Defer(fn func()) {
	s.queue = append(s.queue, fn)
	if s.flushing {
		return
	}
	s.flushing = true
	s.cmds = append(s.cmds, func() tea.Msg { return flushMsg{} })
}

// AfterFunc implements loop.Scheduler with tea.Tick.
func (s *scheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	s.seq++
	id := s.seq
	s.timers[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	return &teaTimer{s: s, id: id}
}

// flush runs queued tasks, including ones queued while flushing.
func (s *scheduler) flush() {
	for len(s.queue) > 0 {
		task := s.queue[0]
		s.queue = s.queue[1:]
		task()
	}
	s.flushing = false
}

// fire runs a timer callback if the timer is still live.
func (s *scheduler) fire(id uint64) {
	fn, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	fn()
}

// take returns the commands collected since the last call.
func (s *scheduler) take() []tea.Cmd {
	cmds := s.cmds
	s.cmds = nil
	return cmds
}

type teaTimer struct {
	s  *scheduler
	id uint64
}

// Stop drops the callback; the tick still arrives and is ignored.
func (t *teaTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}
