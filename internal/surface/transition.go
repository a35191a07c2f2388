package surface

import (
	"slices"
	"time"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
)

// TransitionDriver stands in for a rendering engine: when an element gains one of
// its trigger classes, it dispatches TransitionEnd on that element once the
// transition duration has elapsed. A newer trigger on the same element replaces
// the pending completion.
type TransitionDriver struct {
	sched    loop.Scheduler
	duration time.Duration
	triggers []string
	pending  map[Element]loop.Timer
}

// DriveTransitions attaches a driver to doc. With no classes, "show" and "hide"
// are the triggers.
func DriveTransitions(doc ClassNotifier, sched loop.Scheduler, duration time.Duration, classes ...string) *TransitionDriver {
	if len(classes) == 0 {
		classes = []string{"show", "hide"}
	}
	t := &TransitionDriver{
		sched:    sched,
		duration: duration,
		triggers: classes,
		pending:  make(map[Element]loop.Timer),
	}
	doc.OnClassAdded(t.classesAdded)
	return t
}

// Duration returns the transition length.
func (t *TransitionDriver) Duration() time.Duration {
	return t.duration
}

// SetDuration changes the length of transitions started from now on.
func (t *TransitionDriver) SetDuration(d time.Duration) {
	t.duration = d
}

// Running reports whether el has a transition in flight.
func (t *TransitionDriver) Running(el Element) bool {
	_, ok := t.pending[el]
	return ok
}

func (t *TransitionDriver) classesAdded(el Element, added []string) {
	if !slices.ContainsFunc(added, func(c string) bool { return slices.Contains(t.triggers, c) }) {
		return
	}
	if prev, ok := t.pending[el]; ok {
		prev.Stop()
	}
	var timer loop.Timer
	timer = t.sched.AfterFunc(t.duration, func() {
		if t.pending[el] == timer {
			delete(t.pending, el)
		}
		el.Dispatch(event.TransitionEnd)
	})
	t.pending[el] = timer
}
