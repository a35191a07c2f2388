// Package notification implements a toast widget: a single transient panel that is
// shown with an entrance transition, hidden by its close control or a timeout, and
// torn down after its exit transition when the widget owns it.
//
// A Notification is not safe for concurrent use. Every method must be called on
// the goroutine that runs its Scheduler; hosts post cross-goroutine calls onto
// that loop.
package notification

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/toastui/internal/component"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/surface"
)

// Name and Version identify the component.
const (
	Name    = "notification"
	Version = "2.0.0"
)

// Markup classes.
const (
	ClassPanel   = "notification"
	ClassInner   = "notification-inner"
	ClassMessage = "message"
	ClassClose   = "close"
	ClassShow    = "show"
	ClassHide    = "hide"
)

// Notification is a toast widget managing exactly one panel.
type Notification struct {
	opts   Options
	doc    surface.Document
	sched  loop.Scheduler
	caps   component.Capabilities
	id     string
	logger *slog.Logger

	// dynamic is true when the panel is built and owned by this widget.
	dynamic bool
	surface surface.Element
	state   Visibility
	timer   loop.Timer
	// dismissTarget is the control the dismiss handler is registered on.
	dismissTarget surface.Element
	shownAt       time.Time
}

// New creates a Notification. Options are merged over DefaultOptions; when no
// Surface is supplied a panel is built and appended to doc straight away.
func New(doc surface.Document, sched loop.Scheduler, opts ...Option) *Notification {
	o := component.Configure(DefaultOptions(), opts...)

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	n := &Notification{
		opts:    o,
		doc:     doc,
		sched:   sched,
		dynamic: o.Surface == nil,
		surface: o.Surface,
	}

	switch caps := o.Capabilities.(type) {
	case nil:
		base := component.New(Name, Version, logger)
		n.caps = base
		n.id = base.ID()
	default:
		n.caps = caps
		if idc, ok := caps.(interface{ ID() string }); ok {
			n.id = idc.ID()
		} else {
			n.id = ulid.Make().String()
		}
	}
	n.logger = logger.With("notification_id", n.id)

	if n.dynamic {
		n.build()
	}
	return n
}

// build creates the panel markup and attaches it to the document.
// It must only be called when no panel exists.
func (n *Notification) build() {
	panel := n.doc.CreateElement("div")
	panel.AddClass(ClassPanel)
	panel.SetAttribute("role", "alert")

	inner := n.doc.CreateElement("div")
	inner.AddClass(ClassInner)

	msg := n.doc.CreateElement("div")
	msg.AddClass(ClassMessage)
	msg.SetText(n.opts.Message)

	btn := n.doc.CreateElement("button")
	btn.AddClass(ClassClose)
	btn.SetAttribute("type", "button")
	btn.SetAttribute("aria-label", "Close")
	glyph := n.doc.CreateElement("span")
	glyph.SetAttribute("aria-hidden", "true")
	glyph.SetText("×")
	btn.AppendChild(glyph)

	// Hidden rather than omitted so every show cycle finds the same markup
	if !n.opts.ShowDismissControl {
		btn.SetVisible(false)
	}

	inner.AppendChild(msg)
	inner.AppendChild(btn)
	panel.AppendChild(inner)

	n.surface = panel
	n.doc.Append(panel)
	n.logger.Debug("built panel")
}

// Show starts the entrance transition. It returns false, without side effects,
// when the panel is already on screen.
func (n *Notification) Show() bool {
	if n.surface == nil {
		n.build()
	}

	if n.state != Hidden {
		n.logger.Error("show rejected", "error", ErrAlreadyVisible, "state", n.state.String())
		return false
	}
	n.state = Showing

	n.resetClasses()

	if n.opts.ShowDismissControl {
		if btn := n.surface.Find(ClassClose); btn != nil {
			n.caps.RegisterHandler(btn, event.Click, n)
			n.dismissTarget = btn
		}
	}

	// Apply the show class a tick later so the class change is observed as a transition
	panel := n.surface
	n.sched.Defer(func() { n.enter(panel) })
	return true
}

// resetClasses drops styling left over from a previous cycle.
func (n *Notification) resetClasses() {
	classes := []string{ClassPanel}
	if n.opts.Theme != "" {
		classes = append(classes, "bg-"+n.opts.Theme)
	}
	n.surface.SetClasses(classes...)

	if n.opts.Theme == "" {
		return
	}
	if btn := n.surface.Find(ClassClose); btn != nil {
		btn.AddClass("btn-" + n.opts.Theme)
	}
}

func (n *Notification) enter(panel surface.Element) {
	if n.state != Showing || n.surface != panel {
		return
	}

	panel.AddClass(ClassShow)
	n.caps.Emit(event.Show)
	n.armTimer()

	surface.Once(panel, event.TransitionEnd, func(event.Event) {
		n.entered()
	})
}

func (n *Notification) entered() {
	n.state = Shown
	n.shownAt = time.Now()
	n.caps.Emit(event.Shown)
}

// armTimer schedules the auto-hide. At most one timer is ever pending.
func (n *Notification) armTimer() {
	if n.opts.Timeout <= 0 {
		return
	}
	n.stopTimer()

	n.timer = n.sched.AfterFunc(n.opts.Timeout+time.Millisecond, func() {
		n.timer = nil
		n.logger.Debug("auto-hide timeout elapsed", "timeout", n.opts.Timeout)
		n.Hide()
	})
}

func (n *Notification) stopTimer() {
	if n.timer == nil {
		return
	}
	n.timer.Stop()
	n.timer = nil
}

// Hide starts the exit transition. Any pending auto-hide is cancelled first.
// It returns false, without further side effects, unless the panel is fully shown.
func (n *Notification) Hide() bool {
	n.stopTimer()

	if n.state != Shown {
		n.logger.Error("hide rejected", "error", ErrNotVisible, "state", n.state.String())
		return false
	}
	n.state = Hiding

	n.caps.Emit(event.Hide)

	if n.dismissTarget != nil {
		n.caps.UnregisterHandler(n.dismissTarget, event.Click)
		n.dismissTarget = nil
	}

	panel := n.surface
	panel.RemoveClass(ClassShow)
	panel.AddClass(ClassHide)

	surface.Once(panel, event.TransitionEnd, func(event.Event) {
		n.exited(panel)
	})
	return true
}

func (n *Notification) exited(panel surface.Element) {
	panel.RemoveClass(ClassHide)
	n.state = Hidden
	n.shownAt = time.Time{}

	// Released before observers run so a Show from a hidden handler builds afresh
	if n.dynamic && n.surface == panel {
		n.doc.Remove(panel)
		n.surface = nil
	}

	n.caps.Emit(event.Hidden)
}

// OnElementEvent dismisses the panel. The component base routes clicks on the
// close control here.
func (n *Notification) OnElementEvent(ev event.Event) {
	n.logger.Debug("dismiss requested", "interaction", ev.Name)
	n.Hide()
}

// On subscribes h to a lifecycle event. It returns zero when the injected
// capabilities do not support subscriptions.
func (n *Notification) On(name string, h event.Handler) event.Subscription {
	sub, ok := n.caps.(event.Subscriber)
	if !ok {
		n.logger.Warn("capabilities do not support subscriptions", "event", name)
		return 0
	}
	return sub.Subscribe(name, h)
}

// Off removes a subscription made with On.
func (n *Notification) Off(name string, s event.Subscription) {
	if sub, ok := n.caps.(event.Subscriber); ok {
		sub.Unsubscribe(name, s)
	}
}

// ID returns the widget instance id.
func (n *Notification) ID() string { return n.id }

// State returns the current visibility.
func (n *Notification) State() Visibility { return n.state }

// Surface returns the panel, or nil when a dynamic panel has been torn down.
func (n *Notification) Surface() surface.Element { return n.surface }

// Dynamic reports whether the widget owns its panel.
func (n *Notification) Dynamic() bool { return n.dynamic }

// Options returns the merged options.
func (n *Notification) Options() Options { return n.opts }

// TimerPending reports whether an auto-hide is armed.
func (n *Notification) TimerPending() bool { return n.timer != nil }

// DismissAttached reports whether the close control is currently interactive.
func (n *Notification) DismissAttached() bool { return n.dismissTarget != nil }

// Status is a point-in-time description of a widget.
type Status struct {
	ID      string        `json:"id" yaml:"id"`
	State   string        `json:"state" yaml:"state"`
	Message string        `json:"message" yaml:"message"`
	Theme   string        `json:"theme" yaml:"theme"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	ShownAt time.Time     `json:"shown_at,omitzero" yaml:"shown_at,omitempty"`
}

// Status describes the widget.
func (n *Notification) Status() Status {
	return Status{
		ID:      n.id,
		State:   n.state.String(),
		Message: n.opts.Message,
		Theme:   n.opts.Theme,
		Timeout: n.opts.Timeout,
		ShownAt: n.shownAt,
	}
}
