package notification

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/component"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/surface"
)

const transition = 300 * time.Millisecond

type fixture struct {
	doc    *surface.MemoryDocument
	sched  *loop.Manual
	n      *Notification
	events []string
	at     map[string]time.Duration
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	doc := surface.NewMemoryDocument()
	sched := loop.NewManual()
	surface.DriveTransitions(doc, sched, transition)

	f := &fixture{doc: doc, sched: sched, at: make(map[string]time.Duration)}
	base := []Option{WithMessage("Saved"), WithLogger(slog.New(slog.DiscardHandler))}
	f.n = New(doc, sched, append(base, opts...)...)

	for _, name := range []string{event.Show, event.Shown, event.Hide, event.Hidden} {
		sub := f.n.On(name, func(ev event.Event) {
			f.events = append(f.events, ev.Name)
			f.at[ev.Name] = sched.Now()
		})
		require.NotZero(t, sub)
	}
	return f
}

// shown drives a fresh widget to Shown.
func (f *fixture) shown(t *testing.T) {
	t.Helper()
	require.True(t, f.n.Show())
	f.sched.Advance(transition)
	require.Equal(t, Shown, f.n.State())
}

func closeButton(t *testing.T, n *Notification) *surface.MemoryElement {
	t.Helper()
	require.NotNil(t, n.Surface())
	btn, ok := n.Surface().Find(ClassClose).(*surface.MemoryElement)
	require.True(t, ok, "close control missing")
	return btn
}

func TestNew_Defaults(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Hidden, f.n.State())
	assert.True(t, f.n.Dynamic())
	assert.Equal(t, DefaultTheme, f.n.Options().Theme)
	assert.True(t, f.n.Options().ShowDismissControl)
	assert.Zero(t, f.n.Options().Timeout)
	assert.Len(t, f.n.ID(), 26)
	assert.Empty(t, f.events)
}

func TestBuild_Markup(t *testing.T) {
	f := newFixture(t)
	panel := f.n.Surface()
	require.NotNil(t, panel)

	assert.True(t, f.doc.Contains(panel))
	assert.Equal(t, "div", panel.Tag())
	assert.True(t, panel.HasClass(ClassPanel))
	assert.Equal(t, "alert", panel.Attribute("role"))

	inner := panel.Find(ClassInner)
	require.NotNil(t, inner)
	msg := panel.Find(ClassMessage)
	require.NotNil(t, msg)
	assert.Equal(t, "Saved", msg.Text())

	btn := closeButton(t, f.n)
	assert.Equal(t, "button", btn.Tag())
	assert.Equal(t, "Close", btn.Attribute("aria-label"))
	assert.True(t, btn.Visible())
	require.Len(t, btn.Children(), 1)
	glyph := btn.Children()[0]
	assert.Equal(t, "true", glyph.Attribute("aria-hidden"))
	assert.Equal(t, "×", glyph.Text())
}

func TestShow_FullCycle(t *testing.T) {
	f := newFixture(t)
	panel := f.n.Surface()

	require.True(t, f.n.Show())
	assert.Equal(t, Showing, f.n.State())
	assert.Empty(t, f.events, "show is emitted on the next tick")
	assert.False(t, panel.HasClass(ClassShow))

	f.sched.Flush()
	assert.True(t, panel.HasClass(ClassShow))
	assert.Equal(t, []string{event.Show}, f.events)
	assert.Equal(t, Showing, f.n.State())

	f.sched.Advance(transition)
	assert.Equal(t, Shown, f.n.State())
	assert.Equal(t, []string{event.Show, event.Shown}, f.events)

	require.True(t, f.n.Hide())
	assert.Equal(t, Hiding, f.n.State())
	assert.False(t, panel.HasClass(ClassShow))
	assert.True(t, panel.HasClass(ClassHide))
	assert.True(t, f.doc.Contains(panel))

	f.sched.Advance(transition)
	assert.Equal(t, Hidden, f.n.State())
	assert.False(t, panel.HasClass(ClassHide))
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
	assert.False(t, f.doc.Contains(panel))
	assert.Nil(t, f.n.Surface())
}

func TestShow_RejectedWhileVisible(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.n.Show())
	assert.False(t, f.n.Show(), "showing, before tick")

	f.sched.Flush()
	assert.False(t, f.n.Show(), "showing, after tick")

	f.sched.Advance(transition)
	assert.False(t, f.n.Show(), "shown")

	require.True(t, f.n.Hide())
	assert.False(t, f.n.Show(), "hiding")
	assert.Equal(t, Hiding, f.n.State())

	f.sched.Advance(transition)
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
}

func TestHide_RejectedWhenNotVisible(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.n.Hide())
	assert.Equal(t, Hidden, f.n.State())
	f.sched.Advance(time.Second)
	assert.Empty(t, f.events)

	f.shown(t)
	require.True(t, f.n.Hide())
	assert.False(t, f.n.Hide(), "hiding")

	f.sched.Advance(transition)
	assert.False(t, f.n.Hide(), "hidden after a cycle")
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
}

func TestHide_DuringShowingIsRejected(t *testing.T) {
	tests := []struct {
		name      string
		afterTick bool
		events    []string
	}{
		{name: "before tick"},
		{name: "after tick", afterTick: true, events: []string{event.Show}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			require.True(t, f.n.Show())
			if tt.afterTick {
				f.sched.Flush()
			}
			assert.False(t, f.n.Hide())
			assert.Equal(t, Showing, f.n.State())
			assert.Equal(t, tt.events, f.events)
			assert.False(t, f.n.Surface().HasClass(ClassHide))

			f.sched.Advance(transition)
			assert.Equal(t, Shown, f.n.State())
			assert.Equal(t, []string{event.Show, event.Shown}, f.events)

			f.sched.Advance(time.Hour)
			assert.Equal(t, Shown, f.n.State())
			assert.NotContains(t, f.events, event.Hide)
		})
	}
}

func TestTimeout_HidesOnceAfterShow(t *testing.T) {
	const timeout = 5 * time.Second
	f := newFixture(t, WithTimeout(timeout))

	require.True(t, f.n.Show())
	assert.False(t, f.n.TimerPending(), "armed with the show event")
	f.sched.Flush()
	assert.True(t, f.n.TimerPending())

	f.sched.Advance(timeout)
	assert.Equal(t, Shown, f.n.State())
	assert.Equal(t, []string{event.Show, event.Shown}, f.events)

	f.sched.Advance(time.Millisecond)
	assert.Equal(t, Hiding, f.n.State())
	assert.Equal(t, f.at[event.Show]+timeout+time.Millisecond, f.at[event.Hide])
	assert.False(t, f.n.TimerPending())

	f.sched.Advance(10 * timeout)
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
	assert.Zero(t, f.sched.Pending())
}

func TestTimeout_DisabledWhenNotPositive(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		f := newFixture(t, WithTimeout(timeout))
		f.shown(t)

		assert.False(t, f.n.TimerPending())
		f.sched.Advance(time.Hour)
		assert.Equal(t, Shown, f.n.State())
	}
}

func TestTimeout_CancelledByManualHide(t *testing.T) {
	f := newFixture(t, WithTimeout(2*time.Second))
	f.shown(t)
	require.True(t, f.n.TimerPending())

	require.True(t, f.n.Hide())
	assert.False(t, f.n.TimerPending())

	f.sched.Advance(time.Minute)
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
	assert.Zero(t, f.sched.Pending())
}

func TestTimeout_ShorterThanTransition(t *testing.T) {
	f := newFixture(t, WithTimeout(100*time.Millisecond))

	require.True(t, f.n.Show())
	f.sched.Flush()
	require.True(t, f.n.TimerPending())

	// The timer elapses while still Showing and its hide is rejected
	f.sched.Advance(transition)
	assert.Equal(t, Shown, f.n.State())
	assert.False(t, f.n.TimerPending())

	f.sched.Advance(time.Hour)
	assert.Equal(t, Shown, f.n.State())
	assert.Equal(t, []string{event.Show, event.Shown}, f.events)
	assert.Zero(t, f.sched.Pending())
}

func TestDismiss_ClickHides(t *testing.T) {
	f := newFixture(t)
	btn := closeButton(t, f.n)
	f.shown(t)

	btn.Dispatch(event.Click)
	assert.Equal(t, Hiding, f.n.State())

	f.sched.Advance(transition)
	assert.Equal(t, Hidden, f.n.State())
}

func TestDismiss_AttachedOnlyWhileVisible(t *testing.T) {
	f := newFixture(t)
	btn := closeButton(t, f.n)

	assert.Zero(t, btn.Listeners(event.Click))
	assert.False(t, f.n.DismissAttached())

	require.True(t, f.n.Show())
	assert.Equal(t, 1, btn.Listeners(event.Click))
	f.sched.Advance(transition)
	assert.Equal(t, 1, btn.Listeners(event.Click))
	assert.True(t, f.n.DismissAttached())

	require.True(t, f.n.Hide())
	assert.Zero(t, btn.Listeners(event.Click))
	assert.False(t, f.n.DismissAttached())

	// A click while hiding is a no-op.
	btn.Dispatch(event.Click)
	f.sched.Advance(transition)
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, f.events)
}

func TestDismiss_ControlDisabled(t *testing.T) {
	f := newFixture(t, WithDismissControl(false))
	btn := closeButton(t, f.n)

	assert.False(t, btn.Visible())
	f.shown(t)
	assert.Zero(t, btn.Listeners(event.Click))

	btn.Dispatch(event.Click)
	assert.Equal(t, Shown, f.n.State())
}

func TestTheme_Classes(t *testing.T) {
	tests := []struct {
		name        string
		theme       string
		wantPanel   []string
		wantButton  string
		buttonTheme bool
	}{
		{name: "default", theme: DefaultTheme, wantPanel: []string{"notification", "bg-primary"}, wantButton: "btn-primary", buttonTheme: true},
		{name: "danger", theme: "danger", wantPanel: []string{"notification", "bg-danger"}, wantButton: "btn-danger", buttonTheme: true},
		{name: "none", theme: "", wantPanel: []string{"notification"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithTheme(tt.theme))
			btn := closeButton(t, f.n)

			require.True(t, f.n.Show())
			assert.Equal(t, tt.wantPanel, f.n.Surface().Classes())
			if tt.buttonTheme {
				assert.True(t, btn.HasClass(tt.wantButton))
			} else {
				assert.Equal(t, []string{ClassClose}, btn.Classes())
			}
		})
	}
}

func TestShow_RebuildsDynamicPanel(t *testing.T) {
	f := newFixture(t)
	first := f.n.Surface()

	f.shown(t)
	require.True(t, f.n.Hide())
	f.sched.Advance(transition)
	require.Nil(t, f.n.Surface())

	require.True(t, f.n.Show())
	second := f.n.Surface()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.True(t, f.doc.Contains(second))
	assert.False(t, f.doc.Contains(first))
	assert.Len(t, f.doc.Body(), 1)

	f.sched.Advance(transition)
	assert.Equal(t, Shown, f.n.State())
	assert.Equal(t, 1, closeButton(t, f.n).Listeners(event.Click))
}

func TestShow_FromHiddenHandler(t *testing.T) {
	f := newFixture(t)
	reshown := false
	f.n.On(event.Hidden, func(event.Event) {
		if !reshown {
			reshown = true
			assert.True(t, f.n.Show())
		}
	})

	f.shown(t)
	require.True(t, f.n.Hide())
	f.sched.Advance(transition)

	assert.True(t, reshown)
	assert.Equal(t, Showing, f.n.State())
	require.NotNil(t, f.n.Surface())
	assert.True(t, f.doc.Contains(f.n.Surface()))
}

func TestExternalSurface(t *testing.T) {
	doc := surface.NewMemoryDocument()
	sched := loop.NewManual()
	surface.DriveTransitions(doc, sched, transition)

	el := doc.CreateElement("div")
	el.AddClass("stale")
	doc.Append(el)

	n := New(doc, sched, WithSurface(el), WithLogger(slog.New(slog.DiscardHandler)))
	assert.False(t, n.Dynamic())
	assert.Same(t, el, n.Surface())
	assert.Len(t, doc.Body(), 1, "no panel is built")

	for range 2 {
		require.True(t, n.Show())
		assert.Equal(t, []string{"notification", "bg-primary"}, el.Classes())
		assert.False(t, n.DismissAttached())

		sched.Advance(transition)
		require.True(t, n.Hide())
		sched.Advance(transition)

		assert.Equal(t, Hidden, n.State())
		assert.Same(t, el, n.Surface())
		assert.True(t, doc.Contains(el))
		el.AddClass("stale")
	}
}

type fakeCaps struct {
	emitted []string
	hooks   map[string]component.Hook
}

func (c *fakeCaps) Emit(name string) { c.emitted = append(c.emitted, name) }

func (c *fakeCaps) RegisterHandler(_ surface.Element, interaction string, hook component.Hook) {
	c.hooks[interaction] = hook
}

func (c *fakeCaps) UnregisterHandler(_ surface.Element, interaction string) {
	delete(c.hooks, interaction)
}

func TestCapabilities_Injected(t *testing.T) {
	doc := surface.NewMemoryDocument()
	sched := loop.NewManual()
	surface.DriveTransitions(doc, sched, transition)
	caps := &fakeCaps{hooks: make(map[string]component.Hook)}

	n := New(doc, sched, WithCapabilities(caps), WithLogger(slog.New(slog.DiscardHandler)))
	assert.Len(t, n.ID(), 26)
	assert.Zero(t, n.On(event.Show, func(event.Event) {}), "fake has no subscriptions")

	require.True(t, n.Show())
	sched.Advance(transition)
	require.Contains(t, caps.hooks, event.Click)

	caps.hooks[event.Click].OnElementEvent(event.Event{Name: event.Click})
	assert.NotContains(t, caps.hooks, event.Click)
	sched.Advance(transition)

	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, caps.emitted)
}

func TestCapabilities_SharedBase(t *testing.T) {
	base := component.New("notification", "2.0.0", nil)
	doc := surface.NewMemoryDocument()
	n := New(doc, loop.NewManual(), WithCapabilities(base))

	assert.Equal(t, base.ID(), n.ID())
}

type identifiedCaps struct {
	fakeCaps
	id string
}

func (c *identifiedCaps) ID() string { return c.id }

func TestCapabilities_InjectedID(t *testing.T) {
	caps := &identifiedCaps{fakeCaps: fakeCaps{hooks: make(map[string]component.Hook)}, id: "toast-7"}
	n := New(surface.NewMemoryDocument(), loop.NewManual(), WithCapabilities(caps))

	assert.Equal(t, "toast-7", n.ID())
	assert.Equal(t, "toast-7", n.Status().ID)

	require.True(t, n.Show())
	assert.Contains(t, caps.hooks, event.Click)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, WithTimeout(time.Second), WithTheme("success"))

	st := f.n.Status()
	assert.Equal(t, f.n.ID(), st.ID)
	assert.Equal(t, "hidden", st.State)
	assert.Equal(t, "Saved", st.Message)
	assert.Equal(t, "success", st.Theme)
	assert.Equal(t, time.Second, st.Timeout)
	assert.True(t, st.ShownAt.IsZero())

	f.shown(t)
	st = f.n.Status()
	assert.Equal(t, "shown", st.State)
	assert.False(t, st.ShownAt.IsZero())
}

func TestVisibility_String(t *testing.T) {
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "showing", Showing.String())
	assert.Equal(t, "shown", Shown.String())
	assert.Equal(t, "hiding", Hiding.String())
	assert.Equal(t, "unknown", Visibility(42).String())
}

func TestNotification_OnLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l := loop.New(nil)
	go func() { _ = l.Run(ctx) }()

	doc := surface.NewMemoryDocument()
	hidden := make(chan []string, 1)

	var n *Notification
	require.NoError(t, l.Call(ctx, func() {
		surface.DriveTransitions(doc, l, 10*time.Millisecond)
		n = New(doc, l, WithTimeout(20*time.Millisecond), WithLogger(slog.New(slog.DiscardHandler)))

		var events []string
		for _, name := range []string{event.Show, event.Shown, event.Hide, event.Hidden} {
			n.On(name, func(ev event.Event) {
				events = append(events, ev.Name)
				if ev.Name == event.Hidden {
					hidden <- events
				}
			})
		}
		n.Show()
	}))

	select {
	case events := <-hidden:
		assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, events)
	case <-ctx.Done():
		t.Fatal("notification never hid")
	}
	assert.Empty(t, doc.Body())
}
