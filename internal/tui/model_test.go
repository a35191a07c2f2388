package tui

import (
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/notification"
)

func newTestModel(t *testing.T, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Notification.Message = "Build finished"
	if mutate != nil {
		mutate(cfg)
	}
	return New(Options{Config: cfg, Logger: slog.New(slog.DiscardHandler)})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// fireOnlyTimer fires the single live timer.
func fireOnlyTimer(t *testing.T, m Model) Model {
	t.Helper()
	require.Len(t, m.host.sched.timers, 1)
	var id uint64
	for k := range m.host.sched.timers {
		id = k
	}
	m, _ = update(t, m, timerMsg{id: id})
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_InitShows(t *testing.T) {
	m := newTestModel(t, nil)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, showMsg{}, cmd())
}

func TestModel_FullCycle(t *testing.T) {
	m := newTestModel(t, nil)
	w := m.Widget()

	m, cmd := update(t, m, showMsg{})
	assert.NotNil(t, cmd, "flush is scheduled")
	assert.Equal(t, notification.Showing, w.State())
	assert.True(t, m.host.sched.flushing)

	m, _ = update(t, m, flushMsg{})
	assert.Equal(t, []string{event.Show}, m.host.events)

	m = fireOnlyTimer(t, m)
	assert.Equal(t, notification.Shown, w.State())
	assert.Contains(t, m.View(), "Build finished")

	m, _ = update(t, m, keyPress('x'))
	assert.Equal(t, notification.Hiding, w.State())

	m = fireOnlyTimer(t, m)
	assert.Equal(t, notification.Hidden, w.State())
	assert.Equal(t, []string{event.Show, event.Shown, event.Hide, event.Hidden}, m.host.events)
	assert.Contains(t, m.View(), "No notification")
	assert.Empty(t, m.host.doc.Body())
}

func TestModel_ShowAgainWhileVisible(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, showMsg{})

	_, cmd := update(t, m, keyPress('s'))
	require.NotNil(t, cmd)
	assert.Equal(t, notification.Showing, m.Widget().State())
}

func TestModel_MouseClickDismisses(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, showMsg{})
	m, _ = update(t, m, flushMsg{})
	m = fireOnlyTimer(t, m)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, notification.Hiding, m.Widget().State())
}

func TestModel_DismissIgnoredWithoutControl(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.Notification.DismissControl = false })
	m, _ = update(t, m, showMsg{})
	m, _ = update(t, m, flushMsg{})
	m = fireOnlyTimer(t, m)

	m, _ = update(t, m, keyPress('x'))
	assert.Equal(t, notification.Shown, m.Widget().State())
}

func TestModel_ExitOnHidden(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.TUI.ExitOnHidden = true })
	m, _ = update(t, m, showMsg{})
	m, _ = update(t, m, flushMsg{})
	m = fireOnlyTimer(t, m)
	m, _ = update(t, m, keyPress('x'))

	var id uint64
	for k := range m.host.sched.timers {
		id = k
	}
	_, cmd := update(t, m, timerMsg{id: id})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := update(t, m, keyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.TUI.ShowHelp = false })
	assert.NotContains(t, m.View(), "dismiss")

	m, _ = update(t, m, keyPress('?'))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "copy message")
}

func TestModel_Status(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, statusMsg{text: "boom", isErr: true})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "boom")

	m, _ = update(t, m, clearStatusMsg{})
	assert.NotContains(t, m.View(), "boom")
}

func TestModel_OnEvent(t *testing.T) {
	var seen []string
	cfg := config.DefaultConfig()
	m := New(Options{
		Config:  cfg,
		Logger:  slog.New(slog.DiscardHandler),
		OnEvent: func(ev event.Event) { seen = append(seen, ev.Name) },
	})

	m, _ = update(t, m, showMsg{})
	_, _ = update(t, m, flushMsg{})
	assert.Equal(t, []string{event.Show}, seen)
}

func TestScheduler(t *testing.T) {
	s := newScheduler()

	var order []int
	s.Defer(func() { order = append(order, 1) })
	s.Defer(func() {
		order = append(order, 2)
		s.Defer(func() { order = append(order, 3) })
	})
	assert.Len(t, s.take(), 1, "one flush per batch")

	s.flush()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Empty(t, s.take())

	fired := 0
	timer := s.AfterFunc(time.Second, func() { fired++ })
	stopped := s.AfterFunc(time.Second, func() { fired += 10 })
	assert.Len(t, s.take(), 2)

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	s.fire(1)
	s.fire(2)
	s.fire(1)
	assert.Equal(t, 1, fired)
	assert.False(t, timer.Stop(), "already fired")
}

func TestRenderPanel(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.Notification.Theme = "danger" })
	m, _ = update(t, m, showMsg{})
	panel := m.Widget().Surface()

	assert.Equal(t, "danger", themeTag(panel))
	out := renderPanel(panel, 40)
	assert.Contains(t, out, "Build finished")
	assert.Contains(t, out, "×")
}

func TestDetectClipboardCommand(t *testing.T) {
	assert.Equal(t, "pbcopy", detectClipboardCommand("pbcopy"))
}
