// Package tui provides the BubbleTea-based terminal host for a notification.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/notification"
	"github.com/jmylchreest/toastui/internal/surface"
)

// showMsg asks the widget to show.
type showMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// host is the state shared by every copy of the Model. It is only touched
// inside Update.
type host struct {
	sched  *scheduler
	doc    *surface.MemoryDocument
	widget *notification.Notification
	logger *slog.Logger

	events []string
	hidden bool
}

// Model is the TUI model hosting one notification.
type Model struct {
	host *host
	cfg  *config.Config
	keys KeyMap
	help help.Model

	width        int
	showHelp     bool
	exitOnHidden bool

	statusMsg string
	statusErr bool
}

// Options configures New.
type Options struct {
	Config *config.Config
	// Notification overrides the options derived from Config.
	Notification []notification.Option
	// OnEvent observes the widget's lifecycle events.
	OnEvent event.Handler
	Logger  *slog.Logger
}

// New creates a TUI model and its widget. The widget is shown once the program starts.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &host{
		sched:  newScheduler(),
		doc:    surface.NewMemoryDocument(),
		logger: logger,
	}
	surface.DriveTransitions(h.doc, h.sched, cfg.TUI.Transition.Duration())

	nopts := append(cfg.NotificationOptions(), opts.Notification...)
	nopts = append(nopts, notification.WithLogger(logger))
	h.widget = notification.New(h.doc, h.sched, nopts...)

	for _, name := range []string{event.Show, event.Shown, event.Hide, event.Hidden} {
		h.widget.On(name, func(ev event.Event) {
			h.events = append(h.events, ev.Name)
			if ev.Name == event.Hidden {
				h.hidden = true
			}
			if opts.OnEvent != nil {
				opts.OnEvent(ev)
			}
		})
	}

	return Model{
		host:         h,
		cfg:          cfg,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		showHelp:     cfg.TUI.ShowHelp,
		exitOnHidden: cfg.TUI.ExitOnHidden,
	}
}

// Widget returns the hosted notification.
func (m Model) Widget() *notification.Notification {
	return m.host.widget
}

// Init shows the notification.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return showMsg{} }
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.clickClose()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case showMsg:
		m.host.widget.Show()

	case flushMsg:
		m.host.sched.flush()

	case timerMsg:
		m.host.sched.fire(msg.id)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		cmds = append(cmds, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false

	case copyResultMsg:
		if msg.err != nil {
			cmds = append(cmds, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			})
		} else {
			cmds = append(cmds, func() tea.Msg {
				return statusMsg{text: "Copied to clipboard"}
			})
		}
	}

	if m.exitOnHidden && m.host.hidden {
		return m, tea.Quit
	}

	cmds = append(cmds, m.host.sched.take()...)
	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.showHelp = true
	case key.Matches(msg, m.keys.Dismiss):
		m.clickClose()
	case key.Matches(msg, m.keys.Show):
		if !m.host.widget.Show() {
			return m, func() tea.Msg {
				return statusMsg{text: notification.ErrAlreadyVisible.Error(), isErr: true}
			}
		}
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyToClipboard(m.host.widget.Options().Message)
	}
	return m, nil
}

// clickClose delivers a click to the close control, as a pointer would.
func (m Model) clickClose() {
	panel := m.host.widget.Surface()
	if panel == nil || !m.host.doc.Contains(panel) {
		return
	}
	if btn := panel.Find(notification.ClassClose); btn != nil && btn.Visible() {
		btn.Dispatch(event.Click)
	}
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.cfg.TUI.ClipboardCommand
	return func() tea.Msg {
		return copyResultMsg{err: copyText(context.Background(), text, command)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	panel := m.host.widget.Surface()
	if panel != nil && m.host.doc.Contains(panel) {
		b.WriteString(renderPanel(panel, m.width))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("No notification. Press s to show it again."))
	}
	b.WriteString("\n")

	stateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	b.WriteString(stateStyle.Render(fmt.Sprintf("state: %s  events: %s",
		m.host.widget.State(), strings.Join(m.host.events, " → "))))

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		b.WriteString("\n" + statusStyle.Render(m.statusMsg))
	}

	if m.showHelp {
		b.WriteString("\n" + m.help.View(m.keys))
	}
	return b.String()
}

// RunOptions configures Run.
type RunOptions struct {
	Options
	// AltScreen runs the program in the alternate screen buffer.
	AltScreen bool
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(New(opts.Options), progOpts...)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
