package daemon

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/notification"
	"github.com/jmylchreest/toastui/internal/surface"
)

var lifecycle = []string{event.Show, event.Shown, event.Hide, event.Hidden}

// Options configures New.
type Options struct {
	Config    *config.Config
	Document  surface.Document
	Scheduler loop.Scheduler
	// Caller posts control calls onto the Scheduler's loop.
	Caller loop.Caller
	// Transitions, when set, follows the configured transition length.
	Transitions *surface.TransitionDriver
	// OnEvent observes lifecycle events on the loop.
	OnEvent event.Handler
	// OnReload runs on the loop once a reloaded config is in effect.
	OnReload func(*config.Config)
	Logger   *slog.Logger
}

// Daemon owns one notification. It implements dbus.Controller.
//
// New and every method except Show, Hide, Status and Reload must run on the
// loop; those four post onto it.
type Daemon struct {
	opts   Options
	logger *slog.Logger

	cfg     *config.Config
	pending *config.Config
	widget  *notification.Notification
	chime   *audio.Chime
	server  *dbus.Server
	bus     bool
}

// New creates the daemon and its widget.
func New(opts Options) *Daemon {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Daemon{
		opts:   opts,
		logger: logger,
		cfg:    opts.Config,
	}
	d.server = dbus.NewServer(d, logger)
	d.apply(opts.Config)
	return d
}

// apply builds the widget and its collaborators from cfg.
func (d *Daemon) apply(cfg *config.Config) {
	d.cfg = cfg

	if d.opts.Transitions != nil {
		d.opts.Transitions.SetDuration(cfg.Display.Transition.Duration())
	}

	d.chime.Close()
	d.chime = audio.NewChime(cfg, d.logger)

	opts := append(cfg.NotificationOptions(), notification.WithLogger(d.logger))
	d.widget = notification.New(d.opts.Document, d.opts.Scheduler, opts...)
	for _, name := range lifecycle {
		d.widget.On(name, d.onEvent)
	}
	d.logger.Debug("notification ready", "notification_id", d.widget.ID(), "theme", cfg.Notification.Theme)
}

func (d *Daemon) onEvent(ev event.Event) {
	if d.bus {
		if err := d.server.EmitLifecycle(ev.Name, ev.Source); err != nil {
			d.logger.Warn("failed to emit lifecycle signal", "event", ev.Name, "error", err)
		}
	}
	d.chime.Handle(ev)
	if d.opts.OnEvent != nil {
		d.opts.OnEvent(ev)
	}
	if ev.Name == event.Hidden && d.pending != nil {
		d.opts.Scheduler.Defer(d.applyPending)
	}
}

// StartBus publishes the control object on the session bus.
func (d *Daemon) StartBus() error {
	if err := d.server.Start(); err != nil {
		return err
	}
	d.bus = true
	return nil
}

// Widget returns the current notification. A reload replaces it.
func (d *Daemon) Widget() *notification.Notification { return d.widget }

// Config returns the config in effect.
func (d *Daemon) Config() *config.Config { return d.cfg }

// Show implements dbus.Controller.
func (d *Daemon) Show(ctx context.Context) (bool, error) {
	var ok bool
	if err := d.opts.Caller.Call(ctx, func() { ok = d.show() }); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *Daemon) show() bool {
	d.applyPending()
	return d.widget.Show()
}

// Hide implements dbus.Controller.
func (d *Daemon) Hide(ctx context.Context) (bool, error) {
	var ok bool
	if err := d.opts.Caller.Call(ctx, func() { ok = d.widget.Hide() }); err != nil {
		return false, err
	}
	return ok, nil
}

// Status implements dbus.Controller.
func (d *Daemon) Status(ctx context.Context) (notification.Status, error) {
	var s notification.Status
	if err := d.opts.Caller.Call(ctx, func() { s = d.widget.Status() }); err != nil {
		return notification.Status{}, err
	}
	return s, nil
}

// Reload queues cfg. It takes effect immediately when the notification is
// hidden, otherwise once it has hidden.
func (d *Daemon) Reload(ctx context.Context, cfg *config.Config) error {
	return d.opts.Caller.Call(ctx, func() {
		d.pending = cfg
		d.applyPending()
	})
}

func (d *Daemon) applyPending() {
	if d.pending == nil || d.widget.State() != notification.Hidden {
		return
	}
	cfg := d.pending
	d.pending = nil

	// A never-shown dynamic panel is still attached
	old := d.widget
	if panel := old.Surface(); panel != nil && old.Dynamic() && d.opts.Document.Contains(panel) {
		d.opts.Document.Remove(panel)
	}

	d.apply(cfg)
	d.logger.Info("configuration applied")
	if d.opts.OnReload != nil {
		d.opts.OnReload(cfg)
	}
}

// Close releases the bus name and the audio device.
func (d *Daemon) Close() {
	if d.bus {
		if err := d.server.Stop(); err != nil {
			d.logger.Warn("failed to stop D-Bus server", "error", err)
		}
		d.bus = false
	}
	d.chime.Close()
}
