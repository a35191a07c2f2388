// Package main is the entry point for the toastuid notification daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/display"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/surface"
)

const appID = "io.github.jmylchreest.toastuid"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/toastui/config.toml)")
	showOnStart := flag.Bool("show", false, "Show the notification once the daemon is ready")
	noBus := flag.Bool("no-dbus", false, "Do not claim the D-Bus name (no remote control)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("toastuid version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	run(runOptions{
		configPath:  *configPath,
		showOnStart: *showOnStart,
		bus:         !*noBus,
	}, logger)
}

type runOptions struct {
	configPath  string
	showOnStart bool
	bus         bool
}

func run(opts runOptions, logger *slog.Logger) {
	logger.Info("starting toastuid", "version", version)

	path := opts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between the GTK main loop and the signal handler
	var (
		d             *daemon.Daemon
		doc           *display.Document
		styles        *display.Styles
		configWatcher *daemon.ConfigWatcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	shutdown := func() {
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if styles != nil {
			styles.Stop()
		}
		if d != nil {
			d.Close()
		}
		if doc != nil {
			doc.Close()
		}
	}

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		display.ApplyColorScheme(config.ColorScheme(cfg.Theme.ColorScheme))

		sched := display.NewScheduler()
		doc = display.NewDocument(&app.Application, cfg, logger)
		transitions := surface.DriveTransitions(doc, sched, cfg.Display.Transition.Duration())

		styles = display.NewStyles(sched, logger)
		if err := styles.Load(config.StylesheetDir(), cfg.Theme.Stylesheet); err != nil {
			logger.Warn("failed to load stylesheet", "error", err)
		}
		if err := styles.Apply(); err != nil {
			logger.Error("failed to apply stylesheet", "error", err)
			app.Quit()
			return
		}
		if err := styles.Watch(ctx); err != nil {
			logger.Warn("failed to watch stylesheet", "error", err)
		}

		if gd := gdk.DisplayGetDefault(); gd != nil {
			gd.Monitors().ConnectItemsChanged(func(position, removed, added uint) {
				doc.HandleMonitorChange()
			})
		}

		d = daemon.New(daemon.Options{
			Config:      cfg,
			Document:    doc,
			Scheduler:   sched,
			Caller:      sched,
			Transitions: transitions,
			OnEvent: func(ev event.Event) {
				logger.Debug("notification event", "event", ev.Name, "notification_id", ev.Source)
			},
			OnReload: func(next *config.Config) {
				applyConfig(ctx, next, cfg, doc, styles, logger)
				cfg = next
			},
			Logger: logger,
		})

		if opts.bus {
			if err := d.StartBus(); err != nil {
				logger.Error("failed to start D-Bus server", "error", err)
				app.Quit()
				return
			}
		}

		configWatcher = daemon.NewConfigWatcher(path, logger)
		configWatcher.SetReloadCallback(func(next *config.Config) {
			// Runs on the watcher goroutine; Reload posts onto the main loop
			if err := d.Reload(ctx, next); err != nil {
				logger.Warn("failed to queue config reload", "error", err)
			}
		})
		configWatcher.SetErrorCallback(func(err error) {
			logger.Warn("config reload rejected, keeping current config", "error", err)
		})
		if err := configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		logger.Info("toastuid ready", "dbus_interface", dbus.Interface, "notification_id", d.Widget().ID())

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)

		if opts.showOnStart {
			d.Widget().Show()
		}
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		shutdown()
		running.Store(false)
	})

	status := app.Run([]string{os.Args[0]})
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}
	logger.Info("toastuid stopped")
}

// applyConfig brings the display in line with a reloaded config. It runs on
// the main loop while the notification is hidden.
func applyConfig(ctx context.Context, next, prev *config.Config, doc *display.Document, styles *display.Styles, logger *slog.Logger) {
	doc.SetConfig(next)

	if next.Theme.ColorScheme != prev.Theme.ColorScheme {
		display.ApplyColorScheme(config.ColorScheme(next.Theme.ColorScheme))
	}
	if next.Theme.Stylesheet != prev.Theme.Stylesheet {
		if err := styles.Load(config.StylesheetDir(), next.Theme.Stylesheet); err != nil {
			logger.Warn("failed to load new stylesheet", "stylesheet", next.Theme.Stylesheet, "error", err)
			return
		}
		if err := styles.Watch(ctx); err != nil {
			logger.Warn("failed to watch stylesheet", "error", err)
		}
		logger.Info("stylesheet changed", "stylesheet", next.Theme.Stylesheet)
	}
}
