package display

import (
	"context"
	"errors"
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/theme"
)

// Styles feeds a stylesheet to a CSS provider installed on the default
// display and reloads it when the file changes.
type Styles struct {
	provider *gtk.CSSProvider
	sched    loop.Scheduler
	logger   *slog.Logger

	sheet   *theme.Stylesheet
	watcher *theme.Watcher
	cancel  context.CancelFunc
}

// NewStyles creates a provider. Reloaded CSS is applied through sched.
func NewStyles(sched loop.Scheduler, logger *slog.Logger) *Styles {
	if logger == nil {
		logger = slog.Default()
	}
	return &Styles{
		provider: gtk.NewCSSProvider(),
		sched:    sched,
		logger:   logger,
	}
}

// Load resolves name in dir (falling back to the bundled stylesheets) and
// loads it. An unknown name loads the default stylesheet and is only logged.
func (s *Styles) Load(dir, name string) error {
	sheet, err := theme.Resolve(dir, name)
	if err != nil {
		if !errors.Is(err, theme.ErrNotFound) {
			return &DisplayError{Message: "failed to load stylesheet", Cause: err}
		}
		s.logger.Warn("stylesheet not found, using default", "name", name)
	}

	s.sheet = sheet
	s.provider.LoadFromString(sheet.CSS)
	s.logger.Debug("loaded stylesheet", "name", sheet.Name, "embedded", sheet.Embedded)
	return nil
}

// Apply installs the provider on the default display.
func (s *Styles) Apply() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}
	gtk.StyleContextAddProviderForDisplay(display, s.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	return nil
}

// Watch reloads the current stylesheet on change until ctx is done or Stop is
// called. Bundled stylesheets are not watched.
func (s *Styles) Watch(ctx context.Context) error {
	s.Stop()
	if s.sheet == nil || s.sheet.Embedded {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.watcher = theme.NewWatcher(s.sheet, func(css string) {
		s.sched.Defer(func() {
			s.provider.LoadFromString(css)
		})
	}, s.logger)

	if err := s.watcher.Start(ctx); err != nil {
		cancel()
		return &DisplayError{Message: "failed to watch stylesheet", Cause: err}
	}
	return nil
}

// Stop ends hot reload.
func (s *Styles) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Debug("failed to stop stylesheet watcher", "error", err)
		}
		s.watcher = nil
	}
}

// ApplyColorScheme forces libadwaita's color scheme, or follows the system.
func ApplyColorScheme(scheme config.ColorScheme) {
	manager := adw.StyleManagerGetDefault()
	switch scheme {
	case config.ColorSchemeLight:
		manager.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		manager.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		manager.SetColorScheme(adw.ColorSchemeDefault)
	}
}
