package notification

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/toastui/internal/component"
	"github.com/jmylchreest/toastui/internal/surface"
)

// DefaultTheme is applied when no theme is configured.
const DefaultTheme = "primary"

// Options configures a Notification. They are fixed once New returns.
type Options struct {
	// Surface is an externally owned panel. When nil the widget builds and owns one.
	Surface surface.Element
	// Message is rendered inside the panel.
	Message string
	// ShowDismissControl renders and activates the close control.
	ShowDismissControl bool
	// Timeout hides the panel automatically; zero or negative disables it.
	Timeout time.Duration
	// Theme selects the bg-<theme> and btn-<theme> classes. Empty applies none.
	Theme string

	Logger       *slog.Logger
	Capabilities component.Capabilities
}

// Option overrides a default.
type Option func(*Options)

// DefaultOptions returns the options a Notification starts from.
func DefaultOptions() Options {
	return Options{
		ShowDismissControl: true,
		Theme:              DefaultTheme,
	}
}

// WithSurface uses an existing panel instead of building one.
func WithSurface(el surface.Element) Option {
	return func(o *Options) { o.Surface = el }
}

// WithMessage sets the panel text.
func WithMessage(msg string) Option {
	return func(o *Options) { o.Message = msg }
}

// WithDismissControl shows or hides the close control.
func WithDismissControl(show bool) Option {
	return func(o *Options) { o.ShowDismissControl = show }
}

// WithTimeout enables auto-hide.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithTheme sets the theme tag.
func WithTheme(theme string) Option {
	return func(o *Options) { o.Theme = theme }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithCapabilities injects the component plumbing, replacing the default base.
func WithCapabilities(c component.Capabilities) Option {
	return func(o *Options) { o.Capabilities = c }
}
