package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
)

// layerNamespace identifies popup surfaces to the compositor.
const layerNamespace = "toastui-notification"

// popup is the layer-shell window holding one panel.
type popup struct {
	window *gtk.Window
	panel  *Element
	logger *slog.Logger
}

func newPopup(app *gtk.Application, panel *Element, cfg *config.Config, layout *LayoutManager, logger *slog.Logger) *popup {
	p := &popup{panel: panel, logger: logger}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0) // Don't reserve space
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, layerNamespace)

	p.window.SetChild(panel.Widget())
	p.configure(cfg, layout)
	return p
}

// configure applies size, opacity, color scheme and placement.
func (p *popup) configure(cfg *config.Config, layout *LayoutManager) {
	p.window.SetDefaultSize(cfg.Display.Width, -1)
	p.window.SetSizeRequest(cfg.Display.Width, -1)

	// Opacity class for compositor blur effects
	if cfg.Display.Opacity < 1.0 {
		p.window.AddCSSClass("translucent")
		p.window.SetOpacity(cfg.Display.Opacity)
	} else {
		p.window.RemoveCSSClass("translucent")
		p.window.SetOpacity(1.0)
	}

	p.window.RemoveCSSClass("light")
	p.window.RemoveCSSClass("dark")
	p.window.AddCSSClass(colorSchemeClass(config.ColorScheme(cfg.Theme.ColorScheme)))

	p.place(cfg.Display, layout)
}

func (p *popup) place(cfg config.DisplayConfig, layout *LayoutManager) {
	layout.Place(p.window, cfg)
}

func (p *popup) setVisible(visible bool) {
	switch {
	case visible && !p.window.Visible():
		p.window.Present()
	case !visible && p.window.Visible():
		p.window.SetVisible(false)
	}
}

func (p *popup) destroy() {
	p.window.SetChild(nil)
	p.window.Destroy()
}

// colorSchemeClass returns "light" or "dark" from config or the system preference.
func colorSchemeClass(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if adw.StyleManagerGetDefault().Dark() {
			return "dark"
		}
		return "light"
	}
}
