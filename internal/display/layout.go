package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
)

// LayoutManager anchors popup windows to a screen corner or edge.
type LayoutManager struct {
	display *gdk.Display
	logger  *slog.Logger
}

// NewLayoutManager creates a layout manager for the default display.
func NewLayoutManager(logger *slog.Logger) *LayoutManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutManager{
		display: gdk.DisplayGetDefault(),
		logger:  logger,
	}
}

// Place sets the window's layer-shell anchors, margins and monitor from cfg.
func (l *LayoutManager) Place(window *gtk.Window, cfg config.DisplayConfig) {
	top, bottom, left, right := config.Position(cfg.Position).Edges()

	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, top)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, bottom)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, left)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, right)

	layershell.SetMargin(window, layershell.LayerShellEdgeTop, marginIf(top, cfg.OffsetY))
	layershell.SetMargin(window, layershell.LayerShellEdgeBottom, marginIf(bottom, cfg.OffsetY))
	layershell.SetMargin(window, layershell.LayerShellEdgeLeft, marginIf(left, cfg.OffsetX))
	layershell.SetMargin(window, layershell.LayerShellEdgeRight, marginIf(right, cfg.OffsetX))

	if monitor := l.Monitor(cfg.Monitor); monitor != nil {
		layershell.SetMonitor(window, monitor)
	}
}

func marginIf(anchored bool, offset int) int {
	if anchored {
		return offset
	}
	return 0
}

// Monitor returns the configured monitor:
// - 0: compositor's choice (returns nil)
// - 1+: specific monitor (1-indexed)
//
// An unavailable monitor falls back to the first one.
func (l *LayoutManager) Monitor(monitorNum int) *gdk.Monitor {
	if l.display == nil || monitorNum <= 0 {
		return nil
	}

	monitors := l.display.Monitors()
	if monitors == nil {
		l.logger.Warn("no monitors list available")
		return nil
	}

	index := uint(monitorNum - 1)
	if index >= monitors.NItems() {
		l.logger.Warn("configured monitor not available, using primary",
			"configured", monitorNum,
			"available", monitors.NItems(),
		)
		return getPrimaryMonitor(l.display)
	}

	return wrapMonitor(monitors.Item(index))
}

// getPrimaryMonitor returns the first monitor. GTK4 has no primary monitor.
func getPrimaryMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor; gotk4 does not export
// its own wrapper.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// Same layout as gdk.Monitor: a zero-size marker then the embedded object
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// HandleMonitorChange refreshes the display after monitors changed.
func (l *LayoutManager) HandleMonitorChange() {
	l.display = gdk.DisplayGetDefault()
	if l.display == nil {
		l.logger.Warn("no display available after monitor change")
		return
	}

	if monitors := l.display.Monitors(); monitors != nil {
		l.logger.Info("monitor configuration changed", "count", monitors.NItems())
	}
}
