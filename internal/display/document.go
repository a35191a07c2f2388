package display

import (
	"log/slog"
	"slices"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/notification"
	"github.com/jmylchreest/toastui/internal/surface"
)

// Document places each top-level element in its own popup window. A window is
// on screen only while its panel carries the show or hide class, so a panel
// that is built but not yet shown stays invisible.
type Document struct {
	app    *gtk.Application
	cfg    *config.Config
	layout *LayoutManager
	logger *slog.Logger

	popups    map[*Element]*popup
	observers []surface.ClassObserver
}

// NewDocument creates a document whose windows belong to app.
func NewDocument(app *gtk.Application, cfg *config.Config, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Document{
		app:    app,
		cfg:    cfg,
		layout: NewLayoutManager(logger),
		logger: logger,
		popups: make(map[*Element]*popup),
	}
}

// CreateElement implements surface.Document.
func (d *Document) CreateElement(tag string) surface.Element {
	return newElement(d, tag)
}

// Append implements surface.Document.
func (d *Document) Append(el surface.Element) {
	e, ok := el.(*Element)
	if !ok {
		d.logger.Warn("ignoring element from another document", "tag", el.Tag())
		return
	}
	if _, exists := d.popups[e]; exists {
		return
	}

	p := newPopup(d.app, e, d.cfg, d.layout, d.logger)
	d.popups[e] = p
	d.sync(e)
}

// Remove implements surface.Document.
func (d *Document) Remove(el surface.Element) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	p, exists := d.popups[e]
	if !exists {
		return
	}
	delete(d.popups, e)
	p.destroy()
}

// Contains implements surface.Document.
func (d *Document) Contains(el surface.Element) bool {
	e, ok := el.(*Element)
	if !ok {
		return false
	}
	_, exists := d.popups[e]
	return exists
}

// OnClassAdded implements surface.ClassNotifier.
func (d *Document) OnClassAdded(fn surface.ClassObserver) {
	d.observers = append(d.observers, fn)
}

// SetConfig applies new display settings to every open window.
func (d *Document) SetConfig(cfg *config.Config) {
	d.cfg = cfg
	for _, p := range d.popups {
		p.configure(cfg, d.layout)
	}
}

// HandleMonitorChange re-places windows after the monitor set changed.
func (d *Document) HandleMonitorChange() {
	d.layout.HandleMonitorChange()
	for _, p := range d.popups {
		p.place(d.cfg.Display, d.layout)
	}
}

// Close destroys every window.
func (d *Document) Close() {
	for e, p := range d.popups {
		delete(d.popups, e)
		p.destroy()
	}
}

func (d *Document) classesAdded(e *Element, added []string) {
	for _, fn := range slices.Clone(d.observers) {
		fn(e, added)
	}
	d.sync(e)
}

func (d *Document) classesRemoved(e *Element) {
	d.sync(e)
}

func (d *Document) sync(e *Element) {
	p, ok := d.popups[e]
	if !ok {
		return
	}
	p.setVisible(e.HasClass(notification.ClassShow) || e.HasClass(notification.ClassHide))
}
