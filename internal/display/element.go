package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/surface"
)

// Element is a surface.Element backed by a GTK widget. Classes are the
// widget's CSS classes, so stylesheets target the same names the widget sets.
//
// Tags map to widgets: "button" is a gtk.Button, "span" a gtk.Label, anything
// else a horizontal gtk.Box whose text, when set, is shown in a leading label.
type Element struct {
	doc    *Document
	tag    string
	widget gtk.Widgetter
	base   *gtk.Widget

	box    *gtk.Box
	button *gtk.Button
	label  *gtk.Label

	text     string
	attrs    map[string]string
	children []surface.Element
	bus      *event.Bus
}

func newElement(doc *Document, tag string) *Element {
	e := &Element{
		doc:   doc,
		tag:   tag,
		attrs: make(map[string]string),
		bus:   event.NewBus(),
	}

	switch tag {
	case "button":
		e.button = gtk.NewButton()
		e.button.SetVAlign(gtk.AlignStart)
		e.button.ConnectClicked(func() {
			e.Dispatch(event.Click)
		})
		e.widget = e.button
	case "span":
		e.label = gtk.NewLabel("")
		e.widget = e.label
	default:
		e.box = gtk.NewBox(gtk.OrientationHorizontal, 8)
		e.widget = e.box
	}
	e.base = gtk.BaseWidget(e.widget)
	return e
}

// Widget returns the underlying GTK widget.
func (e *Element) Widget() gtk.Widgetter { return e.widget }

func (e *Element) Tag() string { return e.tag }

func (e *Element) AddClass(names ...string) {
	var added []string
	for _, name := range names {
		if name == "" || e.base.HasCSSClass(name) {
			continue
		}
		e.base.AddCSSClass(name)
		added = append(added, name)
	}
	if len(added) > 0 {
		e.doc.classesAdded(e, added)
	}
}

func (e *Element) RemoveClass(names ...string) {
	for _, name := range names {
		e.base.RemoveCSSClass(name)
	}
	e.doc.classesRemoved(e)
}

func (e *Element) HasClass(name string) bool {
	return e.base.HasCSSClass(name)
}

func (e *Element) SetClasses(names ...string) {
	e.base.SetCSSClasses(nil)
	e.doc.classesRemoved(e)
	e.AddClass(names...)
}

func (e *Element) Classes() []string {
	return e.base.CSSClasses()
}

func (e *Element) SetText(text string) {
	e.text = text
	switch {
	case e.button != nil:
		e.button.SetLabel(text)
	case e.label != nil:
		e.label.SetText(text)
	default:
		e.label = gtk.NewLabel(text)
		e.label.SetWrap(true)
		e.label.SetXAlign(0)
		e.label.SetHExpand(true)
		e.label.SetMaxWidthChars(50)
		e.box.Prepend(e.label)
	}
}

func (e *Element) Text() string { return e.text }

// SetAttribute records name. "aria-label" also becomes the tooltip.
func (e *Element) SetAttribute(name, value string) {
	e.attrs[name] = value
	if name == "aria-label" {
		e.base.SetTooltipText(value)
	}
}

func (e *Element) Attribute(name string) string { return e.attrs[name] }

func (e *Element) SetVisible(visible bool) { e.base.SetVisible(visible) }

func (e *Element) Visible() bool { return e.base.Visible() }

// AppendChild adds child to a box, or makes it a button's content.
// Elements from another document are ignored.
func (e *Element) AppendChild(child surface.Element) {
	c, ok := child.(*Element)
	if !ok {
		return
	}
	switch {
	case e.box != nil:
		e.box.Append(c.widget)
	case e.button != nil:
		e.button.SetChild(c.widget)
	default:
		return
	}
	e.children = append(e.children, c)
}

func (e *Element) Children() []surface.Element {
	out := make([]surface.Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) Find(class string) surface.Element {
	return surface.Find(e, class)
}

func (e *Element) AddListener(name string, h event.Handler) event.Subscription {
	return e.bus.Subscribe(name, h)
}

func (e *Element) RemoveListener(name string, sub event.Subscription) {
	e.bus.Unsubscribe(name, sub)
}

func (e *Element) Dispatch(name string) {
	e.bus.Emit(event.Event{Name: name, Time: time.Now()})
}
