package surface

import (
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/event"
)

// MemoryDocument is a Document held entirely in memory.
type MemoryDocument struct {
	mu        sync.RWMutex
	body      []*MemoryElement
	observers []ClassObserver
}

// NewMemoryDocument creates an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{}
}

// OnClassAdded registers an observer for class additions on any element
// created by this document.
func (d *MemoryDocument) OnClassAdded(fn ClassObserver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// CreateElement implements Document.
func (d *MemoryDocument) CreateElement(tag string) Element {
	return &MemoryElement{
		doc:     d,
		tag:     tag,
		attrs:   make(map[string]string),
		visible: true,
		bus:     event.NewBus(),
	}
}

// Append implements Document.
func (d *MemoryDocument) Append(el Element) {
	m, ok := el.(*MemoryElement)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.body, m) {
		d.body = append(d.body, m)
	}
}

// Remove implements Document.
func (d *MemoryDocument) Remove(el Element) {
	m, ok := el.(*MemoryElement)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.body = slices.DeleteFunc(d.body, func(e *MemoryElement) bool { return e == m })
}

// Contains implements Document.
func (d *MemoryDocument) Contains(el Element) bool {
	m, ok := el.(*MemoryElement)
	if !ok {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Contains(d.body, m)
}

// Body returns the attached top-level elements in insertion order.
func (d *MemoryDocument) Body() []*MemoryElement {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.body)
}

func (d *MemoryDocument) classesAdded(el Element, added []string) {
	if len(added) == 0 {
		return
	}
	d.mu.RLock()
	observers := slices.Clone(d.observers)
	d.mu.RUnlock()

	for _, fn := range observers {
		fn(el, added)
	}
}

// MemoryElement is the Element created by MemoryDocument.
type MemoryElement struct {
	doc      *MemoryDocument
	tag      string
	classes  []string
	text     string
	attrs    map[string]string
	visible  bool
	children []Element
	bus      *event.Bus
}

func (e *MemoryElement) Tag() string { return e.tag }

func (e *MemoryElement) AddClass(names ...string) {
	var added []string
	for _, name := range names {
		if name == "" || slices.Contains(e.classes, name) {
			continue
		}
		e.classes = append(e.classes, name)
		added = append(added, name)
	}
	e.doc.classesAdded(e, added)
}

func (e *MemoryElement) RemoveClass(names ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

func (e *MemoryElement) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

func (e *MemoryElement) SetClasses(names ...string) {
	e.classes = nil
	e.AddClass(names...)
}

func (e *MemoryElement) Classes() []string {
	return slices.Clone(e.classes)
}

func (e *MemoryElement) SetText(text string) { e.text = text }
func (e *MemoryElement) Text() string        { return e.text }

func (e *MemoryElement) SetAttribute(name, value string) { e.attrs[name] = value }
func (e *MemoryElement) Attribute(name string) string    { return e.attrs[name] }

func (e *MemoryElement) SetVisible(visible bool) { e.visible = visible }
func (e *MemoryElement) Visible() bool           { return e.visible }

func (e *MemoryElement) AppendChild(child Element) {
	e.children = append(e.children, child)
}

func (e *MemoryElement) Children() []Element {
	return slices.Clone(e.children)
}

func (e *MemoryElement) Find(class string) Element {
	return Find(e, class)
}

func (e *MemoryElement) AddListener(name string, h event.Handler) event.Subscription {
	return e.bus.Subscribe(name, h)
}

func (e *MemoryElement) RemoveListener(name string, sub event.Subscription) {
	e.bus.Unsubscribe(name, sub)
}

// Listeners returns the number of listeners registered for name.
func (e *MemoryElement) Listeners(name string) int {
	return e.bus.Len(name)
}

func (e *MemoryElement) Dispatch(name string) {
	e.bus.Emit(event.Event{Name: name, Time: time.Now()})
}
