// Package surface describes the document a notification panel lives in.
// Hosts (terminal, GTK) implement Document and Element; the in-memory
// implementation backs tests and the terminal renderer.
package surface

import "github.com/jmylchreest/toastui/internal/event"

// Element is a node of the panel: the panel itself, its message or its close control.
type Element interface {
	// Tag returns the element kind ("div", "button", "span").
	Tag() string

	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool
	// SetClasses replaces every class on the element.
	SetClasses(names ...string)
	Classes() []string

	SetText(text string)
	Text() string

	SetAttribute(name, value string)
	Attribute(name string) string

	// SetVisible hides or reveals the element without detaching it.
	SetVisible(visible bool)
	Visible() bool

	AppendChild(child Element)
	Children() []Element
	// Find returns the first descendant carrying class, or nil.
	Find(class string) Element

	AddListener(name string, h event.Handler) event.Subscription
	RemoveListener(name string, sub event.Subscription)
	// Dispatch delivers name to the element's listeners.
	Dispatch(name string)
}

// Document is the top-level container panels are attached to.
type Document interface {
	CreateElement(tag string) Element
	Append(el Element)
	Remove(el Element)
	Contains(el Element) bool
}

// ClassObserver is told which classes were added to an element.
type ClassObserver func(el Element, added []string)

// ClassNotifier is a Document that reports class additions on its elements.
type ClassNotifier interface {
	OnClassAdded(fn ClassObserver)
}

// Once registers h for a single delivery of name on el.
// The listener is removed before h runs.
func Once(el Element, name string, h event.Handler) event.Subscription {
	var sub event.Subscription
	fired := false
	sub = el.AddListener(name, func(ev event.Event) {
		if fired {
			return
		}
		fired = true
		el.RemoveListener(name, sub)
		h(ev)
	})
	return sub
}

// find walks children depth first.
func find(el Element, class string) Element {
	for _, child := range el.Children() {
		if child.HasClass(class) {
			return child
		}
		if found := find(child, class); found != nil {
			return found
		}
	}
	return nil
}

// Find returns the first descendant of el carrying class, or nil.
// Element implementations can delegate to it.
func Find(el Element, class string) Element {
	if el == nil {
		return nil
	}
	return find(el, class)
}
