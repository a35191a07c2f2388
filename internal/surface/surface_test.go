package surface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
)

func TestMemoryElement_Classes(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.CreateElement("div")

	el.AddClass("notification", "bg-primary", "notification")
	assert.Equal(t, []string{"notification", "bg-primary"}, el.Classes())
	assert.True(t, el.HasClass("bg-primary"))

	el.RemoveClass("bg-primary", "missing")
	assert.Equal(t, []string{"notification"}, el.Classes())

	el.AddClass("show", "hide")
	el.SetClasses("notification", "bg-danger")
	assert.Equal(t, []string{"notification", "bg-danger"}, el.Classes())
}

func TestMemoryElement_Find(t *testing.T) {
	doc := NewMemoryDocument()
	root := doc.CreateElement("div")
	inner := doc.CreateElement("div")
	inner.AddClass("notification-inner")
	msg := doc.CreateElement("div")
	msg.AddClass("message")
	btn := doc.CreateElement("button")
	btn.AddClass("close")

	root.AppendChild(inner)
	inner.AppendChild(msg)
	inner.AppendChild(btn)

	assert.Same(t, btn, root.Find("close"))
	assert.Same(t, msg, root.Find("message"))
	assert.Nil(t, root.Find("missing"))
	assert.Nil(t, Find(nil, "close"))
}

func TestMemoryDocument_AppendRemove(t *testing.T) {
	doc := NewMemoryDocument()
	a := doc.CreateElement("div")
	b := doc.CreateElement("div")

	assert.False(t, doc.Contains(a))
	doc.Append(a)
	doc.Append(b)
	doc.Append(a)
	require.Len(t, doc.Body(), 2)
	assert.True(t, doc.Contains(a))

	doc.Remove(a)
	assert.False(t, doc.Contains(a))
	assert.True(t, doc.Contains(b))
	assert.Len(t, doc.Body(), 1)
}

func TestOnce_RemovesListenerBeforeHandler(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.CreateElement("div").(*MemoryElement)

	calls := 0
	Once(el, event.TransitionEnd, func(event.Event) {
		calls++
		assert.Equal(t, 0, el.Listeners(event.TransitionEnd))
	})
	assert.Equal(t, 1, el.Listeners(event.TransitionEnd))

	el.Dispatch(event.TransitionEnd)
	el.Dispatch(event.TransitionEnd)
	assert.Equal(t, 1, calls)
}

func TestTransitionDriver_DispatchesAfterDuration(t *testing.T) {
	doc := NewMemoryDocument()
	sched := loop.NewManual()
	driver := DriveTransitions(doc, sched, 300*time.Millisecond)

	el := doc.CreateElement("div").(*MemoryElement)
	ends := 0
	el.AddListener(event.TransitionEnd, func(event.Event) { ends++ })

	el.AddClass("notification")
	assert.False(t, driver.Running(el))

	el.AddClass("show")
	assert.True(t, driver.Running(el))

	sched.Advance(299 * time.Millisecond)
	assert.Equal(t, 0, ends)
	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, ends)
	assert.False(t, driver.Running(el))
}

func TestTransitionDriver_NewTriggerReplacesPending(t *testing.T) {
	doc := NewMemoryDocument()
	sched := loop.NewManual()
	DriveTransitions(doc, sched, 100*time.Millisecond)

	el := doc.CreateElement("div").(*MemoryElement)
	ends := 0
	el.AddListener(event.TransitionEnd, func(event.Event) { ends++ })

	el.AddClass("show")
	sched.Advance(50 * time.Millisecond)
	el.RemoveClass("show")
	el.AddClass("hide")
	sched.Advance(60 * time.Millisecond)
	assert.Equal(t, 0, ends)

	sched.Advance(40 * time.Millisecond)
	assert.Equal(t, 1, ends)
}
