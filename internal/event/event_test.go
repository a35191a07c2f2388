package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(Show, func(ev Event) { got = append(got, "first:"+ev.Name) })
	bus.Subscribe(Show, func(ev Event) { got = append(got, "second:"+ev.Name) })
	bus.Subscribe(Hide, func(ev Event) { got = append(got, "hide") })

	bus.Emit(Event{Name: Show})

	assert.Equal(t, []string{"first:show", "second:show"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0

	sub := bus.Subscribe(Hidden, func(Event) { calls++ })
	bus.Emit(Event{Name: Hidden})
	bus.Unsubscribe(Hidden, sub)
	bus.Emit(Event{Name: Hidden})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len(Hidden))
}

func TestBus_UnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus()
	var got []string

	var sub Subscription
	sub = bus.Subscribe(TransitionEnd, func(Event) {
		got = append(got, "once")
		bus.Unsubscribe(TransitionEnd, sub)
	})
	bus.Subscribe(TransitionEnd, func(Event) { got = append(got, "always") })

	bus.Emit(Event{Name: TransitionEnd})
	bus.Emit(Event{Name: TransitionEnd})

	assert.Equal(t, []string{"once", "always", "always"}, got)
}

func TestBus_UnknownSubscriptionIgnored(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(Click, func(Event) {})

	bus.Unsubscribe(Click, 42)
	bus.Unsubscribe(Shown, 1)

	assert.Equal(t, 1, bus.Len(Click))
}
