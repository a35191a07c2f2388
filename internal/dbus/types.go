package dbus

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/notification"
)

const (
	// BusName is the well-known name claimed by the daemon.
	BusName = "io.github.jmylchreest.toastui"
	// ObjectPath is the widget object path.
	ObjectPath dbus.ObjectPath = "/io/github/jmylchreest/toastui"
	// Interface is the widget interface name.
	Interface = "io.github.jmylchreest.toastui.Widget"
)

// Lifecycle signal members.
const (
	SignalShow   = "Show"
	SignalShown  = "Shown"
	SignalHide   = "Hide"
	SignalHidden = "Hidden"
)

var eventSignals = map[string]string{
	event.Show:   SignalShow,
	event.Shown:  SignalShown,
	event.Hide:   SignalHide,
	event.Hidden: SignalHidden,
}

// SignalFor returns the signal member for a lifecycle event name.
func SignalFor(name string) (string, bool) {
	s, ok := eventSignals[name]
	return s, ok
}

// EventFor returns the lifecycle event name for a signal member.
func EventFor(member string) (string, bool) {
	for name, s := range eventSignals {
		if s == member {
			return name, true
		}
	}
	return "", false
}

// Status keys used in the a{sv} returned by the Status method.
const (
	keyID      = "id"
	keyState   = "state"
	keyMessage = "message"
	keyTheme   = "theme"
	keyTimeout = "timeout_ms"
	keyShownAt = "shown_at"
)

// EncodeStatus converts a widget status to its wire form. Times are unix
// milliseconds, zero meaning unset.
func EncodeStatus(s notification.Status) map[string]dbus.Variant {
	var shownAt int64
	if !s.ShownAt.IsZero() {
		shownAt = s.ShownAt.UnixMilli()
	}
	return map[string]dbus.Variant{
		keyID:      dbus.MakeVariant(s.ID),
		keyState:   dbus.MakeVariant(s.State),
		keyMessage: dbus.MakeVariant(s.Message),
		keyTheme:   dbus.MakeVariant(s.Theme),
		keyTimeout: dbus.MakeVariant(s.Timeout.Milliseconds()),
		keyShownAt: dbus.MakeVariant(shownAt),
	}
}

// DecodeStatus is the inverse of EncodeStatus.
func DecodeStatus(m map[string]dbus.Variant) (notification.Status, error) {
	var s notification.Status
	var err error

	if s.ID, err = stringField(m, keyID); err != nil {
		return s, err
	}
	if s.State, err = stringField(m, keyState); err != nil {
		return s, err
	}
	// Optional fields
	s.Message, _ = stringField(m, keyMessage)
	s.Theme, _ = stringField(m, keyTheme)

	if ms, ok := int64Field(m, keyTimeout); ok {
		s.Timeout = time.Duration(ms) * time.Millisecond
	}
	if ms, ok := int64Field(m, keyShownAt); ok && ms > 0 {
		s.ShownAt = time.UnixMilli(ms)
	}
	return s, nil
}

func stringField(m map[string]dbus.Variant, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("status field %q missing", key)
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("status field %q has type %s, want s", key, v.Signature())
	}
	return s, nil
}

func int64Field(m map[string]dbus.Variant, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.Value().(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
