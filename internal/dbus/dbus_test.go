package dbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/notification"
)

var discard = slog.New(slog.DiscardHandler)

type fakeController struct {
	shown  bool
	hidden bool
	status notification.Status
	err    error
}

func (f *fakeController) Show(context.Context) (bool, error) { return f.shown, f.err }
func (f *fakeController) Hide(context.Context) (bool, error) { return f.hidden, f.err }
func (f *fakeController) Status(context.Context) (notification.Status, error) {
	return f.status, f.err
}

func TestSignalMapping(t *testing.T) {
	for _, name := range []string{event.Show, event.Shown, event.Hide, event.Hidden} {
		member, ok := SignalFor(name)
		require.True(t, ok, name)
		back, ok := EventFor(member)
		require.True(t, ok)
		assert.Equal(t, name, back)
	}

	_, ok := SignalFor(event.Click)
	assert.False(t, ok, "interactions are not signals")
	_, ok = EventFor("NotificationClosed")
	assert.False(t, ok)
}

func TestStatusEncoding(t *testing.T) {
	shownAt := time.UnixMilli(1_700_000_000_123)
	in := notification.Status{
		ID:      "01HZX",
		State:   "shown",
		Message: "Saved",
		Theme:   "success",
		Timeout: 5 * time.Second,
		ShownAt: shownAt,
	}

	wire := EncodeStatus(in)
	assert.Equal(t, int64(5000), wire[keyTimeout].Value())
	assert.Equal(t, "x", wire[keyShownAt].Signature().String())

	out, err := DecodeStatus(wire)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Timeout, out.Timeout)
	assert.True(t, shownAt.Equal(out.ShownAt))

	t.Run("unset shown time", func(t *testing.T) {
		wire := EncodeStatus(notification.Status{ID: "a", State: "hidden"})
		assert.Equal(t, int64(0), wire[keyShownAt].Value())
		out, err := DecodeStatus(wire)
		require.NoError(t, err)
		assert.True(t, out.ShownAt.IsZero())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := DecodeStatus(map[string]dbus.Variant{keyState: dbus.MakeVariant("hidden")})
		assert.ErrorContains(t, err, `"id" missing`)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := DecodeStatus(map[string]dbus.Variant{
			keyID:    dbus.MakeVariant(uint32(7)),
			keyState: dbus.MakeVariant("hidden"),
		})
		assert.ErrorContains(t, err, "want s")
	})
}

func TestServer_Methods(t *testing.T) {
	ctrl := &fakeController{
		shown:  true,
		status: notification.Status{ID: "w1", State: "showing"},
	}
	s := NewServer(ctrl, discard)

	ok, derr := s.Show()
	assert.Nil(t, derr)
	assert.True(t, ok)

	ok, derr = s.Hide()
	assert.Nil(t, derr)
	assert.False(t, ok)

	state, derr := s.State()
	assert.Nil(t, derr)
	assert.Equal(t, "showing", state)

	st, derr := s.Status()
	assert.Nil(t, derr)
	assert.Equal(t, "w1", st[keyID].Value())
}

func TestServer_ControllerErrors(t *testing.T) {
	s := NewServer(&fakeController{err: loop.ErrStopped}, discard)

	_, derr := s.Show()
	require.NotNil(t, derr)
	assert.Equal(t, "org.freedesktop.DBus.Error.Failed", derr.Name)

	_, derr = s.State()
	require.NotNil(t, derr)
}

func TestServer_EmitWithoutConnection(t *testing.T) {
	s := NewServer(&fakeController{}, discard)

	assert.ErrorContains(t, s.EmitLifecycle(event.Shown, "w1"), "not connected")
	assert.ErrorContains(t, s.EmitLifecycle(event.Click, "w1"), "no signal")

	// Forward logs rather than panics
	s.Forward()(event.Event{Name: event.Hidden, Source: "w1"})
}

func TestParseSignal(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		sig  *dbus.Signal
		want string
		ok   bool
	}{
		{"shown", &dbus.Signal{Path: ObjectPath, Name: Interface + ".Shown", Body: []any{"w1"}}, event.Shown, true},
		{"hidden", &dbus.Signal{Path: ObjectPath, Name: Interface + ".Hidden", Body: []any{"w1"}}, event.Hidden, true},
		{"other path", &dbus.Signal{Path: "/other", Name: Interface + ".Shown"}, "", false},
		{"other interface", &dbus.Signal{Path: ObjectPath, Name: "org.freedesktop.DBus.NameAcquired"}, "", false},
		{"unknown member", &dbus.Signal{Path: ObjectPath, Name: Interface + ".Clicked"}, "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := parseSignal(tt.sig, now)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, ev.Name)
			assert.Equal(t, "w1", ev.Source)
			assert.Equal(t, now, ev.Time)
		})
	}
}

func TestIntrospection(t *testing.T) {
	node := introspectNode()
	require.Len(t, node.Interfaces, 2)

	iface := node.Interfaces[1]
	assert.Equal(t, Interface, iface.Name)

	var methods []string
	for _, m := range iface.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"Show", "Hide", "State", "Status"}, methods)
	assert.Len(t, iface.Signals, 4)
}
