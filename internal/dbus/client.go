package dbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/notification"
)

// ErrNoDaemon is returned when nothing owns BusName.
var ErrNoDaemon = errors.New("toastuid is not running")

// Client calls a daemon's control object.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect returns a client on the session bus.
func Connect() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient returns a client on conn.
func NewClient(conn *dbus.Conn) *Client {
	return &Client{conn: conn, obj: conn.Object(BusName, ObjectPath)}
}

// Show asks the daemon to show its notification.
func (c *Client) Show(ctx context.Context) (bool, error) {
	var ok bool
	if err := c.call(ctx, "Show", &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Hide asks the daemon to hide its notification.
func (c *Client) Hide(ctx context.Context) (bool, error) {
	var ok bool
	if err := c.call(ctx, "Hide", &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// State returns the daemon widget's visibility.
func (c *Client) State(ctx context.Context) (string, error) {
	var state string
	if err := c.call(ctx, "State", &state); err != nil {
		return "", err
	}
	return state, nil
}

// Status returns a snapshot of the daemon's widget.
func (c *Client) Status(ctx context.Context) (notification.Status, error) {
	var raw map[string]dbus.Variant
	if err := c.call(ctx, "Status", &raw); err != nil {
		return notification.Status{}, err
	}
	return DecodeStatus(raw)
}

func (c *Client) call(ctx context.Context, method string, out any) error {
	err := c.obj.CallWithContext(ctx, Interface+"."+method, 0).Store(out)
	if err == nil {
		return nil
	}

	var derr dbus.Error
	if errors.As(err, &derr) && derr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" {
		return ErrNoDaemon
	}
	return fmt.Errorf("%s call failed: %w", method, err)
}
