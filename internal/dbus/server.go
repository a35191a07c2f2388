package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastui/internal/notification"
)

// DefaultCallTimeout bounds how long a method call waits for the widget's loop.
const DefaultCallTimeout = 5 * time.Second

// Controller performs widget operations on behalf of bus callers.
type Controller interface {
	Show(ctx context.Context) (bool, error)
	Hide(ctx context.Context) (bool, error)
	Status(ctx context.Context) (notification.Status, error)
}

// Server exports a widget's control object on the session bus.
type Server struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	ctrl    Controller
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

// NewServer creates a Server backed by ctrl.
func NewServer(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ctrl:    ctrl,
		logger:  logger,
		timeout: DefaultCallTimeout,
	}
}

// SetCallTimeout changes how long method calls wait for the widget.
func (s *Server) SetCallTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Start connects to the session bus, exports the object and claims BusName.
func (s *Server) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.StartOn(conn)
}

// StartOn exports the object on an existing connection and claims BusName.
func (s *Server) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}
	if err := conn.Export(introspect.NewIntrospectable(introspectNode()), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus control object started", "interface", Interface, "path", ObjectPath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, ObjectPath, Interface)
	_ = s.conn.Export(nil, ObjectPath, "org.freedesktop.DBus.Introspectable")

	s.logger.Info("D-Bus control object stopped")
	return nil
}

// Show starts the widget's entrance transition.
// D-Bus method: Show() -> b
func (s *Server) Show() (bool, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	ok, err := s.ctrl.Show(ctx)
	if err != nil {
		s.logger.Warn("Show failed", "error", err)
		return false, dbus.MakeFailedError(err)
	}
	s.logger.Debug("Show called", "accepted", ok)
	return ok, nil
}

// Hide starts the widget's exit transition.
// D-Bus method: Hide() -> b
func (s *Server) Hide() (bool, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	ok, err := s.ctrl.Hide(ctx)
	if err != nil {
		s.logger.Warn("Hide failed", "error", err)
		return false, dbus.MakeFailedError(err)
	}
	s.logger.Debug("Hide called", "accepted", ok)
	return ok, nil
}

// State returns the widget's visibility.
// D-Bus method: State() -> s
func (s *Server) State() (string, *dbus.Error) {
	st, derr := s.status()
	if derr != nil {
		return "", derr
	}
	return st.State, nil
}

// Status returns a snapshot of the widget.
// D-Bus method: Status() -> a{sv}
func (s *Server) Status() (map[string]dbus.Variant, *dbus.Error) {
	st, derr := s.status()
	if derr != nil {
		return nil, derr
	}
	return EncodeStatus(st), nil
}

func (s *Server) status() (notification.Status, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	st, err := s.ctrl.Status(ctx)
	if err != nil {
		s.logger.Warn("Status failed", "error", err)
		return notification.Status{}, dbus.MakeFailedError(err)
	}
	return st, nil
}

// Connection returns the underlying D-Bus connection, nil before Start.
func (s *Server) Connection() *dbus.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: widgetMethods(),
				Signals: widgetSignals(),
			},
		},
	}
}

// widgetMethods returns the D-Bus method introspection data.
func widgetMethods() []introspect.Method {
	accepted := []introspect.Arg{{Name: "accepted", Type: "b", Direction: "out"}}
	return []introspect.Method{
		{Name: "Show", Args: accepted},
		{Name: "Hide", Args: accepted},
		{
			Name: "State",
			Args: []introspect.Arg{{Name: "state", Type: "s", Direction: "out"}},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{{Name: "status", Type: "a{sv}", Direction: "out"}},
		},
	}
}

// widgetSignals returns the D-Bus signal introspection data.
func widgetSignals() []introspect.Signal {
	id := []introspect.Arg{{Name: "id", Type: "s"}}
	return []introspect.Signal{
		{Name: SignalShow, Args: id},
		{Name: SignalShown, Args: id},
		{Name: SignalHide, Args: id},
		{Name: SignalHidden, Args: id},
	}
}
