// Package dbus exposes a notification widget on the session bus.
// It provides a control object with Show, Hide, State and Status methods,
// lifecycle signals mirroring the widget's events, and a client and signal
// monitor used by the command-line tools.
package dbus
