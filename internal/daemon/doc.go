// Package daemon runs the notification owned by toastuid. It answers D-Bus
// control calls on the widget's loop, mirrors lifecycle events as signals,
// plays the configured sound and applies configuration reloads.
package daemon
