// Package theme resolves the look of a notification panel: stylesheets for the
// GTK host, loaded from ~/.config/toastui/themes/ or the embedded set and
// hot-reloaded with fsnotify, and lipgloss palettes for the terminal host keyed
// by the same theme tags (primary, danger, ...).
package theme
