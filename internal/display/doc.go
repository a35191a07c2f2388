// Package display hosts a notification on GTK4. Panels are GTK widget trees
// shown in Wayland layer-shell windows, styled by a CSS provider, and driven by
// the GTK main loop.
//
// Everything in this package except Scheduler.Call must run on the GTK main loop.
package display
