package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/notification"
	"github.com/jmylchreest/toastui/internal/surface"
	"github.com/jmylchreest/toastui/internal/theme"
)

// themeTag returns the tag carried by a bg-<tag> class, or "".
func themeTag(el surface.Element) string {
	for _, c := range el.Classes() {
		if tag, ok := strings.CutPrefix(c, "bg-"); ok {
			return tag
		}
	}
	return ""
}

// renderPanel draws a panel element. A panel that is not fully shown (entering
// or leaving) is drawn faint.
func renderPanel(el surface.Element, width int) string {
	palette, _ := theme.PaletteFor(themeTag(el))

	var msg string
	if m := el.Find(notification.ClassMessage); m != nil {
		msg = m.Text()
	}

	body := msg
	if btn := el.Find(notification.ClassClose); btn != nil && btn.Visible() {
		glyph := "x"
		if children := btn.Children(); len(children) > 0 {
			glyph = children[0].Text()
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, msg, "  ", palette.ButtonStyle().Render(glyph))
	}

	style := palette.PanelStyle()
	if width > 4 {
		style = style.Width(width - 2)
	}
	if !el.HasClass(notification.ClassShow) || el.HasClass(notification.ClassHide) {
		style = style.Faint(true)
	}
	return style.Render(body)
}
