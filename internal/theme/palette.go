package theme

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Palette colors a panel in the terminal.
type Palette struct {
	Background lipgloss.TerminalColor
	Foreground lipgloss.TerminalColor
	Border     lipgloss.TerminalColor
}

// Neutral is used for an empty or unknown theme tag.
var Neutral = Palette{
	Background: lipgloss.NoColor{},
	Foreground: lipgloss.AdaptiveColor{Light: "0", Dark: "15"},
	Border:     lipgloss.Color("8"),
}

var palettes = map[string]Palette{
	"primary":   {Background: lipgloss.Color("#0d6efd"), Foreground: lipgloss.Color("#ffffff"), Border: lipgloss.Color("#0a58ca")},
	"secondary": {Background: lipgloss.Color("#6c757d"), Foreground: lipgloss.Color("#ffffff"), Border: lipgloss.Color("#565e64")},
	"success":   {Background: lipgloss.Color("#198754"), Foreground: lipgloss.Color("#ffffff"), Border: lipgloss.Color("#146c43")},
	"danger":    {Background: lipgloss.Color("#dc3545"), Foreground: lipgloss.Color("#ffffff"), Border: lipgloss.Color("#b02a37")},
	"warning":   {Background: lipgloss.Color("#ffc107"), Foreground: lipgloss.Color("#000000"), Border: lipgloss.Color("#cc9a06")},
	"info":      {Background: lipgloss.Color("#0dcaf0"), Foreground: lipgloss.Color("#000000"), Border: lipgloss.Color("#0aa2c0")},
	"light":     {Background: lipgloss.Color("#f8f9fa"), Foreground: lipgloss.Color("#000000"), Border: lipgloss.Color("#c6c7c8")},
	"dark":      {Background: lipgloss.Color("#212529"), Foreground: lipgloss.Color("#ffffff"), Border: lipgloss.Color("#1a1e21")},
}

// PaletteFor returns the palette for a theme tag and whether the tag is known.
func PaletteFor(tag string) (Palette, bool) {
	p, ok := palettes[tag]
	if !ok {
		return Neutral, false
	}
	return p, true
}

// Tags returns the known theme tags in sorted order.
func Tags() []string {
	tags := make([]string, 0, len(palettes))
	for tag := range palettes {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// PanelStyle returns the lipgloss style for a panel of the given tag.
func (p Palette) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(p.Background).
		Foreground(p.Foreground).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		BorderBackground(p.Background).
		Padding(0, 1)
}

// ButtonStyle returns the style for the close control.
func (p Palette) ButtonStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(p.Background).
		Foreground(p.Foreground).
		Bold(true)
}
