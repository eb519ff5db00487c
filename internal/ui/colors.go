package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette mirrors the mobile app's scheme: orange accent, indigo action,
// blue links, gray secondary text.
var styles = NewPalette("#F97316", "#4F46E5", "#04B575", "#FF0000", "#9CA3AF")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	label    lipgloss.Style
	accent   lipgloss.Style
	action   lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func NewPalette(accent, action, ok, e, muted string) *Palette {
	return &Palette{
		title:    NewBold(accent).MarginBottom(1),
		subtitle: NewStyle(muted),
		label:    lipgloss.NewStyle().Bold(true),
		accent:   NewStyle(accent),
		action:   NewBold(action),
		ok:       NewBold(ok),
		err:      NewBold(e),
		help:     NewEm(muted),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
