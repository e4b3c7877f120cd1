// Package style holds the lipgloss helpers shared by the CLI and the TUI.
package style

import (
	"github.com/amvnote/amvnote/color"
	"github.com/charmbracelet/lipgloss"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer painting its input with c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title is the banner on top of every controller screen.
func Title(s string) string {
	return Tag(color.New("230"), color.New("62"))(s)
}

func ErrorTitle(s string) string {
	return Tag(color.New("230"), color.Red)(s)
}

// Tag renders a padded chip, such as the window mode badge.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}
