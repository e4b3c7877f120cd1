// Package color names the terminal colors used by command output.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI index or a hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Theme colors. These follow the user's terminal palette.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiPurple = New("13")
)

// Fixed colors that read the same on every theme.
var (
	Orange = New("#ffb703")
	// Clip marks a level at or above 0 dBFS.
	Clip = New("#ff3b30")
)
