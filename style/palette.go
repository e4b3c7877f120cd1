package style

import "github.com/charmbracelet/lipgloss"

// Palette of the playback controller.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Overlay  = lipgloss.Color("#6c7086")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor  = Mauve
	SuccessColor = Green
	WarningColor = Yellow
	ErrorColor   = Red
	HiRed        = Red
)

// Level meter colors, from quiet to clipping.
var (
	MeterColor = SuccessColor
	MeterHot   = WarningColor
	MeterClip  = ErrorColor
)
