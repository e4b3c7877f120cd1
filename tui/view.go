package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/style"
	"github.com/amvnote/amvnote/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

const meterWidth = 30

var (
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	meterStyle   = lipgloss.NewStyle().Foreground(style.MeterColor)
	hotStyle     = lipgloss.NewStyle().Foreground(style.MeterHot)
	clipStyle    = lipgloss.NewStyle().Foreground(style.MeterClip)
	modeTag      = style.Tag(style.Base, style.Lavender)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playState:
		output = b.viewPlay()
	case tracksState:
		output = b.viewTracks()
	case infoState:
		output = b.viewInfo()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPlay() string {
	status := b.status
	playing := icon.Get(icon.Pause)
	if status.Playing {
		playing = icon.Get(icon.Play)
	}

	mode := "embedded"
	switch {
	case b.ctrl.IsFullscreen():
		mode = "fullscreen"
	case b.ctrl.IsDetached():
		mode = "detached"
	}

	percent := 0.0
	if status.Duration > 0 {
		percent = util.Clamp(status.Position/status.Duration, 0, 1)
	}

	name := b.ctrl.CurrentPath()
	if name == "" {
		name = b.options.Path
	}
	lines := []string{
		style.Title("Playing"),
		"",
		style.Bold(truncate.StringWithTail(name, uint(max(b.width-6, 10)), "…")),
		"",
		fmt.Sprintf("%s %s / %s  %s",
			playing,
			formatClock(status.Position),
			formatClock(status.Duration),
			b.progressC.ViewAs(percent),
		),
		style.Faint(fmt.Sprintf("speed %.2fx  volume %.0f  %s ", status.Speed, status.Volume, icon.Get(icon.Window))) + modeTag(mode),
		"",
	}
	lines = append(lines, b.viewLevels()...)
	lines = append(lines, "", b.helpC.View(b.keymap))

	return paddingStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewLevels() []string {
	if !b.levels.Available {
		return []string{style.Faint(icon.Get(icon.Audio) + " no level data")}
	}
	return []string{
		"L " + meter(b.levels.Left),
		"R " + meter(b.levels.Right),
	}
}

// meter renders a dBFS reading between the silence floor and 0 dB.
func meter(db float64) string {
	fraction := util.Clamp((db-media.FloorDB)/-media.FloorDB, 0, 1)
	filled := int(math.Round(fraction * meterWidth))

	paint := meterStyle
	switch {
	case db >= 0:
		paint = clipStyle
	case db > -6:
		paint = hotStyle
	}
	bar := paint.Render(strings.Repeat("█", filled))
	return bar + style.Faint(strings.Repeat("░", meterWidth-filled)) + style.Faint(fmt.Sprintf(" %6.1f dB", db))
}

func (b *statefulBubble) viewTracks() string {
	return paddingStyle.Render(b.tracksC.View() + "\n" + b.helpC.View(b.keymap))
}

func (b *statefulBubble) viewInfo() string {
	info, ok := b.info.Get()
	if !ok {
		return paddingStyle.Render(style.Title("Media info") + "\n\n" + b.spinnerC.View() + " Probing...")
	}

	rows := [][2]string{
		{"Container", lo.CoalesceOrEmpty(info.FormatLongName, info.FormatName, "?")},
		{"Duration", formatClock(info.Duration)},
		{"Size", util.Quantify(int(info.FileSize), "byte", "bytes")},
		{icon.Get(icon.Video) + " Video", fmt.Sprintf("%s %dx%d @ %.3f fps", info.VideoCodec, info.Width, info.Height, info.FPS)},
		{"Audio", fmt.Sprintf("%s %d Hz %d ch", info.AudioCodec, info.SampleRate, info.Channels)},
		{"Bitrate", fmt.Sprintf("%d kb/s", info.OverallBitrate/1000)},
	}

	var sb strings.Builder
	sb.WriteString(style.Title("Media info"))
	sb.WriteString("\n\n")
	for _, row := range rows {
		sb.WriteString(style.Fg(style.AccentColor)(fmt.Sprintf("%-12s", row[0])))
		sb.WriteString(" ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(b.helpC.View(b.keymap))

	return paddingStyle.Render(wrap.String(sb.String(), max(b.width-4, 20)))
}

func (b *statefulBubble) viewError() string {
	msg := "unknown error"
	if b.lastError != nil {
		msg = b.lastError.Error()
	}
	return paddingStyle.Render(strings.Join([]string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " " + wrap.String(msg, max(b.width-8, 20)),
		"",
		b.helpC.View(b.keymap),
	}, "\n"))
}

// formatClock renders seconds as m:ss or h:mm:ss.
func formatClock(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
