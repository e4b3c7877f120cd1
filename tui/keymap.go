package tui

import (
	"github.com/amvnote/amvnote/color"
	"github.com/amvnote/amvnote/style"
	"github.com/charmbracelet/bubbles/key"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	seekBack, seekForward,
	frameBack, frameForward,
	slower, faster,
	quieter, louder,
	fullscreen, detach,
	screenshot,
	audioTracks, subtitleTracks,
	info,
	confirm, back,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+5s"),
		),
		frameBack: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "frame back"),
		),
		frameForward: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "frame"),
		),
		slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster"),
		),
		quieter: key.NewBinding(
			key.WithKeys("9"),
			key.WithHelp("9", "volume -"),
		),
		louder: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "volume +"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		detach: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "detach/attach"),
		),
		screenshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "screenshot"),
		),
		audioTracks: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "audio"),
		),
		subtitleTracks: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "subtitles"),
		),
		info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "info"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(b ...key.Binding) []key.Binding { return b }

	switch k.state {
	case playState:
		return h(k.playPause, k.seekBack, k.seekForward, k.fullscreen, k.showHelp),
			h(k.frameBack, k.frameForward, k.slower, k.faster, k.quieter, k.louder,
				k.detach, k.screenshot, k.audioTracks, k.subtitleTracks, k.info, k.quit)
	case tracksState:
		return h(k.confirm, k.back), h(k.confirm, k.back, k.forceQuit)
	case infoState:
		return h(k.back, k.quit), h(k.back, k.quit)
	case errorState:
		return h(k.back, k.quit), h(k.back, k.quit)
	default:
		return h(k.quit), h(k.quit)
	}
}

// ShortHelp implements help.KeyMap.
func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

// FullHelp implements help.KeyMap.
func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
