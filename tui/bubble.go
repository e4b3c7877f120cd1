package tui

import (
	"time"

	"github.com/amvnote/amvnote/internal/ui"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/style"
	"github.com/amvnote/amvnote/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
)

// Adjustment steps and their limits.
const (
	seekStep   = 5.0
	speedStep  = 0.25
	minSpeed   = 0.25
	maxSpeed   = 4.0
	volumeStep = 5.0
	maxVolume  = 130.0

	refreshInterval = 200 * time.Millisecond
	saveInterval    = 10 * time.Second
)

// pending holds work that waits for the file to finish loading.
type pending struct {
	resume mo.Option[float64]
	alang  string
	slang  string
}

func (p pending) done() bool {
	return p.resume.IsAbsent() && p.alang == "" && p.slang == ""
}

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	tracksC   list.Model
	helpC     help.Model

	ctrl    Controller
	options *Options
	pending pending

	status    media.Status
	levels    media.AudioLevels
	trackKind string
	info      mo.Option[media.Info]
	lastError error
	lastSaved time.Time

	width, height int
	notifier      *ui.Model
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	if b.state != errorState {
		b.statesHistory.Push(b.state)
	}
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if prev, ok := b.statesHistory.Pop(); ok {
		b.setState(prev)
		return
	}
	b.setState(playState)
}

func (b *statefulBubble) resize(width, height int) {
	b.width, b.height = width, height

	x, y := paddingStyle.GetFrameSize()
	b.tracksC.SetSize(width-x, height-y)
	b.progressC.Width = max(width-x-20, 10)
	b.helpC.Width = width
}

func newBubble(ctrl Controller, options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		ctrl:          ctrl,
		options:       options,
		keymap:        keymap,
		statesHistory: util.Stack[state]{Limit: 8},
		status:        media.IdleStatus,
		levels:        media.SilentLevels,
		notifier:      &ui.Model{},
		pending: pending{
			alang: options.Alang,
			slang: options.Slang,
		},
	}

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithGradient(string(style.Mauve), string(style.Lavender)), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(style.AccentColor).BorderLeftForeground(style.AccentColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.tracksC = list.New(nil, delegate, 0, 0)
	bubble.tracksC.SetShowHelp(false)
	bubble.tracksC.SetShowStatusBar(false)
	bubble.tracksC.SetFilteringEnabled(false)
	bubble.tracksC.KeyMap.Quit.SetEnabled(false)

	bubble.helpC = help.New()

	bubble.setState(playState)
	return bubble
}
