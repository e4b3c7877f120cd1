package tui

import (
	"context"

	"github.com/amvnote/amvnote/history"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/media"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Controller is the part of player.Service the controller drives.
type Controller interface {
	Load(path string) error
	Play() error
	TogglePause() error
	Seek(position float64) error
	SeekRelative(offset float64) error
	FrameStep() error
	FrameBackStep() error
	SetSpeed(speed float64) error
	SetVolume(volume float64) error
	SetAudioTrack(id int64) error
	SetSubtitleTrack(id mo.Option[int64]) error
	Screenshot(path string) error

	Show() error
	SetFullscreen(on bool) error
	IsFullscreen() bool
	Detach() error
	Attach() error
	IsDetached() bool

	Status() media.Status
	Tracks() media.TrackList
	AudioLevels() media.AudioLevels
	CurrentPath() string
	MediaInfo(ctx context.Context, path mo.Option[string]) (media.Info, error)
}

// Options configures a playback run.
type Options struct {
	Path       string
	Continue   bool
	Fullscreen bool
	Embedded   bool
	Alang      string
	Slang      string
	Volume     float64

	// Closed receives when the user closes the video window; the
	// controller then quits.
	Closed <-chan struct{}
}

// Run loads options.Path, plays it and blocks until the user quits. The
// resume point is saved on exit.
func Run(ctrl Controller, options *Options) error {
	if err := ctrl.Load(options.Path); err != nil {
		return err
	}

	bubble := newBubble(ctrl, options)
	if options.Continue {
		if position, ok := history.Position(options.Path); ok {
			bubble.pending.resume = mo.Some(position)
		}
	}

	if err := bubble.start(); err != nil {
		return err
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	bubble.saveHistory()
	if err != nil {
		log.Error(err)
	}
	return err
}
