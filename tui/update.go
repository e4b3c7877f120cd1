package tui

import (
	"time"

	"github.com/amvnote/amvnote/media"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, cmd
	case surfaceClosedMsg:
		return b, tea.Quit
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case tickMsg:
		b.refresh()
		if time.Time(msg).Sub(b.lastSaved) >= saveInterval {
			b.saveHistory()
		}
		return b, tea.Batch(cmd, tick())
	case infoMsg:
		b.info = mo.Some(media.Info(msg))
		return b, cmd
	case spinner.TickMsg:
		var spinCmd tea.Cmd
		b.spinnerC, spinCmd = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, spinCmd)
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
		if key.Matches(msg, b.keymap.showHelp) {
			b.helpC.ShowAll = !b.helpC.ShowAll
			return b, cmd
		}
		return b, tea.Batch(cmd, b.updateKey(msg))
	}

	return b, cmd
}

func (b *statefulBubble) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch b.state {
	case playState:
		return b.updatePlay(msg)
	case tracksState:
		return b.updateTracks(msg)
	default:
		switch {
		case key.Matches(msg, b.keymap.quit):
			return tea.Quit
		case key.Matches(msg, b.keymap.back):
			b.previousState()
		}
		return nil
	}
}

func (b *statefulBubble) updatePlay(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.playPause):
		return b.report(b.ctrl.TogglePause(), "")
	case key.Matches(msg, b.keymap.seekBack):
		return b.report(b.ctrl.SeekRelative(-seekStep), "")
	case key.Matches(msg, b.keymap.seekForward):
		return b.report(b.ctrl.SeekRelative(seekStep), "")
	case key.Matches(msg, b.keymap.frameBack):
		return b.report(b.ctrl.FrameBackStep(), "")
	case key.Matches(msg, b.keymap.frameForward):
		return b.report(b.ctrl.FrameStep(), "")
	case key.Matches(msg, b.keymap.slower):
		return b.adjustSpeed(-speedStep)
	case key.Matches(msg, b.keymap.faster):
		return b.adjustSpeed(speedStep)
	case key.Matches(msg, b.keymap.quieter):
		return b.adjustVolume(-volumeStep)
	case key.Matches(msg, b.keymap.louder):
		return b.adjustVolume(volumeStep)
	case key.Matches(msg, b.keymap.fullscreen):
		return b.toggleFullscreen()
	case key.Matches(msg, b.keymap.detach):
		return b.toggleDetach()
	case key.Matches(msg, b.keymap.screenshot):
		return b.screenshot()
	case key.Matches(msg, b.keymap.audioTracks):
		b.newState(tracksState)
		return b.showTracks(media.TrackAudio)
	case key.Matches(msg, b.keymap.subtitleTracks):
		b.newState(tracksState)
		return b.showTracks(media.TrackSubtitle)
	case key.Matches(msg, b.keymap.info):
		b.newState(infoState)
		return b.loadInfo()
	}
	return nil
}

func (b *statefulBubble) updateTracks(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.back):
		b.previousState()
		return nil
	case key.Matches(msg, b.keymap.confirm):
		cmd := b.selectTrack()
		b.previousState()
		return cmd
	}

	var cmd tea.Cmd
	b.tracksC, cmd = b.tracksC.Update(msg)
	return cmd
}
