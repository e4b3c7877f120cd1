package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amvnote/amvnote/history"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/util"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type tickMsg time.Time

type infoMsg media.Info

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// start shows the surface and begins playback.
func (b *statefulBubble) start() error {
	if b.options.Embedded {
		if err := b.ctrl.Attach(); err != nil {
			return err
		}
	}
	if err := b.ctrl.Show(); err != nil {
		return err
	}
	if b.options.Fullscreen {
		if err := b.ctrl.SetFullscreen(true); err != nil {
			return err
		}
	}
	if b.options.Volume > 0 {
		_ = b.ctrl.SetVolume(b.options.Volume)
	}
	return b.ctrl.Play()
}

// refresh polls the controller and applies pending work once the file has
// a duration.
func (b *statefulBubble) refresh() {
	b.status = b.ctrl.Status()
	b.levels = b.ctrl.AudioLevels()

	if b.status.Duration <= 0 || b.pending.done() {
		return
	}

	if position, ok := b.pending.resume.Get(); ok {
		if err := b.ctrl.Seek(position); err != nil {
			log.WithField("position", position).Warnf("resume failed: %v", err)
		}
		b.pending.resume = mo.None[float64]()
	}

	tracks := b.ctrl.Tracks()
	if b.pending.alang != "" {
		if id, ok := matchTrack(tracks.Audio, b.pending.alang).Get(); ok {
			_ = b.ctrl.SetAudioTrack(id)
		}
		b.pending.alang = ""
	}
	if b.pending.slang != "" {
		if id, ok := matchTrack(tracks.Subtitle, b.pending.slang).Get(); ok {
			_ = b.ctrl.SetSubtitleTrack(mo.Some(id))
		}
		b.pending.slang = ""
	}
}

func (b *statefulBubble) saveHistory() {
	if !viper.GetBool(key.PlayerResume) {
		return
	}

	b.lastSaved = time.Now()
	path := b.ctrl.CurrentPath()
	if path == "" {
		path = b.options.Path
	}
	status := b.ctrl.Status()
	if status.Duration <= 0 {
		return
	}
	if err := history.Save(path, status.Position, status.Duration); err != nil {
		log.Warnf("saving resume point: %v", err)
	}
}

func (b *statefulBubble) adjustSpeed(delta float64) tea.Cmd {
	speed := util.Clamp(b.status.Speed+delta, minSpeed, maxSpeed)
	return b.report(b.ctrl.SetSpeed(speed), fmt.Sprintf("Speed %.2fx", speed))
}

func (b *statefulBubble) adjustVolume(delta float64) tea.Cmd {
	volume := util.Clamp(b.status.Volume+delta, 0, maxVolume)
	return b.report(b.ctrl.SetVolume(volume), fmt.Sprintf("Volume %.0f", volume))
}

func (b *statefulBubble) toggleFullscreen() tea.Cmd {
	if b.ctrl.IsFullscreen() {
		return b.report(b.ctrl.SetFullscreen(false), "Windowed")
	}
	return b.report(b.ctrl.SetFullscreen(true), "Fullscreen")
}

func (b *statefulBubble) toggleDetach() tea.Cmd {
	if b.ctrl.IsDetached() {
		return b.report(b.ctrl.Attach(), "Attached")
	}
	return b.report(b.ctrl.Detach(), "Detached")
}

func screenshotName(media string, position float64) string {
	stem := util.SanitizeFilename(util.FileStem(media))
	if stem == "" {
		stem = "screenshot"
	}
	return fmt.Sprintf("%s_%07.2f.png", stem, position)
}

func (b *statefulBubble) screenshot() tea.Cmd {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	path := filepath.Join(dir, screenshotName(b.ctrl.CurrentPath(), b.status.Position))
	return b.report(b.ctrl.Screenshot(path), "Saved "+filepath.Base(path))
}

// report turns a failed operation into an error notice and a successful one
// into done, if any.
func (b *statefulBubble) report(err error, done string) tea.Cmd {
	notice := done
	if err != nil {
		log.Warn(err)
		notice = icon.Get(icon.Warn) + " " + err.Error()
	}
	if notice == "" {
		return nil
	}
	return func() tea.Msg { return notice }
}

func (b *statefulBubble) loadInfo() tea.Cmd {
	b.info = mo.None[media.Info]()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		info, err := b.ctrl.MediaInfo(ctx, mo.Some(b.ctrl.CurrentPath()))
		if err != nil {
			return err
		}
		return infoMsg(info)
	}
}

func (b *statefulBubble) showTracks(kind string) tea.Cmd {
	tracks := b.ctrl.Tracks()
	selected := tracks.Audio
	if kind == media.TrackSubtitle {
		selected = tracks.Subtitle
	}

	var items []list.Item
	if kind == media.TrackSubtitle {
		items = append(items, &trackItem{off: true})
	}
	for _, t := range selected {
		items = append(items, &trackItem{track: t})
	}

	b.trackKind = kind
	b.tracksC.Title = "Audio"
	if kind == media.TrackSubtitle {
		b.tracksC.Title = "Subtitles"
	}
	b.tracksC.ResetSelected()
	return b.tracksC.SetItems(items)
}

func (b *statefulBubble) selectTrack() tea.Cmd {
	item, ok := b.tracksC.SelectedItem().(*trackItem)
	if !ok {
		return nil
	}

	switch {
	case b.trackKind == media.TrackAudio:
		return b.report(b.ctrl.SetAudioTrack(item.track.ID), "Audio: "+item.track.Label())
	case item.off:
		return b.report(b.ctrl.SetSubtitleTrack(mo.None[int64]()), "Subtitles off")
	default:
		return b.report(b.ctrl.SetSubtitleTrack(mo.Some(item.track.ID)), "Subtitles: "+item.track.Label())
	}
}
