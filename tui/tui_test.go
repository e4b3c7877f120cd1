package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/player"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

var _ Controller = (*player.Service)(nil)

type fakeController struct {
	mu    sync.Mutex
	calls []string

	status     media.Status
	tracks     media.TrackList
	fullscreen bool
	detached   bool
	failWith   error
}

func (f *fakeController) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.failWith
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) Load(path string) error            { return f.record("load %s", path) }
func (f *fakeController) Play() error                       { return f.record("play") }
func (f *fakeController) TogglePause() error                { return f.record("toggle") }
func (f *fakeController) Seek(position float64) error       { return f.record("seek %g", position) }
func (f *fakeController) SeekRelative(offset float64) error { return f.record("seek-rel %g", offset) }
func (f *fakeController) FrameStep() error                  { return f.record("frame") }
func (f *fakeController) FrameBackStep() error              { return f.record("frame-back") }
func (f *fakeController) SetSpeed(speed float64) error      { return f.record("speed %g", speed) }
func (f *fakeController) SetVolume(volume float64) error    { return f.record("volume %g", volume) }
func (f *fakeController) SetAudioTrack(id int64) error      { return f.record("aid %d", id) }
func (f *fakeController) Screenshot(path string) error      { return f.record("screenshot %s", path) }
func (f *fakeController) Show() error                       { return f.record("show") }
func (f *fakeController) IsFullscreen() bool                { return f.fullscreen }
func (f *fakeController) IsDetached() bool                  { return f.detached }
func (f *fakeController) Status() media.Status              { return f.status }
func (f *fakeController) Tracks() media.TrackList           { return f.tracks }
func (f *fakeController) CurrentPath() string               { return "/media/clip.mkv" }

func (f *fakeController) AudioLevels() media.AudioLevels {
	return media.AudioLevels{Left: -12, Right: -3, Overall: -6, Available: true}
}

func (f *fakeController) SetSubtitleTrack(id mo.Option[int64]) error {
	if v, ok := id.Get(); ok {
		return f.record("sid %d", v)
	}
	return f.record("sid off")
}

func (f *fakeController) SetFullscreen(on bool) error {
	f.fullscreen = on
	return f.record("fullscreen %t", on)
}

func (f *fakeController) Detach() error {
	f.detached = true
	return f.record("detach")
}

func (f *fakeController) Attach() error {
	f.detached = false
	return f.record("attach")
}

func (f *fakeController) MediaInfo(context.Context, mo.Option[string]) (media.Info, error) {
	return media.Info{FormatName: "matroska", Duration: 90}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b *statefulBubble, msgs ...tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range msgs {
		_, cmd := b.Update(msg)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func newTestBubble(ctrl *fakeController) *statefulBubble {
	b := newBubble(ctrl, &Options{Path: "/media/clip.mkv"})
	b.resize(100, 40)
	b.status = media.Status{Volume: 80, Speed: 1, Duration: 60}
	return b
}

func TestPlaybackKeys(t *testing.T) {
	Convey("Given a controller in play state", t, func() {
		ctrl := &fakeController{}
		b := newTestBubble(ctrl)

		Convey("Transport keys reach the controller", func() {
			press(b,
				tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
				tea.KeyMsg{Type: tea.KeyLeft},
				tea.KeyMsg{Type: tea.KeyRight},
				runes(","),
				runes("."),
			)
			So(ctrl.Calls(), ShouldResemble, []string{"toggle", "seek-rel -5", "seek-rel 5", "frame-back", "frame"})
		})

		Convey("Speed and volume are clamped", func() {
			b.status.Speed = maxSpeed
			b.status.Volume = 2
			press(b, runes("]"), runes("9"))
			So(ctrl.Calls(), ShouldResemble, []string{"speed 4", "volume 0"})
		})

		Convey("f toggles fullscreen", func() {
			press(b, runes("f"), runes("f"))
			So(ctrl.Calls(), ShouldResemble, []string{"fullscreen true", "fullscreen false"})
		})

		Convey("d toggles between detached and attached", func() {
			cmds := press(b, runes("d"), runes("d"))
			So(ctrl.Calls(), ShouldResemble, []string{"detach", "attach"})
			So(cmds[1], ShouldNotBeNil)
		})

		Convey("s saves a screenshot named after the file", func() {
			b.status.Position = 12.5
			press(b, runes("s"))
			calls := ctrl.Calls()
			So(calls, ShouldHaveLength, 1)
			So(calls[0], ShouldEndWith, "clip_0012.50.png")
		})

		Convey("q quits", func() {
			cmds := press(b, runes("q"))
			So(cmds[0], ShouldNotBeNil)
			So(cmds[0](), ShouldResemble, tea.QuitMsg{})
		})

		Convey("Failures become notices", func() {
			ctrl.failWith = errors.New("player not initialized")
			cmds := press(b, runes("f"))
			So(cmds[0], ShouldNotBeNil)
			So(cmds[0](), ShouldEqual, icon.Get(icon.Warn)+" player not initialized")
			press(b, "player not initialized")
			So(b.notifier.Notice(), ShouldEqual, "player not initialized")
		})
	})
}

func TestTrackSelection(t *testing.T) {
	Convey("Given a file with tracks", t, func() {
		ctrl := &fakeController{tracks: media.TrackList{
			Audio: []media.Track{
				{ID: 1, Type: media.TrackAudio, Lang: mo.Some("jpn")},
				{ID: 2, Type: media.TrackAudio, Lang: mo.Some("eng"), Title: mo.Some("Commentary")},
			},
			Subtitle: []media.Track{
				{ID: 1, Type: media.TrackSubtitle, Lang: mo.Some("eng"), Title: mo.Some("Signs")},
			},
		}}
		b := newTestBubble(ctrl)

		Convey("a lists audio tracks and enter selects one", func() {
			press(b, runes("a"))
			So(b.state, ShouldEqual, tracksState)
			So(b.tracksC.Items(), ShouldHaveLength, 2)

			press(b, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
			So(ctrl.Calls(), ShouldResemble, []string{"aid 2"})
			So(b.state, ShouldEqual, playState)
		})

		Convey("t lists subtitles with an off entry first", func() {
			press(b, runes("t"))
			So(b.tracksC.Items(), ShouldHaveLength, 2)

			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(ctrl.Calls(), ShouldResemble, []string{"sid off"})
		})

		Convey("esc goes back without selecting", func() {
			press(b, runes("t"), tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, playState)
			So(ctrl.Calls(), ShouldBeEmpty)
		})

		Convey("Language preferences apply once the file has loaded", func() {
			b.pending = pending{resume: mo.Some(30.0), alang: "eng", slang: "sign"}

			ctrl.status = media.Status{}
			b.refresh()
			So(ctrl.Calls(), ShouldBeEmpty)

			ctrl.status = media.Status{Duration: 60}
			b.refresh()
			So(ctrl.Calls(), ShouldResemble, []string{"seek 30", "aid 2", "sid 1"})
			So(b.pending.done(), ShouldBeTrue)

			b.refresh()
			So(ctrl.Calls(), ShouldHaveLength, 3)
		})
	})
}

func TestMatchTrack(t *testing.T) {
	tracks := []media.Track{
		{ID: 3, Lang: mo.Some("jpn")},
		{ID: 4, Lang: mo.Some("eng"), Title: mo.Some("Full Subtitles")},
		{ID: 5, Lang: mo.Some("en"), Title: mo.Some("Signs & Songs")},
	}

	Convey("Exact languages win", t, func() {
		So(matchTrack(tracks, "EN"), ShouldResemble, mo.Some[int64](5))
		So(matchTrack(tracks, "jpn"), ShouldResemble, mo.Some[int64](3))
	})

	Convey("Titles match fuzzily", t, func() {
		So(matchTrack(tracks, "songs"), ShouldResemble, mo.Some[int64](5))
		So(matchTrack(tracks, "full"), ShouldResemble, mo.Some[int64](4))
	})

	Convey("No match is none", t, func() {
		So(matchTrack(tracks, "deu").IsAbsent(), ShouldBeTrue)
		So(matchTrack(tracks, " ").IsAbsent(), ShouldBeTrue)
		So(matchTrack(nil, "eng").IsAbsent(), ShouldBeTrue)
	})
}

func TestView(t *testing.T) {
	Convey("Given a playing file", t, func() {
		ctrl := &fakeController{detached: true}
		b := newTestBubble(ctrl)
		b.status = media.Status{Playing: true, Position: 65, Duration: 3725, Volume: 80, Speed: 1}
		b.levels = ctrl.AudioLevels()

		view := b.View()

		Convey("The status line shows clocks and mode", func() {
			So(view, ShouldContainSubstring, "1:05 / 1:02:05")
			So(view, ShouldContainSubstring, "detached")
			So(view, ShouldContainSubstring, "clip.mkv")
		})

		Convey("Both level meters are drawn", func() {
			So(view, ShouldContainSubstring, "-12.0 dB")
			So(view, ShouldContainSubstring, "-3.0 dB")
		})

		Convey("Info shows the probed container", func() {
			press(b, runes("i"))
			So(b.View(), ShouldContainSubstring, "Probing")
			press(b, infoMsg(media.Info{FormatName: "matroska"}))
			So(b.View(), ShouldContainSubstring, "matroska")
		})

		Convey("Errors have their own view", func() {
			press(b, errors.New("engine gone"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "engine gone")
			press(b, tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, playState)
		})
	})

	Convey("Closing the video window quits", t, func() {
		closed := make(chan struct{}, 1)
		b := newBubble(&fakeController{}, &Options{Closed: closed})
		closed <- struct{}{}
		So(b.waitClosed()(), ShouldResemble, surfaceClosedMsg{})

		_, cmd := b.Update(surfaceClosedMsg{})
		So(cmd(), ShouldResemble, tea.QuitMsg{})
	})

	Convey("Clocks are clamped at zero", t, func() {
		So(formatClock(-1), ShouldEqual, "0:00")
		So(strings.Count(formatClock(59.9), ":"), ShouldEqual, 1)
	})
}
