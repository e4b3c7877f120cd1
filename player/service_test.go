package player

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/engine/enginetest"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/probe"
	"github.com/amvnote/amvnote/surface"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeProber struct {
	delay    time.Duration
	info     media.Info
	infoErr  error
	image    probe.Image
	imageErr error

	metadataCalls  atomic.Int32
	thumbnailCalls atomic.Int32
	lastWidth      atomic.Int32
}

func (p *fakeProber) Metadata(ctx context.Context, path string) (media.Info, error) {
	p.metadataCalls.Add(1)
	time.Sleep(p.delay)
	return p.info, p.infoErr
}

func (p *fakeProber) Thumbnail(ctx context.Context, path string, seconds float64, width int) (probe.Image, error) {
	p.thumbnailCalls.Add(1)
	p.lastWidth.Store(int32(width))
	time.Sleep(p.delay)
	return p.image, p.imageErr
}

type fakeHost struct {
	handle winsys.Handle
	focus  atomic.Int32
}

func (h *fakeHost) Handle() winsys.Handle { return h.handle }
func (h *fakeHost) Focus()                { h.focus.Add(1) }

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Notify(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestWithoutEngine(t *testing.T) {
	Convey("Given a service without a window system", t, func() {
		s := New(Options{Prober: &fakeProber{infoErr: errors.New("no tools")}})

		Convey("Reads report defaults", func() {
			So(s.IsAvailable(), ShouldBeFalse)
			So(s.Status(), ShouldResemble, media.Status{Playing: false, Position: 0, Duration: 0, Volume: 80, Speed: 1})
			tracks := s.Tracks()
			So(tracks.Audio, ShouldBeEmpty)
			So(tracks.Subtitle, ShouldBeEmpty)
			So(tracks.Audio, ShouldNotBeNil)
			So(s.AudioLevels(), ShouldResemble, media.AudioLevels{Left: -90, Right: -90, Overall: -90, Available: false})
		})

		Convey("Playback operations are not initialized", func() {
			So(s.Play(), ShouldEqual, ErrNotInitialized)
			So(s.Seek(3), ShouldEqual, ErrNotInitialized)
			So(s.SetSubtitleTrack(mo.None[int64]()), ShouldEqual, ErrNotInitialized)
			So(s.Screenshot("x.png"), ShouldEqual, ErrNotInitialized)

			err := s.Load("clip.mkv")
			So(errors.Is(err, ErrNotInitialized), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "mpv library")
		})

		Convey("Window operations have no surface", func() {
			So(s.Show(), ShouldEqual, ErrNoSurface)
			So(s.SetFullscreen(true), ShouldEqual, ErrNoSurface)
			So(s.Detach(), ShouldEqual, ErrNoSurface)
			So(s.SyncOverlay(), ShouldEqual, ErrNoSurface)
			So(s.IsVisible(), ShouldBeFalse)
			So(s.IsFullscreen(), ShouldBeFalse)
			So(s.SurfaceHandle().IsAbsent(), ShouldBeTrue)
		})

		Convey("Media info of the loaded file needs an engine", func() {
			_, err := s.MediaInfo(context.Background(), mo.None[string]())
			So(err, ShouldEqual, ErrNotInitialized)
		})

		Convey("Frame previews need a path", func() {
			_, err := s.FramePreview(context.Background(), mo.None[string](), 1, mo.None[int]())
			So(err, ShouldEqual, ErrNoMedia)
			_, err = s.FramePreview(context.Background(), mo.Some("  "), 1, mo.None[int]())
			So(err, ShouldEqual, ErrNoMedia)
		})
	})

	Convey("An unavailable engine disables playback and releases the surface", t, func() {
		sys := winsys.NewFake()
		s := New(Options{
			System: sys,
			Engine: func() (engine.API, error) { return nil, engine.ErrUnavailable },
		})
		So(s.IsAvailable(), ShouldBeFalse)
		So(sys.Count("CreateSurface"), ShouldEqual, 1)
		So(sys.Count("Destroy"), ShouldEqual, 1)
		So(s.Show(), ShouldEqual, ErrNoSurface)
	})

	Convey("A failing engine initialization also disables playback", t, func() {
		api := enginetest.New()
		api.InitCode = -1
		s := New(Options{
			System: winsys.NewFake(),
			Engine: func() (engine.API, error) { return api, nil },
		})
		So(s.IsAvailable(), ShouldBeFalse)
		So(api.Destroyed, ShouldEqual, 1)
	})
}

type fixture struct {
	sys      *winsys.Fake
	api      *enginetest.API
	host     *fakeHost
	overlay  winsys.Handle
	notes    *recorder
	prober   *fakeProber
	service  *Service
	surfaceH winsys.Handle
}

func newFixture(detach bool) *fixture {
	f := &fixture{
		sys:    winsys.NewFake(),
		api:    enginetest.New(),
		notes:  &recorder{},
		prober: &fakeProber{},
	}
	// The host is a framed terminal window.
	f.host = &fakeHost{handle: f.sys.AddWindow(winsys.Rect{X: 0, Y: 0, W: 1280, H: 720}, winsys.StyleDetached)}
	f.overlay = f.sys.AddWindow(winsys.Rect{W: 10, H: 10}, winsys.StyleOverlay)
	_ = f.sys.Hide(f.overlay)

	f.service = New(Options{
		System:        f.sys,
		Host:          f.host,
		Overlay:       mo.Some(f.overlay),
		Notifier:      f.notes,
		Engine:        func() (engine.API, error) { return f.api, nil },
		Prober:        f.prober,
		DetachOnStart: detach,
	})
	f.surfaceH = f.service.SurfaceHandle().OrEmpty()
	return f
}

func TestBootstrap(t *testing.T) {
	Convey("Given a bootstrapped service", t, func() {
		f := newFixture(true)
		s := f.service

		Convey("The engine renders into the surface", func() {
			So(s.IsAvailable(), ShouldBeTrue)
			So(f.surfaceH, ShouldNotEqual, winsys.Handle(0))
			So(f.api.Options["wid"], ShouldEqual, strconv.FormatUint(uint64(f.surfaceH), 10))
		})

		Convey("The surface starts detached and hidden", func() {
			So(s.Mode(), ShouldEqual, surface.Detached)
			So(s.IsVisible(), ShouldBeFalse)
		})

		Convey("Playback goes through the session", func() {
			So(s.Load(`C:\media\clip.mkv`), ShouldBeNil)
			So(s.Play(), ShouldBeNil)
			So(s.SetVolume(55), ShouldBeNil)
			So(f.api.Recorded(), ShouldContain, "loadfile C:/media/clip.mkv")
			So(s.Status().Playing, ShouldBeTrue)
			So(s.Status().Volume, ShouldEqual, 55)
		})

		Convey("Close releases everything once", func() {
			s.Close()
			s.Close()
			So(f.api.Destroyed, ShouldEqual, 1)
			So(f.sys.Count("Destroy"), ShouldEqual, 1)
			So(s.Play(), ShouldEqual, ErrNotInitialized)
		})
	})

	Convey("Without detach on start the surface stays embedded", t, func() {
		f := newFixture(false)
		So(f.service.Mode(), ShouldEqual, surface.Embedded)
	})
}

func TestWindowOperations(t *testing.T) {
	Convey("Given a bootstrapped service with an overlay", t, func() {
		f := newFixture(true)
		s := f.service
		ov := func() winsys.FakeWindow { return f.sys.Window(f.overlay) }

		Convey("Showing the detached surface aligns the overlay", func() {
			So(s.Show(), ShouldBeNil)
			client, _ := f.sys.ClientRectScreen(f.surfaceH)
			So(ov().Visible, ShouldBeTrue)
			So(ov().Rect, ShouldResemble, client)
		})

		Convey("Fullscreen focuses the overlay", func() {
			So(s.SetFullscreen(true), ShouldBeNil)
			So(s.IsFullscreen(), ShouldBeTrue)
			So(s.IsVisible(), ShouldBeTrue)
			So(ov().Rect, ShouldResemble, f.sys.Monitor)
			So(f.sys.Focused, ShouldEqual, f.overlay)
		})

		Convey("Leaving fullscreen while detached keeps focus on the overlay", func() {
			So(s.SetFullscreen(true), ShouldBeNil)
			f.sys.Focused = 0
			So(s.SetFullscreen(false), ShouldBeNil)
			So(s.Mode(), ShouldEqual, surface.Detached)
			So(f.sys.Focused, ShouldEqual, f.overlay)
			So(f.host.focus.Load(), ShouldEqual, 0)
		})

		Convey("Attaching hides the overlay", func() {
			So(s.Show(), ShouldBeNil)
			So(s.Attach(), ShouldBeNil)
			So(s.Mode(), ShouldEqual, surface.Embedded)
			So(ov().Visible, ShouldBeFalse)
		})

		Convey("Leaving fullscreen while embedded focuses the host", func() {
			So(s.Attach(), ShouldBeNil)
			So(s.SetFullscreen(true), ShouldBeNil)
			So(ov().Visible, ShouldBeTrue)
			So(s.SetFullscreen(false), ShouldBeNil)
			So(ov().Visible, ShouldBeFalse)
			So(f.host.focus.Load(), ShouldEqual, 1)
		})

		Convey("Hide hides both windows", func() {
			So(s.Show(), ShouldBeNil)
			So(s.Hide(), ShouldBeNil)
			So(s.IsVisible(), ShouldBeFalse)
			So(ov().Visible, ShouldBeFalse)
		})

		Convey("HideSurface leaves the overlay alone", func() {
			So(s.Show(), ShouldBeNil)
			So(s.HideSurface(), ShouldBeNil)
			So(s.IsVisible(), ShouldBeFalse)
			So(ov().Visible, ShouldBeTrue)
		})

		Convey("Embedded geometry is relative to the host client area", func() {
			So(s.Attach(), ShouldBeNil)
			So(s.SetGeometry(10, 20, 300, 200), ShouldBeNil)
			want := winsys.Rect{X: 10 + winsys.FakeBorder, Y: 20 + winsys.FakeCaption, W: 300, H: 200}
			So(f.sys.Window(f.surfaceH).Rect, ShouldResemble, want)
		})

		Convey("Detached geometry moves the overlay along", func() {
			So(s.Show(), ShouldBeNil)
			So(s.SetDetachedGeometry(100, 100, 800, 450), ShouldBeNil)
			client, _ := f.sys.ClientRectScreen(f.surfaceH)
			So(ov().Rect, ShouldResemble, client)
		})

		Convey("A user close hides the overlay and notifies", func() {
			So(s.Show(), ShouldBeNil)
			f.sys.Close(f.surfaceH)
			So(ov().Visible, ShouldBeFalse)
			So(s.IsVisible(), ShouldBeFalse)
			So(f.notes.Events(), ShouldResemble, []string{EventSurfaceClosed})
		})
	})
}

func TestMediaInfo(t *testing.T) {
	Convey("Given a service with a scripted prober", t, func() {
		f := newFixture(true)
		s := f.service
		ctx := context.Background()

		path := filepath.Join(t.TempDir(), "clip.mkv")
		So(filesystem.API().WriteFile(path, make([]byte, 2048), 0o644), ShouldBeNil)

		Convey("Probe results are cached", func() {
			f.prober.info = media.Info{VideoCodec: "h264"}
			for i := 0; i < 2; i++ {
				info, err := s.MediaInfo(ctx, mo.Some(path))
				So(err, ShouldBeNil)
				So(info.VideoCodec, ShouldEqual, "h264")
			}
			So(f.prober.metadataCalls.Load(), ShouldEqual, 1)
		})

		Convey("A failed probe falls back to the engine for the loaded file", func() {
			f.prober.infoErr = probe.ErrProbe
			f.api.Set("path", path)
			f.api.Set("file-format", "matroska")
			info, err := s.MediaInfo(ctx, mo.Some(path))
			So(err, ShouldBeNil)
			So(info.FormatName, ShouldEqual, "matroska")
		})

		Convey("A failed probe of another file falls back to size and extension", func() {
			f.prober.infoErr = probe.ErrProbe
			f.api.Set("path", "/elsewhere.mp4")
			info, err := s.MediaInfo(ctx, mo.Some(path))
			So(err, ShouldBeNil)
			So(info, ShouldResemble, media.Info{FileSize: 2048, FormatName: "mkv"})

			Convey("and the fallback is cached too", func() {
				_, _ = s.MediaInfo(ctx, mo.Some(path))
				So(f.prober.metadataCalls.Load(), ShouldEqual, 1)
			})
		})

		Convey("A slow probe is abandoned at the bound", func() {
			f.prober.delay = 2 * time.Second
			s.opts.MetadataTimeout = 100 * time.Millisecond
			start := time.Now()
			info, err := s.MediaInfo(ctx, mo.Some(path))
			So(err, ShouldBeNil)
			So(time.Since(start), ShouldBeLessThan, time.Second)
			So(info.FormatName, ShouldEqual, "mkv")
		})

		Convey("Without a path the engine describes the loaded file", func() {
			f.api.Set("path", path)
			f.api.Set("video-codec", "vp9")
			info, err := s.MediaInfo(ctx, mo.None[string]())
			So(err, ShouldBeNil)
			So(info.VideoCodec, ShouldEqual, "vp9")

			cached, _ := s.MediaInfo(ctx, mo.Some(path))
			So(cached.VideoCodec, ShouldEqual, "vp9")
			So(f.prober.metadataCalls.Load(), ShouldEqual, 0)
		})
	})
}

func TestFramePreview(t *testing.T) {
	Convey("Given a service with a scripted prober", t, func() {
		f := newFixture(true)
		s := f.service
		ctx := context.Background()
		png := probe.NewImage([]byte("png"))

		Convey("Successful previews are cached", func() {
			f.prober.image = png
			for i := 0; i < 2; i++ {
				image, err := s.FramePreview(ctx, mo.Some("clip.mkv"), 1.5, mo.None[int]())
				So(err, ShouldBeNil)
				So(image, ShouldResemble, png)
			}
			So(f.prober.thumbnailCalls.Load(), ShouldEqual, 1)
			So(f.prober.lastWidth.Load(), ShouldEqual, 320)
		})

		Convey("Widths are clamped", func() {
			f.prober.image = png
			_, _ = s.FramePreview(ctx, mo.Some("clip.mkv"), 1.5, mo.Some(4000))
			So(f.prober.lastWidth.Load(), ShouldEqual, probe.MaxWidth)
			_, _ = s.FramePreview(ctx, mo.Some("clip.mkv"), 1.5, mo.Some(1))
			So(f.prober.lastWidth.Load(), ShouldEqual, probe.MinWidth)
		})

		Convey("Failures are not cached", func() {
			f.prober.imageErr = probe.ErrEmptyImage
			_, err := s.FramePreview(ctx, mo.Some("clip.mkv"), 1.5, mo.None[int]())
			So(errors.Is(err, probe.ErrEmptyImage), ShouldBeTrue)
			_, _ = s.FramePreview(ctx, mo.Some("clip.mkv"), 1.5, mo.None[int]())
			So(f.prober.thumbnailCalls.Load(), ShouldEqual, 2)
		})

		Convey("The loaded file is the default", func() {
			f.prober.image = png
			f.api.Set("path", "/media/loaded.mkv")
			_, err := s.FramePreview(ctx, mo.None[string](), 0, mo.None[int]())
			So(err, ShouldBeNil)
		})

		Convey("A slow preview times out before its bound", func() {
			f.prober.delay = 2 * time.Second
			s.opts.PreviewTimeout = 100 * time.Millisecond
			start := time.Now()
			_, err := s.FramePreview(ctx, mo.Some("clip.mkv"), 1, mo.None[int]())
			So(errors.Is(err, probe.ErrTimeout), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})
}
