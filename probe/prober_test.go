package probe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// scripted answers each tool from a table and counts calls.
type scripted struct {
	mu    sync.Mutex
	out   map[string][]byte
	err   map[string]error
	calls map[string]*atomic.Int32
	args  map[string][]string
	delay time.Duration
}

func newScripted() *scripted {
	s := &scripted{
		out:   map[string][]byte{},
		err:   map[string]error{},
		calls: map[string]*atomic.Int32{},
		args:  map[string][]string{},
	}
	for _, tool := range []string{FFprobe, FFmpeg, Mediainfo} {
		s.calls[tool] = &atomic.Int32{}
	}
	return s
}

func (s *scripted) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.calls[name].Add(1)
	s.mu.Lock()
	s.args[name] = args
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err := s.err[name]; err != nil {
		return nil, err
	}
	return s.out[name], nil
}

type grabberFunc func(ctx context.Context, path string, seconds float64) (Image, error)

func (f grabberFunc) Grab(ctx context.Context, path string, seconds float64) (Image, error) {
	return f(ctx, path, seconds)
}

func TestMetadata(t *testing.T) {
	Convey("Given a prober over scripted tools", t, func() {
		runner := newScripted()
		p := New(Options{Runner: runner})
		ctx := context.Background()

		Convey("ffprobe answers first", func() {
			runner.out[FFprobe] = []byte(ffprobeSample)
			info, err := p.Metadata(ctx, "clip.mkv")
			So(err, ShouldBeNil)
			So(info.VideoCodec, ShouldEqual, "h264")
			So(runner.calls[Mediainfo].Load(), ShouldEqual, 0)
			So(runner.args[FFprobe], ShouldResemble, FFprobeArgs("clip.mkv"))
		})

		Convey("mediainfo covers a failing ffprobe", func() {
			runner.err[FFprobe] = errors.New("ffprobe unavailable")
			runner.out[Mediainfo] = []byte(mediainfoSample)
			info, err := p.Metadata(ctx, "clip.mp4")
			So(err, ShouldBeNil)
			So(info.FormatName, ShouldEqual, "MPEG-4")
			So(runner.args[Mediainfo], ShouldResemble, []string{"--Output=JSON", "clip.mp4"})
		})

		Convey("Invalid ffprobe output also falls through", func() {
			runner.out[FFprobe] = []byte("garbage")
			runner.out[Mediainfo] = []byte(mediainfoSample)
			_, err := p.Metadata(ctx, "clip.mp4")
			So(err, ShouldBeNil)
		})

		Convey("Both failing reports both reasons", func() {
			runner.err[FFprobe] = &TimeoutError{Tool: FFprobe, After: 4 * time.Second}
			runner.err[Mediainfo] = errors.New("mediainfo unavailable")
			_, err := p.Metadata(ctx, "clip.mp4")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrProbe), ShouldBeTrue)
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "ffprobe: ffprobe timeout (4s); mediainfo: mediainfo unavailable")
		})
	})
}

func TestThumbnail(t *testing.T) {
	Convey("Given a prober over scripted tools", t, func() {
		runner := newScripted()
		jpeg := []byte{0xFF, 0xD8, 0x00, 0x01, 0xFF, 0xD9}
		var grabs atomic.Int32
		grabber := grabberFunc(func(ctx context.Context, path string, seconds float64) (Image, error) {
			grabs.Add(1)
			return NewImage([]byte{0x89, 'P', 'N', 'G'}), nil
		})
		p := New(Options{Runner: runner, Grabber: grabber})
		ctx := context.Background()

		Convey("ffmpeg output is a JPEG", func() {
			runner.out[FFmpeg] = jpeg
			image, err := p.Thumbnail(ctx, "clip.mkv", 1.5, 320)
			So(err, ShouldBeNil)
			So(image.MIME, ShouldEqual, MIMEJPEG)
			So(image.DataURL(), ShouldStartWith, "data:image/jpeg;base64,")
			So(grabs.Load(), ShouldEqual, 0)
		})

		Convey("Arguments are sanitized", func() {
			runner.out[FFmpeg] = jpeg
			_, err := p.Thumbnail(ctx, "clip.mkv", -4, 5000)
			So(err, ShouldBeNil)
			So(runner.args[FFmpeg], ShouldResemble, FFmpegArgs("clip.mkv", 0, MaxWidth))
			So(runner.args[FFmpeg], ShouldContain, "0.000")
			So(runner.args[FFmpeg], ShouldContain, "scale=640:-1:flags=lanczos")
		})

		Convey("Empty ffmpeg output falls back to the engine", func() {
			image, err := p.Thumbnail(ctx, "clip.mkv", 1.5, 320)
			So(err, ShouldBeNil)
			So(image.MIME, ShouldEqual, MIMEPNG)
			So(grabs.Load(), ShouldEqual, 1)
		})

		Convey("Both failing reports both reasons", func() {
			runner.err[FFmpeg] = errors.New("no decoder")
			p := New(Options{Runner: runner, Grabber: grabberFunc(func(context.Context, string, float64) (Image, error) {
				return Image{}, ErrEmptyImage
			})})
			_, err := p.Thumbnail(ctx, "clip.mkv", 1.5, 320)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "ffmpeg: no decoder; mpv: no image extracted")
			So(errors.Is(err, ErrEmptyImage), ShouldBeTrue)
		})

		Convey("Without a grabber the engine stage is reported unavailable", func() {
			runner.err[FFmpeg] = errors.New("no decoder")
			_, err := New(Options{Runner: runner}).Thumbnail(ctx, "clip.mkv", 0, 320)
			So(err.Error(), ShouldContainSubstring, "mpv: engine preview unavailable")
		})

		Convey("Concurrent identical requests share one run", func() {
			runner.out[FFmpeg] = jpeg
			runner.delay = 100 * time.Millisecond
			done := make(chan struct{})
			for i := 0; i < 4; i++ {
				go func() {
					_, _ = p.Thumbnail(ctx, "clip.mkv", 2, 320)
					done <- struct{}{}
				}()
			}
			for i := 0; i < 4; i++ {
				<-done
			}
			So(runner.calls[FFmpeg].Load(), ShouldBeLessThan, 4)
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("Width and seconds are sanitized", t, func() {
		So(ClampWidth(10), ShouldEqual, MinWidth)
		So(ClampWidth(320), ShouldEqual, 320)
		So(ClampWidth(9999), ShouldEqual, MaxWidth)
	})

	Convey("JPEG sniffing needs both markers", t, func() {
		So(IsJPEG([]byte{0xFF, 0xD8, 0x00, 0xFF, 0xD9}), ShouldBeTrue)
		So(IsJPEG([]byte{0xFF, 0xD8, 0x00, 0x00}), ShouldBeFalse)
		So(IsJPEG([]byte{0xFF, 0xD8}), ShouldBeFalse)
		So(NewImage([]byte("png data")).Ext(), ShouldEqual, ".png")
	})

	Convey("Data URLs are base64", t, func() {
		So(Image{MIME: MIMEPNG, Data: []byte("hi")}.DataURL(), ShouldEqual, "data:image/png;base64,aGk=")
	})

	Convey("Timeout errors match ErrTimeout", t, func() {
		err := error(&TimeoutError{Tool: FFmpeg, After: 3500 * time.Millisecond})
		So(errors.Is(err, ErrTimeout), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "ffmpeg timeout (3.5s)")
	})
}
