// Package probe extracts media metadata and preview frames with external
// tools, falling back to the engine when they are unavailable.
package probe

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/util"
	"github.com/amvnote/amvnote/where"
	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"
)

// Preview widths are clamped to this range.
const (
	MinWidth = 120
	MaxWidth = 640
)

// Timeouts bounds each external tool.
type Timeouts struct {
	FFprobe   time.Duration
	Mediainfo time.Duration
	FFmpeg    time.Duration
}

// DefaultTimeouts are the bounds used when none are configured.
var DefaultTimeouts = Timeouts{
	FFprobe:   4 * time.Second,
	Mediainfo: 2500 * time.Millisecond,
	FFmpeg:    3500 * time.Millisecond,
}

// Options configures a Prober. Zero fields take defaults.
type Options struct {
	Runner   Runner
	Tools    Tools
	Timeouts Timeouts
	// Grabber renders frames when ffmpeg fails. Nil disables the fallback.
	Grabber Grabber
}

// OptionsFromConfig builds options from the probe.* and preview.* keys.
func OptionsFromConfig() Options {
	ms := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Millisecond
	}

	return Options{
		Runner: ExecRunner{},
		Tools:  ToolsFromConfig(),
		Timeouts: Timeouts{
			FFprobe:   ms(key.ProbeFFprobeTimeoutMs),
			Mediainfo: ms(key.ProbeMediainfoTimeoutMs),
			FFmpeg:    ms(key.ProbeFFmpegTimeoutMs),
		},
		Grabber: &EngineGrabber{
			Sessions: SharedSessions,
			Dir:      where.Temp(),
			LoadWait: ms(key.PreviewLoadWaitMs),
			FileWait: ms(key.PreviewFileWaitMs),
		},
	}
}

// Prober runs the metadata and thumbnail chains. Concurrent identical
// requests share one execution.
type Prober struct {
	runner   Runner
	tools    Tools
	timeouts Timeouts
	grabber  Grabber
	group    singleflight.Group
}

func New(opts Options) *Prober {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Tools.FFprobe == "" {
		opts.Tools.FFprobe = FFprobe
	}
	if opts.Tools.FFmpeg == "" {
		opts.Tools.FFmpeg = FFmpeg
	}
	if opts.Tools.Mediainfo == "" {
		opts.Tools.Mediainfo = Mediainfo
	}
	if opts.Timeouts.FFprobe <= 0 {
		opts.Timeouts.FFprobe = DefaultTimeouts.FFprobe
	}
	if opts.Timeouts.Mediainfo <= 0 {
		opts.Timeouts.Mediainfo = DefaultTimeouts.Mediainfo
	}
	if opts.Timeouts.FFmpeg <= 0 {
		opts.Timeouts.FFmpeg = DefaultTimeouts.FFmpeg
	}

	return &Prober{
		runner:   opts.Runner,
		tools:    opts.Tools,
		timeouts: opts.Timeouts,
		grabber:  opts.Grabber,
	}
}

// Tools returns the resolved tool executables.
func (p *Prober) Tools() Tools {
	return p.tools
}

func (p *Prober) run(ctx context.Context, bound time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()
	return p.runner.Run(ctx, name, args...)
}

// Metadata probes path with ffprobe, then mediainfo. When both fail the
// error wraps ErrProbe and carries both reasons.
func (p *Prober) Metadata(ctx context.Context, path string) (media.Info, error) {
	v, err, _ := p.group.Do("meta|"+cache.MediaKey(path), func() (any, error) {
		return p.metadata(context.WithoutCancel(ctx), path)
	})
	if err != nil {
		return media.Info{}, err
	}
	return v.(media.Info), nil
}

func (p *Prober) metadata(ctx context.Context, path string) (media.Info, error) {
	logger := log.WithField("path", path)

	info, ffprobeErr := p.ffprobe(ctx, path)
	if ffprobeErr == nil {
		return info, nil
	}
	logger.Debugf("ffprobe failed, trying mediainfo: %v", ffprobeErr)

	info, mediainfoErr := p.mediainfo(ctx, path)
	if mediainfoErr == nil {
		return info, nil
	}
	logger.Warnf("metadata probe failed: ffprobe: %v; mediainfo: %v", ffprobeErr, mediainfoErr)

	return media.Info{}, fmt.Errorf("%w: ffprobe: %w; mediainfo: %w", ErrProbe, ffprobeErr, mediainfoErr)
}

func (p *Prober) ffprobe(ctx context.Context, path string) (media.Info, error) {
	out, err := p.run(ctx, p.timeouts.FFprobe, p.tools.FFprobe, FFprobeArgs(path)...)
	if err != nil {
		return media.Info{}, err
	}
	return ParseFFprobe(out)
}

func (p *Prober) mediainfo(ctx context.Context, path string) (media.Info, error) {
	out, err := p.run(ctx, p.timeouts.Mediainfo, p.tools.Mediainfo, MediainfoArgs(path)...)
	if err != nil {
		return media.Info{}, err
	}
	return ParseMediainfo(out)
}

// SafeSeconds maps negative and non-finite timestamps to zero.
func SafeSeconds(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return seconds
}

// ClampWidth limits a preview width to [MinWidth, MaxWidth].
func ClampWidth(width int) int {
	return util.Clamp(width, MinWidth, MaxWidth)
}

// FFmpegArgs is the argument list extracting one JPEG frame of path to stdout.
func FFmpegArgs(path string, seconds float64, width int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin", "-threads", "1",
		"-ss", strconv.FormatFloat(SafeSeconds(seconds), 'f', 3, 64),
		"-i", path,
		"-an", "-sn", "-dn",
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-1:flags=lanczos", ClampWidth(width)),
		"-q:v", "7",
		"-f", "image2pipe", "-vcodec", "mjpeg", "-",
	}
}

// Thumbnail renders the frame of path at seconds, width pixels wide. It tries
// ffmpeg first and the engine second.
func (p *Prober) Thumbnail(ctx context.Context, path string, seconds float64, width int) (Image, error) {
	seconds, width = SafeSeconds(seconds), ClampWidth(width)
	k := cache.NewFrameKey(path, seconds, width)

	v, err, _ := p.group.Do(fmt.Sprintf("frame|%s|%d|%d", k.Media, k.Tick, k.Width), func() (any, error) {
		return p.thumbnail(context.WithoutCancel(ctx), path, seconds, width)
	})
	if err != nil {
		return Image{}, err
	}
	return v.(Image), nil
}

func (p *Prober) thumbnail(ctx context.Context, path string, seconds float64, width int) (Image, error) {
	logger := log.WithField("path", path)

	image, ffmpegErr := p.ffmpeg(ctx, path, seconds, width)
	if ffmpegErr == nil {
		return image, nil
	}
	logger.Debugf("ffmpeg frame failed, trying engine: %v", ffmpegErr)

	engineErr := errNoGrabber
	if p.grabber != nil {
		if image, engineErr = p.grabber.Grab(ctx, path, seconds); engineErr == nil {
			return image, nil
		}
	}
	logger.Warnf("frame preview failed: ffmpeg: %v; mpv: %v", ffmpegErr, engineErr)

	return Image{}, fmt.Errorf("ffmpeg: %w; mpv: %w", ffmpegErr, engineErr)
}

func (p *Prober) ffmpeg(ctx context.Context, path string, seconds float64, width int) (Image, error) {
	out, err := p.run(ctx, p.timeouts.FFmpeg, p.tools.FFmpeg, FFmpegArgs(path, seconds, width)...)
	if err != nil {
		return Image{}, err
	}
	if len(out) == 0 {
		return Image{}, ErrEmptyImage
	}
	return Image{MIME: MIMEJPEG, Data: out}, nil
}
