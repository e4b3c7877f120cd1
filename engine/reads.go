package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amvnote/amvnote/media"
	"github.com/samber/mo"
)

// Position is the playback position in seconds, 0 when unknown.
func (s *Session) Position() (v float64) {
	s.read(func(h Handle) { v = s.double(h, "time-pos", 0) })
	return
}

// Duration is the file length in seconds, 0 when unknown.
func (s *Session) Duration() (v float64) {
	s.read(func(h Handle) { v = s.double(h, "duration", 0) })
	return
}

// Paused defaults to true.
func (s *Session) Paused() bool {
	v := true
	s.read(func(h Handle) { v = s.flag(h, "pause", true) })
	return v
}

// CurrentPath is the loaded file, empty when idle.
func (s *Session) CurrentPath() (v string) {
	s.read(func(h Handle) { v = s.str(h, "path") })
	return
}

// Status reads the playback snapshot in one critical section.
func (s *Session) Status() media.Status {
	status := media.Status{Volume: 100, Speed: 1}
	s.read(func(h Handle) {
		status.Playing = !s.flag(h, "pause", true)
		status.Position = s.double(h, "time-pos", 0)
		status.Duration = s.double(h, "duration", 0)
		status.Volume = s.double(h, "volume", 100)
		status.Speed = s.double(h, "speed", 1)
	})
	return status
}

// Tracks walks track-list. Unreadable entries yield zero ids and empty types.
func (s *Session) Tracks() (tracks []media.Track) {
	s.read(func(h Handle) { tracks = s.tracks(h) })
	return
}

func (s *Session) tracks(h Handle) []media.Track {
	count := parseInt(s.str(h, "track-list/count"))

	tracks := make([]media.Track, 0, count)
	for i := int64(0); i < count; i++ {
		prefix := fmt.Sprintf("track-list/%d/", i)
		tracks = append(tracks, media.Track{
			ID:       parseInt(s.str(h, prefix+"id")),
			Type:     s.str(h, prefix+"type"),
			Title:    nonEmpty(s.str(h, prefix+"title")),
			Lang:     nonEmpty(s.str(h, prefix+"lang")),
			Codec:    nonEmpty(s.str(h, prefix+"codec")),
			External: s.str(h, prefix+"external") == "yes",
		})
	}
	return tracks
}

// MediaInfo derives a metadata record from the loaded file's properties.
// Fields the engine does not expose stay zero.
func (s *Session) MediaInfo() (info media.Info) {
	s.read(func(h Handle) {
		for _, t := range s.tracks(h) {
			switch {
			case t.Type == media.TrackAudio:
				info.AudioTrackCount++
			case t.Type == media.TrackVideo:
				info.VideoTrackCount++
			case t.IsSubtitle():
				info.SubtitleTrackCount++
			}
		}

		num := func(name string) int64 { return parseInt(s.str(h, name)) }

		info.Width = num("width")
		info.Height = num("height")
		info.VideoCodec = s.str(h, "video-codec")
		info.AudioCodec = s.str(h, "audio-codec-name")
		info.FileSize = num("file-size")
		info.VideoBitrate = num("video-bitrate")
		info.AudioBitrate = num("audio-bitrate")
		info.FPS = s.double(h, "container-fps", 0)
		info.SampleRate = num("audio-params/samplerate")
		info.Channels = num("audio-params/channel-count")
		info.FormatName = s.str(h, "file-format")
		info.Duration = s.double(h, "duration", 0)
		info.OverallBitrate = info.VideoBitrate + info.AudioBitrate
		info.VideoProfile = s.str(h, "video-params/profile")
		info.PixelFormat = s.str(h, "video-params/pixelformat")
		info.ColorSpace = s.str(h, "video-params/colormatrix")
		info.ColorPrimaries = s.str(h, "video-params/primaries")
		info.ColorTransfer = s.str(h, "video-params/gamma")
		info.VideoBitDepth = num("video-params/bit-depth")
		info.AudioChannelLayout = s.str(h, "audio-params/channel-layout")
		info.SampleAspectRatio = s.str(h, "video-params/sar")
		info.DisplayAspectRatio = s.str(h, "video-params/dar")
		info.RotationDegrees = num("video-params/rotate")
	})
	return
}

var levelPrefixes = []string{
	"af-metadata/dbmeter/by-key/",
	"af-metadata/@dbmeter/by-key/",
	"af-metadata/by-key/",
}

func levelKeys(channel string) []string {
	var keys []string
	for _, prefix := range levelPrefixes {
		keys = append(keys,
			prefix+"lavfi.astats."+channel+".RMS_level",
			prefix+"lavfi.astats."+channel+".Peak_level",
		)
	}
	return keys
}

var (
	leftLevelKeys    = levelKeys("1")
	rightLevelKeys   = levelKeys("2")
	overallLevelKeys = append(levelKeys("Overall"),
		"af-metadata/dbmeter/by-key/lavfi.r128.M",
		"af-metadata/@dbmeter/by-key/lavfi.r128.M",
		"af-metadata/by-key/lavfi.r128.M",
	)
)

// AudioLevels reads the dbmeter filter. A missing channel falls back to the
// overall level, and a missing overall level is the mean of both channels.
func (s *Session) AudioLevels() media.AudioLevels {
	var left, right, overall mo.Option[float64]
	s.read(func(h Handle) {
		first := func(keys []string) mo.Option[float64] {
			for _, k := range keys {
				if v, ok := ParseDB(s.str(h, k)).Get(); ok {
					return mo.Some(v)
				}
			}
			return mo.None[float64]()
		}
		left = first(leftLevelKeys)
		right = first(rightLevelKeys)
		overall = first(overallLevelKeys)
	})

	l := left.OrElse(overall.OrElse(media.FloorDB))
	r := right.OrElse(overall.OrElse(l))

	return media.AudioLevels{
		Left:      l,
		Right:     r,
		Overall:   overall.OrElse((l + r) / 2),
		Available: left.IsPresent() || right.IsPresent() || overall.IsPresent(),
	}
}

// ParseDB parses a level such as "-23.5 dB". Infinite levels clamp to the floor.
func ParseDB(raw string) mo.Option[float64] {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") {
		return mo.None[float64]()
	}
	if strings.EqualFold(value, "-inf") || strings.EqualFold(value, "inf") {
		return mo.Some(media.FloorDB)
	}

	value = strings.NewReplacer("dB", "", "db", "", ",", ".").Replace(value)
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return mo.None[float64]()
	}

	v, err := strconv.ParseFloat(fields[0], 64)
	switch {
	case err != nil || math.IsNaN(v):
		return mo.None[float64]()
	case math.IsInf(v, 0):
		return mo.Some(media.FloorDB)
	}
	return mo.Some(v)
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func nonEmpty(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
