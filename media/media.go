// Package media holds the records exchanged between the engine, the prober and callers.
package media

import (
	"github.com/samber/mo"
)

// Info describes a media file. Zero values mean "unknown".
type Info struct {
	Width              int64   `json:"width"`
	Height             int64   `json:"height"`
	VideoCodec         string  `json:"video_codec"`
	AudioCodec         string  `json:"audio_codec"`
	FileSize           int64   `json:"file_size"`
	VideoBitrate       int64   `json:"video_bitrate"`
	AudioBitrate       int64   `json:"audio_bitrate"`
	FPS                float64 `json:"fps"`
	SampleRate         int64   `json:"sample_rate"`
	Channels           int64   `json:"channels"`
	FormatName         string  `json:"format_name"`
	Duration           float64 `json:"duration"`
	FormatLongName     string  `json:"format_long_name"`
	OverallBitrate     int64   `json:"overall_bitrate"`
	VideoProfile       string  `json:"video_profile"`
	PixelFormat        string  `json:"pixel_format"`
	ColorSpace         string  `json:"color_space"`
	ColorPrimaries     string  `json:"color_primaries"`
	ColorTransfer      string  `json:"color_transfer"`
	VideoBitDepth      int64   `json:"video_bit_depth"`
	AudioChannelLayout string  `json:"audio_channel_layout"`
	AudioLanguage      string  `json:"audio_language"`
	AudioTrackCount    int64   `json:"audio_track_count"`
	VideoTrackCount    int64   `json:"video_track_count"`
	SubtitleTrackCount int64   `json:"subtitle_track_count"`
	VideoFrameCount    int64   `json:"video_frame_count"`
	SampleAspectRatio  string  `json:"sample_aspect_ratio"`
	DisplayAspectRatio string  `json:"display_aspect_ratio"`
	RotationDegrees    int64   `json:"rotation_degrees"`
}

// IsZero reports whether nothing at all is known about the file.
func (i Info) IsZero() bool {
	return i == Info{}
}

// Track types as reported by the engine.
const (
	TrackVideo    = "video"
	TrackAudio    = "audio"
	TrackSubtitle = "sub"
)

// Track is a single entry of the engine's track list.
type Track struct {
	ID       int64             `json:"id"`
	Type     string            `json:"type"`
	Title    mo.Option[string] `json:"title"`
	Lang     mo.Option[string] `json:"lang"`
	Codec    mo.Option[string] `json:"codec"`
	External bool              `json:"external"`
}

// IsSubtitle also accepts the long form some builds report.
func (t Track) IsSubtitle() bool {
	return t.Type == TrackSubtitle || t.Type == "subtitle"
}

// Label is a short human readable description of the track.
func (t Track) Label() string {
	label := t.Title.OrElse("")
	if lang, ok := t.Lang.Get(); ok {
		if label == "" {
			label = lang
		} else {
			label += " [" + lang + "]"
		}
	}
	if label == "" {
		label = t.Codec.OrElse(t.Type)
	}
	return label
}

// TrackList groups selectable tracks by kind.
type TrackList struct {
	Audio    []Track `json:"audio_tracks"`
	Subtitle []Track `json:"subtitle_tracks"`
}

// NewTrackList splits tracks into audio and subtitle lists, keeping order.
func NewTrackList(tracks []Track) TrackList {
	list := TrackList{Audio: []Track{}, Subtitle: []Track{}}
	for _, t := range tracks {
		switch {
		case t.Type == TrackAudio:
			list.Audio = append(list.Audio, t)
		case t.IsSubtitle():
			list.Subtitle = append(list.Subtitle, t)
		}
	}
	return list
}

// Status is a snapshot of playback state.
type Status struct {
	Playing  bool    `json:"is_playing"`
	Position float64 `json:"current_time"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`
	Speed    float64 `json:"speed"`
}

// IdleStatus is reported when no engine is available.
var IdleStatus = Status{Volume: 80, Speed: 1}

// FloorDB is the silence floor of the level meter.
const FloorDB = -90.0

// AudioLevels is a stereo level meter reading in dBFS.
type AudioLevels struct {
	Left      float64 `json:"left_db"`
	Right     float64 `json:"right_db"`
	Overall   float64 `json:"overall_db"`
	Available bool    `json:"available"`
}

// SilentLevels is reported when no engine is available.
var SilentLevels = AudioLevels{Left: FloorDB, Right: FloorDB, Overall: FloorDB}
