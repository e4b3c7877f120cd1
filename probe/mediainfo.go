package probe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amvnote/amvnote/media"
	"github.com/samber/lo"
)

type mediainfoOutput struct {
	Media struct {
		Track []mediainfoTrack `json:"track"`
	} `json:"media"`
}

type mediainfoTrack struct {
	AtType                  Text   `json:"@type"`
	Type                    Text   `json:"Type"`
	Format                  Text   `json:"Format"`
	CodecID                 Text   `json:"CodecID"`
	FormatCommercial        Text   `json:"Format_Commercial_IfAny"`
	FormatString            Text   `json:"Format_String"`
	FormatProfile           Text   `json:"Format_Profile"`
	FileSize                Number `json:"FileSize"`
	Duration                Number `json:"Duration"`
	OverallBitRate          Number `json:"OverallBitRate"`
	BitRate                 Number `json:"BitRate"`
	Width                   Number `json:"Width"`
	Height                  Number `json:"Height"`
	FrameRate               Number `json:"FrameRate"`
	FrameCount              Number `json:"FrameCount"`
	BitDepth                Number `json:"BitDepth"`
	ChromaSubsampling       Text   `json:"ChromaSubsampling"`
	ColorSpace              Text   `json:"ColorSpace"`
	ColourPrimaries         Text   `json:"colour_primaries"`
	ColorPrimaries          Text   `json:"ColorPrimaries"`
	TransferCharacteristics Text   `json:"transfer_characteristics"`
	TransferCharacteristic  Text   `json:"TransferCharacteristics"`
	PixelAspectRatio        Text   `json:"PixelAspectRatio"`
	DisplayAspectRatio      Text   `json:"DisplayAspectRatio"`
	SamplingRate            Number `json:"SamplingRate"`
	Channels                Number `json:"Channels"`
	ChannelLayout           Text   `json:"ChannelLayout"`
	Language                Text   `json:"Language"`
}

func (t *mediainfoTrack) kind() string {
	kind := t.AtType
	if kind == "" {
		kind = t.Type
	}
	return strings.ToLower(kind.String())
}

// MediainfoArgs is the argument list for a metadata probe of path.
func MediainfoArgs(path string) []string {
	return []string{"--Output=JSON", path}
}

// ParseMediainfo maps mediainfo's JSON output to Info.
func ParseMediainfo(data []byte) (media.Info, error) {
	var raw mediainfoOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return media.Info{}, fmt.Errorf("invalid mediainfo JSON: %w", err)
	}
	return raw.info(), nil
}

func firstText(values ...Text) string {
	v, _ := lo.Find(values, func(t Text) bool { return t != "" })
	return v.String()
}

func (o *mediainfoOutput) ofKind(kinds ...string) []*mediainfoTrack {
	var out []*mediainfoTrack
	for i := range o.Media.Track {
		if lo.Contains(kinds, o.Media.Track[i].kind()) {
			out = append(out, &o.Media.Track[i])
		}
	}
	return out
}

func (o *mediainfoOutput) info() media.Info {
	first := func(tracks []*mediainfoTrack) *mediainfoTrack {
		if len(tracks) == 0 {
			return &mediainfoTrack{}
		}
		return tracks[0]
	}

	videos := o.ofKind("video")
	audios := o.ofKind("audio")
	general := first(o.ofKind("general"))
	video := first(videos)
	audio := first(audios)

	// mediainfo reports milliseconds in some builds
	duration := general.Duration.Float()
	if duration > 10_000 {
		duration /= 1000
	}

	return media.Info{
		Width:              video.Width.Int(),
		Height:             video.Height.Int(),
		VideoCodec:         firstText(video.Format, video.CodecID),
		AudioCodec:         firstText(audio.Format, audio.CodecID),
		FileSize:           general.FileSize.Int(),
		VideoBitrate:       video.BitRate.Int(),
		AudioBitrate:       audio.BitRate.Int(),
		FPS:                video.FrameRate.Float(),
		SampleRate:         audio.SamplingRate.Int(),
		Channels:           audio.Channels.Int(),
		FormatName:         general.Format.String(),
		Duration:           duration,
		FormatLongName:     firstText(general.FormatCommercial, general.FormatString),
		OverallBitrate:     general.OverallBitRate.Int(),
		VideoProfile:       video.FormatProfile.String(),
		PixelFormat:        video.ChromaSubsampling.String(),
		ColorSpace:         video.ColorSpace.String(),
		ColorPrimaries:     firstText(video.ColourPrimaries, video.ColorPrimaries),
		ColorTransfer:      firstText(video.TransferCharacteristics, video.TransferCharacteristic),
		VideoBitDepth:      video.BitDepth.Int(),
		AudioChannelLayout: audio.ChannelLayout.String(),
		AudioLanguage:      audio.Language.String(),
		AudioTrackCount:    int64(len(audios)),
		VideoTrackCount:    int64(len(videos)),
		SubtitleTrackCount: int64(len(o.ofKind("text", "subtitle", "subtitles"))),
		VideoFrameCount:    video.FrameCount.Int(),
		SampleAspectRatio:  video.PixelAspectRatio.String(),
		DisplayAspectRatio: video.DisplayAspectRatio.String(),
	}
}
