package probe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amvnote/amvnote/media"
	"github.com/samber/lo"
)

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeFormat struct {
	FormatName     Text   `json:"format_name"`
	FormatLongName Text   `json:"format_long_name"`
	Size           Number `json:"size"`
	BitRate        Number `json:"bit_rate"`
	Duration       Number `json:"duration"`
}

type ffprobeSideData struct {
	Rotation Number `json:"rotation"`
}

type ffprobeStream struct {
	CodecType          Text              `json:"codec_type"`
	CodecName          Text              `json:"codec_name"`
	Profile            Text              `json:"profile"`
	Width              Number            `json:"width"`
	Height             Number            `json:"height"`
	PixFmt             Text              `json:"pix_fmt"`
	ColorSpace         Text              `json:"color_space"`
	ColorPrimaries     Text              `json:"color_primaries"`
	ColorTransfer      Text              `json:"color_transfer"`
	BitsPerRawSample   *Number           `json:"bits_per_raw_sample"`
	BitsPerSample      *Number           `json:"bits_per_sample"`
	AvgFrameRate       Text              `json:"avg_frame_rate"`
	RFrameRate         Text              `json:"r_frame_rate"`
	FPS                Number            `json:"fps"`
	NbFrames           Number            `json:"nb_frames"`
	NbReadFrames       Number            `json:"nb_read_frames"`
	SampleAspectRatio  Text              `json:"sample_aspect_ratio"`
	DisplayAspectRatio Text              `json:"display_aspect_ratio"`
	Rotation           Number            `json:"rotation"`
	BitRate            Number            `json:"bit_rate"`
	SampleRate         Number            `json:"sample_rate"`
	Channels           Number            `json:"channels"`
	ChannelLayout      Text              `json:"channel_layout"`
	Duration           Number            `json:"duration"`
	Tags               map[string]Text   `json:"tags"`
	SideDataList       []ffprobeSideData `json:"side_data_list"`
}

func (s *ffprobeStream) tag(name string) Text {
	if s == nil {
		return ""
	}
	return s.Tags[name]
}

// FFprobeArgs is the argument list for a metadata probe of path.
func FFprobeArgs(path string) []string {
	return []string{"-v", "error", "-show_streams", "-show_format", "-of", "json", path}
}

// ParseFFprobe maps ffprobe's JSON output to Info.
func ParseFFprobe(data []byte) (media.Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return media.Info{}, fmt.Errorf("invalid ffprobe JSON: %w", err)
	}
	return raw.info(), nil
}

func (o *ffprobeOutput) ofType(types ...string) []*ffprobeStream {
	var out []*ffprobeStream
	for i := range o.Streams {
		if lo.Contains(types, o.Streams[i].CodecType.String()) {
			out = append(out, &o.Streams[i])
		}
	}
	return out
}

func (o *ffprobeOutput) info() media.Info {
	videos := o.ofType(media.TrackVideo)
	audios := o.ofType(media.TrackAudio)
	subtitles := o.ofType("subtitle", media.TrackSubtitle)

	video := &ffprobeStream{}
	if len(videos) > 0 {
		video = videos[0]
	}
	audio := &ffprobeStream{}
	if len(audios) > 0 {
		audio = audios[0]
	}

	info := media.Info{
		Width:              video.Width.Int(),
		Height:             video.Height.Int(),
		VideoCodec:         video.CodecName.String(),
		AudioCodec:         audio.CodecName.String(),
		VideoBitrate:       streamBitrate(video),
		AudioBitrate:       streamBitrate(audio),
		FPS:                frameRate(video),
		SampleRate:         audio.SampleRate.Int(),
		Channels:           audio.Channels.Int(),
		AudioChannelLayout: audio.ChannelLayout.String(),
		VideoProfile:       video.Profile.String(),
		PixelFormat:        video.PixFmt.String(),
		ColorSpace:         video.ColorSpace.String(),
		ColorPrimaries:     video.ColorPrimaries.String(),
		ColorTransfer:      video.ColorTransfer.String(),
		SampleAspectRatio:  video.SampleAspectRatio.String(),
		DisplayAspectRatio: video.DisplayAspectRatio.String(),
		RotationDegrees:    rotation(video),
		AudioTrackCount:    int64(len(audios)),
		VideoTrackCount:    int64(len(videos)),
		SubtitleTrackCount: int64(len(subtitles)),
		FormatName:         o.Format.FormatName.String(),
		FormatLongName:     o.Format.FormatLongName.String(),
		FileSize:           o.Format.Size.Int(),
	}

	if lang := audio.tag("language").String(); !strings.EqualFold(lang, "und") {
		info.AudioLanguage = lang
	}

	for _, d := range []float64{o.Format.Duration.Float(), video.Duration.Float(), audio.Duration.Float()} {
		if d > 0 {
			info.Duration = d
			break
		}
	}

	info.OverallBitrate = o.Format.BitRate.Int()
	if info.OverallBitrate <= 0 {
		info.OverallBitrate = info.VideoBitrate + info.AudioBitrate
	}

	switch {
	case video.BitsPerRawSample != nil:
		info.VideoBitDepth = video.BitsPerRawSample.Int()
	case video.BitsPerSample != nil:
		info.VideoBitDepth = video.BitsPerSample.Int()
	}
	if info.VideoBitDepth <= 0 {
		info.VideoBitDepth = BitDepthFromPixelFormat(info.PixelFormat)
	}

	info.VideoFrameCount = video.NbFrames.Int()
	if info.VideoFrameCount <= 0 {
		info.VideoFrameCount = video.NbReadFrames.Int()
	}
	if info.VideoFrameCount <= 0 && info.FPS > 0 && info.Duration > 0 {
		info.VideoFrameCount = int64(math.Round(info.FPS * info.Duration))
	}

	return info
}

func streamBitrate(s *ffprobeStream) int64 {
	for _, bps := range []int64{s.BitRate.Int(), s.tag("BPS").Int(), s.tag("BPS-eng").Int()} {
		if bps > 0 {
			return bps
		}
	}
	return 0
}

func frameRate(s *ffprobeStream) float64 {
	if fps := ParseRatio(s.AvgFrameRate.String()); fps > 0 {
		return fps
	}
	if fps := ParseRatio(s.RFrameRate.String()); fps > 0 {
		return fps
	}
	return s.FPS.Float()
}

func rotation(s *ffprobeStream) int64 {
	if r := s.Rotation.Int(); r != 0 {
		return NormalizeRotation(r)
	}
	if r := s.tag("rotate").Int(); r != 0 {
		return NormalizeRotation(r)
	}
	for _, side := range s.SideDataList {
		if r := side.Rotation.Int(); r != 0 {
			return NormalizeRotation(r)
		}
	}
	return 0
}

// NormalizeRotation maps degrees into [0, 360).
func NormalizeRotation(degrees int64) int64 {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}

// BitDepthFromPixelFormat guesses the bit depth from names like yuv420p10le.
// Unknown formats are assumed to be 8-bit.
func BitDepthFromPixelFormat(pixFmt string) int64 {
	lower := strings.ToLower(pixFmt)
	if lower == "" {
		return 0
	}
	for _, depth := range []int64{16, 14, 12, 10, 9} {
		if strings.Contains(lower, strconv.FormatInt(depth, 10)) {
			return depth
		}
	}
	return 8
}
