package constant

// MediaInfoTemplate renders a probed media record for the terminal.
const MediaInfoTemplate = `{{ bold .Path }}
{{ blue "Container:" }} {{ or .Info.FormatLongName .Info.FormatName "?" }}  {{ faint (size .Info.FileSize) }}
{{ blue "Duration:" }}  {{ duration .Info.Duration }}  {{ faint (bitrate .Info.OverallBitrate) }}
{{- if .Info.VideoCodec }}
{{ blue "Video:" }}     {{ .Info.VideoCodec }} {{ .Info.Width }}x{{ .Info.Height }} @ {{ printf "%.3f" .Info.FPS }} fps  {{ faint (bitrate .Info.VideoBitrate) }}
{{- if .Info.PixelFormat }}
           {{ faint "pixel format" }} {{ .Info.PixelFormat }}{{ if .Info.VideoBitDepth }} {{ .Info.VideoBitDepth }}-bit{{ end }}
{{- end }}
{{- if .Info.RotationDegrees }}
           {{ faint "rotation" }} {{ .Info.RotationDegrees }}°
{{- end }}
{{- end }}
{{- if .Info.AudioCodec }}
{{ blue "Audio:" }}     {{ .Info.AudioCodec }} {{ .Info.SampleRate }} Hz {{ .Info.Channels }} ch{{ if .Info.AudioChannelLayout }} ({{ .Info.AudioChannelLayout }}){{ end }}  {{ faint (bitrate .Info.AudioBitrate) }}
{{- end }}
{{ blue "Tracks:" }}    {{ .Info.VideoTrackCount }} video, {{ .Info.AudioTrackCount }} audio, {{ .Info.SubtitleTrackCount }} subtitle`
