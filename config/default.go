package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/amvnote/amvnote/color"
	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	checks []Check
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Amvnote + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string, checks ...Check) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc, checks: checks}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.EngineLibrary, "", "Path to the libmpv shared library.\nSearched next to the executable and on the system path when empty")
	register(key.EngineSearchDepth, 3, "How many parent directories of the working directory to search for libmpv", between(0, 16))
	register(key.EngineHwdec, "auto-safe", "Hardware decoding mode passed to the engine")
	register(key.ProbeFFprobe, "", "Path to ffprobe. Resolved from bundled resources or PATH when empty")
	register(key.ProbeFFmpeg, "", "Path to ffmpeg. Resolved from bundled resources or PATH when empty")
	register(key.ProbeMediainfo, "", "Path to mediainfo. Resolved from bundled resources or PATH when empty")
	register(key.ProbeFFprobeTimeoutMs, 4000, "Maximum ffprobe run time in milliseconds", between(100, 120000))
	register(key.ProbeMediainfoTimeoutMs, 2500, "Maximum mediainfo run time in milliseconds", between(100, 120000))
	register(key.ProbeFFmpegTimeoutMs, 3500, "Maximum ffmpeg thumbnail run time in milliseconds", between(100, 120000))
	register(key.ProbeMetadataTimeoutMs, 2500, "How long a metadata request waits for the probe chain before falling back", between(100, 120000))
	register(key.PreviewWidth, 320, "Default frame preview width in pixels.\nClamped to 120..640", between(120, 640))
	register(key.PreviewTimeoutMs, 12000, "How long a frame preview request may take in milliseconds", between(500, 120000))
	register(key.PreviewLoadWaitMs, 2200, "How long the engine fallback waits for a file to load in milliseconds")
	register(key.PreviewFileWaitMs, 1200, "How long the engine fallback waits for the screenshot file in milliseconds")
	register(key.CacheMediaEntries, 96, "Number of metadata records kept in memory", between(1, 100000))
	register(key.CacheFrameEntries, 240, "Number of frame previews kept in memory", between(1, 100000))
	register(key.CachePersist, true, "Persist probed metadata on disk between runs")
	register(key.CachePersistLifetimeHours, 168, "Lifetime of persisted metadata in hours")
	register(key.WindowTitle, constant.Title, "Title prefix of the video window")
	register(key.WindowDetachOnStart, true, "Start with the video window detached from its host")
	register(key.PlayerVolume, 80, "Initial playback volume (0-130)", between(0, 130))
	register(key.PlayerResume, true, "Resume playback from the last saved position")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)", oneOf(icon.AvailableVariants()...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace", oneOf("panic", "fatal", "error", "warn", "info", "debug", "trace"))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
