// Package key defines the canonical set of configuration identifiers.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 28

// Engine library resolution and session options.
const (
	EngineLibrary     = "engine.library"
	EngineSearchDepth = "engine.search_depth"
	EngineHwdec       = "engine.hwdec"
)

// External probing tools and their bounds.
const (
	ProbeFFprobe            = "probe.ffprobe"
	ProbeFFmpeg             = "probe.ffmpeg"
	ProbeMediainfo          = "probe.mediainfo"
	ProbeFFprobeTimeoutMs   = "probe.ffprobe_timeout_ms"
	ProbeMediainfoTimeoutMs = "probe.mediainfo_timeout_ms"
	ProbeFFmpegTimeoutMs    = "probe.ffmpeg_timeout_ms"
	ProbeMetadataTimeoutMs  = "probe.metadata_timeout_ms"
)

// Frame previews.
const (
	PreviewWidth      = "preview.width"
	PreviewTimeoutMs  = "preview.timeout_ms"
	PreviewLoadWaitMs = "preview.load_wait_ms"
	PreviewFileWaitMs = "preview.file_wait_ms"
)

// Probe result caching.
const (
	CacheMediaEntries         = "cache.media_entries"
	CacheFrameEntries         = "cache.frame_entries"
	CachePersist              = "cache.persist"
	CachePersistLifetimeHours = "cache.persist_lifetime_hours"
)

// Video surface window.
const (
	WindowTitle         = "window.title"
	WindowDetachOnStart = "window.detach_on_start"
)

// Playback defaults.
const (
	PlayerVolume = "player.volume"
	PlayerResume = "player.resume"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
