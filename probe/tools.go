package probe

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/key"
	"github.com/spf13/viper"
)

// Tool names.
const (
	FFprobe   = "ffprobe"
	FFmpeg    = "ffmpeg"
	Mediainfo = "mediainfo"
)

// Tools holds the resolved executable of each external tool.
type Tools struct {
	FFprobe   string
	FFmpeg    string
	Mediainfo string
}

// ToolsFromConfig resolves every tool next to the running executable,
// honoring the probe.* overrides.
func ToolsFromConfig() Tools {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}

	resolve := func(name, override string) string {
		return Resolve(name, viper.GetString(override), exeDir, runtime.GOOS)
	}

	return Tools{
		FFprobe:   resolve(FFprobe, key.ProbeFFprobe),
		FFmpeg:    resolve(FFmpeg, key.ProbeFFmpeg),
		Mediainfo: resolve(Mediainfo, key.ProbeMediainfo),
	}
}

// Resolve picks the executable for name. An override always wins. Otherwise
// bundled copies under exeDir are preferred and the bare name is left to PATH.
func Resolve(name, override, exeDir, goos string) string {
	if override != "" {
		return override
	}

	if goos == constant.Windows {
		name += ".exe"
	}

	if exeDir != "" {
		for _, candidate := range []string{
			filepath.Join(exeDir, "resources", "windows", name),
			filepath.Join(exeDir, "resources", name),
			filepath.Join(exeDir, name),
		} {
			if exists, _ := filesystem.API().Exists(candidate); exists {
				return candidate
			}
		}
	}

	return name
}
