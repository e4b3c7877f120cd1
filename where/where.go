// Package where resolves the application's filesystem locations.
package where

import (
	"os"
	"path/filepath"

	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "AMVNOTE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory.
// It follows os.UserConfigDir unless AMVNOTE_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Amvnote))
}

// Cache is the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Amvnote))
}

// Logs is the directory for dated log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History is the playback resume registry.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// MediaCache is the persisted metadata registry.
func MediaCache() string {
	return filepath.Join(Cache(), "media.json")
}

// Temp is the directory for transient screenshots.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Amvnote))
}
