package probe

import (
	"path/filepath"
	"strings"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/media"
)

// Minimal is what can be known about a file without any tool: its size and
// its lower-cased extension as the format name.
func Minimal(path string) media.Info {
	var info media.Info
	if stat, ok := filesystem.Regular(path); ok {
		info.FileSize = stat.Size()
	}
	info.FormatName = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return info
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	_, ok := filesystem.Regular(path)
	return ok
}
