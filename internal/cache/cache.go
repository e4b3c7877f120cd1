// Package cache holds the in-memory LRU caches for media metadata and
// preview frames, plus an optional on-disk metadata store.
package cache

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/where"
)

// PreviewPrefix names the temporary screenshots written by the engine grabber.
const PreviewPrefix = "amv-preview-"

// PreviewTTL is the age after which a leftover preview screenshot is removed.
const PreviewTTL = 10 * time.Minute

// CollectGarbage removes stale preview screenshots from the temp directory
// in the background.
func CollectGarbage() {
	go func() {
		_ = Prune(where.Temp(), time.Now())
	}()
}

// Prune removes preview screenshots in dir last modified before now-PreviewTTL
// and returns how many were removed.
func Prune(dir string, now time.Time) int {
	removed := 0
	_ = filesystem.API().Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasPrefix(filepath.Base(path), PreviewPrefix) {
			return nil
		}
		if now.Sub(info.ModTime()) > PreviewTTL && filesystem.API().Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed
}
