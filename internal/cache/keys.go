package cache

import (
	"math"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/amvnote/amvnote/constant"
)

// FrameKey identifies a rendered preview frame.
type FrameKey struct {
	Media string
	Tick  int64 // milliseconds
	Width int
}

// MediaKey normalizes a media path into a cache key. Paths are made absolute
// when possible and compared case-insensitively on Windows and macOS, whose
// default filesystems fold case.
func MediaKey(path string) string {
	return mediaKey(path, runtime.GOOS)
}

func mediaKey(path, goos string) string {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	key = filepath.Clean(key)
	if goos == constant.Windows || goos == constant.Darwin {
		key = strings.ToLower(key)
	}
	return key
}

// NewFrameKey builds the key for the frame of path at seconds, rendered at width.
func NewFrameKey(path string, seconds float64, width int) FrameKey {
	return FrameKey{
		Media: MediaKey(path),
		Tick:  Tick(seconds),
		Width: width,
	}
}

// Tick converts seconds to whole milliseconds. Negative and non-finite
// values map to zero.
func Tick(seconds float64) int64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int64(math.Round(max(seconds, 0) * 1000))
}
