package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/amvnote/amvnote/internal/cache"
)

// Entry is the resume point of one file.
type Entry struct {
	Path      string    `json:"path"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Entry) encode() string {
	return cache.MediaKey(e.Path)
}

// Progress is the watched fraction in [0, 1].
func (e *Entry) Progress() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return min(max(e.Position/e.Duration, 0), 1)
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s : %.0f%%", filepath.Base(e.Path), e.Progress()*100)
}
