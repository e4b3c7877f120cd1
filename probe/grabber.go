package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/util"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

// Grabber renders a single frame of a media file.
type Grabber interface {
	Grab(ctx context.Context, path string, seconds float64) (Image, error)
}

// SessionFactory opens a headless engine session.
type SessionFactory func() (*engine.Session, error)

// SharedSessions opens headless sessions on the process-wide engine library.
func SharedSessions() (*engine.Session, error) {
	lib, err := engine.Shared()
	if err != nil {
		return nil, err
	}
	return engine.NewSession(lib, mo.None[int64]())
}

// Settle time after the final seek, for the frame to be decoded.
const settleDelay = 120 * time.Millisecond

// EngineGrabber screenshots a frame with a throwaway headless engine session.
type EngineGrabber struct {
	Sessions SessionFactory
	// Dir receives the temporary screenshot.
	Dir string
	// LoadWait bounds the wait for the file to open, FileWait the wait for
	// the screenshot to land on disk.
	LoadWait time.Duration
	FileWait time.Duration
	// Disk is where the engine writes screenshots. The engine always writes
	// to the real filesystem, so nil means the OS filesystem regardless of
	// the configured backend.
	Disk afero.Fs
}

func (g *EngineGrabber) disk() afero.Afero {
	if g.Disk == nil {
		return afero.Afero{Fs: afero.NewOsFs()}
	}
	return afero.Afero{Fs: g.Disk}
}

func (g *EngineGrabber) Grab(ctx context.Context, path string, seconds float64) (Image, error) {
	seconds = SafeSeconds(seconds)

	session, err := g.Sessions()
	if err != nil {
		return Image{}, fmt.Errorf("preview init: %w", err)
	}
	defer session.Close()

	if err := session.Load(path); err != nil {
		return Image{}, fmt.Errorf("preview load: %w", err)
	}
	_ = session.Pause()

	loaded := util.Poll(ctx, 30*time.Millisecond, g.LoadWait, func() bool {
		d := session.Duration()
		return session.CurrentPath() != "" && !math.IsInf(d, 0) && d > 0
	})
	if !loaded {
		log.WithField("path", path).Debugf("preview: file not reported loaded after %s, seeking anyway", g.LoadWait)
	}

	if err := session.Seek(seconds); err != nil {
		return Image{}, fmt.Errorf("preview seek: %w", err)
	}
	_ = session.Pause()

	select {
	case <-ctx.Done():
		return Image{}, ctx.Err()
	case <-time.After(settleDelay):
	}

	disk := g.disk()
	tmp := filesystem.TempPath(g.Dir, cache.PreviewPrefix, ".png")
	defer func() { _ = disk.Remove(tmp) }()

	if err := session.Screenshot(tmp); err != nil {
		return Image{}, fmt.Errorf("preview screenshot: %w", err)
	}

	util.Poll(ctx, 25*time.Millisecond, g.FileWait, func() bool {
		return filesystem.NonEmptyOn(disk, tmp)
	})

	data, err := disk.ReadFile(tmp)
	if err != nil {
		return Image{}, fmt.Errorf("read preview: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	return NewImage(data), nil
}

// errNoGrabber stands in for the engine stage when no grabber is configured.
var errNoGrabber = errors.New("engine preview unavailable")
