// Package overlay keeps a caller-supplied control window aligned with the
// video surface while the surface is detached or fullscreen.
package overlay

import (
	"fmt"
	"sync"

	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
)

// Source is the read-only view of the surface the overlay follows.
type Source interface {
	Handle() winsys.Handle
	IsVisible() bool
	IsDetached() bool
	IsFullscreen() bool
	WindowRect() mo.Option[winsys.Rect]
	ClientRectScreen() mo.Option[winsys.Rect]
	MonitorRect() mo.Option[winsys.Rect]
}

// Placement is the outcome of a sync.
type Placement int

const (
	// Hidden means the surface is embedded or invisible.
	Hidden Placement = iota
	// Aligned means the first placement succeeded.
	Aligned
	// AlignedAfterReorder means placement succeeded once the surface left the topmost band.
	AlignedAfterReorder
	// AlignedRetry means a final plain placement succeeded.
	AlignedRetry
	// OSFullscreen means the window manager fullscreened the overlay itself.
	OSFullscreen
	// Unplaced means the overlay is shown but could not be positioned.
	Unplaced
)

func (p Placement) String() string {
	switch p {
	case Hidden:
		return "hidden"
	case Aligned:
		return "aligned"
	case AlignedAfterReorder:
		return "aligned after reorder"
	case AlignedRetry:
		return "aligned on retry"
	case OSFullscreen:
		return "os fullscreen"
	case Unplaced:
		return "unplaced"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

// Compositor owns the overlay window.
type Compositor struct {
	mu     sync.Mutex
	sys    winsys.System
	handle winsys.Handle
}

func New(sys winsys.System, handle winsys.Handle) *Compositor {
	return &Compositor{sys: sys, handle: handle}
}

func (c *Compositor) Handle() winsys.Handle {
	return c.handle
}

func (c *Compositor) try(op string, err error) bool {
	if err != nil {
		log.WithField("overlay", c.handle).WithField("op", op).Debugf("native window call failed: %v", err)
		return false
	}
	return true
}

// Hide leaves OS fullscreen and hides the overlay.
func (c *Compositor) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hide()
}

func (c *Compositor) hide() {
	if !c.sys.Valid(c.handle) {
		return
	}
	c.try("fullscreen", c.sys.SetFullscreen(c.handle, false))
	c.try("hide", c.sys.Hide(c.handle))
}

// Sync shows, positions and stacks the overlay according to the state of src.
func (c *Compositor) Sync(src Source, focus bool) Placement {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sys.Valid(c.handle) {
		return Unplaced
	}

	fullscreen := src.IsFullscreen()
	if !src.IsVisible() || !(src.IsDetached() || fullscreen) {
		c.hide()
		return Hidden
	}

	c.try("style", c.sys.SetStyle(c.handle, winsys.StyleOverlay))
	c.try("fullscreen", c.sys.SetFullscreen(c.handle, false))
	c.try("show", c.sys.Show(c.handle, winsys.OrderKeep))

	placement := Unplaced
	if target, ok := c.target(src).Get(); ok {
		c.try("owner", c.sys.SetOwner(c.handle, src.Handle()))
		placement = c.place(src, target, fullscreen)
	} else if fullscreen && c.try("fullscreen", c.sys.SetFullscreen(c.handle, true)) {
		placement = OSFullscreen
	}

	if focus {
		c.try("focus", c.sys.Focus(c.handle))
	}

	log.WithField("overlay", c.handle).Debugf("overlay synced: %s", placement)
	return placement
}

func (c *Compositor) target(src Source) mo.Option[winsys.Rect] {
	if src.IsDetached() && !src.IsFullscreen() {
		if r, ok := src.ClientRectScreen().Get(); ok {
			return mo.Some(r)
		}
		return src.WindowRect()
	}

	if r, ok := src.WindowRect().Get(); ok {
		return mo.Some(r)
	}
	return src.MonitorRect()
}

func (c *Compositor) place(src Source, r winsys.Rect, fullscreen bool) Placement {
	if c.try("place", c.sys.Place(c.handle, winsys.OrderTop, r, false)) {
		return Aligned
	}

	c.try("reorder surface", c.sys.Reorder(src.Handle(), winsys.OrderNoTopmost))
	if c.try("place after reorder", c.sys.Place(c.handle, winsys.OrderTop, r, false)) {
		return AlignedAfterReorder
	}

	if c.try("place retry", c.sys.Place(c.handle, winsys.OrderTop, r, false)) {
		return AlignedRetry
	}

	if fullscreen && c.try("fullscreen", c.sys.SetFullscreen(c.handle, true)) {
		return OSFullscreen
	}
	return Unplaced
}
