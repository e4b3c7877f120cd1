// Package surface manages the native window the engine renders into.
//
// The window is in exactly one of three modes. Embedded windows follow a
// host window's client area. Detached windows are free-standing. Fullscreen
// covers a monitor and remembers which of the other two modes to return to.
package surface

import (
	"fmt"
	"sync"

	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
)

// Mode is the presentation mode of the surface.
type Mode int

const (
	Embedded Mode = iota
	Fullscreen
	Detached
)

func (m Mode) String() string {
	switch m {
	case Embedded:
		return "embedded"
	case Fullscreen:
		return "fullscreen"
	case Detached:
		return "detached"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Minimum size of a freshly detached window.
const (
	MinDetachedWidth  = 640
	MinDetachedHeight = 360
)

// Window is the video surface. All methods are safe for concurrent use.
type Window struct {
	mu     sync.Mutex
	sys    winsys.System
	handle winsys.Handle
	host   winsys.Handle
	title  string

	detached   bool
	fullscreen bool

	embeddedGeometry winsys.Rect
	detachedGeometry winsys.Rect

	closed bool
}

// New creates a hidden surface owned by host. host may be 0, in which case
// embedded geometry is interpreted in screen coordinates.
func New(sys winsys.System, host winsys.Handle, title string) (*Window, error) {
	h, err := sys.CreateSurface(host, title)
	if err != nil {
		return nil, fmt.Errorf("create surface window: %w", err)
	}

	return &Window{
		sys:              sys,
		handle:           h,
		host:             host,
		title:            title,
		embeddedGeometry: winsys.Unit,
		detachedGeometry: winsys.Unit,
	}, nil
}

func (w *Window) logFailure(op string, err error) {
	if err != nil {
		log.WithField("window", w.handle).WithField("op", op).Debugf("native window call failed: %v", err)
	}
}

// valid must be called with mu held.
func (w *Window) valid() bool {
	return !w.closed && w.sys.Valid(w.handle)
}

// Handle is the native handle the engine renders into.
func (w *Window) Handle() winsys.Handle {
	return w.handle
}

// Host is the owner window used in embedded mode.
func (w *Window) Host() winsys.Handle {
	return w.host
}

// Show makes the surface visible without activating it.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() || w.sys.Visible(w.handle) {
		return
	}
	order := winsys.OrderKeep
	if w.detached {
		order = winsys.OrderTop
	}
	w.logFailure("show", w.sys.Show(w.handle, order))
}

func (w *Window) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() {
		return
	}
	w.logFailure("hide", w.sys.Hide(w.handle))
}

// SetGeometry positions the embedded surface over the host's client area.
// It is ignored in the other modes and for empty sizes.
func (w *Window) SetGeometry(x, y, width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if width <= 0 || height <= 0 || !w.valid() || w.fullscreen || w.detached {
		return
	}

	sx, sy := x, y
	if w.host != 0 {
		var err error
		if sx, sy, err = w.sys.ClientToScreen(w.host, x, y); err != nil {
			w.logFailure("client to screen", err)
			return
		}
	}

	w.embeddedGeometry = winsys.Rect{X: sx, Y: sy, W: width, H: height}
	w.logFailure("move", w.sys.Move(w.handle, w.embeddedGeometry))
}

// SetDetachedGeometry places the detached window in screen coordinates.
// While fullscreen only the restore geometry is updated.
func (w *Window) SetDetachedGeometry(x, y, width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() || !w.detached {
		return
	}

	w.detachedGeometry = winsys.Rect{X: x, Y: y, W: width, H: height}.Clamp(1, 1)
	if w.fullscreen {
		return
	}
	w.logFailure("place", w.sys.Place(w.handle, winsys.OrderTop, w.detachedGeometry, true))
}

// monitorAnchor must be called with mu held.
func (w *Window) monitorAnchor() winsys.Handle {
	if w.detached || w.host == 0 {
		return w.handle
	}
	return w.host
}

// SetFullscreen enters or leaves fullscreen. Leaving restores the geometry
// of the mode that was active before.
func (w *Window) SetFullscreen(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() || on == w.fullscreen {
		return
	}
	if on {
		w.enterFullscreen()
	} else {
		w.leaveFullscreen()
	}
}

func (w *Window) enterFullscreen() {
	monitor, err := w.sys.MonitorRect(w.monitorAnchor())
	if err != nil {
		w.logFailure("monitor rect", err)
		return
	}

	if w.detached {
		if r, err := w.sys.WindowRect(w.handle); err == nil {
			w.detachedGeometry = r.Clamp(1, 1)
		}
		w.logFailure("style", w.sys.SetStyle(w.handle, winsys.StyleFullscreen))
	}

	w.logFailure("place", w.sys.Place(w.handle, winsys.OrderTop, monitor, true))
	w.fullscreen = true
}

func (w *Window) leaveFullscreen() {
	restore := w.embeddedGeometry
	if w.detached {
		restore = w.detachedGeometry
		w.logFailure("style", w.sys.SetStyle(w.handle, winsys.StyleDetached))
	}

	w.logFailure("place", w.sys.Place(w.handle, winsys.OrderNoTopmost, restore, true))
	w.fullscreen = false
}

// Detach turns the surface into a free-standing window. It is a no-op when
// already detached or fullscreen.
func (w *Window) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() || w.detached || w.fullscreen {
		return
	}

	wasVisible := w.sys.Visible(w.handle)
	r, err := w.sys.WindowRect(w.handle)
	if err != nil {
		r = winsys.Unit
	}
	w.detachedGeometry = r.Clamp(MinDetachedWidth, MinDetachedHeight)

	w.logFailure("style", w.sys.SetStyle(w.handle, winsys.StyleDetached))
	w.logFailure("owner", w.sys.SetOwner(w.handle, 0))
	w.logFailure("title", w.sys.SetTitle(w.handle, w.title+" - Video"))
	w.logFailure("place", w.sys.Place(w.handle, winsys.OrderNoTopmost, w.detachedGeometry, wasVisible))
	if !wasVisible {
		w.logFailure("hide", w.sys.Hide(w.handle))
	}
	w.detached = true
}

// Attach returns a detached surface to its host, leaving fullscreen first.
func (w *Window) Attach() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() || !w.detached {
		return
	}
	if w.fullscreen {
		w.leaveFullscreen()
	}

	w.logFailure("style", w.sys.SetStyle(w.handle, winsys.StyleEmbedded))
	w.logFailure("owner", w.sys.SetOwner(w.handle, w.host))
	w.logFailure("title", w.sys.SetTitle(w.handle, w.title))
	w.logFailure("place", w.sys.Place(w.handle, winsys.OrderNoTopmost, w.embeddedGeometry, true))
	w.detached = false
}

// Close destroys the native window. Only the first call has an effect.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.logFailure("destroy", w.sys.Destroy(w.handle))
}

func (w *Window) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.fullscreen:
		return Fullscreen
	case w.detached:
		return Detached
	default:
		return Embedded
	}
}

func (w *Window) IsFullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreen
}

func (w *Window) IsDetached() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.detached
}

// IsVisible is false for destroyed windows.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.valid() && w.sys.Visible(w.handle)
}

// EmbeddedGeometry is the last geometry applied in embedded mode.
func (w *Window) EmbeddedGeometry() winsys.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.embeddedGeometry
}

// DetachedGeometry is the geometry restored when leaving fullscreen while detached.
func (w *Window) DetachedGeometry() winsys.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.detachedGeometry
}

func (w *Window) rect(f func(winsys.Handle) (winsys.Rect, error), h winsys.Handle) mo.Option[winsys.Rect] {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.valid() {
		return mo.None[winsys.Rect]()
	}
	r, err := f(h)
	if err != nil {
		return mo.None[winsys.Rect]()
	}
	return mo.Some(r)
}

func (w *Window) WindowRect() mo.Option[winsys.Rect] {
	return w.rect(w.sys.WindowRect, w.handle)
}

func (w *Window) ClientRectScreen() mo.Option[winsys.Rect] {
	return w.rect(w.sys.ClientRectScreen, w.handle)
}

// MonitorRect is the monitor the surface would go fullscreen on.
func (w *Window) MonitorRect() mo.Option[winsys.Rect] {
	w.mu.Lock()
	anchor := w.monitorAnchor()
	w.mu.Unlock()
	return w.rect(w.sys.MonitorRect, anchor)
}
