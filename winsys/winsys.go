// Package winsys abstracts the native window operations the video surface
// and overlay need. Each platform backend owns its flag combinations; callers
// only speak in styles and stacking orders.
package winsys

import (
	"errors"
	"fmt"
)

// Handle is a native window identifier (HWND or X11 window id).
type Handle uintptr

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// Clamp returns r with each dimension raised to at least the given minimums.
func (r Rect) Clamp(minW, minH int) Rect {
	r.W = max(r.W, minW)
	r.H = max(r.H, minH)
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Unit is the placeholder geometry of a window that has never been placed.
var Unit = Rect{W: 1, H: 1}

// Style is a window role. Backends translate it to native style bits.
type Style int

const (
	// StyleEmbedded is a borderless owned popup that never takes activation.
	StyleEmbedded Style = iota
	// StyleFullscreen is a borderless application window.
	StyleFullscreen
	// StyleDetached is a captioned, resizable application window.
	StyleDetached
	// StyleOverlay is a regular, non-topmost window that accepts input.
	StyleOverlay
)

func (s Style) String() string {
	switch s {
	case StyleEmbedded:
		return "embedded"
	case StyleFullscreen:
		return "fullscreen"
	case StyleDetached:
		return "detached"
	case StyleOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Order is a stacking request.
type Order int

const (
	// OrderKeep leaves the z-order untouched.
	OrderKeep Order = iota
	// OrderTop raises the window within its band without making it topmost.
	OrderTop
	// OrderNoTopmost moves the window out of the topmost band.
	OrderNoTopmost
)

var (
	// ErrUnsupported is returned by platforms without a backend.
	ErrUnsupported = errors.New("native windows are not supported on this platform")

	// ErrInvalidHandle is returned for destroyed or unknown windows.
	ErrInvalidHandle = errors.New("invalid window handle")

	// ErrCall matches every failed native call.
	ErrCall = errors.New("native window call failed")
)

// CallError is a failed native call.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func (e *CallError) Is(target error) bool {
	return target == ErrCall
}

// System is a native window system.
type System interface {
	// CreateSurface creates a hidden 1x1 surface window owned by owner,
	// which may be 0. It uses StyleEmbedded.
	CreateSurface(owner Handle, title string) (Handle, error)
	Destroy(h Handle) error

	Show(h Handle, order Order) error
	Hide(h Handle) error
	Visible(h Handle) bool
	Valid(h Handle) bool

	// Move sets the outer geometry in screen coordinates.
	Move(h Handle, r Rect) error
	// Place moves, restacks and optionally shows in one call.
	Place(h Handle, order Order, r Rect, show bool) error
	Reorder(h Handle, order Order) error

	SetStyle(h Handle, s Style) error
	SetOwner(h Handle, owner Handle) error
	SetTitle(h Handle, title string) error

	ClientToScreen(h Handle, x, y int) (int, int, error)
	WindowRect(h Handle) (Rect, error)
	ClientRectScreen(h Handle) (Rect, error)
	// MonitorRect is the bounds of the monitor nearest to h.
	MonitorRect(h Handle) (Rect, error)

	Focus(h Handle) error

	// SetFullscreen asks the window manager to fullscreen h itself.
	SetFullscreen(h Handle, on bool) error

	// OnClose registers a callback for user close requests. Backends hide
	// the window instead of destroying it.
	OnClose(func(h Handle))
}
