package player

import (
	"github.com/amvnote/amvnote/overlay"
	"github.com/amvnote/amvnote/surface"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
)

// withSurface runs f under windowMu.
func (s *Service) withSurface(f func(w *surface.Window)) error {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()

	if s.surface == nil {
		return ErrNoSurface
	}
	f(s.surface)
	return nil
}

// sync must be called with windowMu held.
func (s *Service) sync(w *surface.Window, focus bool) overlay.Placement {
	if s.overlay == nil {
		return overlay.Unplaced
	}
	return s.overlay.Sync(w, focus)
}

// SetGeometry positions the embedded surface in host client coordinates.
func (s *Service) SetGeometry(x, y, width, height int) error {
	return s.withSurface(func(w *surface.Window) {
		w.SetGeometry(x, y, width, height)
	})
}

// SetDetachedGeometry places the detached surface in screen coordinates.
func (s *Service) SetDetachedGeometry(x, y, width, height int) error {
	return s.withSurface(func(w *surface.Window) {
		w.SetDetachedGeometry(x, y, width, height)
		s.sync(w, false)
	})
}

func (s *Service) Show() error {
	return s.withSurface(func(w *surface.Window) {
		w.Show()
		s.sync(w, false)
	})
}

// Hide hides the surface and the overlay.
func (s *Service) Hide() error {
	return s.withSurface(func(w *surface.Window) {
		w.Hide()
		if s.overlay != nil {
			s.overlay.Hide()
		}
	})
}

// HideSurface hides only the surface.
func (s *Service) HideSurface() error {
	return s.withSurface(func(w *surface.Window) {
		w.Hide()
	})
}

// SetFullscreen shows and fullscreens the surface, or restores it. Leaving
// fullscreen hands focus back to the host unless the surface is detached.
func (s *Service) SetFullscreen(on bool) error {
	return s.withSurface(func(w *surface.Window) {
		if on {
			w.Show()
			w.SetFullscreen(true)
			s.sync(w, true)
			return
		}

		w.SetFullscreen(false)
		detached := w.IsDetached()
		s.sync(w, detached)
		if !detached && s.opts.Host != nil {
			s.opts.Host.Focus()
		}
	})
}

// Detach makes the surface a free-standing window.
func (s *Service) Detach() error {
	return s.withSurface(func(w *surface.Window) {
		w.Detach()
		s.sync(w, false)
	})
}

// Attach returns the surface to the host window.
func (s *Service) Attach() error {
	return s.withSurface(func(w *surface.Window) {
		w.Attach()
		s.sync(w, false)
	})
}

// SyncOverlay realigns the overlay, e.g. after the user moved the surface.
func (s *Service) SyncOverlay() error {
	return s.withSurface(func(w *surface.Window) {
		s.sync(w, false)
	})
}

// IsFullscreen is false without a surface.
func (s *Service) IsFullscreen() bool {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	return s.surface != nil && s.surface.IsFullscreen()
}

// IsDetached is false without a surface.
func (s *Service) IsDetached() bool {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	return s.surface != nil && s.surface.IsDetached()
}

// IsVisible is false without a surface.
func (s *Service) IsVisible() bool {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	return s.surface != nil && s.surface.IsVisible()
}

// Mode is the surface mode, or surface.Embedded without a surface.
func (s *Service) Mode() surface.Mode {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	if s.surface == nil {
		return surface.Embedded
	}
	return s.surface.Mode()
}

// SurfaceHandle is the native handle of the video surface.
func (s *Service) SurfaceHandle() mo.Option[winsys.Handle] {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	if s.surface == nil {
		return mo.None[winsys.Handle]()
	}
	return mo.Some(s.surface.Handle())
}
