package player

import (
	"fmt"

	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/media"
	"github.com/samber/mo"
)

func (s *Service) withSession(f func(*engine.Session) error) error {
	session := s.currentSession()
	if session == nil {
		return ErrNotInitialized
	}
	return f(session)
}

// Load opens path in the engine.
func (s *Service) Load(path string) error {
	session := s.currentSession()
	if session == nil {
		return fmt.Errorf("%w: make sure the mpv library is available (run `check`)", ErrNotInitialized)
	}
	return session.Load(path)
}

func (s *Service) Play() error {
	return s.withSession((*engine.Session).Play)
}

func (s *Service) Pause() error {
	return s.withSession((*engine.Session).Pause)
}

func (s *Service) TogglePause() error {
	return s.withSession((*engine.Session).TogglePause)
}

func (s *Service) Stop() error {
	return s.withSession((*engine.Session).Stop)
}

func (s *Service) Seek(position float64) error {
	return s.withSession(func(e *engine.Session) error { return e.Seek(position) })
}

func (s *Service) SeekRelative(offset float64) error {
	return s.withSession(func(e *engine.Session) error { return e.SeekRelative(offset) })
}

func (s *Service) SetVolume(volume float64) error {
	return s.withSession(func(e *engine.Session) error { return e.SetVolume(volume) })
}

func (s *Service) SetSpeed(speed float64) error {
	return s.withSession(func(e *engine.Session) error { return e.SetSpeed(speed) })
}

// SetSubtitleTrack selects a subtitle track, or disables subtitles for None.
func (s *Service) SetSubtitleTrack(id mo.Option[int64]) error {
	return s.withSession(func(e *engine.Session) error { return e.SetSubtitleTrack(id) })
}

func (s *Service) SetAudioTrack(id int64) error {
	return s.withSession(func(e *engine.Session) error { return e.SetAudioTrack(id) })
}

func (s *Service) FrameStep() error {
	return s.withSession((*engine.Session).FrameStep)
}

func (s *Service) FrameBackStep() error {
	return s.withSession((*engine.Session).FrameBackStep)
}

// Screenshot saves the current video frame to path.
func (s *Service) Screenshot(path string) error {
	return s.withSession(func(e *engine.Session) error { return e.Screenshot(path) })
}

// SetDetachedControls toggles the engine's own on-screen controller.
func (s *Service) SetDetachedControls(enabled bool) error {
	return s.withSession(func(e *engine.Session) error { return e.SetDetachedControls(enabled) })
}

// Status is media.IdleStatus when playback is disabled.
func (s *Service) Status() media.Status {
	session := s.currentSession()
	if session == nil {
		return media.IdleStatus
	}
	return session.Status()
}

// Tracks lists audio and subtitle tracks; both lists are empty when
// playback is disabled.
func (s *Service) Tracks() media.TrackList {
	session := s.currentSession()
	if session == nil {
		return media.NewTrackList(nil)
	}
	return media.NewTrackList(session.Tracks())
}

// AudioLevels is media.SilentLevels when playback is disabled.
func (s *Service) AudioLevels() media.AudioLevels {
	session := s.currentSession()
	if session == nil {
		return media.SilentLevels
	}
	return session.AudioLevels()
}

// CurrentPath is the loaded file, or empty.
func (s *Service) CurrentPath() string {
	session := s.currentSession()
	if session == nil {
		return ""
	}
	return session.CurrentPath()
}
