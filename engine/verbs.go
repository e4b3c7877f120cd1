package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

func normalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Load replaces the current file.
func (s *Session) Load(path string) error {
	return s.do(func(h Handle) error {
		return s.command(h, "loadfile", normalizePath(path))
	})
}

func (s *Session) Play() error {
	return s.do(func(h Handle) error { return s.setFlag(h, "pause", false) })
}

func (s *Session) Pause() error {
	return s.do(func(h Handle) error { return s.setFlag(h, "pause", true) })
}

// TogglePause treats an unreadable pause state as paused.
func (s *Session) TogglePause() error {
	return s.do(func(h Handle) error {
		return s.setFlag(h, "pause", !s.flag(h, "pause", true))
	})
}

func (s *Session) Stop() error {
	return s.do(func(h Handle) error { return s.commandString(h, "stop") })
}

// Seek jumps to an absolute position in seconds.
func (s *Session) Seek(position float64) error {
	return s.do(func(h Handle) error {
		return s.commandString(h, fmt.Sprintf("seek %s absolute", formatSeconds(position)))
	})
}

// SeekRelative moves by offset seconds.
func (s *Session) SeekRelative(offset float64) error {
	return s.do(func(h Handle) error {
		return s.commandString(h, fmt.Sprintf("seek %s relative", formatSeconds(offset)))
	})
}

func (s *Session) SetVolume(volume float64) error {
	return s.do(func(h Handle) error { return s.setDouble(h, "volume", volume) })
}

func (s *Session) SetSpeed(speed float64) error {
	return s.do(func(h Handle) error { return s.setDouble(h, "speed", speed) })
}

// SetSubtitleTrack selects a subtitle track, or disables subtitles for None.
func (s *Session) SetSubtitleTrack(id mo.Option[int64]) error {
	value := "no"
	if v, ok := id.Get(); ok {
		value = strconv.FormatInt(v, 10)
	}
	return s.do(func(h Handle) error { return s.setString(h, "sid", value) })
}

func (s *Session) SetAudioTrack(id int64) error {
	return s.do(func(h Handle) error { return s.setString(h, "aid", strconv.FormatInt(id, 10)) })
}

func (s *Session) FrameStep() error {
	return s.do(func(h Handle) error { return s.commandString(h, "frame-step") })
}

func (s *Session) FrameBackStep() error {
	return s.do(func(h Handle) error { return s.commandString(h, "frame-back-step") })
}

// Screenshot writes the current video frame, without subtitles or OSD, to path.
func (s *Session) Screenshot(path string) error {
	return s.do(func(h Handle) error {
		return s.command(h, "screenshot-to-file", normalizePath(path), "video")
	})
}

// SetDetachedControls toggles the on-screen controller and default key bindings.
func (s *Session) SetDetachedControls(enabled bool) error {
	return s.do(func(h Handle) error {
		if err := s.setString(h, "osc", yesNo(enabled)); err != nil {
			return err
		}
		return s.setString(h, "input-default-bindings", yesNo(enabled))
	})
}

// SetWindowID moves the video output into another native window.
func (s *Session) SetWindowID(wid int64) error {
	return s.do(func(h Handle) error { return s.setString(h, "wid", strconv.FormatInt(wid, 10)) })
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
