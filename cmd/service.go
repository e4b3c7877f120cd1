package cmd

import (
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/player"
	"github.com/amvnote/amvnote/winsys"
)

// terminalHost hosts an embedded surface in the terminal's own window.
type terminalHost struct {
	sys    winsys.System
	handle winsys.Handle
}

func (h terminalHost) Handle() winsys.Handle { return h.handle }

func (h terminalHost) Focus() {
	if err := h.sys.Focus(h.handle); err != nil {
		log.WithField("handle", h.handle).Debugf("terminal focus: %v", err)
	}
}

// newProbeService returns a service that only probes.
func newProbeService() *player.Service {
	return player.New(player.OptionsFromConfig())
}

// newPlaybackService returns a service with a video surface on the native
// window system. Without one the service only probes.
func newPlaybackService(notifier player.Notifier) *player.Service {
	opts := player.OptionsFromConfig()
	opts.Notifier = notifier

	sys, err := winsys.Native()
	if err != nil {
		log.Warnf("no window system: %v", err)
		return player.New(opts)
	}
	opts.System = sys

	if h, ok := winsys.TerminalWindow().Get(); ok {
		opts.Host = terminalHost{sys: sys, handle: h}
	}
	return player.New(opts)
}
