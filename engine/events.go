package engine

import (
	"github.com/amvnote/amvnote/log"
)

// EventCallback receives every non-empty engine event.
type EventCallback func(Event)

type listener struct {
	stopCh chan struct{}
	done   chan struct{}
}

// eventPollSeconds bounds each mpv_wait_event call so Stop is observed promptly.
const eventPollSeconds = 0.25

// Listen starts delivering events to cb on a dedicated goroutine until
// StopListening, Close, or an engine shutdown. The callback may call back
// into s but must not call StopListening or Close.
func (s *Session) Listen(cb EventCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.events != nil {
		return nil
	}

	l := &listener{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.events = l
	go s.readLoop(l, s.handle, cb)

	log.Infof("engine event listener started (observing: %s)", observedNames())
	return nil
}

// StopListening stops the event goroutine and waits for it to exit.
func (s *Session) StopListening() {
	s.mu.Lock()
	l := s.events
	s.events = nil
	s.mu.Unlock()

	if l == nil {
		return
	}
	close(l.stopCh)
	<-l.done
}

func (s *Session) readLoop(l *listener, h Handle, cb EventCallback) {
	defer close(l.done)

	for {
		select {
		case <-l.stopCh:
			return
		default:
		}

		ev := s.api.WaitEvent(h, eventPollSeconds)
		if ev.ID == EventNone {
			continue
		}
		if cb != nil {
			cb(ev)
		}
		if ev.ID == EventShutdown {
			log.Infof("engine shut down, event listener stopped")
			return
		}
	}
}
