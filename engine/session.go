package engine

import (
	"strconv"
	"strings"
	"sync"

	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// dbmeterFilter exposes per-channel levels through af-metadata.
const dbmeterFilter = "@dbmeter:lavfi=[astats=metadata=1:reset=1]"

var baseOptions = [][2]string{
	{"keep-open", "yes"},
	{"idle", "yes"},
	{"osc", "no"},
	{"input-default-bindings", "no"},
	{"terminal", "no"},
	{"msg-level", "all=no"},
	{"af", dbmeterFilter},
}

type observedProperty struct {
	name   string
	format Format
}

// observed properties, reply id = index.
var observed = []observedProperty{
	{"time-pos", FormatDouble},
	{"duration", FormatDouble},
	{"pause", FormatFlag},
	{"volume", FormatDouble},
	{"speed", FormatDouble},
	{"eof-reached", FormatFlag},
}

// Session owns exactly one engine handle. All calls are serialized.
type Session struct {
	mu     sync.Mutex
	api    API
	handle Handle
	closed bool
	events *listener
}

// NewSession creates and initializes an engine instance. With a target the
// video output is embedded into that native window; without one the instance
// is headless.
func NewSession(api API, target mo.Option[int64]) (*Session, error) {
	h := api.Create()
	if h == 0 {
		return nil, ErrCreate
	}

	options := append([][2]string{}, baseOptions...)
	if hwdec := viper.GetString(key.EngineHwdec); hwdec != "" {
		options = append(options, [2]string{"hwdec", hwdec})
	}
	if wid, ok := target.Get(); ok {
		options = append(options, [2]string{"wid", strconv.FormatInt(wid, 10)})
	} else {
		options = append(options, [2]string{"force-window", "no"})
	}

	for _, opt := range options {
		if rc := api.SetOptionString(h, opt[0], opt[1]); rc < 0 {
			log.WithField("option", opt[0]).Warnf("engine option rejected: %v", &Error{Op: opOption, Name: opt[0], Code: rc})
		}
	}

	if rc := api.Initialize(h); rc < 0 {
		api.TerminateDestroy(h)
		return nil, &Error{Op: opInitialize, Code: rc}
	}

	for id, prop := range observed {
		if rc := api.ObserveProperty(h, uint64(id), prop.name, prop.format); rc < 0 {
			log.WithField("property", prop.name).Debugf("observe failed: %d", rc)
		}
	}

	return &Session{api: api, handle: h}, nil
}

// Close stops event delivery and destroys the handle. Only the first call
// has an effect.
func (s *Session) Close() {
	s.StopListening()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.api.TerminateDestroy(s.handle)
	s.handle = 0
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) do(f func(h Handle) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return f(s.handle)
}

// read runs f under the lock and swallows any panic so reads always yield
// their defaults.
func (s *Session) read(f func(h Handle)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warnf("engine read recovered: %v", r)
		}
	}()
	f(s.handle)
}

func (s *Session) commandString(h Handle, cmd string) error {
	if rc := s.api.CommandString(h, cmd); rc < 0 {
		return &Error{Op: opCommand, Name: cmd, Code: rc}
	}
	return nil
}

func (s *Session) command(h Handle, args ...string) error {
	if rc := s.api.Command(h, args...); rc < 0 {
		return &Error{Op: opCommand, Name: strings.Join(args, " "), Code: rc}
	}
	return nil
}

func (s *Session) setString(h Handle, name, value string) error {
	if rc := s.api.SetPropertyString(h, name, value); rc < 0 {
		return &Error{Op: opSet, Name: name, Code: rc}
	}
	return nil
}

func (s *Session) setFlag(h Handle, name string, value bool) error {
	if rc := s.api.SetFlag(h, name, value); rc < 0 {
		return &Error{Op: opSet, Name: name, Code: rc}
	}
	return nil
}

func (s *Session) setDouble(h Handle, name string, value float64) error {
	if rc := s.api.SetDouble(h, name, value); rc < 0 {
		return &Error{Op: opSet, Name: name, Code: rc}
	}
	return nil
}

func (s *Session) str(h Handle, name string) string {
	v, _ := s.api.GetPropertyString(h, name)
	return v
}

func (s *Session) flag(h Handle, name string, fallback bool) bool {
	v, rc := s.api.GetFlag(h, name)
	if rc < 0 {
		return fallback
	}
	return v
}

func (s *Session) double(h Handle, name string, fallback float64) float64 {
	v, rc := s.api.GetDouble(h, name)
	if rc < 0 {
		return fallback
	}
	return v
}

func observedNames() string {
	return strings.Join(lo.Map(observed, func(p observedProperty, _ int) string {
		return p.name
	}), ", ")
}
