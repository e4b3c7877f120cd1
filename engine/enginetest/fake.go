// Package enginetest provides an in-memory engine for tests.
package enginetest

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amvnote/amvnote/engine"
)

// errUnavailable is MPV_ERROR_PROPERTY_UNAVAILABLE.
const errUnavailable = -10

// API records calls and serves properties from maps. Zero value is not
// usable; call New.
type API struct {
	mu sync.Mutex

	Options  map[string]string
	Strings  map[string]string
	Flags    map[string]bool
	Doubles  map[string]float64
	Observed []string
	Commands []string

	// InitCode is returned by Initialize.
	InitCode int
	// CreateFails makes Create return a null handle.
	CreateFails bool
	// Fail maps a command prefix or property name to a negative status.
	Fail map[string]int
	// OnCommand runs after a command is recorded.
	OnCommand func(args []string)

	Created   int
	Destroyed int

	events chan engine.Event
}

var _ engine.API = (*API)(nil)

// New returns an engine reporting an idle, paused player.
func New() *API {
	return &API{
		Options: map[string]string{},
		Strings: map[string]string{},
		Flags:   map[string]bool{"pause": true},
		Doubles: map[string]float64{"volume": 100, "speed": 1},
		Fail:    map[string]int{},
		events:  make(chan engine.Event, 16),
	}
}

// Push queues an event for WaitEvent.
func (a *API) Push(ev engine.Event) {
	a.events <- ev
}

// Set stores a string property.
func (a *API) Set(name, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Strings[name] = value
}

// Recorded returns a copy of the command log.
func (a *API) Recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.Commands...)
}

func (a *API) failure(name string) int {
	for prefix, code := range a.Fail {
		if strings.HasPrefix(name, prefix) {
			return code
		}
	}
	return 0
}

func (a *API) Create() engine.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CreateFails {
		return 0
	}
	a.Created++
	return engine.Handle(a.Created)
}

func (a *API) Initialize(engine.Handle) int {
	return a.InitCode
}

func (a *API) TerminateDestroy(engine.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Destroyed++
}

func (a *API) run(args []string) int {
	a.mu.Lock()
	line := strings.Join(args, " ")
	a.Commands = append(a.Commands, line)
	code := a.failure(line)
	hook := a.OnCommand
	a.mu.Unlock()

	if code < 0 {
		return code
	}
	if hook != nil {
		hook(args)
	}
	return 0
}

func (a *API) Command(_ engine.Handle, args ...string) int {
	return a.run(args)
}

func (a *API) CommandString(_ engine.Handle, cmd string) int {
	return a.run(strings.Fields(cmd))
}

func (a *API) SetOptionString(_ engine.Handle, name, value string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Options[name] = value
	return 0
}

func (a *API) GetPropertyString(_ engine.Handle, name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.Strings[name]; ok {
		return v, true
	}
	if v, ok := a.Doubles[name]; ok {
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func (a *API) SetPropertyString(_ engine.Handle, name, value string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if code := a.failure(name); code < 0 {
		return code
	}
	a.Strings[name] = value
	return 0
}

func (a *API) GetFlag(_ engine.Handle, name string) (bool, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.Flags[name]
	if !ok {
		return false, errUnavailable
	}
	return v, 0
}

func (a *API) SetFlag(_ engine.Handle, name string, value bool) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if code := a.failure(name); code < 0 {
		return code
	}
	a.Flags[name] = value
	return 0
}

func (a *API) GetDouble(_ engine.Handle, name string) (float64, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.Doubles[name]
	if !ok {
		return 0, errUnavailable
	}
	return v, 0
}

func (a *API) SetDouble(_ engine.Handle, name string, value float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if code := a.failure(name); code < 0 {
		return code
	}
	a.Doubles[name] = value
	return 0
}

func (a *API) GetInt64(_ engine.Handle, name string) (int64, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.Doubles[name]
	if !ok {
		return 0, errUnavailable
	}
	return int64(v), 0
}

func (a *API) ObserveProperty(_ engine.Handle, _ uint64, name string, _ engine.Format) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Observed = append(a.Observed, name)
	return 0
}

func (a *API) WaitEvent(_ engine.Handle, timeout float64) engine.Event {
	select {
	case ev := <-a.events:
		return ev
	case <-time.After(time.Duration(timeout * float64(time.Second))):
		return engine.Event{ID: engine.EventNone}
	}
}
