// Package engine binds the libmpv C API at runtime and wraps one engine
// instance in a Session.
//
// The shared library is resolved by path probing and bound with purego, so
// the binary builds without cgo and runs without libmpv installed: playback
// is simply unavailable in that case.
package engine

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// Handle is an opaque mpv_handle pointer.
type Handle uintptr

// Format is an mpv_format value.
type Format int32

const (
	FormatNone   Format = 0
	FormatString Format = 1
	FormatFlag   Format = 3
	FormatInt64  Format = 4
	FormatDouble Format = 5
)

// EventID is an mpv_event_id value. Only the ids this package reacts to are named.
type EventID int32

const (
	EventNone           EventID = 0
	EventShutdown       EventID = 1
	EventFileLoaded     EventID = 8
	EventPropertyChange EventID = 22
)

// Event is a decoded mpv_event.
type Event struct {
	ID       EventID
	Error    int
	ReplyID  uint64
	Property mo.Option[Property]
}

// Property is the payload of a property-change event. Value is nil when the
// property became unavailable, otherwise a float64, bool, int64 or string
// depending on Format.
type Property struct {
	Name   string
	Format Format
	Value  any
}

var (
	// ErrUnavailable is returned when no candidate library could be bound.
	ErrUnavailable = errors.New("mpv library not found")

	// ErrCreate is returned when mpv_create yields a null handle.
	ErrCreate = errors.New("failed to create mpv instance")

	// ErrClosed is returned by verbs on a closed session.
	ErrClosed = errors.New("engine session closed")

	// ErrEngine matches every *Error.
	ErrEngine = errors.New("engine call failed")
)

const (
	opCommand    = "command"
	opOption     = "option"
	opSet        = "set"
	opGet        = "get"
	opInitialize = "initialize"
)

// Error is a negative status code returned by the engine.
type Error struct {
	Op   string
	Name string
	Code int
}

func (e *Error) Error() string {
	switch e.Op {
	case opCommand:
		return fmt.Sprintf("failed command `%s`: error %d", e.Name, e.Code)
	case opOption:
		return fmt.Sprintf("failed to set option %s: error %d", e.Name, e.Code)
	case opSet:
		return fmt.Sprintf("failed to set property %s: error %d", e.Name, e.Code)
	case opGet:
		return fmt.Sprintf("failed to get property %s: error %d", e.Name, e.Code)
	case opInitialize:
		return fmt.Sprintf("failed to initialize mpv: error code %d", e.Code)
	default:
		return fmt.Sprintf("mpv %s %s: error %d", e.Op, e.Name, e.Code)
	}
}

func (e *Error) Is(target error) bool {
	return target == ErrEngine
}

// API is the typed call surface of the engine. *Binding implements it over
// the real library; enginetest.API implements it in memory.
type API interface {
	Create() Handle
	Initialize(h Handle) int
	TerminateDestroy(h Handle)

	// Command runs argv as one command, avoiding any quoting.
	Command(h Handle, args ...string) int
	CommandString(h Handle, cmd string) int
	SetOptionString(h Handle, name, value string) int

	// GetPropertyString reports false when the engine returned null.
	GetPropertyString(h Handle, name string) (string, bool)
	SetPropertyString(h Handle, name, value string) int

	GetFlag(h Handle, name string) (bool, int)
	SetFlag(h Handle, name string, value bool) int
	GetDouble(h Handle, name string) (float64, int)
	SetDouble(h Handle, name string, value float64) int
	GetInt64(h Handle, name string) (int64, int)

	ObserveProperty(h Handle, replyID uint64, name string, format Format) int

	// WaitEvent blocks for at most timeout seconds and returns EventNone on timeout.
	WaitEvent(h Handle, timeout float64) Event
}
