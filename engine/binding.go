//go:build darwin || linux || freebsd || windows

package engine

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/samber/mo"
)

// Binding is the resolved libmpv entry point table.
type Binding struct {
	path string
	lib  Library

	create            func() uintptr
	initialize        func(h uintptr) int32
	terminateDestroy  func(h uintptr)
	command           func(h uintptr, argv unsafe.Pointer) int32
	commandString     func(h uintptr, cmd string) int32
	setOptionString   func(h uintptr, name, value string) int32
	getPropertyString func(h uintptr, name string) uintptr
	setPropertyString func(h uintptr, name, value string) int32
	setProperty       func(h uintptr, name string, format int32, data unsafe.Pointer) int32
	getProperty       func(h uintptr, name string, format int32, data unsafe.Pointer) int32
	observeProperty   func(h uintptr, reply uint64, name string, format int32) int32
	waitEvent         func(h uintptr, timeout float64) uintptr
	free              func(data uintptr)
}

var _ API = (*Binding)(nil)

type symbol struct {
	name string
	fn   any
}

func (b *Binding) symbols() []symbol {
	return []symbol{
		{"mpv_create", &b.create},
		{"mpv_initialize", &b.initialize},
		{"mpv_terminate_destroy", &b.terminateDestroy},
		{"mpv_command", &b.command},
		{"mpv_command_string", &b.commandString},
		{"mpv_set_option_string", &b.setOptionString},
		{"mpv_get_property_string", &b.getPropertyString},
		{"mpv_set_property_string", &b.setPropertyString},
		{"mpv_set_property", &b.setProperty},
		{"mpv_get_property", &b.getProperty},
		{"mpv_observe_property", &b.observeProperty},
		{"mpv_wait_event", &b.waitEvent},
		{"mpv_free", &b.free},
	}
}

// RequiredSymbols lists every export a library must provide to be bound.
func RequiredSymbols() []string {
	var names []string
	for _, s := range new(Binding).symbols() {
		names = append(names, s.name)
	}
	return names
}

// bind resolves every symbol before registering any, so a partial library
// is rejected as a whole.
func bind(path string, lib Library) (b *Binding, err error) {
	b = &Binding{path: path, lib: lib}

	table := b.symbols()
	addrs := make([]uintptr, len(table))
	for i, s := range table {
		addr, err := lib.Symbol(s.name)
		if err != nil || addr == 0 {
			return nil, fmt.Errorf("failed to load %s: %v", s.name, err)
		}
		addrs[i] = addr
	}

	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("register %s: %v", path, r)
		}
	}()
	for i, s := range table {
		purego.RegisterFunc(s.fn, addrs[i])
	}
	return b, nil
}

// Path is the file the binding was loaded from.
func (b *Binding) Path() string {
	return b.path
}

// Close unloads the library. No session created from b may be alive.
func (b *Binding) Close() error {
	return b.lib.Close()
}

func (b *Binding) Create() Handle {
	return Handle(b.create())
}

func (b *Binding) Initialize(h Handle) int {
	return int(b.initialize(uintptr(h)))
}

func (b *Binding) TerminateDestroy(h Handle) {
	b.terminateDestroy(uintptr(h))
}

func (b *Binding) Command(h Handle, args ...string) int {
	bufs := make([][]byte, len(args))
	argv := make([]*byte, len(args)+1)
	for i, arg := range args {
		bufs[i] = append([]byte(arg), 0)
		argv[i] = &bufs[i][0]
	}

	rc := b.command(uintptr(h), unsafe.Pointer(&argv[0]))
	runtime.KeepAlive(bufs)
	runtime.KeepAlive(argv)
	return int(rc)
}

func (b *Binding) CommandString(h Handle, cmd string) int {
	return int(b.commandString(uintptr(h), cmd))
}

func (b *Binding) SetOptionString(h Handle, name, value string) int {
	return int(b.setOptionString(uintptr(h), name, value))
}

func (b *Binding) GetPropertyString(h Handle, name string) (string, bool) {
	p := b.getPropertyString(uintptr(h), name)
	if p == 0 {
		return "", false
	}
	defer b.free(p)
	return goString(p), true
}

func (b *Binding) SetPropertyString(h Handle, name, value string) int {
	return int(b.setPropertyString(uintptr(h), name, value))
}

func (b *Binding) GetFlag(h Handle, name string) (bool, int) {
	var v int32
	rc := b.getProperty(uintptr(h), name, int32(FormatFlag), unsafe.Pointer(&v))
	return v != 0, int(rc)
}

func (b *Binding) SetFlag(h Handle, name string, value bool) int {
	var v int32
	if value {
		v = 1
	}
	return int(b.setProperty(uintptr(h), name, int32(FormatFlag), unsafe.Pointer(&v)))
}

func (b *Binding) GetDouble(h Handle, name string) (float64, int) {
	var v float64
	rc := b.getProperty(uintptr(h), name, int32(FormatDouble), unsafe.Pointer(&v))
	return v, int(rc)
}

func (b *Binding) SetDouble(h Handle, name string, value float64) int {
	return int(b.setProperty(uintptr(h), name, int32(FormatDouble), unsafe.Pointer(&value)))
}

func (b *Binding) GetInt64(h Handle, name string) (int64, int) {
	var v int64
	rc := b.getProperty(uintptr(h), name, int32(FormatInt64), unsafe.Pointer(&v))
	return v, int(rc)
}

func (b *Binding) ObserveProperty(h Handle, replyID uint64, name string, format Format) int {
	return int(b.observeProperty(uintptr(h), replyID, name, int32(format)))
}

// rawEvent mirrors struct mpv_event.
type rawEvent struct {
	id    int32
	err   int32
	reply uint64
	data  uintptr
}

// rawProperty mirrors struct mpv_event_property.
type rawProperty struct {
	name   uintptr
	format int32
	data   uintptr
}

func (b *Binding) WaitEvent(h Handle, timeout float64) Event {
	p := b.waitEvent(uintptr(h), timeout)
	if p == 0 {
		return Event{ID: EventNone}
	}

	raw := (*rawEvent)(unsafe.Pointer(p))
	ev := Event{
		ID:      EventID(raw.id),
		Error:   int(raw.err),
		ReplyID: raw.reply,
	}
	if ev.ID == EventPropertyChange && raw.data != 0 {
		ev.Property = mo.Some(decodeProperty((*rawProperty)(unsafe.Pointer(raw.data))))
	}
	return ev
}

func decodeProperty(raw *rawProperty) Property {
	prop := Property{Name: goString(raw.name), Format: Format(raw.format)}
	if raw.data == 0 {
		return prop
	}

	data := unsafe.Pointer(raw.data)
	switch prop.Format {
	case FormatDouble:
		prop.Value = *(*float64)(data)
	case FormatFlag:
		prop.Value = *(*int32)(data) != 0
	case FormatInt64:
		prop.Value = *(*int64)(data)
	case FormatString:
		prop.Value = goString(*(*uintptr)(data))
	}
	return prop
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := unsafe.Pointer(p)
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
