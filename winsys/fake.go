package winsys

import (
	"fmt"
	"sync"
)

// Frame insets the fake applies to styles with a caption.
const (
	FakeBorder  = 8
	FakeCaption = 31
)

// FakeWindow is the recorded state of one fake window.
type FakeWindow struct {
	Rect         Rect
	Visible      bool
	Style        Style
	Owner        Handle
	Title        string
	Order        Order
	OSFullscreen bool
	Destroyed    bool
}

// Fake is an in-memory System. It records every call and can be told to
// fail specific operations.
type Fake struct {
	mu      sync.Mutex
	windows map[Handle]*FakeWindow
	next    Handle
	fail    map[string]int
	onClose func(Handle)

	// Monitor is returned by MonitorRect.
	Monitor Rect
	// Calls lists operations in order, formatted as "Op(handle)".
	Calls   []string
	Focused Handle
}

var _ System = (*Fake)(nil)

// NewFake returns a fake with a single 1920x1080 monitor.
func NewFake() *Fake {
	return &Fake{
		windows: make(map[Handle]*FakeWindow),
		fail:    make(map[string]int),
		next:    100,
		Monitor: Rect{W: 1920, H: 1080},
	}
}

// AddWindow registers a foreign, visible window such as a host. A
// StyleDetached window has a frame, so its client area sits inside r by
// FakeBorder and FakeCaption.
func (f *Fake) AddWindow(r Rect, style Style) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.windows[f.next] = &FakeWindow{Rect: r, Visible: true, Style: style}
	return f.next
}

// Window returns a copy of the state of h.
func (f *Fake) Window(h Handle) FakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		return *w
	}
	return FakeWindow{}
}

// Resize simulates a user resizing h.
func (f *Fake) Resize(h Handle, r Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		w.Rect = r
	}
}

// Close simulates a user close request.
func (f *Fake) Close(h Handle) {
	f.mu.Lock()
	w, ok := f.windows[h]
	if ok {
		w.Visible = false
	}
	cb := f.onClose
	f.mu.Unlock()

	if ok && cb != nil {
		cb(h)
	}
}

// FailNext makes the next n calls of op fail. A negative n fails forever.
func (f *Fake) FailNext(op string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = n
}

// Count returns how many times op was called.
func (f *Fake) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	prefix := op + "("
	for _, c := range f.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// call records op and returns the window, or an error when op is set to fail
// or h is unknown.
func (f *Fake) call(op string, h Handle) (*FakeWindow, error) {
	f.Calls = append(f.Calls, fmt.Sprintf("%s(%d)", op, h))

	if n, ok := f.fail[op]; ok && n != 0 {
		if n > 0 {
			f.fail[op] = n - 1
		}
		return nil, &CallError{Op: op}
	}

	w, ok := f.windows[h]
	if !ok || w.Destroyed {
		return nil, ErrInvalidHandle
	}
	return w, nil
}

func (f *Fake) CreateSurface(owner Handle, title string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, fmt.Sprintf("CreateSurface(%d)", owner))
	if n := f.fail["CreateSurface"]; n != 0 {
		if n > 0 {
			f.fail["CreateSurface"] = n - 1
		}
		return 0, &CallError{Op: "CreateSurface"}
	}

	f.next++
	f.windows[f.next] = &FakeWindow{Rect: Unit, Style: StyleEmbedded, Owner: owner, Title: title}
	return f.next, nil
}

func (f *Fake) Destroy(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Destroy", h)
	if err != nil {
		return err
	}
	w.Destroyed = true
	w.Visible = false
	return nil
}

func (f *Fake) Show(h Handle, order Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Show", h)
	if err != nil {
		return err
	}
	w.Visible = true
	if order != OrderKeep {
		w.Order = order
	}
	return nil
}

func (f *Fake) Hide(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Hide", h)
	if err != nil {
		return err
	}
	w.Visible = false
	return nil
}

func (f *Fake) Visible(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[h]
	return ok && !w.Destroyed && w.Visible
}

func (f *Fake) Valid(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[h]
	return ok && !w.Destroyed
}

func (f *Fake) Move(h Handle, r Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Move", h)
	if err != nil {
		return err
	}
	w.Rect = r
	return nil
}

func (f *Fake) Place(h Handle, order Order, r Rect, show bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Place", h)
	if err != nil {
		return err
	}
	w.Rect = r
	if order != OrderKeep {
		w.Order = order
	}
	if show {
		w.Visible = true
	}
	return nil
}

func (f *Fake) Reorder(h Handle, order Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("Reorder", h)
	if err != nil {
		return err
	}
	w.Order = order
	return nil
}

func (f *Fake) SetStyle(h Handle, s Style) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("SetStyle", h)
	if err != nil {
		return err
	}
	w.Style = s
	return nil
}

func (f *Fake) SetOwner(h Handle, owner Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("SetOwner", h)
	if err != nil {
		return err
	}
	w.Owner = owner
	return nil
}

func (f *Fake) SetTitle(h Handle, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("SetTitle", h)
	if err != nil {
		return err
	}
	w.Title = title
	return nil
}

func (f *Fake) clientRect(w *FakeWindow) Rect {
	if w.Style != StyleDetached {
		return w.Rect
	}
	return Rect{
		X: w.Rect.X + FakeBorder,
		Y: w.Rect.Y + FakeCaption,
		W: max(w.Rect.W-2*FakeBorder, 1),
		H: max(w.Rect.H-FakeCaption-FakeBorder, 1),
	}
}

func (f *Fake) ClientToScreen(h Handle, x, y int) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("ClientToScreen", h)
	if err != nil {
		return 0, 0, err
	}
	c := f.clientRect(w)
	return c.X + x, c.Y + y, nil
}

func (f *Fake) WindowRect(h Handle) (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("WindowRect", h)
	if err != nil {
		return Rect{}, err
	}
	return w.Rect.Clamp(1, 1), nil
}

func (f *Fake) ClientRectScreen(h Handle) (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("ClientRectScreen", h)
	if err != nil {
		return Rect{}, err
	}
	return f.clientRect(w), nil
}

func (f *Fake) MonitorRect(h Handle) (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.call("MonitorRect", h); err != nil {
		return Rect{}, err
	}
	return f.Monitor, nil
}

func (f *Fake) Focus(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.call("Focus", h); err != nil {
		return err
	}
	f.Focused = h
	return nil
}

func (f *Fake) SetFullscreen(h Handle, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.call("SetFullscreen", h)
	if err != nil {
		return err
	}
	w.OSFullscreen = on
	return nil
}

func (f *Fake) OnClose(cb func(Handle)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onClose = cb
}
