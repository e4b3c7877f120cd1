//go:build windows

package winsys

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/samber/mo"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW    = user32.NewProc("RegisterClassExW")
	procCreateWindowExW     = user32.NewProc("CreateWindowExW")
	procDefWindowProcW      = user32.NewProc("DefWindowProcW")
	procDestroyWindow       = user32.NewProc("DestroyWindow")
	procShowWindow          = user32.NewProc("ShowWindow")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procMoveWindow          = user32.NewProc("MoveWindow")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetClientRect       = user32.NewProc("GetClientRect")
	procClientToScreen      = user32.NewProc("ClientToScreen")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procSetWindowTextW      = user32.NewProc("SetWindowTextW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procGetStockObject      = gdi32.NewProc("GetStockObject")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
	procGetConsoleWindow    = kernel32.NewProc("GetConsoleWindow")

	procGetWindowLong = user32.NewProc(longProc("GetWindowLong"))
	procSetWindowLong = user32.NewProc(longProc("SetWindowLong"))
)

// longProc picks the pointer-sized variant on 64-bit targets.
func longProc(name string) string {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return name + "PtrW"
	}
	return name + "W"
}

const (
	wsPopup        = 0x80000000
	wsVisible      = 0x10000000
	wsClipChildren = 0x02000000
	wsClipSiblings = 0x04000000
	wsCaption      = 0x00C00000
	wsThickFrame   = 0x00040000

	wsExTopmost     = 0x00000008
	wsExTransparent = 0x00000020
	wsExToolWindow  = 0x00000080
	wsExAppWindow   = 0x00040000
	wsExNoActivate  = 0x08000000

	swpNoSize       = 0x0001
	swpNoMove       = 0x0002
	swpNoZOrder     = 0x0004
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020
	swpShowWindow   = 0x0040

	swHide = 0

	csVRedraw  = 0x0001
	csHRedraw  = 0x0002
	blackBrush = 4

	wmClose         = 0x0010
	wmMouseActivate = 0x0021
	wmApp           = 0x8000
	wmRunQueued     = wmApp + 1
	maNoActivate    = 3
	pmNoRemove      = 0

	monitorDefaultToNearest = 2
)

// Negative handles and indices as two's complement.
var (
	hwndNoTopmost  = ^uintptr(1)  // -2
	gwlStyle       = ^uintptr(15) // -16
	gwlExStyle     = ^uintptr(19) // -20
	gwlpHwndParent = ^uintptr(7)  // -8
)

const surfaceClass = "AmvNoteSurface"

type rect32 struct {
	Left, Top, Right, Bottom int32
}

func (r rect32) toRect() Rect {
	return Rect{X: int(r.Left), Y: int(r.Top), W: int(r.Right - r.Left), H: int(r.Bottom - r.Top)}
}

type point32 struct {
	X, Y int32
}

type monitorInfo struct {
	cbSize    uint32
	rcMonitor rect32
	rcWork    rect32
	dwFlags   uint32
}

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point32
}

type savedPlacement struct {
	rect      Rect
	style, ex uintptr
}

type win32 struct {
	mu       sync.Mutex
	calls    chan func()
	threadID uint32
	instance uintptr
	onClose  func(Handle)
	saved    map[Handle]savedPlacement
}

var native struct {
	once sync.Once
	sys  *win32
	err  error
}

// Native returns the Win32 backend. Windows are created on a dedicated,
// locked OS thread running a message loop.
func Native() (System, error) {
	native.once.Do(func() {
		w := &win32{
			calls: make(chan func(), 16),
			saved: make(map[Handle]savedPlacement),
		}
		ready := make(chan error, 1)
		go w.loop(ready)
		if err := <-ready; err != nil {
			native.err = err
			return
		}
		native.sys = w
	})
	if native.err != nil {
		return nil, native.err
	}
	return native.sys, nil
}

// TerminalWindow is the console window hosting this process, if any.
func TerminalWindow() mo.Option[Handle] {
	h, _, _ := procGetConsoleWindow.Call()
	if h == 0 {
		return mo.None[Handle]()
	}
	return mo.Some(Handle(h))
}

var wndProc = windows.NewCallback(func(hwnd, message, wParam, lParam uintptr) uintptr {
	switch message {
	case wmMouseActivate:
		return maNoActivate
	case wmClose:
		procShowWindow.Call(hwnd, swHide)
		if native.sys != nil {
			native.sys.notifyClose(Handle(hwnd))
		}
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
})

func (w *win32) loop(ready chan<- error) {
	runtime.LockOSThread()
	w.threadID = windows.GetCurrentThreadId()

	instance, _, _ := procGetModuleHandleW.Call(0)
	w.instance = instance

	brush, _, _ := procGetStockObject.Call(blackBrush)
	class := wndClassEx{
		style:         csHRedraw | csVRedraw,
		lpfnWndProc:   wndProc,
		hInstance:     instance,
		hbrBackground: brush,
		lpszClassName: windows.StringToUTF16Ptr(surfaceClass),
	}
	class.cbSize = uint32(unsafe.Sizeof(class))
	if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&class))); r == 0 {
		ready <- &CallError{Op: "RegisterClassExW", Err: err}
		return
	}

	// The thread gets a message queue on its first message call. Peek once so
	// posts from onThread cannot race its creation.
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
	ready <- nil

	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
		if m.hwnd == 0 && m.message == wmRunQueued {
			w.drain()
			continue
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (w *win32) drain() {
	for {
		select {
		case f := <-w.calls:
			f()
		default:
			return
		}
	}
}

// States of a call queued by onThread.
const (
	callQueued int32 = iota
	callRunning
	callAbandoned
)

// onThread runs f on the window thread and returns its error. Calls made on
// the window thread itself run inline, so methods may call one another.
func (w *win32) onThread(f func() error) error {
	if windows.GetCurrentThreadId() == w.threadID {
		return f()
	}

	var (
		state atomic.Int32
		err   error
	)
	done := make(chan struct{})
	w.calls <- func() {
		if !state.CompareAndSwap(callQueued, callRunning) {
			return
		}
		defer close(done)
		err = f()
	}

	r, _, postErr := procPostThreadMessageW.Call(uintptr(w.threadID), wmRunQueued, 0, 0)
	if r == 0 && state.CompareAndSwap(callQueued, callAbandoned) {
		return &CallError{Op: "PostThreadMessageW", Err: postErr}
	}
	<-done
	return err
}

func (w *win32) notifyClose(h Handle) {
	w.mu.Lock()
	cb := w.onClose
	w.mu.Unlock()
	if cb != nil {
		go cb(h)
	}
}

func (w *win32) OnClose(cb func(Handle)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClose = cb
}

func (w *win32) Valid(h Handle) bool {
	r, _, _ := procIsWindow.Call(uintptr(h))
	return r != 0
}

func (w *win32) check(h Handle) error {
	if h == 0 || !w.Valid(h) {
		return ErrInvalidHandle
	}
	return nil
}

func (w *win32) CreateSurface(owner Handle, title string) (Handle, error) {
	var hwnd uintptr
	err := w.onThread(func() error {
		var callErr error
		hwnd, _, callErr = procCreateWindowExW.Call(
			wsExToolWindow|wsExNoActivate,
			uintptr(unsafe.Pointer(windows.StringToUTF16Ptr(surfaceClass))),
			uintptr(unsafe.Pointer(windows.StringToUTF16Ptr(title))),
			wsPopup|wsClipChildren|wsClipSiblings,
			0, 0, 1, 1,
			uintptr(owner), 0, w.instance, 0,
		)
		if hwnd == 0 {
			return &CallError{Op: "CreateWindowExW", Err: callErr}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return Handle(hwnd), nil
}

func (w *win32) Destroy(h Handle) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		if r, _, err := procDestroyWindow.Call(uintptr(h)); r == 0 {
			return &CallError{Op: "DestroyWindow", Err: err}
		}
		return nil
	})
}

func insertAfter(order Order) (uintptr, uintptr) {
	switch order {
	case OrderTop:
		return 0, 0
	case OrderNoTopmost:
		return hwndNoTopmost, 0
	default:
		return 0, swpNoZOrder
	}
}

func (w *win32) setWindowPos(op string, h Handle, order Order, r Rect, flags uintptr) error {
	after, extra := insertAfter(order)
	ok, _, err := procSetWindowPos.Call(uintptr(h), after,
		uintptr(r.X), uintptr(r.Y), uintptr(r.W), uintptr(r.H),
		flags|extra)
	if ok == 0 {
		return &CallError{Op: op, Err: err}
	}
	return nil
}

func (w *win32) Show(h Handle, order Order) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		return w.setWindowPos("Show", h, order, Rect{}, swpNoMove|swpNoSize|swpNoActivate|swpShowWindow)
	})
}

func (w *win32) Hide(h Handle) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		procShowWindow.Call(uintptr(h), swHide)
		return nil
	})
}

func (w *win32) Visible(h Handle) bool {
	if !w.Valid(h) {
		return false
	}
	r, _, _ := procIsWindowVisible.Call(uintptr(h))
	return r != 0
}

func (w *win32) Move(h Handle, r Rect) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		ok, _, err := procMoveWindow.Call(uintptr(h), uintptr(r.X), uintptr(r.Y), uintptr(r.W), uintptr(r.H), 1)
		if ok == 0 {
			return &CallError{Op: "MoveWindow", Err: err}
		}
		return nil
	})
}

func (w *win32) Place(h Handle, order Order, r Rect, show bool) error {
	if err := w.check(h); err != nil {
		return err
	}
	flags := uintptr(swpNoActivate | swpFrameChanged)
	if show {
		flags |= swpShowWindow
	}
	return w.onThread(func() error {
		return w.setWindowPos("Place", h, order, r, flags)
	})
}

func (w *win32) Reorder(h Handle, order Order) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		return w.setWindowPos("Reorder", h, order, Rect{}, swpNoMove|swpNoSize|swpNoActivate)
	})
}

func getLong(h Handle, index uintptr) uintptr {
	r, _, _ := procGetWindowLong.Call(uintptr(h), index)
	return r
}

func setLong(h Handle, index, value uintptr) {
	procSetWindowLong.Call(uintptr(h), index, value)
}

func styleBits(s Style) (style, ex uintptr) {
	const clip = wsClipChildren | wsClipSiblings
	switch s {
	case StyleFullscreen:
		return wsPopup | clip, wsExAppWindow
	case StyleDetached:
		return wsPopup | wsCaption | wsThickFrame | clip, wsExAppWindow
	default:
		return wsPopup | clip, wsExToolWindow | wsExNoActivate
	}
}

func (w *win32) SetStyle(h Handle, s Style) error {
	if err := w.check(h); err != nil {
		return err
	}

	return w.onThread(func() error {
		if s == StyleOverlay {
			ex := getLong(h, gwlExStyle) &^ (wsExTransparent | wsExTopmost)
			setLong(h, gwlExStyle, ex)
			return w.setWindowPos("SetStyle", h, OrderNoTopmost, Rect{}, swpNoMove|swpNoSize|swpNoActivate)
		}

		style, ex := styleBits(s)
		if w.Visible(h) {
			style |= wsVisible
		}
		setLong(h, gwlStyle, style)
		setLong(h, gwlExStyle, ex)
		return nil
	})
}

func (w *win32) SetOwner(h Handle, owner Handle) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		setLong(h, gwlpHwndParent, uintptr(owner))
		return nil
	})
}

func (w *win32) SetTitle(h Handle, title string) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		ok, _, err := procSetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(windows.StringToUTF16Ptr(title))))
		if ok == 0 {
			return &CallError{Op: "SetWindowTextW", Err: err}
		}
		return nil
	})
}

func (w *win32) ClientToScreen(h Handle, x, y int) (int, int, error) {
	if err := w.check(h); err != nil {
		return 0, 0, err
	}
	pt := point32{X: int32(x), Y: int32(y)}
	ok, _, err := procClientToScreen.Call(uintptr(h), uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return 0, 0, &CallError{Op: "ClientToScreen", Err: err}
	}
	return int(pt.X), int(pt.Y), nil
}

func (w *win32) WindowRect(h Handle) (Rect, error) {
	if err := w.check(h); err != nil {
		return Rect{}, err
	}
	var rc rect32
	ok, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&rc)))
	if ok == 0 {
		return Rect{}, &CallError{Op: "GetWindowRect", Err: err}
	}
	return rc.toRect().Clamp(1, 1), nil
}

func (w *win32) ClientRectScreen(h Handle) (Rect, error) {
	if err := w.check(h); err != nil {
		return Rect{}, err
	}
	var rc rect32
	ok, _, err := procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&rc)))
	if ok == 0 {
		return Rect{}, &CallError{Op: "GetClientRect", Err: err}
	}

	topLeft := point32{X: rc.Left, Y: rc.Top}
	bottomRight := point32{X: rc.Right, Y: rc.Bottom}
	if ok, _, err := procClientToScreen.Call(uintptr(h), uintptr(unsafe.Pointer(&topLeft))); ok == 0 {
		return Rect{}, &CallError{Op: "ClientToScreen", Err: err}
	}
	if ok, _, err := procClientToScreen.Call(uintptr(h), uintptr(unsafe.Pointer(&bottomRight))); ok == 0 {
		return Rect{}, &CallError{Op: "ClientToScreen", Err: err}
	}
	return rect32{Left: topLeft.X, Top: topLeft.Y, Right: bottomRight.X, Bottom: bottomRight.Y}.toRect().Clamp(1, 1), nil
}

func (w *win32) MonitorRect(h Handle) (Rect, error) {
	if err := w.check(h); err != nil {
		return Rect{}, err
	}
	monitor, _, _ := procMonitorFromWindow.Call(uintptr(h), monitorDefaultToNearest)
	if monitor == 0 {
		return Rect{}, &CallError{Op: "MonitorFromWindow"}
	}
	info := monitorInfo{}
	info.cbSize = uint32(unsafe.Sizeof(info))
	ok, _, err := procGetMonitorInfoW.Call(monitor, uintptr(unsafe.Pointer(&info)))
	if ok == 0 {
		return Rect{}, &CallError{Op: "GetMonitorInfoW", Err: err}
	}
	return info.rcMonitor.toRect(), nil
}

func (w *win32) Focus(h Handle) error {
	if err := w.check(h); err != nil {
		return err
	}
	return w.onThread(func() error {
		if ok, _, err := procSetForegroundWindow.Call(uintptr(h)); ok == 0 {
			return &CallError{Op: "SetForegroundWindow", Err: err}
		}
		return nil
	})
}

func (w *win32) SetFullscreen(h Handle, on bool) error {
	if err := w.check(h); err != nil {
		return err
	}

	return w.onThread(func() error { return w.setFullscreen(h, on) })
}

func (w *win32) setFullscreen(h Handle, on bool) error {
	w.mu.Lock()
	saved, isFullscreen := w.saved[h]
	w.mu.Unlock()

	if on {
		if isFullscreen {
			return nil
		}
		r, err := w.WindowRect(h)
		if err != nil {
			return err
		}
		monitor, err := w.MonitorRect(h)
		if err != nil {
			return err
		}

		w.mu.Lock()
		w.saved[h] = savedPlacement{rect: r, style: getLong(h, gwlStyle), ex: getLong(h, gwlExStyle)}
		w.mu.Unlock()

		setLong(h, gwlStyle, wsPopup|wsVisible|wsClipChildren|wsClipSiblings)
		return w.setWindowPos("SetFullscreen", h, OrderTop, monitor, swpFrameChanged|swpShowWindow|swpNoActivate)
	}

	if !isFullscreen {
		return nil
	}
	w.mu.Lock()
	delete(w.saved, h)
	w.mu.Unlock()

	setLong(h, gwlStyle, saved.style)
	setLong(h, gwlExStyle, saved.ex)
	return w.setWindowPos("SetFullscreen", h, OrderNoTopmost, saved.rect, swpFrameChanged|swpNoActivate)
}
