//go:build (linux && !android) || freebsd || openbsd || netbsd

package winsys

import (
	"os"
	"strconv"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/samber/mo"
)

type x11 struct {
	conn     *xgb.Conn
	screen   *xproto.ScreenInfo
	xinerama bool

	mu      sync.Mutex
	atoms   map[string]xproto.Atom
	onClose func(Handle)
}

var native struct {
	once sync.Once
	sys  *x11
	err  error
}

// Native connects to the X server named by $DISPLAY.
func Native() (System, error) {
	native.once.Do(func() {
		conn, err := xgb.NewConn()
		if err != nil {
			native.err = &CallError{Op: "connect", Err: err}
			return
		}
		x := &x11{
			conn:   conn,
			screen: xproto.Setup(conn).DefaultScreen(conn),
			atoms:  make(map[string]xproto.Atom),
		}
		x.xinerama = xinerama.Init(conn) == nil
		go x.eventLoop()
		native.sys = x
	})
	if native.err != nil {
		return nil, native.err
	}
	return native.sys, nil
}

// TerminalWindow is the terminal emulator window advertised through $WINDOWID.
func TerminalWindow() mo.Option[Handle] {
	id, err := strconv.ParseUint(os.Getenv("WINDOWID"), 10, 32)
	if err != nil || id == 0 {
		return mo.None[Handle]()
	}
	return mo.Some(Handle(id))
}

func (x *x11) atom(name string) xproto.Atom {
	x.mu.Lock()
	defer x.mu.Unlock()

	if a, ok := x.atoms[name]; ok {
		return a
	}
	reply, err := xproto.InternAtom(x.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone
	}
	x.atoms[name] = reply.Atom
	return reply.Atom
}

func (x *x11) eventLoop() {
	for {
		ev, err := x.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		msg, ok := ev.(xproto.ClientMessageEvent)
		if !ok || msg.Type != x.atom("WM_PROTOCOLS") {
			continue
		}
		if xproto.Atom(msg.Data.Data32[0]) != x.atom("WM_DELETE_WINDOW") {
			continue
		}

		_ = xproto.UnmapWindowChecked(x.conn, msg.Window).Check()
		x.mu.Lock()
		cb := x.onClose
		x.mu.Unlock()
		if cb != nil {
			go cb(Handle(msg.Window))
		}
	}
}

func (x *x11) OnClose(cb func(Handle)) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.onClose = cb
}

func win(h Handle) xproto.Window {
	return xproto.Window(h)
}

func (x *x11) check(h Handle) error {
	if h == 0 || !x.Valid(h) {
		return ErrInvalidHandle
	}
	return nil
}

func call(op string, err error) error {
	if err != nil {
		return &CallError{Op: op, Err: err}
	}
	return nil
}

func cardinals(values ...uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		xgb.Put32(buf[i*4:], v)
	}
	return buf
}

func (x *x11) setAtoms(h Handle, property, kind string, values ...xproto.Atom) error {
	data := make([]uint32, len(values))
	for i, v := range values {
		data[i] = uint32(v)
	}
	return xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, win(h),
		x.atom(property), x.atom(kind), 32, uint32(len(data)), cardinals(data...)).Check()
}

func (x *x11) CreateSurface(owner Handle, title string) (Handle, error) {
	id, err := xproto.NewWindowId(x.conn)
	if err != nil {
		return 0, call("NewWindowId", err)
	}

	err = xproto.CreateWindowChecked(x.conn, x.screen.RootDepth, id, x.screen.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, x.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{x.screen.BlackPixel, xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		return 0, call("CreateWindow", err)
	}

	h := Handle(id)
	if err := x.setAtoms(h, "WM_PROTOCOLS", "ATOM", x.atom("WM_DELETE_WINDOW")); err != nil {
		return 0, call("WM_PROTOCOLS", err)
	}
	_ = x.SetTitle(h, title)
	_ = x.SetOwner(h, owner)
	_ = x.SetStyle(h, StyleEmbedded)
	return h, nil
}

func (x *x11) Destroy(h Handle) error {
	return call("DestroyWindow", xproto.DestroyWindowChecked(x.conn, win(h)).Check())
}

func (x *x11) Show(h Handle, order Order) error {
	if err := x.check(h); err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(x.conn, win(h)).Check(); err != nil {
		return call("MapWindow", err)
	}
	return x.Reorder(h, order)
}

func (x *x11) Hide(h Handle) error {
	if err := x.check(h); err != nil {
		return err
	}
	return call("UnmapWindow", xproto.UnmapWindowChecked(x.conn, win(h)).Check())
}

func (x *x11) attributes(h Handle) (*xproto.GetWindowAttributesReply, error) {
	if h == 0 {
		return nil, ErrInvalidHandle
	}
	return xproto.GetWindowAttributes(x.conn, win(h)).Reply()
}

func (x *x11) Visible(h Handle) bool {
	attrs, err := x.attributes(h)
	return err == nil && attrs.MapState == xproto.MapStateViewable
}

func (x *x11) Valid(h Handle) bool {
	_, err := x.attributes(h)
	return err == nil
}

func geometryValues(r Rect) []uint32 {
	return []uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(max(r.W, 1)), uint32(max(r.H, 1))}
}

const geometryMask = xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight

func (x *x11) Move(h Handle, r Rect) error {
	if err := x.check(h); err != nil {
		return err
	}
	return call("ConfigureWindow", xproto.ConfigureWindowChecked(x.conn, win(h), geometryMask, geometryValues(r)).Check())
}

func (x *x11) Place(h Handle, order Order, r Rect, show bool) error {
	if err := x.Move(h, r); err != nil {
		return err
	}
	if show {
		return x.Show(h, order)
	}
	return x.Reorder(h, order)
}

// EWMH _NET_WM_STATE actions.
const (
	netWMStateRemove uint32 = 0
	netWMStateAdd    uint32 = 1
)

// wmState adds or removes a _NET_WM_STATE atom. A mapped window asks the
// window manager through a client message. An unmapped window has its
// property edited directly, which the window manager reads on map.
func (x *x11) wmState(h Handle, action uint32, state string) error {
	attrs, err := x.attributes(h)
	if err != nil {
		return err
	}
	if attrs.MapState == xproto.MapStateUnmapped {
		return x.setAtoms(h, "_NET_WM_STATE", "ATOM", editStates(x.wmStates(h), action, x.atom(state))...)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win(h),
		Type:   x.atom("_NET_WM_STATE"),
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{action, uint32(x.atom(state)), 0, 1, 0}),
	}
	return xproto.SendEventChecked(x.conn, false, x.screen.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes())).Check()
}

// wmStates reads the _NET_WM_STATE atoms currently set on h.
func (x *x11) wmStates(h Handle) []xproto.Atom {
	reply, err := xproto.GetProperty(x.conn, false, win(h), x.atom("_NET_WM_STATE"),
		xproto.AtomAtom, 0, 64).Reply()
	if err != nil || reply.Format != 32 {
		return nil
	}
	states := make([]xproto.Atom, 0, reply.ValueLen)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		states = append(states, xproto.Atom(xgb.Get32(reply.Value[i:])))
	}
	return states
}

// editStates applies action for state to a _NET_WM_STATE list, keeping the
// order of the other atoms and never duplicating one.
func editStates(states []xproto.Atom, action uint32, state xproto.Atom) []xproto.Atom {
	out := make([]xproto.Atom, 0, len(states)+1)
	for _, s := range states {
		if s != state {
			out = append(out, s)
		}
	}
	if action == netWMStateAdd {
		out = append(out, state)
	}
	return out
}

func (x *x11) Reorder(h Handle, order Order) error {
	if err := x.check(h); err != nil {
		return err
	}
	switch order {
	case OrderTop:
		return call("ConfigureWindow", xproto.ConfigureWindowChecked(x.conn, win(h),
			xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check())
	case OrderNoTopmost:
		return call("_NET_WM_STATE", x.wmState(h, netWMStateRemove, "_NET_WM_STATE_ABOVE"))
	}
	return nil
}

// Motif hint flags: decorations field present.
const motifHintsDecorations = 1 << 1

func (x *x11) SetStyle(h Handle, s Style) error {
	if err := x.check(h); err != nil {
		return err
	}

	decorations := uint32(0)
	windowType := "_NET_WM_WINDOW_TYPE_NORMAL"
	switch s {
	case StyleDetached, StyleOverlay:
		decorations = 1
	case StyleEmbedded:
		windowType = "_NET_WM_WINDOW_TYPE_UTILITY"
	}

	if s != StyleOverlay {
		hints := cardinals(motifHintsDecorations, 0, decorations, 0, 0)
		err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, win(h),
			x.atom("_MOTIF_WM_HINTS"), x.atom("_MOTIF_WM_HINTS"), 32, 5, hints).Check()
		if err != nil {
			return call("_MOTIF_WM_HINTS", err)
		}
		if err := x.setAtoms(h, "_NET_WM_WINDOW_TYPE", "ATOM", x.atom(windowType)); err != nil {
			return call("_NET_WM_WINDOW_TYPE", err)
		}
		return nil
	}
	return x.Reorder(h, OrderNoTopmost)
}

func (x *x11) SetOwner(h Handle, owner Handle) error {
	if err := x.check(h); err != nil {
		return err
	}
	transient := x.atom("WM_TRANSIENT_FOR")
	if owner == 0 {
		return call("DeleteProperty", xproto.DeletePropertyChecked(x.conn, win(h), transient).Check())
	}
	return call("WM_TRANSIENT_FOR", xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, win(h),
		transient, xproto.AtomWindow, 32, 1, cardinals(uint32(owner))).Check())
}

func (x *x11) SetTitle(h Handle, title string) error {
	if err := x.check(h); err != nil {
		return err
	}
	for _, prop := range []struct{ name, kind string }{{"WM_NAME", "STRING"}, {"_NET_WM_NAME", "UTF8_STRING"}} {
		err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, win(h),
			x.atom(prop.name), x.atom(prop.kind), 8, uint32(len(title)), []byte(title)).Check()
		if err != nil {
			return call(prop.name, err)
		}
	}
	return nil
}

func (x *x11) ClientToScreen(h Handle, cx, cy int) (int, int, error) {
	if err := x.check(h); err != nil {
		return 0, 0, err
	}
	reply, err := xproto.TranslateCoordinates(x.conn, win(h), x.screen.Root, int16(cx), int16(cy)).Reply()
	if err != nil {
		return 0, 0, call("TranslateCoordinates", err)
	}
	return int(reply.DstX), int(reply.DstY), nil
}

func (x *x11) ClientRectScreen(h Handle) (Rect, error) {
	if err := x.check(h); err != nil {
		return Rect{}, err
	}
	geom, err := xproto.GetGeometry(x.conn, xproto.Drawable(h)).Reply()
	if err != nil {
		return Rect{}, call("GetGeometry", err)
	}
	sx, sy, err := x.ClientToScreen(h, 0, 0)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: sx, Y: sy, W: int(geom.Width), H: int(geom.Height)}.Clamp(1, 1), nil
}

// WindowRect includes the window manager frame when it is advertised.
func (x *x11) WindowRect(h Handle) (Rect, error) {
	r, err := x.ClientRectScreen(h)
	if err != nil {
		return Rect{}, err
	}

	reply, err := xproto.GetProperty(x.conn, false, win(h), x.atom("_NET_FRAME_EXTENTS"), xproto.AtomCardinal, 0, 4).Reply()
	if err != nil || len(reply.Value) < 16 {
		return r, nil
	}
	left := int(xgb.Get32(reply.Value[0:]))
	right := int(xgb.Get32(reply.Value[4:]))
	top := int(xgb.Get32(reply.Value[8:]))
	bottom := int(xgb.Get32(reply.Value[12:]))
	return Rect{X: r.X - left, Y: r.Y - top, W: r.W + left + right, H: r.H + top + bottom}, nil
}

func (x *x11) MonitorRect(h Handle) (Rect, error) {
	r, err := x.WindowRect(h)
	if err != nil {
		return Rect{}, err
	}
	full := Rect{W: int(x.screen.WidthInPixels), H: int(x.screen.HeightInPixels)}
	if !x.xinerama {
		return full, nil
	}

	reply, err := xinerama.QueryScreens(x.conn).Reply()
	if err != nil || len(reply.ScreenInfo) == 0 {
		return full, nil
	}

	cx, cy := r.X+r.W/2, r.Y+r.H/2
	best := reply.ScreenInfo[0]
	for _, s := range reply.ScreenInfo {
		if cx >= int(s.XOrg) && cx < int(s.XOrg)+int(s.Width) && cy >= int(s.YOrg) && cy < int(s.YOrg)+int(s.Height) {
			best = s
			break
		}
	}
	return Rect{X: int(best.XOrg), Y: int(best.YOrg), W: int(best.Width), H: int(best.Height)}, nil
}

func (x *x11) Focus(h Handle) error {
	if err := x.check(h); err != nil {
		return err
	}
	return call("SetInputFocus", xproto.SetInputFocusChecked(x.conn, xproto.InputFocusPointerRoot, win(h), xproto.TimeCurrentTime).Check())
}

func (x *x11) SetFullscreen(h Handle, on bool) error {
	if err := x.check(h); err != nil {
		return err
	}
	action := netWMStateRemove
	if on {
		action = netWMStateAdd
	}
	return call("_NET_WM_STATE", x.wmState(h, action, "_NET_WM_STATE_FULLSCREEN"))
}
