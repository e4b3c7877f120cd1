package overlay

import (
	"testing"

	"github.com/amvnote/amvnote/surface"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func setup() (*winsys.Fake, *surface.Window, *Compositor) {
	sys := winsys.NewFake()
	host := sys.AddWindow(winsys.Rect{X: 0, Y: 0, W: 1280, H: 720}, winsys.StyleEmbedded)
	w, err := surface.New(sys, host, "AMV")
	So(err, ShouldBeNil)
	ov := sys.AddWindow(winsys.Rect{W: 200, H: 100}, winsys.StyleOverlay)
	So(sys.Hide(ov), ShouldBeNil)
	return sys, w, New(sys, ov)
}

// stub is a Source with fixed answers.
type stub struct {
	visible, detached, fullscreen bool
	window, client, monitor       mo.Option[winsys.Rect]
}

func (s stub) Handle() winsys.Handle { return 1 }
func (s stub) IsVisible() bool { return s.visible }
func (s stub) IsDetached() bool { return s.detached }
func (s stub) IsFullscreen() bool { return s.fullscreen }
func (s stub) WindowRect() mo.Option[winsys.Rect] { return s.window }
func (s stub) ClientRectScreen() mo.Option[winsys.Rect] { return s.client }
func (s stub) MonitorRect() mo.Option[winsys.Rect] { return s.monitor }

func TestSyncModes(t *testing.T) {
	Convey("Given a surface and an overlay", t, func() {
		sys, w, c := setup()
		ov := c.Handle()

		Convey("An invisible surface keeps the overlay hidden in every mode", func() {
			for _, mode := range []func(){func() {}, w.Detach, func() { w.SetFullscreen(true); w.Hide() }} {
				mode()
				So(c.Sync(w, false), ShouldEqual, Hidden)
				So(sys.Window(ov).Visible, ShouldBeFalse)
			}
		})

		Convey("A visible embedded surface keeps the overlay hidden", func() {
			w.Show()
			So(c.Sync(w, false), ShouldEqual, Hidden)
			So(sys.Window(ov).Visible, ShouldBeFalse)
			So(sys.Window(ov).OSFullscreen, ShouldBeFalse)
		})

		Convey("A visible detached surface gets the overlay over its client area", func() {
			w.Detach()
			w.Show()
			So(c.Sync(w, true), ShouldEqual, Aligned)

			win := sys.Window(ov)
			client, _ := sys.ClientRectScreen(w.Handle())
			So(win.Visible, ShouldBeTrue)
			So(win.Rect, ShouldResemble, client)
			So(win.Owner, ShouldEqual, w.Handle())
			So(win.Style, ShouldEqual, winsys.StyleOverlay)
			So(win.Order, ShouldEqual, winsys.OrderTop)
			So(sys.Focused, ShouldEqual, ov)
		})

		Convey("A fullscreen surface gets the overlay over the monitor", func() {
			w.SetFullscreen(true)
			So(c.Sync(w, false), ShouldEqual, Aligned)
			So(sys.Window(ov).Rect, ShouldResemble, sys.Monitor)
			So(sys.Focused, ShouldEqual, winsys.Handle(0))
		})

		Convey("Returning to embedded hides it again", func() {
			w.Detach()
			w.Show()
			c.Sync(w, false)
			w.Attach()
			So(c.Sync(w, false), ShouldEqual, Hidden)
			So(sys.Window(ov).Visible, ShouldBeFalse)
		})

		Convey("A destroyed overlay is never touched", func() {
			So(sys.Destroy(ov), ShouldBeNil)
			w.Show()
			w.Detach()
			sys.ResetCalls()
			So(c.Sync(w, false), ShouldEqual, Unplaced)
			So(sys.Calls, ShouldBeEmpty)
		})
	})
}

func TestFallbacks(t *testing.T) {
	Convey("Given a fullscreen source", t, func() {
		sys, _, c := setup()
		monitor := winsys.Rect{W: 1920, H: 1080}
		src := stub{visible: true, fullscreen: true, window: mo.Some(monitor)}

		Convey("A failed placement reorders the surface and retries", func() {
			sys.FailNext("Place", 1)
			So(c.Sync(src, false), ShouldEqual, AlignedAfterReorder)
			So(sys.Count("Reorder"), ShouldEqual, 1)
		})

		Convey("Two failures fall through to the plain retry", func() {
			sys.FailNext("Place", 2)
			So(c.Sync(src, false), ShouldEqual, AlignedRetry)
			So(sys.Count("Place"), ShouldEqual, 3)
		})

		Convey("Three failures fall back to OS fullscreen", func() {
			sys.FailNext("Place", 3)
			So(c.Sync(src, false), ShouldEqual, OSFullscreen)
			So(sys.Window(c.Handle()).OSFullscreen, ShouldBeTrue)
		})

		Convey("No rect at all also uses OS fullscreen", func() {
			src.window = mo.None[winsys.Rect]()
			So(c.Sync(src, false), ShouldEqual, OSFullscreen)
			So(sys.Count("Place"), ShouldEqual, 0)
		})

		Convey("The monitor rect backs up a missing window rect", func() {
			src.window = mo.None[winsys.Rect]()
			src.monitor = mo.Some(monitor)
			So(c.Sync(src, false), ShouldEqual, Aligned)
			So(sys.Window(c.Handle()).Rect, ShouldResemble, monitor)
		})
	})

	Convey("Given a detached source", t, func() {
		sys, _, c := setup()
		frame := winsys.Rect{X: 10, Y: 10, W: 640, H: 360}
		src := stub{visible: true, detached: true, window: mo.Some(frame)}

		Convey("The window rect backs up a missing client rect", func() {
			So(c.Sync(src, false), ShouldEqual, Aligned)
			So(sys.Window(c.Handle()).Rect, ShouldResemble, frame)
		})

		Convey("Failed placements never fall back to OS fullscreen", func() {
			sys.FailNext("Place", -1)
			So(c.Sync(src, false), ShouldEqual, Unplaced)
			So(sys.Window(c.Handle()).OSFullscreen, ShouldBeFalse)
		})

		Convey("Hide leaves OS fullscreen and hides", func() {
			c.Sync(src, false)
			c.Hide()
			So(sys.Window(c.Handle()).Visible, ShouldBeFalse)
		})
	})
}
