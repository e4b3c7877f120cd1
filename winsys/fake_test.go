package winsys

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFake(t *testing.T) {
	Convey("Given a fake window system", t, func() {
		sys := NewFake()
		host := sys.AddWindow(Rect{X: 100, Y: 50, W: 800, H: 600}, StyleEmbedded)
		h, err := sys.CreateSurface(host, "video")
		So(err, ShouldBeNil)

		Convey("New surfaces are hidden unit windows owned by the host", func() {
			w := sys.Window(h)
			So(w.Visible, ShouldBeFalse)
			So(w.Rect, ShouldResemble, Unit)
			So(w.Owner, ShouldEqual, host)
			So(w.Style, ShouldEqual, StyleEmbedded)
		})

		Convey("Detached windows report a client area inside their frame", func() {
			So(sys.SetStyle(h, StyleDetached), ShouldBeNil)
			So(sys.Move(h, Rect{X: 10, Y: 10, W: 640, H: 360}), ShouldBeNil)
			client, _ := sys.ClientRectScreen(h)
			So(client, ShouldResemble, Rect{X: 10 + FakeBorder, Y: 10 + FakeCaption, W: 640 - 2*FakeBorder, H: 360 - FakeCaption - FakeBorder})
		})

		Convey("Injected failures are consumed in order", func() {
			sys.FailNext("Place", 1)
			So(errors.Is(sys.Place(h, OrderTop, Unit, false), ErrCall), ShouldBeTrue)
			So(sys.Place(h, OrderTop, Unit, false), ShouldBeNil)
			So(sys.Count("Place"), ShouldEqual, 2)
		})

		Convey("Destroyed windows are invalid", func() {
			So(sys.Destroy(h), ShouldBeNil)
			So(sys.Valid(h), ShouldBeFalse)
			So(sys.Show(h, OrderKeep), ShouldEqual, ErrInvalidHandle)
		})

		Convey("Close requests hide the window and notify", func() {
			var closed Handle
			sys.OnClose(func(c Handle) { closed = c })
			So(sys.Show(h, OrderKeep), ShouldBeNil)
			sys.Close(h)
			So(closed, ShouldEqual, h)
			So(sys.Visible(h), ShouldBeFalse)
		})
	})
}

func TestRect(t *testing.T) {
	Convey("Clamp raises small dimensions only", t, func() {
		So(Rect{X: 5, W: 100, H: 900}.Clamp(640, 360), ShouldResemble, Rect{X: 5, W: 640, H: 900})
		So(Rect{}.Clamp(1, 1), ShouldResemble, Unit)
	})
}
