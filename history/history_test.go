package history

import (
	"testing"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a played file", t, func() {
		path := "/media/amv/opening.mkv"
		So(Remove(path), ShouldBeNil)

		Convey("When saving a position in the middle", func() {
			So(Save(path, 42.5, 180), ShouldBeNil)

			Convey("Then it can be resumed", func() {
				position, ok := Position(path)
				So(ok, ShouldBeTrue)
				So(position, ShouldEqual, 42.5)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldNotBeEmpty)
			})

			Convey("And a later save replaces it", func() {
				So(Save(path, 20, 180), ShouldBeNil)
				position, _ := Position(path)
				So(position, ShouldEqual, 20)
			})

			Convey("And a save near the end drops it", func() {
				So(Save(path, 175, 180), ShouldBeNil)
				_, ok := Position(path)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When saving a position near the start", func() {
			So(Save(path, 2, 180), ShouldBeNil)

			Convey("Then nothing is kept", func() {
				_, ok := Position(path)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the duration is unknown", func() {
			So(Save(path, 30, 0), ShouldBeNil)

			Convey("Then the position is kept", func() {
				_, ok := Position(path)
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Recent lists the latest entries first", t, func() {
		clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		now = func() time.Time { clock = clock.Add(time.Minute); return clock }
		defer func() { now = time.Now }()

		So(Save("/a.mkv", 30, 100), ShouldBeNil)
		So(Save("/b.mkv", 30, 100), ShouldBeNil)

		entries, err := Recent()
		So(err, ShouldBeNil)
		So(len(entries), ShouldBeGreaterThanOrEqualTo, 2)
		So(entries[0].Path, ShouldEqual, "/b.mkv")
		So(entries[0].Progress(), ShouldEqual, 0.3)
		So(entries[1].Path, ShouldEqual, "/a.mkv")
	})
}
