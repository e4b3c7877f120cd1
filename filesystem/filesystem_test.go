package filesystem

import (
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestBackend(t *testing.T) {
	Convey("Backend switching", t, func() {
		SetOsFs()
		So(API().Name(), ShouldEqual, "OsFs")

		SetMemMapFs()
		So(API().Name(), ShouldEqual, "MemMapFS")
	})
}

func TestFiles(t *testing.T) {
	Convey("Given an in-memory tree", t, func() {
		SetMemMapFs()
		So(API().MkdirAll("/media/dir", 0o755), ShouldBeNil)
		So(API().WriteFile("/media/clip.mkv", []byte("data"), 0o644), ShouldBeNil)
		So(API().WriteFile("/media/empty.mkv", nil, 0o644), ShouldBeNil)

		Convey("Regular accepts files only", func() {
			stat, ok := Regular("/media/clip.mkv")
			So(ok, ShouldBeTrue)
			So(stat.Size(), ShouldEqual, 4)

			_, ok = Regular("/media/dir")
			So(ok, ShouldBeFalse)
			_, ok = Regular("/media/missing.mkv")
			So(ok, ShouldBeFalse)
		})

		Convey("NonEmpty needs content", func() {
			So(NonEmpty("/media/clip.mkv"), ShouldBeTrue)
			So(NonEmpty("/media/empty.mkv"), ShouldBeFalse)
		})

		Convey("The On variants ignore the backend", func() {
			other := afero.NewMemMapFs()
			So(NonEmptyOn(other, "/media/clip.mkv"), ShouldBeFalse)
			So(afero.WriteFile(other, "/media/clip.mkv", []byte("x"), 0o644), ShouldBeNil)
			So(NonEmptyOn(other, "/media/clip.mkv"), ShouldBeTrue)
			_, ok := RegularOn(other, "/media/empty.mkv")
			So(ok, ShouldBeFalse)
		})

		Convey("TempPath is unique and stays in dir", func() {
			a := TempPath("/tmp", "preview-", ".png")
			b := TempPath("/tmp", "preview-", ".png")
			So(a, ShouldNotEqual, b)
			So(filepath.Dir(a), ShouldEqual, "/tmp")
			So(strings.HasPrefix(filepath.Base(a), "preview-"), ShouldBeTrue)
			So(filepath.Ext(a), ShouldEqual, ".png")
		})

		Convey("GacheOptions write through the backend", func() {
			opts := GacheOptions("/cache/store.json", 0)
			So(opts.Path, ShouldEqual, "/cache/store.json")
			So(opts.FileSystem.MkdirAll("/cache", 0o755), ShouldBeNil)
			isDir, _ := API().IsDir("/cache")
			So(isDir, ShouldBeTrue)
		})
	})
}
