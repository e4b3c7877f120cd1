package probe

import (
	"path/filepath"
	"testing"

	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/media"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given an executable directory", t, func() {
		exeDir := filepath.Join(t.TempDir(), "app")
		fs := filesystem.API()
		So(fs.MkdirAll(filepath.Join(exeDir, "resources", "windows"), 0o755), ShouldBeNil)

		Convey("Overrides always win", func() {
			So(Resolve(FFprobe, "/opt/ffprobe", exeDir, constant.Linux), ShouldEqual, "/opt/ffprobe")
		})

		Convey("The bare name is used when nothing is bundled", func() {
			So(Resolve(FFprobe, "", exeDir, constant.Linux), ShouldEqual, "ffprobe")
			So(Resolve(FFprobe, "", exeDir, constant.Windows), ShouldEqual, "ffprobe.exe")
			So(Resolve(FFprobe, "", "", constant.Linux), ShouldEqual, "ffprobe")
		})

		Convey("Bundled copies are preferred in order", func() {
			next := filepath.Join(exeDir, "ffmpeg")
			resources := filepath.Join(exeDir, "resources", "ffmpeg")
			So(fs.WriteFile(next, []byte("x"), 0o755), ShouldBeNil)
			So(Resolve(FFmpeg, "", exeDir, constant.Linux), ShouldEqual, next)

			So(fs.WriteFile(resources, []byte("x"), 0o755), ShouldBeNil)
			So(Resolve(FFmpeg, "", exeDir, constant.Linux), ShouldEqual, resources)

			windows := filepath.Join(exeDir, "resources", "windows", "ffmpeg.exe")
			So(fs.WriteFile(windows, []byte("x"), 0o755), ShouldBeNil)
			So(Resolve(FFmpeg, "", exeDir, constant.Windows), ShouldEqual, windows)
		})
	})
}

func TestMinimal(t *testing.T) {
	Convey("Minimal info is size and extension", t, func() {
		path := filepath.Join(t.TempDir(), "Clip.MKV")
		So(filesystem.API().WriteFile(path, make([]byte, 1234), 0o644), ShouldBeNil)

		So(Minimal(path), ShouldResemble, media.Info{FileSize: 1234, FormatName: "mkv"})
		So(Exists(path), ShouldBeTrue)
		So(Minimal("missing.webm"), ShouldResemble, media.Info{FormatName: "webm"})
		So(Exists("missing.webm"), ShouldBeFalse)
	})
}
