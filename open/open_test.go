package open

import (
	"path/filepath"
	"testing"

	"github.com/amvnote/amvnote/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each platform has its opener", t, func() {
		for goos, want := range map[string]string{
			constant.Linux:   "xdg-open",
			constant.Darwin:  "open",
			constant.Android: "termux-open",
			constant.Windows: "rundll32.exe",
		} {
			cmd, ok := command("/tmp/frame.png", goos)
			So(ok, ShouldBeTrue)
			So(filepath.Base(cmd.Path), ShouldEqual, want)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "/tmp/frame.png")
		}
	})

	Convey("Unknown platforms are unsupported", t, func() {
		_, ok := command("x", "plan9")
		So(ok, ShouldBeFalse)
	})
}
