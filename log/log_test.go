package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Proxies should not panic", func() {
			So(func() {
				Infof("hello %s", "world")
				WithField("path", "/tmp/a.mkv").Warnf("ignored")
			}, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)

		Convey("Today's log file should exist", func() {
			name := time.Now().Format("2006-01-02") + ".log"
			So(lo.Must(filesystem.API().Exists(filepath.Join(where.Logs(), name))), ShouldBeTrue)
		})
	})
}
