package cmd

import (
	"testing"

	"github.com/amvnote/amvnote/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
)

func TestKeyAndValues(t *testing.T) {
	Convey("Given a command taking a key and values", t, func() {
		cmd := &cobra.Command{Use: "set"}
		cmd.Flags().StringP("key", "k", "", "")
		cmd.Flags().StringSliceP("value", "v", []string{}, "")

		Convey("Arguments come first", func() {
			field, values := keyAndValues(cmd, []string{key.PreviewWidth, "480"})
			So(field.Key, ShouldEqual, key.PreviewWidth)
			So(values, ShouldResemble, []string{"480"})
		})

		Convey("Flags fill in what the arguments leave out", func() {
			So(cmd.Flags().Set("key", key.LogsLevel), ShouldBeNil)
			So(cmd.Flags().Set("value", "debug"), ShouldBeNil)
			field, values := keyAndValues(cmd, nil)
			So(field.Key, ShouldEqual, key.LogsLevel)
			So(values, ShouldResemble, []string{"debug"})
		})

		Convey("A command without a value flag yields no values", func() {
			get := &cobra.Command{Use: "get"}
			get.Flags().StringP("key", "k", "", "")
			field, values := keyAndValues(get, []string{key.EngineHwdec})
			So(field.Key, ShouldEqual, key.EngineHwdec)
			So(values, ShouldBeEmpty)
		})
	})
}
