package config

import (
	"errors"
	"testing"

	"github.com/amvnote/amvnote/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestLookup(t *testing.T) {
	Convey("Looking up keys", t, func() {
		Convey("Registered keys resolve", func() {
			f, err := Lookup(key.PreviewWidth)
			So(err, ShouldBeNil)
			So(f.Value, ShouldEqual, 320)
		})

		Convey("Unknown keys suggest the closest one", func() {
			_, err := Lookup("preview.widht")
			var unknown *UnknownKeyError
			So(errors.As(err, &unknown), ShouldBeTrue)
			So(unknown.Closest, ShouldEqual, key.PreviewWidth)
		})
	})

	Convey("Sections", t, func() {
		So(Section(key.ProbeFFprobe), ShouldEqual, "probe")
		So(Section("plain"), ShouldEqual, "plain")
		So(Sections(), ShouldContain, "engine")
		So(Sections(), ShouldContain, "preview")
	})

	Convey("Selecting fields", t, func() {
		keyOf := func(f Field, _ int) string { return f.Key }

		Convey("Nothing selects everything in key order", func() {
			fields, err := Select(nil, nil)
			So(err, ShouldBeNil)
			So(fields, ShouldHaveLength, len(Default))
			So(fields[0].Key, ShouldBeLessThan, fields[1].Key)
		})

		Convey("A section selects only its keys", func() {
			fields, err := Select([]string{"engine"}, nil)
			So(err, ShouldBeNil)
			So(lo.Map(fields, keyOf), ShouldResemble, []string{key.EngineHwdec, key.EngineLibrary, key.EngineSearchDepth})
		})

		Convey("Keys and sections combine without duplicates", func() {
			fields, err := Select([]string{"engine"}, []string{key.EngineHwdec, key.PreviewWidth})
			So(err, ShouldBeNil)
			So(lo.Map(fields, keyOf), ShouldResemble, []string{key.EngineHwdec, key.EngineLibrary, key.EngineSearchDepth, key.PreviewWidth})
		})

		Convey("Unknown names are rejected", func() {
			_, err := Select([]string{"nope"}, nil)
			So(err, ShouldNotBeNil)
			_, err = Select(nil, []string{"nope"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("There are no problems", func() {
			So(Problems(), ShouldBeEmpty)
		})

		Convey("An out of range value is reported", func() {
			viper.Set(key.PlayerVolume, 500)
			defer viper.Set(key.PlayerVolume, Default[key.PlayerVolume].Value)

			problems := Problems()
			So(problems, ShouldHaveLength, 1)
			So(problems[0].Error(), ShouldContainSubstring, key.PlayerVolume)
		})
	})
}
