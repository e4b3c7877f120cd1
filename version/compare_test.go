package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Versions compare field by field", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.1.0", "0.1.0", 0},
			{"v1.2.3", "1.2.3", 0},
			{"1.10.0", "1.9.9", 1},
			{"0.9.1", "1.0.0", -1},
			{"2.0.0", "2.0.1", -1},
			{"1.0.0+build.7", "1.0.0", 0},
			{"1.0.0-rc.1", "1.0.0", -1},
			{"1.0.0", "1.0.0-rc.1", 1},
			{"1.0.0-rc.2", "1.0.0-rc.1", 1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}
	})

	Convey("Malformed versions are errors", t, func() {
		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
		_, err = Compare("1.0", "1.0.0")
		So(err, ShouldNotBeNil)
		_, err = Compare("1.0.0", "1.0.0.4")
		So(err, ShouldNotBeNil)
	})
}
