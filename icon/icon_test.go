package icon

import (
	"testing"

	"github.com/amvnote/amvnote/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Play

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("Unknown variants fall back to plain", func() {
			viper.Set(key.IconsVariant, "plain")
			want := Get(target)
			viper.Set(key.IconsVariant, "")
			So(Get(target), ShouldEqual, want)
			viper.Set(key.IconsVariant, "sparkles")
			So(Get(target), ShouldEqual, want)
		})

		Convey("Unregistered icons render nothing", func() {
			So(Get(Icon(-1)), ShouldBeEmpty)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon should render in the plain variant", t, func() {
		viper.Set(key.IconsVariant, "plain")
		for i := range icons {
			So(Get(i), ShouldNotBeEmpty)
		}
	})
}
