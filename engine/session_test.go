package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/engine/enginetest"
	"github.com/amvnote/amvnote/media"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewSession(t *testing.T) {
	Convey("Given an embedded session", t, func() {
		api := enginetest.New()
		s, err := engine.NewSession(api, mo.Some[int64](4242))
		So(err, ShouldBeNil)

		Convey("It binds the video output to the target window", func() {
			So(api.Options["wid"], ShouldEqual, "4242")
			So(api.Options, ShouldNotContainKey, "force-window")
		})

		Convey("It installs the level meter and disables built-in controls", func() {
			So(api.Options["af"], ShouldContainSubstring, "@dbmeter")
			So(api.Options["osc"], ShouldEqual, "no")
			So(api.Options["input-default-bindings"], ShouldEqual, "no")
			So(api.Options["keep-open"], ShouldEqual, "yes")
		})

		Convey("It observes playback properties", func() {
			So(api.Observed, ShouldResemble, []string{"time-pos", "duration", "pause", "volume", "speed", "eof-reached"})
		})

		Convey("Close destroys the handle exactly once", func() {
			s.Close()
			s.Close()
			So(api.Destroyed, ShouldEqual, 1)
			So(errors.Is(s.Play(), engine.ErrClosed), ShouldBeTrue)
		})
	})

	Convey("Given a headless session", t, func() {
		api := enginetest.New()
		_, err := engine.NewSession(api, mo.None[int64]())
		So(err, ShouldBeNil)
		So(api.Options["force-window"], ShouldEqual, "no")
		So(api.Options, ShouldNotContainKey, "wid")
	})

	Convey("Given an engine that fails to initialize", t, func() {
		api := enginetest.New()
		api.InitCode = -4
		_, err := engine.NewSession(api, mo.None[int64]())

		Convey("The handle is destroyed and the code reported", func() {
			So(api.Destroyed, ShouldEqual, 1)
			So(errors.Is(err, engine.ErrEngine), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "error code -4")
		})
	})

	Convey("Given an engine that cannot create a handle", t, func() {
		api := enginetest.New()
		api.CreateFails = true
		_, err := engine.NewSession(api, mo.None[int64]())
		So(err, ShouldEqual, engine.ErrCreate)
	})
}

func TestVerbs(t *testing.T) {
	Convey("Given a session", t, func() {
		api := enginetest.New()
		s, _ := engine.NewSession(api, mo.None[int64]())

		Convey("Load normalizes separators", func() {
			So(s.Load(`C:\clips\a b.mkv`), ShouldBeNil)
			So(api.Recorded(), ShouldContain, "loadfile C:/clips/a b.mkv")
		})

		Convey("TogglePause negates the current state", func() {
			So(s.TogglePause(), ShouldBeNil)
			So(api.Flags["pause"], ShouldBeFalse)
			So(s.TogglePause(), ShouldBeNil)
			So(api.Flags["pause"], ShouldBeTrue)
		})

		Convey("Seeks are absolute or relative", func() {
			So(s.Seek(12.5), ShouldBeNil)
			So(s.SeekRelative(-5), ShouldBeNil)
			So(api.Recorded(), ShouldContain, "seek 12.5 absolute")
			So(api.Recorded(), ShouldContain, "seek -5 relative")
		})

		Convey("Subtitles can be disabled", func() {
			So(s.SetSubtitleTrack(mo.Some[int64](2)), ShouldBeNil)
			So(api.Strings["sid"], ShouldEqual, "2")
			So(s.SetSubtitleTrack(mo.None[int64]()), ShouldBeNil)
			So(api.Strings["sid"], ShouldEqual, "no")
		})

		Convey("Detached controls toggle both osc and bindings", func() {
			So(s.SetDetachedControls(true), ShouldBeNil)
			So(api.Strings["osc"], ShouldEqual, "yes")
			So(api.Strings["input-default-bindings"], ShouldEqual, "yes")
		})

		Convey("A rejected command carries its status code", func() {
			api.Fail["frame-step"] = -12
			err := s.FrameStep()
			So(errors.Is(err, engine.ErrEngine), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "failed command `frame-step`: error -12")
		})

		Convey("A rejected property carries its name", func() {
			api.Fail["volume"] = -7
			err := s.SetVolume(50)
			So(err.Error(), ShouldEqual, "failed to set property volume: error -7")
		})
	})
}

func TestReads(t *testing.T) {
	Convey("Given an idle engine", t, func() {
		api := enginetest.New()
		delete(api.Flags, "pause")
		delete(api.Doubles, "volume")
		delete(api.Doubles, "speed")
		s, _ := engine.NewSession(api, mo.None[int64]())

		Convey("Status falls back to defaults", func() {
			So(s.Status(), ShouldResemble, media.Status{Playing: false, Volume: 100, Speed: 1})
			So(s.Paused(), ShouldBeTrue)
			So(s.CurrentPath(), ShouldBeEmpty)
		})

		Convey("Levels are silent and unavailable", func() {
			So(s.AudioLevels(), ShouldResemble, media.SilentLevels)
		})
	})

	Convey("Given a playing file with tracks", t, func() {
		api := enginetest.New()
		api.Flags["pause"] = false
		api.Doubles["time-pos"] = 3.5
		api.Doubles["duration"] = 60
		api.Set("path", "/clips/a.mkv")
		api.Set("track-list/count", "3")
		for i, row := range [][]string{
			{"1", "video", "", "", "h264", "no"},
			{"1", "audio", "Main", "jpn", "aac", "no"},
			{"1", "sub", "", "eng", "", "yes"},
		} {
			prefix := "track-list/" + string(rune('0'+i)) + "/"
			for j, field := range []string{"id", "type", "title", "lang", "codec", "external"} {
				if row[j] != "" {
					api.Set(prefix+field, row[j])
				}
			}
		}
		api.Set("width", "1920")
		api.Set("height", "1080")
		api.Set("video-bitrate", "4000000")
		api.Set("audio-bitrate", "128000")
		api.Set("video-params/rotate", "90")
		s, _ := engine.NewSession(api, mo.None[int64]())

		Convey("Status reports playback", func() {
			status := s.Status()
			So(status.Playing, ShouldBeTrue)
			So(status.Position, ShouldEqual, 3.5)
			So(status.Duration, ShouldEqual, 60)
		})

		Convey("Tracks map empty strings to None", func() {
			tracks := s.Tracks()
			So(tracks, ShouldHaveLength, 3)
			So(tracks[0].Title.IsAbsent(), ShouldBeTrue)
			So(tracks[1].Title.MustGet(), ShouldEqual, "Main")
			So(tracks[2].External, ShouldBeTrue)
			So(tracks[2].Codec.IsAbsent(), ShouldBeTrue)
		})

		Convey("MediaInfo derives counts and bitrates", func() {
			info := s.MediaInfo()
			So(info.Width, ShouldEqual, 1920)
			So(info.OverallBitrate, ShouldEqual, 4128000)
			So(info.VideoTrackCount, ShouldEqual, 1)
			So(info.AudioTrackCount, ShouldEqual, 1)
			So(info.SubtitleTrackCount, ShouldEqual, 1)
			So(info.RotationDegrees, ShouldEqual, 90)
			So(info.Duration, ShouldEqual, 60)
		})
	})

	Convey("Given partial level metadata", t, func() {
		api := enginetest.New()
		s, _ := engine.NewSession(api, mo.None[int64]())

		Convey("Only the overall level fills both channels", func() {
			api.Set("af-metadata/@dbmeter/by-key/lavfi.astats.Overall.RMS_level", "-20.0")
			levels := s.AudioLevels()
			So(levels, ShouldResemble, media.AudioLevels{Left: -20, Right: -20, Overall: -20, Available: true})
		})

		Convey("Only the left channel mirrors into the right one", func() {
			api.Set("af-metadata/by-key/lavfi.astats.1.Peak_level", "-12 dB")
			levels := s.AudioLevels()
			So(levels.Left, ShouldEqual, -12)
			So(levels.Right, ShouldEqual, -12)
			So(levels.Overall, ShouldEqual, -12)
		})

		Convey("Loudness is the last overall fallback", func() {
			api.Set("af-metadata/dbmeter/by-key/lavfi.astats.1.RMS_level", "-10")
			api.Set("af-metadata/dbmeter/by-key/lavfi.astats.2.RMS_level", "-30")
			api.Set("af-metadata/by-key/lavfi.r128.M", "-18")
			levels := s.AudioLevels()
			So(levels, ShouldResemble, media.AudioLevels{Left: -10, Right: -30, Overall: -18, Available: true})
		})
	})
}

func TestParseDB(t *testing.T) {
	Convey("ParseDB", t, func() {
		So(dbValue("-23.5 dB"), ShouldEqual, -23.5)
		So(dbValue("-6,25db"), ShouldEqual, -6.25)
		So(dbValue("-inf"), ShouldEqual, media.FloorDB)
		So(dbValue("inf"), ShouldEqual, media.FloorDB)
		So(dbValue("-inf dB"), ShouldEqual, media.FloorDB)
		So(engine.ParseDB("nan").IsAbsent(), ShouldBeTrue)
		So(engine.ParseDB("").IsAbsent(), ShouldBeTrue)
		So(engine.ParseDB("loud").IsAbsent(), ShouldBeTrue)
	})
}

func dbValue(raw string) float64 {
	return engine.ParseDB(raw).OrElse(1)
}

func TestListen(t *testing.T) {
	Convey("Given a listening session", t, func() {
		api := enginetest.New()
		s, _ := engine.NewSession(api, mo.None[int64]())

		received := make(chan engine.Event, 4)
		So(s.Listen(func(ev engine.Event) { received <- ev }), ShouldBeNil)

		Convey("Property changes are delivered", func() {
			api.Push(engine.Event{ID: engine.EventPropertyChange, Property: mo.Some(engine.Property{
				Name: "time-pos", Format: engine.FormatDouble, Value: 1.5,
			})})

			var ev engine.Event
			select {
			case ev = <-received:
			case <-time.After(2 * time.Second):
			}
			So(ev.ID, ShouldEqual, engine.EventPropertyChange)
			So(ev.Property.MustGet().Name, ShouldEqual, "time-pos")
			s.Close()
		})

		Convey("Close stops the listener before destroying the handle", func() {
			s.Close()
			So(api.Destroyed, ShouldEqual, 1)
			So(s.Closed(), ShouldBeTrue)
		})
	})
}
