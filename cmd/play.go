package cmd

import (
	"errors"
	"fmt"

	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/player"
	"github.com/amvnote/amvnote/probe"
	"github.com/amvnote/amvnote/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("fullscreen", "f", false, "Start in fullscreen")
	playCmd.Flags().BoolP("embedded", "e", false, "Embed the video into the terminal window if possible")
	playCmd.Flags().String("alang", "", "Preferred audio language or title")
	playCmd.Flags().String("slang", "", "Preferred subtitle language or title")
	playCmd.Flags().BoolP("continue", "c", false, "Resume from the saved position")
	playCmd.Flags().Float64("volume", 0, "Initial volume")
}

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play a video with the terminal controller",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		if !probe.Exists(path) {
			handleErr(fmt.Errorf("%s: no such file", path))
		}

		var closed = make(chan struct{}, 1)
		service := newPlaybackService(player.NotifierFunc(func(event string) {
			if event == player.EventSurfaceClosed {
				select {
				case closed <- struct{}{}:
				default:
				}
			}
		}))
		defer service.Close()

		if !service.IsAvailable() {
			handleErr(errors.New("video playback is unavailable, run `amvnote check` for details"))
		}

		volume := lo.Must(cmd.Flags().GetFloat64("volume"))
		if volume <= 0 {
			volume = viper.GetFloat64(key.PlayerVolume)
		}

		options := &tui.Options{
			Path:       path,
			Continue:   lo.Must(cmd.Flags().GetBool("continue")),
			Fullscreen: lo.Must(cmd.Flags().GetBool("fullscreen")),
			Embedded:   lo.Must(cmd.Flags().GetBool("embedded")),
			Alang:      lo.Must(cmd.Flags().GetString("alang")),
			Slang:      lo.Must(cmd.Flags().GetString("slang")),
			Volume:     volume,
			Closed:     closed,
		}
		handleErr(tui.Run(service, options))
	},
}
