package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/inline"
	"github.com/amvnote/amvnote/open"
	"github.com/amvnote/amvnote/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("at", "0", "Position in seconds or [h:]m:s")
	previewCmd.Flags().IntP("width", "w", 0, "Preview width in pixels")
	previewCmd.Flags().StringP("output", "o", "", "Output file, - for stdout")
	previewCmd.Flags().Bool("data-url", false, "Print the preview as a data URL")
	previewCmd.Flags().Bool("open", false, "Open the written preview")
	previewCmd.MarkFlagsMutuallyExclusive("output", "data-url")
	previewCmd.SetOut(os.Stdout)
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Extract a single frame",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		at, err := inline.ParseTime(lo.Must(cmd.Flags().GetString("at")))
		handleErr(err)

		width := mo.None[int]()
		if w := lo.Must(cmd.Flags().GetInt("width")); w > 0 {
			width = mo.Some(w)
		}

		service := newProbeService()
		defer service.Close()

		image, err := service.FramePreview(context.Background(), mo.Some(path), at, width)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("data-url")) {
			cmd.Println(image.DataURL())
			return
		}

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "-" {
			_, err := cmd.OutOrStdout().Write(image.Data)
			handleErr(err)
			return
		}
		if output == "" {
			output = util.SanitizeFilename(util.FileStem(path)) + "_preview" + image.Ext()
		}

		handleErr(filesystem.API().MkdirAll(filepath.Dir(output), os.ModePerm))
		handleErr(filesystem.API().WriteFile(output, image.Data, 0o644))
		cmd.Printf("%s wrote %s\n", icon.Get(icon.Success), output)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(output))
		}
	},
}
