package cmd

import (
	"context"
	"io"
	"os"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/inline"
	"github.com/amvnote/amvnote/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringArrayP("path", "p", nil, "File to probe, repeatable")
	inlineCmd.Flags().StringSlice("at", nil, "Preview positions, comma separated or repeated")
	inlineCmd.Flags().IntP("width", "w", 0, "Preview width in pixels")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	inlineCmd.Flags().StringP("output", "o", "", "Write the output to a file")
	inlineCmd.Flags().Int("jobs", inline.DefaultConcurrency, "Files probed at once")
	lo.Must0(inlineCmd.MarkFlagRequired("path"))
}

var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Probe files and extract previews non-interactively",
	Long: `Probe every --path and extract a preview at every --at position.

Positions are seconds (12.5) or clocks (1:02:03.5). Results keep the order
of the paths. A failed preview is reported in its entry and does not stop
the batch.`,
	Example: "amvnote inline -p a.mkv -p b.mp4 --at 1,30 --json",
	Run: func(cmd *cobra.Command, args []string) {
		at, err := inline.ParseTimes(lo.Must(cmd.Flags().GetStringSlice("at")))
		handleErr(err)

		width := mo.None[int]()
		if w := lo.Must(cmd.Flags().GetInt("width")); w > 0 {
			width = mo.Some(w)
		}

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		service := newProbeService()
		defer service.Close()

		handleErr(inline.Run(context.Background(), &inline.Options{
			Out:         out,
			Prober:      service,
			Paths:       lo.Must(cmd.Flags().GetStringArray("path")),
			At:          at,
			Width:       width,
			Json:        lo.Must(cmd.Flags().GetBool("json")),
			Concurrency: lo.Must(cmd.Flags().GetInt("jobs")),
		}))
	},
}
