package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/amvnote/amvnote/color"
	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/player"
	"github.com/amvnote/amvnote/style"
	"github.com/amvnote/amvnote/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolP("json", "j", false, "Print JSON (the default when stdout is not a terminal)")
	probeCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	probeCmd.Flags().Bool("no-cache", false, "Ignore the persisted metadata cache")
	probeCmd.SetOut(os.Stdout)
}

type probed struct {
	Path string     `json:"path"`
	Info media.Info `json:"info"`
}

var probeTemplate = template.Must(template.New("probe").Funcs(template.FuncMap{
	"bold":     style.Bold,
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"size":     formatSize,
	"duration": formatDuration,
	"bitrate":  formatBitrate,
}).Parse(constant.MediaInfoTemplate))

var probeCmd = &cobra.Command{
	Use:   "probe <file...>",
	Short: "Print media metadata",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			schema := jsonschema.Reflect(&probed{})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(schema))
			return
		}

		opts := player.OptionsFromConfig()
		if lo.Must(cmd.Flags().GetBool("no-cache")) {
			opts.Persistent = nil
		}
		service := player.New(opts)
		defer service.Close()

		results := make([]probed, 0, len(args))
		for _, path := range args {
			info, err := service.MediaInfo(context.Background(), mo.Some(path))
			handleErr(err)
			results = append(results, probed{Path: path, Info: info})
		}

		if lo.Must(cmd.Flags().GetBool("json")) || !util.IsTerminal() {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if len(results) == 1 {
				handleErr(encoder.Encode(results[0]))
			} else {
				handleErr(encoder.Encode(results))
			}
			return
		}

		for i, result := range results {
			handleErr(probeTemplate.Execute(cmd.OutOrStdout(), result))
			cmd.Println()
			if i < len(results)-1 {
				cmd.Println()
			}
		}
	},
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return util.Quantify(int(bytes), "byte", "bytes")
	}
	value, exp := float64(bytes), 0
	for value >= unit && exp < 4 {
		value /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", value, "KMGT"[exp-1])
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "?"
	}
	total := int(seconds)
	frac := seconds - float64(total)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, total/60%60, total%60, int(frac*1000))
}

func formatBitrate(bps int64) string {
	switch {
	case bps <= 0:
		return ""
	case bps >= 1_000_000:
		return strings.TrimSuffix(fmt.Sprintf("%.2f", float64(bps)/1_000_000), "0") + " Mb/s"
	default:
		return fmt.Sprintf("%d kb/s", bps/1000)
	}
}
