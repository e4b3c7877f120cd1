package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/util"
	"github.com/amvnote/amvnote/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"media cache", "media", mo.Some("m"), where.MediaCache},
	{"history file", "history", mo.Some("s"), where.History},
	{"temporary previews", "temp", mo.Some("t"), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear caches, history and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			names := lo.Map(selected, func(t clearTarget, _ int) string { return t.name })
			var response bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Clear %s?", util.Quantify(len(names), "item", "items")),
				Help:    fmt.Sprint(names),
				Default: true,
			}, &response))

			if !response {
				return
			}
		}

		for _, target := range selected {
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			location := target.location()
			exists, err := filesystem.API().Exists(location)
			if err == nil && exists {
				err = util.Delete(location)
			}
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}
