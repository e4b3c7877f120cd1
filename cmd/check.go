package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/probe"
	"github.com/amvnote/amvnote/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const toolVersionTimeout = 3 * time.Second

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("candidates", false, "List every library path that is tried")
	checkCmd.SetOut(os.Stdout)
}

type checkResult struct {
	name   string
	detail string
	err    error
}

func (r checkResult) String() string {
	if r.err != nil {
		return fmt.Sprintf("%s %s  %s", icon.Get(icon.Fail), style.Bold(r.name), style.Fg(style.ErrorColor)(r.err.Error()))
	}
	return fmt.Sprintf("%s %s  %s", icon.Get(icon.Success), style.Bold(r.name), style.Faint(r.detail))
}

func checkEngine() checkResult {
	result := checkResult{name: "mpv library"}
	binding, err := engine.Shared()
	if err != nil {
		result.err = err
		return result
	}
	result.detail = binding.Path()
	return result
}

func checkTool(ctx context.Context, name, path string) checkResult {
	result := checkResult{name: name, detail: path}

	flag := "-version"
	if name == probe.Mediainfo {
		flag = "--Version"
	}

	ctx, cancel := context.WithTimeout(ctx, toolVersionTimeout)
	defer cancel()

	out, err := probe.ExecRunner{}.Run(ctx, path, flag)
	if err != nil {
		result.err = err
		return result
	}

	lines := lo.Filter(strings.Split(string(out), "\n"), func(l string, _ int) bool {
		return strings.TrimSpace(l) != ""
	})
	if len(lines) > 0 {
		result.detail = path + "  " + strings.TrimSpace(lines[len(lines)-1])
		if name != probe.Mediainfo {
			result.detail = path + "  " + strings.TrimSpace(lines[0])
		}
	}
	return result
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the mpv library and the probing tools can be found",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("candidates")) {
			for _, c := range engine.Candidates(engine.OptionsFromConfig()) {
				cmd.Println(c)
			}
			return
		}

		tools := probe.ToolsFromConfig()
		named := []lo.Tuple2[string, string]{
			{A: probe.FFprobe, B: tools.FFprobe},
			{A: probe.FFmpeg, B: tools.FFmpeg},
			{A: probe.Mediainfo, B: tools.Mediainfo},
		}

		results := make([]checkResult, len(named)+1)
		var g errgroup.Group
		g.Go(func() error {
			results[0] = checkEngine()
			return nil
		})
		for i, tool := range named {
			g.Go(func() error {
				results[i+1] = checkTool(context.Background(), tool.A, tool.B)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			cmd.Println(r.String())
		}

		if results[0].err != nil {
			printMissingDependencyError("mpv library")
			os.Exit(1)
		}
	},
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install libmpv2"
	case "windows":
		installCmd = "place libmpv-2.dll next to amvnote.exe"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' could not be loaded.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}
	suggestion += fmt.Sprintf("\n\nOr point %s at it.", style.Bold("engine.library"))

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
