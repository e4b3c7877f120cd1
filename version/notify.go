package version

import (
	"fmt"

	"github.com/amvnote/amvnote/color"
	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/style"
	"github.com/amvnote/amvnote/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err == nil {
		comp, err := Compare(version, constant.Version)
		if err == nil && comp <= 0 {
			return
		}
	}

	if version == "" {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/amvnote/amvnote/releases/tag/v"+version),
	)
}
