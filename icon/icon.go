// Package icon renders the status symbols of the CLI and the controller in
// the variant picked by icons.variant.
package icon

import (
	"github.com/amvnote/amvnote/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// variant returns the glyph for v. Unknown variants render plain, so a bad
// config value never blanks the status line.
func (d *iconDef) variant(v string) string {
	switch v {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.variant(viper.GetString(key.IconsVariant))
}
