package tui

import (
	"fmt"

	"github.com/amvnote/amvnote/icon"
	"github.com/amvnote/amvnote/media"
)

type trackItem struct {
	track media.Track
	off   bool
}

func (t *trackItem) Title() string {
	if t.off {
		return "Off"
	}
	if t.track.IsSubtitle() {
		return icon.Get(icon.Subtitle) + " " + t.track.Label()
	}
	return icon.Get(icon.Audio) + " " + t.track.Label()
}

func (t *trackItem) Description() string {
	if t.off {
		return "disable subtitles"
	}

	desc := fmt.Sprintf("#%d", t.track.ID)
	if codec, ok := t.track.Codec.Get(); ok {
		desc += " " + codec
	}
	if t.track.External {
		desc += " " + icon.Get(icon.Mark) + " external"
	}
	return desc
}

func (t *trackItem) FilterValue() string {
	if t.off {
		return "Off"
	}
	return t.track.Label()
}
