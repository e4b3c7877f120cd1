package inline

import (
	"encoding/json"
	"io"

	"github.com/amvnote/amvnote/media"
)

// Frame is one extracted preview.
type Frame struct {
	At      float64 `json:"at"`
	MIME    string  `json:"mime,omitempty"`
	DataURL string  `json:"data_url,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Entry describes one probed path.
type Entry struct {
	Path   string     `json:"path"`
	Exists bool       `json:"exists"`
	Info   media.Info `json:"info"`
	Frames []Frame    `json:"frames,omitempty"`
}

type Output struct {
	Result []*Entry `json:"result"`
}

func writeJson(out io.Writer, entries []*Entry) error {
	if entries == nil {
		entries = []*Entry{}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&Output{Result: entries})
}
