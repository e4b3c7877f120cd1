package inline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/probe"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Prober is the part of player.Service used by inline mode.
type Prober interface {
	MediaInfo(ctx context.Context, path mo.Option[string]) (media.Info, error)
	FramePreview(ctx context.Context, path mo.Option[string], seconds float64, width mo.Option[int]) (probe.Image, error)
}

// DefaultConcurrency bounds how many files are probed at once.
const DefaultConcurrency = 4

type Options struct {
	Out         io.Writer
	Prober      Prober
	Paths       []string
	At          []float64
	Width       mo.Option[int]
	Json        bool
	Concurrency int
}

// ParseTimes parses comma separated positions such as "1.5,00:30,1:02:03".
func ParseTimes(values []string) ([]float64, error) {
	var times []float64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			seconds, err := ParseTime(part)
			if err != nil {
				return nil, err
			}
			times = append(times, seconds)
		}
	}
	return lo.Uniq(times), nil
}

// ParseTime accepts plain seconds or [[h:]m:]s clocks.
func ParseTime(value string) (float64, error) {
	fields := strings.Split(value, ":")
	if len(fields) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	var seconds float64
	for _, field := range fields {
		n, err := strconv.ParseFloat(field, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		seconds = seconds*60 + n
	}
	return seconds, nil
}
