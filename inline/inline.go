// Package inline probes files and extracts previews without a terminal UI.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/probe"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

// Run probes every path, keeping the order of options.Paths. A failing
// preview is reported inside its entry and never stops the batch.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}

	entries := make([]*Entry, len(options.Paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.Concurrency)
	for i, path := range options.Paths {
		g.Go(func() error {
			entry, err := probeOne(ctx, options, path)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if options.Json {
		return writeJson(options.Out, entries)
	}
	return writeText(options.Out, entries)
}

func probeOne(ctx context.Context, options *Options, path string) (*Entry, error) {
	entry := &Entry{Path: path, Exists: probe.Exists(path)}

	info, err := options.Prober.MediaInfo(ctx, mo.Some(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	entry.Info = info

	for _, at := range options.At {
		frame := Frame{At: at}
		image, err := options.Prober.FramePreview(ctx, mo.Some(path), at, options.Width)
		if err != nil {
			log.WithField("path", path).Warnf("preview at %.3f: %v", at, err)
			frame.Error = err.Error()
		} else {
			frame.MIME = image.MIME
			frame.DataURL = image.DataURL()
		}
		entry.Frames = append(entry.Frames, frame)
	}

	return entry, ctx.Err()
}

func writeText(out io.Writer, entries []*Entry) error {
	for _, e := range entries {
		status := "missing"
		if e.Exists {
			status = e.Info.FormatName
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\t%.3fs\t%s/%s\t%dx%d\n",
			e.Path, status, e.Info.Duration, e.Info.VideoCodec, e.Info.AudioCodec, e.Info.Width, e.Info.Height); err != nil {
			return err
		}
		for _, f := range e.Frames {
			line := fmt.Sprintf("\t@%.3f\t%s", f.At, f.MIME)
			if f.Error != "" {
				line = fmt.Sprintf("\t@%.3f\terror: %s", f.At, f.Error)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	return nil
}
