package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/probe"
	"github.com/samber/mo"
)

type result[T any] struct {
	value T
	err   error
}

// bounded runs f in its own goroutine and waits at most bound for it. An
// abandoned f runs to completion and its result is dropped.
func bounded[T any](ctx context.Context, bound time.Duration, f func(ctx context.Context) (T, error)) (T, error) {
	ch := make(chan result[T], 1)
	go func() {
		v, err := f(context.WithoutCancel(ctx))
		ch <- result[T]{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-ch:
		return r.value, r.err
	case <-time.After(bound):
		return zero, fmt.Errorf("%w after %s", probe.ErrTimeout, bound)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func samePath(a, b string) bool {
	normalize := func(p string) string { return strings.ReplaceAll(strings.TrimSpace(p), `\`, "/") }
	return a != "" && strings.EqualFold(normalize(a), normalize(b))
}

// MediaInfo describes path, or the loaded file when path is None. For a
// path it tries, in order, the cache, the prober, the engine when the path
// is the loaded file, and finally size and extension. A path never fails.
func (s *Service) MediaInfo(ctx context.Context, path mo.Option[string]) (media.Info, error) {
	if p := strings.TrimSpace(path.OrElse("")); p != "" {
		return s.mediaInfoFor(ctx, p), nil
	}

	session := s.currentSession()
	if session == nil {
		return media.Info{}, ErrNotInitialized
	}

	info := session.MediaInfo()
	if current := session.CurrentPath(); current != "" {
		s.mediaCache.Put(cache.MediaKey(current), info)
	}
	return info, nil
}

func (s *Service) mediaInfoFor(ctx context.Context, path string) media.Info {
	k := cache.MediaKey(path)
	if info, ok := s.mediaCache.Get(k).Get(); ok {
		return info
	}

	if s.opts.Persistent != nil {
		if info, ok := s.opts.Persistent.Get(path).Get(); ok {
			s.mediaCache.Put(k, info)
			return info
		}
	}

	logger := log.WithField("path", path)

	info, err := bounded(ctx, s.opts.MetadataTimeout, func(ctx context.Context) (media.Info, error) {
		return s.opts.Prober.Metadata(ctx, path)
	})
	if err == nil {
		s.mediaCache.Put(k, info)
		if s.opts.Persistent != nil {
			if err := s.opts.Persistent.Set(path, info); err != nil {
				logger.Warnf("could not persist media info: %v", err)
			}
		}
		return info
	}
	logger.Debugf("probe failed, falling back: %v", err)

	if session := s.currentSession(); session != nil && samePath(session.CurrentPath(), path) {
		info = session.MediaInfo()
		s.mediaCache.Put(k, info)
		return info
	}

	info = probe.Minimal(path)
	s.mediaCache.Put(k, info)
	return info
}

// FramePreview renders the frame at seconds of path, or of the loaded file
// when path is None. Width defaults to the configured preview width and
// is clamped. Only successful renders are cached.
func (s *Service) FramePreview(ctx context.Context, path mo.Option[string], seconds float64, width mo.Option[int]) (probe.Image, error) {
	target := strings.TrimSpace(path.OrElse(""))
	if target == "" {
		target = strings.TrimSpace(s.CurrentPath())
	}
	if target == "" {
		return probe.Image{}, ErrNoMedia
	}

	w := probe.ClampWidth(width.OrElse(s.opts.PreviewWidth))
	k := cache.NewFrameKey(target, seconds, w)
	if image, ok := s.frameCache.Get(k).Get(); ok {
		return image, nil
	}

	image, err := bounded(ctx, s.opts.PreviewTimeout, func(ctx context.Context) (probe.Image, error) {
		return s.opts.Prober.Thumbnail(ctx, target, seconds, w)
	})
	if err != nil {
		return probe.Image{}, err
	}

	s.frameCache.Put(k, image)
	return image, nil
}
