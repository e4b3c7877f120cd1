// Package player is the caller-facing facade over the engine session, the
// video surface, the overlay and the prober.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/engine"
	"github.com/amvnote/amvnote/internal/cache"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/log"
	"github.com/amvnote/amvnote/media"
	"github.com/amvnote/amvnote/overlay"
	"github.com/amvnote/amvnote/probe"
	"github.com/amvnote/amvnote/surface"
	"github.com/amvnote/amvnote/where"
	"github.com/amvnote/amvnote/winsys"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Host is the application window the surface embeds into.
type Host interface {
	Handle() winsys.Handle
	Focus()
}

// Notifier receives service events such as EventSurfaceClosed.
type Notifier interface {
	Notify(event string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event string)

func (f NotifierFunc) Notify(event string) {
	f(event)
}

// EventSurfaceClosed is emitted when the user closes the detached surface.
const EventSurfaceClosed = "surface:close"

// Prober is the metadata and frame source of the service.
type Prober interface {
	Metadata(ctx context.Context, path string) (media.Info, error)
	Thumbnail(ctx context.Context, path string, seconds float64, width int) (probe.Image, error)
}

// Options configures a Service. Only System is needed for playback; without
// it the service only probes.
type Options struct {
	System   winsys.System
	Host     Host
	Overlay  mo.Option[winsys.Handle]
	Notifier Notifier

	// Engine returns the engine library. Defaults to engine.Shared.
	Engine func() (engine.API, error)
	Prober Prober

	Title         string
	DetachOnStart bool

	MediaEntries int
	FrameEntries int

	MetadataTimeout time.Duration
	PreviewTimeout  time.Duration
	PreviewWidth    int

	// Persistent backs the metadata cache on disk. Optional.
	Persistent *cache.Persistent[media.Info]
}

// SharedEngine loads the process-wide engine library.
func SharedEngine() (engine.API, error) {
	lib, err := engine.Shared()
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// OptionsFromConfig fills every option from configuration. System is left
// empty; callers pick the window system.
func OptionsFromConfig() Options {
	ms := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Millisecond
	}

	opts := Options{
		Engine:          SharedEngine,
		Prober:          probe.New(probe.OptionsFromConfig()),
		Title:           viper.GetString(key.WindowTitle),
		DetachOnStart:   viper.GetBool(key.WindowDetachOnStart),
		MediaEntries:    viper.GetInt(key.CacheMediaEntries),
		FrameEntries:    viper.GetInt(key.CacheFrameEntries),
		MetadataTimeout: ms(key.ProbeMetadataTimeoutMs),
		PreviewTimeout:  ms(key.PreviewTimeoutMs),
		PreviewWidth:    viper.GetInt(key.PreviewWidth),
	}

	if viper.GetBool(key.CachePersist) {
		lifetime := time.Duration(viper.GetInt(key.CachePersistLifetimeHours)) * time.Hour
		opts.Persistent = cache.NewPersistent[media.Info](where.MediaCache(), lifetime)
	}

	return opts
}

// Defaults for zero options.
const (
	DefaultMediaEntries    = 96
	DefaultFrameEntries    = 240
	DefaultMetadataTimeout = 2500 * time.Millisecond
	DefaultPreviewTimeout  = 12 * time.Second
	DefaultPreviewWidth    = 320
)

func (o Options) withDefaults() Options {
	if o.Engine == nil {
		o.Engine = SharedEngine
	}
	if o.Prober == nil {
		o.Prober = probe.New(probe.Options{})
	}
	if o.Title == "" {
		o.Title = constant.Title
	}
	if o.MediaEntries <= 0 {
		o.MediaEntries = DefaultMediaEntries
	}
	if o.FrameEntries <= 0 {
		o.FrameEntries = DefaultFrameEntries
	}
	if o.MetadataTimeout <= 0 {
		o.MetadataTimeout = DefaultMetadataTimeout
	}
	if o.PreviewTimeout <= 0 {
		o.PreviewTimeout = DefaultPreviewTimeout
	}
	if o.PreviewWidth <= 0 {
		o.PreviewWidth = DefaultPreviewWidth
	}
	return o
}

// Service owns the playback state of the application. All methods are safe
// for concurrent use.
type Service struct {
	opts Options

	mu      sync.RWMutex
	session *engine.Session

	// windowMu serializes surface mode changes with the overlay sync that
	// follows each of them.
	windowMu sync.Mutex
	surface  *surface.Window
	overlay  *overlay.Compositor

	mediaCache *cache.LRU[string, media.Info]
	frameCache *cache.LRU[cache.FrameKey, probe.Image]
}

// New creates the surface and the engine session. A failure to do so is
// logged and leaves playback disabled; the service still probes.
func New(opts Options) *Service {
	opts = opts.withDefaults()

	s := &Service{
		opts:       opts,
		mediaCache: cache.New[string, media.Info](opts.MediaEntries),
		frameCache: cache.New[cache.FrameKey, probe.Image](opts.FrameEntries),
	}

	if opts.System == nil {
		return s
	}

	if h, ok := opts.Overlay.Get(); ok {
		s.overlay = overlay.New(opts.System, h)
	}

	if err := s.bootstrap(); err != nil {
		log.Warnf("engine not available, video playback disabled: %v", err)
	}
	return s
}

func (s *Service) hostHandle() winsys.Handle {
	if s.opts.Host == nil {
		return 0
	}
	return s.opts.Host.Handle()
}

func (s *Service) bootstrap() error {
	host := s.hostHandle()
	win, err := surface.New(s.opts.System, host, s.opts.Title)
	if err != nil {
		return err
	}

	api, err := s.opts.Engine()
	if err != nil {
		win.Close()
		return err
	}

	session, err := engine.NewSession(api, mo.Some(int64(win.Handle())))
	if err != nil {
		win.Close()
		return err
	}

	if s.opts.DetachOnStart {
		win.Detach()
	}

	s.opts.System.OnClose(func(h winsys.Handle) {
		if h == win.Handle() {
			s.HandleSurfaceClosed()
		}
	})

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.windowMu.Lock()
	s.surface = win
	s.windowMu.Unlock()

	log.WithField("surface", win.Handle()).WithField("host", host).Infof("engine initialized with %s surface", win.Mode())
	return nil
}

// IsAvailable reports whether playback is possible.
func (s *Service) IsAvailable() bool {
	return s.currentSession() != nil
}

func (s *Service) currentSession() *engine.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Session exposes the engine session for event listening. It is nil when
// playback is disabled.
func (s *Service) Session() *engine.Session {
	return s.currentSession()
}

// Close releases the session and the surface.
func (s *Service) Close() {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session != nil {
		session.Close()
	}

	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	if s.overlay != nil {
		s.overlay.Hide()
	}
	if s.surface != nil {
		s.surface.Close()
		s.surface = nil
	}
}

// HandleSurfaceClosed reacts to the user closing the detached surface: the
// window is already hidden, the overlay follows and the notifier is told.
func (s *Service) HandleSurfaceClosed() {
	s.windowMu.Lock()
	if s.overlay != nil {
		s.overlay.Hide()
	}
	s.windowMu.Unlock()

	if s.opts.Notifier != nil {
		s.opts.Notifier.Notify(EventSurfaceClosed)
	}
}
