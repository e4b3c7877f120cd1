package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/amvnote/amvnote/constant"
	"github.com/amvnote/amvnote/key"
	"github.com/amvnote/amvnote/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Library is an opened shared object.
type Library interface {
	Symbol(name string) (uintptr, error)
	Close() error
}

// Opener opens shared libraries by path.
type Opener interface {
	Open(path string) (Library, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Library, error)

func (f OpenerFunc) Open(path string) (Library, error) {
	return f(path)
}

// LibraryNames lists the file names libmpv ships under on goos, preferred first.
func LibraryNames(goos string) []string {
	switch goos {
	case constant.Windows:
		return []string{"mpv-2.dll", "libmpv-2.dll", "mpv-1.dll"}
	case constant.Darwin:
		return []string{"libmpv.2.dylib", "libmpv.dylib"}
	default:
		return []string{"libmpv.so.2", "libmpv.so", "libmpv.so.1"}
	}
}

// LoadOptions controls library resolution. Zero fields are filled from the
// process environment.
type LoadOptions struct {
	// Library is tried before anything else when set.
	Library string

	// SearchDepth is how many ancestors of WorkDir are searched.
	SearchDepth int

	WorkDir string
	ExeDir  string
	Names   []string
	Opener  Opener
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.WorkDir == "" {
		o.WorkDir, _ = os.Getwd()
	}
	if o.ExeDir == "" {
		if exe, err := os.Executable(); err == nil {
			o.ExeDir = filepath.Dir(exe)
		}
	}
	if len(o.Names) == 0 {
		o.Names = LibraryNames(runtime.GOOS)
	}
	if o.Opener == nil {
		o.Opener = SystemOpener
	}
	return o
}

// OptionsFromConfig reads the engine.* configuration keys.
func OptionsFromConfig() LoadOptions {
	return LoadOptions{
		Library:     viper.GetString(key.EngineLibrary),
		SearchDepth: viper.GetInt(key.EngineSearchDepth),
	}
}

// Candidates returns the ordered, de-duplicated list of paths Load tries.
// Bare names come last so the system loader search path is the final resort.
func Candidates(opts LoadOptions) []string {
	opts = opts.withDefaults()

	var dirs []string
	if opts.WorkDir != "" {
		dirs = append(dirs, opts.WorkDir)
	}
	if opts.ExeDir != "" {
		dirs = append(dirs,
			opts.ExeDir,
			filepath.Join(opts.ExeDir, "resources"),
			filepath.Join(opts.ExeDir, "resources", "windows"),
		)
	}
	for dir, i := opts.WorkDir, 0; dir != "" && i < opts.SearchDepth; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dirs = append(dirs, parent)
		dir = parent
	}

	var paths []string
	if opts.Library != "" {
		paths = append(paths, opts.Library)
	}
	for _, dir := range dirs {
		for _, name := range opts.Names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	paths = append(paths, opts.Names...)

	return lo.Uniq(paths)
}

// Load binds the first candidate that opens and exports every required symbol.
// Each candidate is attempted once, in order.
func Load(opts LoadOptions) (*Binding, error) {
	opts = opts.withDefaults()

	var lastErr error
	for _, path := range Candidates(opts) {
		logger := log.WithField("library", path)

		lib, err := opts.Opener.Open(path)
		if err != nil {
			logger.Debugf("engine library not loaded: %v", err)
			lastErr = err
			continue
		}

		binding, err := bind(path, lib)
		if err != nil {
			_ = lib.Close()
			logger.Debugf("engine library rejected: %v", err)
			lastErr = err
			continue
		}

		logger.Infof("engine library loaded")
		return binding, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no candidates")
	}
	return nil, fmt.Errorf("%w. Last error: %v", ErrUnavailable, lastErr)
}

var shared struct {
	once    sync.Once
	binding *Binding
	err     error
}

// Shared loads the library once per process using the configured options.
func Shared() (*Binding, error) {
	shared.once.Do(func() {
		shared.binding, shared.err = Load(OptionsFromConfig())
	})
	return shared.binding, shared.err
}
