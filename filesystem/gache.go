package filesystem

import (
	"io"
	"os"
	"time"

	"github.com/metafates/gache"
)

// gacheFs lets gache stores live on the active backend.
type gacheFs struct{}

func (gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return backend.OpenFile(name, flag, perm)
}

func (gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return backend.MkdirAll(path, perm)
}

// GacheOptions describes a store at path on the active backend. A zero
// lifetime never expires.
func GacheOptions(path string, lifetime time.Duration) *gache.Options {
	return &gache.Options{
		Path:       path,
		Lifetime:   lifetime,
		FileSystem: gacheFs{},
	}
}
