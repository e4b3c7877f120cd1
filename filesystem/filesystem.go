// Package filesystem routes every file access of amvnote through one afero
// backend, so tests can run against memory.
package filesystem

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches to the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to an empty in-memory tree.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Regular stats path and reports whether it is a regular file. Media paths,
// cache identities and screenshot outputs all go through here.
func Regular(path string) (os.FileInfo, bool) {
	return RegularOn(backend, path)
}

// RegularOn is Regular against fs instead of the configured backend.
func RegularOn(fs afero.Fs, path string) (os.FileInfo, bool) {
	stat, err := fs.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return nil, false
	}
	return stat, true
}

// NonEmpty reports whether path is a regular file with content.
func NonEmpty(path string) bool {
	return NonEmptyOn(backend, path)
}

// NonEmptyOn is NonEmpty against fs.
func NonEmptyOn(fs afero.Fs, path string) bool {
	stat, ok := RegularOn(fs, path)
	return ok && stat.Size() > 0
}

// TempPath returns an unused file name in dir. Nothing is created.
func TempPath(dir, prefix, ext string) string {
	return filepath.Join(dir, prefix+uuid.NewString()+ext)
}
