//go:build darwin || linux || freebsd

package engine

import (
	"github.com/ebitengine/purego"
)

// SystemOpener opens libraries with dlopen.
var SystemOpener Opener = OpenerFunc(func(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return dlLibrary(handle), nil
})

type dlLibrary uintptr

func (l dlLibrary) Symbol(name string) (uintptr, error) {
	return purego.Dlsym(uintptr(l), name)
}

func (l dlLibrary) Close() error {
	return purego.Dlclose(uintptr(l))
}
