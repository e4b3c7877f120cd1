//go:build windows

package engine

import (
	"golang.org/x/sys/windows"
)

// SystemOpener opens libraries with LoadLibrary.
var SystemOpener Opener = OpenerFunc(func(path string) (Library, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return winLibrary(handle), nil
})

type winLibrary windows.Handle

func (l winLibrary) Symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(l), name)
}

func (l winLibrary) Close() error {
	return windows.FreeLibrary(windows.Handle(l))
}
