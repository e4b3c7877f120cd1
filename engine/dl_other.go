//go:build !darwin && !linux && !freebsd && !windows

package engine

import (
	"fmt"
	"runtime"
)

// SystemOpener always fails on platforms without a dynamic loader binding.
var SystemOpener Opener = OpenerFunc(func(path string) (Library, error) {
	return nil, fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)
})

// Binding is never produced on these platforms.
type Binding struct{ API }

func (b *Binding) Path() string { return "" }

func (b *Binding) Close() error { return nil }

func bind(path string, lib Library) (*Binding, error) {
	return nil, fmt.Errorf("binding is not supported on %s", runtime.GOOS)
}

// RequiredSymbols lists every export a library must provide to be bound.
func RequiredSymbols() []string { return nil }
