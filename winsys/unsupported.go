//go:build !windows && !((linux && !android) || freebsd || openbsd || netbsd)

package winsys

import "github.com/samber/mo"

// Native always fails on platforms without a backend.
func Native() (System, error) {
	return nil, ErrUnsupported
}

// TerminalWindow is never known on these platforms.
func TerminalWindow() mo.Option[Handle] {
	return mo.None[Handle]()
}
