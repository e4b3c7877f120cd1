// Package constant defines immutable application-level identifiers.
package constant

const (
	// Amvnote is the canonical application identifier used for filesystem paths and CLI branding.
	Amvnote = "amvnote"

	// Title is the human readable application name shown in window titles.
	Title = "AMV Notation"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent used for the release check.
	UserAgent = Amvnote + "/" + Version
)

// Build metadata, overridden by -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// runtime.GOOS values with platform specific behavior.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
