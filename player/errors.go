package player

import "errors"

var (
	// ErrNotInitialized is returned by playback operations when no engine
	// session could be created.
	ErrNotInitialized = errors.New("player not initialized")

	// ErrNoSurface is returned by window operations without a video surface.
	ErrNoSurface = errors.New("video surface not available")

	// ErrNoMedia is returned when no media path was given and none is loaded.
	ErrNoMedia = errors.New("no media file available for preview")
)
