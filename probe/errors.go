package probe

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout matches every bounded wait that ran out, including *TimeoutError.
	ErrTimeout = errors.New("timed out")

	// ErrProbe wraps the combined failure of every metadata stage.
	ErrProbe = errors.New("media probe failed")

	// ErrEmptyImage is returned when a frame grab produced no bytes.
	ErrEmptyImage = errors.New("no image extracted")
)

// TimeoutError is a tool killed after exceeding its bound.
type TimeoutError struct {
	Tool  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout (%s)", e.Tool, e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
