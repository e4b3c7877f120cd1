package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/amvnote/amvnote/util"
)

// Runner runs an external tool and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs tools as child processes without a console window. When
// ctx expires the process, and on Unix its whole process group, is killed
// and a *TimeoutError is returned.
type ExecRunner struct{}

// waitDelay bounds how long Wait keeps reading pipes after a kill.
const waitDelay = 250 * time.Millisecond

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	tool := util.FileStem(name)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error { return killProcess(cmd) }
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s unavailable: %w", tool, err)
	}

	return finish(ctx, tool, start, stdout.Bytes(), stderr.String(), cmd.Wait())
}

// finish maps the result of a finished tool. An expired ctx only matters when
// the tool failed; a clean exit keeps its output.
func finish(ctx context.Context, tool string, start time.Time, stdout []byte, stderr string, err error) ([]byte, error) {
	if err == nil {
		return stdout, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			after := time.Since(start)
			if deadline, ok := ctx.Deadline(); ok {
				after = deadline.Sub(start)
			}
			return nil, &TimeoutError{Tool: tool, After: after.Round(100 * time.Millisecond)}
		}
		return nil, ctxErr
	}

	if msg := strings.TrimSpace(stderr); msg != "" {
		return nil, errors.New(msg)
	}
	return nil, fmt.Errorf("%s failed: %w", tool, err)
}
