// Package runner spawns the external renderer and blocks until it exits.
// There is no timeout and no retry: each invocation is a short, user-triggered
// one-shot, and the renderer's failure modes (bad snapshot, missing CUDA
// device) are not retryable without user intervention.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ExitError reports a renderer process that terminated unsuccessfully.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("external process failed with exit code %d", e.Code)
}

// RunFunc is the shape of Run, for callers that inject a fake process.
type RunFunc func(ctx context.Context, argv []string) error

// Run executes argv synchronously, inheriting the working directory and
// forwarding the child's output. A non-zero or abnormal exit is returned as
// an *ExitError.
func Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty argument vector")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return &ExitError{Code: ee.ExitCode()}
	}
	return fmt.Errorf("spawn %q: %w", argv[0], err)
}
