package runner

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func requireSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests use sh")
	}
}

func TestRun_Success(t *testing.T) {
	requireSh(t)
	if err := Run(context.Background(), []string{"sh", "-c", "exit 0"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	requireSh(t)
	err := Run(context.Background(), []string{"sh", "-c", "exit 3"})
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("want *ExitError, got %v", err)
	}
	if ee.Code != 3 {
		t.Fatalf("want exit code 3, got %d", ee.Code)
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	err := Run(context.Background(), []string{"/no/such/binary"})
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		t.Fatalf("spawn failure must not masquerade as an exit status: %v", err)
	}
}

func TestRun_EmptyArgv(t *testing.T) {
	if err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty argv")
	}
}
