package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("runner tests exec /bin/sh")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireUnix(t)

	r := New(10*time.Second, nil)
	res, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "echo out; echo err 1>&2"}, false)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Output, "out") || !strings.Contains(res.Output, "err") {
		t.Errorf("Output = %q, want combined stdout and stderr", res.Output)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	requireUnix(t)

	r := New(10*time.Second, nil)
	res, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "exit 3"}, false)
	if err == nil {
		t.Fatal("Run() should fail for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrCancelled) {
		t.Errorf("plain failure misclassified: %v", err)
	}
}

func TestRunTimeoutKillsTree(t *testing.T) {
	requireUnix(t)

	r := New(200*time.Millisecond, nil)
	start := time.Now()
	_, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "sleep 30"}, false)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	// The watchdog must not wait out the child's sleep.
	if elapsed > 5*time.Second {
		t.Errorf("Run() took %v after timeout; child not killed promptly", elapsed)
	}
}

func TestRunCancellation(t *testing.T) {
	requireUnix(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	r := New(time.Minute, nil)
	start := time.Now()
	_, err := r.Run(ctx, []string{"/bin/sh", "-c", "sleep 30"}, false)

	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run() error = %v, want ErrCancelled", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation did not terminate the child promptly")
	}
}

func TestRunBoundsOutput(t *testing.T) {
	requireUnix(t)

	r := New(10*time.Second, nil)
	r.MaxOutput = 64

	res, err := r.Run(context.Background(), []string{"/bin/sh", "-c", "head -c 100000 /dev/zero | tr '\\0' 'x'"}, false)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(res.Output) != 64 {
		t.Errorf("Output length = %d, want capped at 64", len(res.Output))
	}
}

func TestRunEmptyCommand(t *testing.T) {
	r := New(time.Second, nil)
	if _, err := r.Run(context.Background(), nil, false); err == nil {
		t.Error("Run() should reject an empty argv")
	}
}
