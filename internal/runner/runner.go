// Package runner executes external commands with a hard wall-clock timeout,
// bounded output capture, and whole-tree termination.
//
// Every install strategy goes through Run; no other package spawns
// processes. Centralizing the watchdog here means timeout and kill
// semantics are uniform across formats, and no orphaned helper process can
// outlive an aborted install.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/elevate"
)

const (
	// DefaultTimeout bounds a single external command.
	DefaultTimeout = 5 * time.Minute

	// DefaultMaxOutput caps captured combined stdout/stderr.
	DefaultMaxOutput = 1 << 20 // 1 MiB
)

var (
	// ErrTimeout is returned when the command exceeded the deadline and its
	// process tree was killed.
	ErrTimeout = errors.New("process timed out")

	// ErrCancelled is returned when the caller's context was cancelled and
	// the process tree was killed.
	ErrCancelled = errors.New("process cancelled")
)

// Result holds the outcome of a completed command.
type Result struct {
	ExitCode int
	Output   string // combined stdout/stderr, truncated at MaxOutput
}

// Runner executes commands under a watchdog.
type Runner struct {
	Timeout   time.Duration
	MaxOutput int
	Log       *zap.Logger
}

// New returns a Runner with the given timeout. A zero timeout selects
// DefaultTimeout.
func New(timeout time.Duration, log *zap.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Timeout:   timeout,
		MaxOutput: DefaultMaxOutput,
		Log:       log,
	}
}

// Run executes argv, optionally wrapped for elevation, and waits for
// completion, timeout, or cancellation. argv is always executed directly,
// never through a shell, so file names cannot be interpreted as shell
// syntax.
//
// On timeout the entire process tree is killed and ErrTimeout is returned;
// on ctx cancellation likewise with ErrCancelled. For elevated commands,
// pkexec's own exit codes are translated to elevate.ErrCancelled or
// elevate.ErrDenied.
func (r *Runner) Run(ctx context.Context, argv []string, elevated bool) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	if elevated {
		if !elevate.Available() {
			return nil, elevate.ErrHelperMissing
		}
		argv = elevate.Command(argv)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	// Own process group so the whole tree can be signalled at once.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	out := &boundedBuffer{max: r.MaxOutput}
	cmd.Stdout = out
	cmd.Stderr = out

	r.Log.Debug("spawning command",
		zap.String("command", strings.Join(argv, " ")),
		zap.Bool("elevated", elevated),
		zap.Duration("timeout", r.Timeout),
	)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	watchdog := time.NewTimer(r.Timeout)
	defer watchdog.Stop()

	var waitErr error
	var termErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		r.killTree(cmd.Process.Pid)
		<-done // reap
		termErr = ErrCancelled
	case <-watchdog.C:
		r.killTree(cmd.Process.Pid)
		<-done // reap
		termErr = ErrTimeout
	}

	res := &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Output:   out.String(),
	}

	r.Log.Debug("command finished",
		zap.String("command", argv[0]),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("killed", termErr != nil),
	)

	if termErr != nil {
		return res, termErr
	}
	if elevated {
		if elvErr := elevate.Classify(res.ExitCode, res.Output); elvErr != nil {
			return res, elvErr
		}
	}
	if waitErr != nil {
		return res, fmt.Errorf("%s exited with code %d: %w", argv[0], res.ExitCode, waitErr)
	}
	return res, nil
}

// killTree terminates the process group and any stragglers that escaped it
// (double-forked children reparented to init keep the original pid as
// parent long enough for the walk to find them).
func (r *Runner) killTree(pid int) {
	if proc, err := process.NewProcess(int32(pid)); err == nil {
		if children, err := proc.Children(); err == nil {
			for _, child := range children {
				_ = child.Kill()
			}
		}
	}

	// Negative pid signals the whole group.
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}

	r.Log.Warn("killed process tree", zap.Int("pid", pid))
}

// boundedBuffer captures writes up to max bytes and silently drops the
// rest, so a chatty installer cannot exhaust memory.
type boundedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
	max int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if remaining := b.max - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	// Report the full length so the child never sees a write error.
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
