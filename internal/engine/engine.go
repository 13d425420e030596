// Package engine orchestrates one installation attempt end to end:
// classification, strategy dispatch, and outcome recording, under a
// process-wide single-flight lock.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/elevate"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/integrity"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/runner"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/store"
)

// ErrBusy is returned when a direct submission finds another install in
// flight. Direct submissions are rejected loudly; silent queuing is the
// batch queue's job, not the engine's.
var ErrBusy = errors.New("another installation is in progress")

// Progress is pushed to the registered callback at every state transition
// of an in-flight install.
type Progress struct {
	RequestID string
	Stage     string // "classifying", "installing", "recording", "done"
	Message   string
}

// Engine runs installs one at a time and records every completed attempt.
type Engine struct {
	strategies map[classify.Format]installer.Strategy
	ledger     *store.Store
	log        *zap.Logger

	// slot is the install lock: at most one request holds the token,
	// regardless of whether it came from a direct drop or the queue.
	slot chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	notify  func(Progress)
}

// New builds an Engine. The ledger must have its schema created.
func New(strategies map[classify.Format]installer.Strategy, ledger *store.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	slot := make(chan struct{}, 1)
	slot <- struct{}{}
	return &Engine{
		strategies: strategies,
		ledger:     ledger,
		log:        log,
		slot:       slot,
	}
}

// OnProgress registers the progress callback. Pass nil to disable.
func (e *Engine) OnProgress(fn func(Progress)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify = fn
}

// Submit runs one installation attempt for path. It returns the recorded
// outcome for every completed attempt: success, failure, timeout, or
// cancellation alike. ErrBusy is returned (with no outcome and no ledger
// entry) when another install already holds the lock.
func (e *Engine) Submit(ctx context.Context, path string, opts installer.Options) (*installer.Outcome, error) {
	e.log.Info("state transition", zap.String("state", "classifying"), zap.String("path", path))

	format, err := classify.Detect(path)
	req := installer.NewRequest(path, format, opts)
	e.progress(req.ID, "classifying", path)

	if err != nil {
		// Classification failed: straight to recording, lock untouched.
		return e.record(req, installer.StatusFailed, err.Error(), "", 0)
	}
	if format == classify.Unknown {
		err := fmt.Errorf("%w: %s", installer.ErrUnsupportedFormat, path)
		return e.record(req, installer.StatusFailed, err.Error(), "", 0)
	}

	// Hash before taking the lock: a vanished or unreadable file should
	// fail fast without blocking other submissions.
	digest, hashErr := integrity.FileSHA256(path)
	if hashErr != nil {
		return e.record(req, installer.StatusFailed, hashErr.Error(), "", 0)
	}
	size := integrity.Size(path)

	select {
	case <-e.slot:
	default:
		e.log.Warn("submission rejected, install in progress", zap.String("path", path))
		return nil, ErrBusy
	}
	defer func() { e.slot <- struct{}{} }()

	runCtx, cancel := context.WithCancel(ctx)
	e.setCancel(cancel)
	defer e.setCancel(nil)
	defer cancel()

	e.log.Info("state transition",
		zap.String("state", "locked_running"),
		zap.String("request_id", req.ID),
		zap.String("format", format.String()),
	)
	e.progress(req.ID, "installing", fmt.Sprintf("Installing %s", path))

	strategy, ok := e.strategies[format]
	if !ok {
		err := fmt.Errorf("%w: no strategy for %s", installer.ErrUnsupportedFormat, format)
		return e.record(req, installer.StatusFailed, err.Error(), digest, size)
	}

	msg, installErr := strategy.Install(runCtx, req)
	status := statusFor(installErr)
	if installErr != nil {
		msg = installErr.Error()
	} else if seen, err := e.ledger.SeenDigest(digest); err == nil && seen {
		msg += " (identical file installed before)"
	}

	return e.record(req, status, msg, digest, size)
}

// Cancel aborts the in-flight install, if any. The running strategy's
// process tree is killed and the attempt is recorded as cancelled.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// record appends the outcome to the ledger and completes the state machine.
// Every path through Submit that represents an attempt funnels through
// here, so attempts and ledger entries stay one-to-one.
func (e *Engine) record(req *installer.Request, status installer.Status, msg, digest string, size int64) (*installer.Outcome, error) {
	e.log.Info("state transition",
		zap.String("state", "recording"),
		zap.String("request_id", req.ID),
		zap.String("status", string(status)),
		zap.String("message", msg),
	)
	e.progress(req.ID, "recording", msg)

	outcome := &installer.Outcome{
		Request:    req,
		Status:     status,
		Message:    msg,
		SHA256:     digest,
		SizeBytes:  size,
		FinishedAt: time.Now(),
	}

	rec := &store.HistoryRecord{
		RequestID:   req.ID,
		SourcePath:  req.SourcePath,
		Format:      req.Format.String(),
		Status:      string(status),
		Message:     msg,
		SHA256:      digest,
		SizeBytes:   size,
		SubmittedAt: req.SubmittedAt,
		FinishedAt:  outcome.FinishedAt,
	}
	if err := e.ledger.RecordOutcome(rec); err != nil {
		// The attempt still happened; surface the bookkeeping failure.
		return outcome, fmt.Errorf("record outcome: %w", err)
	}

	e.progress(req.ID, "done", msg)
	e.log.Info("state transition", zap.String("state", "idle"))
	return outcome, nil
}

func (e *Engine) setCancel(fn context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancel = fn
}

func (e *Engine) progress(id, stage, msg string) {
	e.mu.Lock()
	fn := e.notify
	e.mu.Unlock()
	if fn != nil {
		fn(Progress{RequestID: id, Stage: stage, Message: msg})
	}
}

// statusFor maps a strategy error to the outcome status. Timeouts and
// cancellations (including a dismissed elevation prompt) are distinct from
// plain failure.
func statusFor(err error) installer.Status {
	switch {
	case err == nil:
		return installer.StatusSuccess
	case errors.Is(err, runner.ErrTimeout):
		return installer.StatusTimedOut
	case errors.Is(err, runner.ErrCancelled), errors.Is(err, elevate.ErrCancelled):
		return installer.StatusCancelled
	default:
		return installer.StatusFailed
	}
}
