package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/queue"
)

// DefaultSettle is how long a candidate file must go without write events
// before it is considered fully downloaded.
const DefaultSettle = 2 * time.Second

// Watcher monitors one directory for installer files and enqueues them once
// their writes settle.
type Watcher struct {
	dir       string
	queue     *queue.Queue
	opts      installer.Options
	log       *zap.Logger
	settle    time.Duration
	autoDrain bool

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	drain   context.CancelFunc
}

// New creates a Watcher over dir. Candidates are enqueued with opts.
func New(dir string, q *queue.Queue, opts installer.Options, log *zap.Logger) (*Watcher, error) {
	if q == nil {
		return nil, fmt.Errorf("queue cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch target %s is not a directory", dir)
	}
	return &Watcher{
		dir:     dir,
		queue:   q,
		opts:    opts,
		log:     log,
		settle:  DefaultSettle,
		stopCh:  make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// SetAutoDrain makes the watcher start a queue drain after each enqueue.
// Without it the queue just accumulates until someone drains it.
func (w *Watcher) SetAutoDrain(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autoDrain = enabled
}

// SetSettle overrides the write-settle window (useful for testing).
func (w *Watcher) SetSettle(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settle = d
}

// Start subscribes to filesystem events and begins processing in the
// background. Files already present in the directory are not picked up;
// the watcher only reacts to new arrivals.
func (w *Watcher) Start() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fs.Add(w.dir); err != nil {
		fs.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.fs = fs

	w.log.Info("watching for installer files", zap.String("dir", w.dir))

	w.wg.Add(1)
	go w.run()
	return nil
}

// run consumes filesystem events until Stop.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// handleEvent resets the settle timer for candidate files on every create or
// write. The timer firing means the download has gone quiet.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if classify.FromName(event.Name) == classify.Unknown {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(w.settle)
		return
	}

	path := event.Name
	w.log.Info("candidate detected", zap.String("path", path))
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.settled(path)
	})
}

// settled fires once a candidate has stopped receiving writes.
func (w *Watcher) settled(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	autoDrain := w.autoDrain
	w.mu.Unlock()

	// The file may have been renamed or deleted while settling.
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		w.log.Info("candidate vanished before settling", zap.String("path", path))
		return
	}

	w.queue.Enqueue(path, w.opts)
	w.log.Info("candidate enqueued",
		zap.String("path", path),
		zap.Int64("size", info.Size()),
	)

	if autoDrain {
		w.startDrain()
	}
}

// startDrain kicks off a background drain unless one is already running.
func (w *Watcher) startDrain() {
	ctx, cancel := context.WithCancel(context.Background())

	w.mu.Lock()
	if w.drain != nil {
		// A drain is running; it will pick up the new item before exiting.
		w.mu.Unlock()
		cancel()
		return
	}
	w.drain = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()

		for {
			err := w.queue.Drain(ctx)
			if err != nil && !errors.Is(err, queue.ErrDraining) && !errors.Is(err, context.Canceled) {
				w.log.Warn("auto drain stopped", zap.Error(err))
			}

			// An item enqueued between Drain's last pending check and here
			// would see w.drain set and skip starting its own drain, so
			// re-check under the same lock that publishes the slot.
			w.mu.Lock()
			if ctx.Err() != nil || err != nil || w.queue.PendingCount() == 0 {
				w.drain = nil
				w.mu.Unlock()
				return
			}
			w.mu.Unlock()
		}
	}()
}

// Stop halts event processing, cancels pending settle timers and any running
// auto drain, and waits for background work to finish. The in-flight install,
// if any, completes before Stop returns.
func (w *Watcher) Stop() error {
	close(w.stopCh)

	if w.fs != nil {
		w.fs.Close()
	}

	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	if w.drain != nil {
		w.drain()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}
