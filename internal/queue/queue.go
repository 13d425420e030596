// Package queue holds the ordered worklist of pending installs and drains
// it sequentially through the installation engine.
//
// The queue is the serialization point for multi-file batches: it waits for
// each outcome before advancing, which is why the engine only ever needs a
// single install lock.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/engine"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
)

// ErrDraining is returned when Drain is called while a drain is running.
var ErrDraining = errors.New("queue drain already running")

// Submitter runs one installation attempt. Satisfied by *engine.Engine.
type Submitter interface {
	Submit(ctx context.Context, path string, opts installer.Options) (*installer.Outcome, error)
}

// ItemStatus tracks a queue slot. Transitions are monotonic:
// pending -> running -> done.
type ItemStatus string

const (
	Pending ItemStatus = "pending"
	Running ItemStatus = "running"
	Done    ItemStatus = "done"
)

// Item wraps one queued install request.
type Item struct {
	Path    string
	Options installer.Options
	Status  ItemStatus
	Outcome *installer.Outcome
}

// Queue is an ordered worklist drained strictly FIFO.
type Queue struct {
	submitter Submitter
	log       *zap.Logger

	// retryInterval paces re-submission while a direct install holds the
	// engine lock.
	retryInterval time.Duration

	mu       sync.Mutex
	items    []*Item
	draining bool
}

// New builds an empty queue over the given submitter.
func New(submitter Submitter, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		submitter:     submitter,
		log:           log,
		retryInterval: 500 * time.Millisecond,
	}
}

// Enqueue appends a request to the worklist.
func (q *Queue) Enqueue(path string, opts installer.Options) *Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := &Item{Path: path, Options: opts, Status: Pending}
	q.items = append(q.items, item)
	q.log.Info("enqueued", zap.String("path", path), zap.Int("position", len(q.items)))
	return item
}

// Items returns a snapshot of the worklist in order.
func (q *Queue) Items() []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]*Item, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

// PendingCount returns the number of items not yet processed.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, item := range q.items {
		if item.Status == Pending {
			n++
		}
	}
	return n
}

// Drain processes pending items strictly in FIFO order, one at a time,
// waiting for each outcome before advancing. If the engine is busy with a
// direct install, the current item stays pending and the drain pauses
// until the lock frees. Cancelling ctx stops before the next item; the
// in-flight item always finishes, and remaining items stay pending.
func (q *Queue) Drain(ctx context.Context) error {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return ErrDraining
	}
	q.draining = true
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			q.log.Info("drain cancelled", zap.Int("remaining", q.PendingCount()))
			return ctx.Err()
		default:
		}

		item := q.nextPending()
		if item == nil {
			return nil
		}

		if err := q.process(ctx, item); err != nil {
			return err
		}
	}
}

// process runs one item to completion, retrying while the engine lock is
// held elsewhere.
func (q *Queue) process(ctx context.Context, item *Item) error {
	for {
		q.setStatus(item, Running)

		// The drain context is deliberately not passed to Submit: drain
		// cancellation is cooperative and must let the current item
		// finish. Aborting the in-flight install is the engine's Cancel.
		outcome, err := q.submitter.Submit(context.Background(), item.Path, item.Options)
		if errors.Is(err, engine.ErrBusy) {
			q.setStatus(item, Pending)
			q.log.Info("engine busy, drain paused", zap.String("path", item.Path))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(q.retryInterval):
				continue
			}
		}
		if err != nil {
			q.setStatus(item, Done)
			return err
		}

		q.mu.Lock()
		item.Outcome = outcome
		item.Status = Done
		q.mu.Unlock()
		return nil
	}
}

func (q *Queue) nextPending() *Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range q.items {
		if item.Status == Pending {
			return item
		}
	}
	return nil
}

func (q *Queue) setStatus(item *Item, status ItemStatus) {
	q.mu.Lock()
	item.Status = status
	q.mu.Unlock()
}
