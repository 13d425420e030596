package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/classify"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/engine"
	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/installer"
)

// fakeSubmitter records submission order and can simulate a busy engine.
type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []string
	busyLeft  int // number of submissions to reject with ErrBusy first
	inFlight  int
	overlap   bool
}

func (f *fakeSubmitter) Submit(_ context.Context, path string, _ installer.Options) (*installer.Outcome, error) {
	f.mu.Lock()
	if f.busyLeft > 0 {
		f.busyLeft--
		f.mu.Unlock()
		return nil, engine.ErrBusy
	}
	f.inFlight++
	if f.inFlight > 1 {
		f.overlap = true
	}
	f.mu.Unlock()

	time.Sleep(10 * time.Millisecond) // give overlap a chance to show

	f.mu.Lock()
	f.inFlight--
	f.submitted = append(f.submitted, path)
	f.mu.Unlock()

	return &installer.Outcome{
		Request: installer.NewRequest(path, classify.Deb, installer.Options{}),
		Status:  installer.StatusSuccess,
		Message: "installed",
	}, nil
}

func TestDrainProcessesInFIFOOrder(t *testing.T) {
	sub := &fakeSubmitter{}
	q := New(sub, nil)

	paths := []string{"/d/a.deb", "/d/b.snap", "/d/c.flatpak"}
	for _, p := range paths {
		q.Enqueue(p, installer.Options{})
	}

	if err := q.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() failed: %v", err)
	}

	if len(sub.submitted) != len(paths) {
		t.Fatalf("submitted %d items, want %d", len(sub.submitted), len(paths))
	}
	for i, p := range paths {
		if sub.submitted[i] != p {
			t.Errorf("submission[%d] = %s, want %s", i, sub.submitted[i], p)
		}
	}
	if sub.overlap {
		t.Error("submissions overlapped; drain must be strictly sequential")
	}

	for _, item := range q.Items() {
		if item.Status != Done {
			t.Errorf("item %s status = %v, want done", item.Path, item.Status)
		}
		if item.Outcome == nil {
			t.Errorf("item %s has no outcome", item.Path)
		}
	}
}

func TestDrainPausesWhileEngineBusy(t *testing.T) {
	sub := &fakeSubmitter{busyLeft: 3}
	q := New(sub, nil)
	q.retryInterval = 5 * time.Millisecond

	q.Enqueue("/d/a.deb", installer.Options{})

	if err := q.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() failed: %v", err)
	}

	if len(sub.submitted) != 1 {
		t.Fatalf("submitted %d items, want 1", len(sub.submitted))
	}
	items := q.Items()
	if items[0].Status != Done {
		t.Errorf("item status = %v, want done after busy period", items[0].Status)
	}
}

func TestDrainCancellationLeavesPendingItems(t *testing.T) {
	sub := &fakeSubmitter{}
	q := New(sub, nil)

	ctx, cancel := context.WithCancel(context.Background())

	first := q.Enqueue("/d/a.deb", installer.Options{})
	q.Enqueue("/d/b.deb", installer.Options{})
	q.Enqueue("/d/c.deb", installer.Options{})

	// Cancel as soon as the first item completes.
	done := make(chan error, 1)
	go func() { done <- q.Drain(ctx) }()

	for {
		if len(q.Items()) > 0 && q.Items()[0].Status == Done {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Drain() error = %v, want context.Canceled", err)
	}

	if first.Status != Done {
		t.Errorf("first item status = %v, want done", first.Status)
	}
	pending := q.PendingCount()
	if pending == 0 {
		t.Error("cancellation should leave later items pending")
	}
}

func TestDrainRejectsConcurrentDrain(t *testing.T) {
	sub := &fakeSubmitter{}
	q := New(sub, nil)
	for i := 0; i < 5; i++ {
		q.Enqueue("/d/x.deb", installer.Options{})
	}

	done := make(chan error, 1)
	go func() { done <- q.Drain(context.Background()) }()

	// Wait for the drain to start, then try a second one.
	time.Sleep(5 * time.Millisecond)
	err := q.Drain(context.Background())
	if err != nil && !errors.Is(err, ErrDraining) {
		t.Errorf("second Drain() error = %v, want ErrDraining or nil (already finished)", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("first Drain() failed: %v", err)
	}
}

func TestDrainEmptyQueueReturnsImmediately(t *testing.T) {
	q := New(&fakeSubmitter{}, nil)
	if err := q.Drain(context.Background()); err != nil {
		t.Errorf("Drain() on empty queue = %v, want nil", err)
	}
}

func TestItemStatusTransitions(t *testing.T) {
	sub := &fakeSubmitter{}
	q := New(sub, nil)

	item := q.Enqueue("/d/a.deb", installer.Options{})
	if item.Status != Pending {
		t.Errorf("new item status = %v, want pending", item.Status)
	}

	if err := q.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() failed: %v", err)
	}
	if item.Status != Done {
		t.Errorf("drained item status = %v, want done", item.Status)
	}
}
