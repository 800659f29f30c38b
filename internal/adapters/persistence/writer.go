package persistence

import (
	"context"
	"sync"
	"time"

	"cafechain/internal/core/domain"
)

// snapshotTarget is what the writer drains into
type snapshotTarget interface {
	Load(ctx context.Context) (*domain.State, bool)
	Save(ctx context.Context, state domain.State)
}

// AsyncWriter serializes saves through a single goroutine. Pending saves
// coalesce to the newest version, so an older snapshot can never land after
// a newer one. Save returns immediately.
type AsyncWriter struct {
	target  snapshotTarget
	timeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending *domain.State
	queued  uint64
	written uint64
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewAsyncWriter starts the writer goroutine
func NewAsyncWriter(target snapshotTarget, timeout time.Duration) *AsyncWriter {
	w := &AsyncWriter{
		target:  target,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Load flushes queued writes, then reads through to the target
func (w *AsyncWriter) Load(ctx context.Context) (*domain.State, bool) {
	w.Flush()
	return w.target.Load(ctx)
}

// Save queues state for writing, replacing any not-yet-written snapshot
func (w *AsyncWriter) Save(_ context.Context, state domain.State) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = &state
	w.queued++
	select {
	case w.wake <- struct{}{}:
	default:
	}
	w.mu.Unlock()
}

// Flush blocks until everything queued so far has been written
func (w *AsyncWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.queued
	for w.written < target && !w.isDone() {
		w.cond.Wait()
	}
}

// Close drains the queue and stops the goroutine, or gives up when ctx ends
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.wake)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AsyncWriter) run() {
	defer func() {
		close(w.done)
		w.mu.Lock()
		w.cond.Broadcast()
		w.mu.Unlock()
	}()
	for range w.wake {
		w.drain()
	}
	w.drain()
}

func (w *AsyncWriter) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		state := *w.pending
		version := w.queued
		w.pending = nil
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		w.target.Save(ctx, state)
		cancel()

		w.mu.Lock()
		w.written = version
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

func (w *AsyncWriter) isDone() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
