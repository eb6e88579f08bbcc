package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrKriegler/go-storefront/internal/core"
)

// WriteBehind queues documents per key and writes the newest one on each tick.
// A failed write is logged and dropped; the next mutation queues a fresh copy.
type WriteBehind struct {
	BaseWorker
	store   core.KVStore
	timeout time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	order   []string

	flushMu sync.Mutex
}

func NewWriteBehind(store core.KVStore, interval, timeout time.Duration, log *slog.Logger) *WriteBehind {
	return &WriteBehind{
		BaseWorker: NewBaseWorker("write-behind", interval, log),
		store:      store,
		timeout:    timeout,
		pending:    make(map[string][]byte),
	}
}

// Persist queues doc as the next value for key, replacing anything queued
// before it.
func (w *WriteBehind) Persist(ctx context.Context, key string, doc []byte) core.PersistResult {
	buf := append([]byte(nil), doc...)

	w.mu.Lock()
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = buf
	w.mu.Unlock()

	return core.PersistResult{Key: key, Bytes: len(buf), Queued: true}
}

func (w *WriteBehind) Start(ctx context.Context) {
	w.Poll(ctx, w.Flush)
}

// Pending reports how many keys are waiting to be written.
func (w *WriteBehind) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush writes every queued document. Flushes never overlap, so writes for a
// key reach the store in the order they were queued.
func (w *WriteBehind) Flush(ctx context.Context) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	batch, order := w.pending, w.order
	w.pending, w.order = make(map[string][]byte), nil
	w.mu.Unlock()

	var errs []error
	for _, key := range order {
		doc := batch[key]
		if err := w.write(ctx, key, doc); err != nil {
			errs = append(errs, fmt.Errorf("persist %s (%d bytes): %w", key, len(doc), err))
			continue
		}
		w.log.Debug("persisted", "key", key, "bytes", len(doc))
	}
	return errors.Join(errs...)
}

func (w *WriteBehind) write(ctx context.Context, key string, doc []byte) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.store.Set(ctx, key, string(doc))
}
