package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Worker defines a background job that polls for work.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// BaseWorker runs a unit of work on a fixed tick and tracks how many runs in
// a row have failed.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
	failures int
}

func NewBaseWorker(name string, interval time.Duration, log *slog.Logger) BaseWorker {
	if log == nil {
		log = slog.Default()
	}
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
	}
}

func (w *BaseWorker) Name() string { return w.name }

// Poll runs work once immediately and then on every tick until ctx is done.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)
	w.run(ctx, work)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			w.run(ctx, work)
		}
	}
}

func (w *BaseWorker) run(ctx context.Context, work func(context.Context) error) {
	err := work(ctx)
	switch {
	case err != nil:
		w.failures++
		w.log.Error("worker run failed", "err", err, "consecutive_failures", w.failures)
	case w.failures > 0:
		w.log.Info("worker recovered", "after_failures", w.failures)
		w.failures = 0
	}
}
