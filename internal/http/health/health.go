package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler serves liveness and readiness. Readiness pings every named check.
type Handler struct {
	log       *slog.Logger
	checks    map[string]Pinger
	opTimeout time.Duration
}

type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func New(log *slog.Logger, checks map[string]Pinger, opTimeout time.Duration) *Handler {
	return &Handler{log: log, checks: checks, opTimeout: opTimeout}
}

func (h *Handler) Mount(r chi.Router) {
	// Liveness: process is up
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Readiness: dependencies are reachable
	r.Get("/readyz", h.ready)
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	rep := Report{Status: "ready", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			if h.log != nil {
				h.log.Warn("readiness failed", "check", name, "err", err)
			}
			rep.Status = "not ready"
			rep.Checks[name] = err.Error()
			continue
		}
		rep.Checks[name] = "ok"
	}

	status := http.StatusOK
	if rep.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rep)
}
