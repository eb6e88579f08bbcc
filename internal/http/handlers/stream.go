package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
)

// Event names on the stream.
const (
	EventCart      = "cart"
	EventFavorites = "favorites"
	EventCatalog   = "catalog"
)

// StreamHandler pushes cart, favorites and catalog snapshots as server-sent
// events. A slow client only ever receives the latest snapshot per event.
type StreamHandler struct {
	SF        *core.Storefront
	Log       *slog.Logger
	Heartbeat time.Duration
}

func NewStreamHandler(sf *core.Storefront, log *slog.Logger) *StreamHandler {
	return &StreamHandler{SF: sf, Log: log, Heartbeat: 15 * time.Second}
}

func (h *StreamHandler) Mount(r chi.Router) {
	r.Get("/stream", h.Stream)
}

// latest holds the newest undelivered payload per event. Payloads older than
// the newest version seen for their event are dropped.
type latest struct {
	mu      sync.Mutex
	pending map[string]any
	seen    map[string]uint64
	order   []string
	notify  chan struct{}
}

func newLatest() *latest {
	return &latest{
		pending: make(map[string]any),
		seen:    make(map[string]uint64),
		notify:  make(chan struct{}, 1),
	}
}

func (l *latest) put(event string, version uint64, v any) {
	l.mu.Lock()
	if last, ok := l.seen[event]; ok && version < last {
		l.mu.Unlock()
		return
	}
	l.seen[event] = version
	if _, ok := l.pending[event]; !ok {
		l.order = append(l.order, event)
	}
	l.pending[event] = v
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *latest) take() ([]string, map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, pending := l.order, l.pending
	l.order, l.pending = nil, make(map[string]any)
	return order, pending
}

// Stream serves text/event-stream until the client goes away.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.Log.DebugContext(r.Context(), "write deadline not adjustable", "err", err)
	}

	q := newLatest()
	putCart := func(s core.CartSnapshot) { q.put(EventCart, s.Version, s) }
	putFavorites := func(s core.FavoritesSnapshot) { q.put(EventFavorites, s.Version, s) }
	putCatalog := func(s core.CatalogState) { q.put(EventCatalog, s.Version, viewOf(s)) }

	// Subscribe before seeding so no change between the two is missed.
	cancels := []func(){
		h.SF.Cart.Subscribe(putCart),
		h.SF.Favorites.Subscribe(putFavorites),
		h.SF.Catalog.Subscribe(putCatalog),
	}
	defer func() {
		for _, c := range cancels {
			c()
		}
	}()
	putCart(h.SF.Cart.Snapshot())
	putFavorites(h.SF.Favorites.Snapshot())
	putCatalog(h.SF.Catalog.State())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.Log.ErrorContext(r.Context(), "streaming unsupported", "err", err)
		return
	}

	beat := h.Heartbeat
	if beat <= 0 {
		beat = 15 * time.Second
	}
	ticker := time.NewTicker(beat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case <-q.notify:
			order, pending := q.take()
			for _, ev := range order {
				if err := writeEvent(w, ev, pending[ev]); err != nil {
					h.Log.DebugContext(r.Context(), "stream closed", "err", err)
					return
				}
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
