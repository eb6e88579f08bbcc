package transporthttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MrKriegler/go-storefront/internal/http/handlers"
	"github.com/MrKriegler/go-storefront/internal/middleware"
)

// Deps bundles feature handlers that implement handlers.Mountable.
type Deps struct {
	Log *slog.Logger

	// Public mounts at the root (health, docs).
	Public []handlers.Mountable
	// Mounts go under /api/v1 with the request timeout applied.
	Mounts []handlers.Mountable
	// Streams go under /api/v1 without a timeout.
	Streams []handlers.Mountable

	// Middlewares run after request id, real ip, access log and recovery.
	Middlewares    []func(http.Handler) http.Handler
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(d.Middlewares...)

	for _, m := range d.Public {
		m.Mount(r)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetJSONContentType)

		for _, m := range d.Streams {
			m.Mount(r)
		}

		r.Group(func(r chi.Router) {
			if d.RequestTimeout > 0 {
				r.Use(chimw.Timeout(d.RequestTimeout))
			}
			// Mount each feature's routes into this router.
			for _, m := range d.Mounts {
				m.Mount(r)
			}
		})
	})

	return r
}
