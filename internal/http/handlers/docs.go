package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"

	"github.com/MrKriegler/go-storefront/pkg/problem"
)

// DocsHandler serves the registered swagger document.
type DocsHandler struct {
	Log *slog.Logger
}

func NewDocsHandler(log *slog.Logger) *DocsHandler {
	return &DocsHandler{Log: log}
}

func (h *DocsHandler) Mount(r chi.Router) {
	r.Get("/swagger/doc.json", h.Doc)
}

func (h *DocsHandler) Doc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.Log.ErrorContext(r.Context(), "swagger doc unavailable", "err", err)
		problem.Write(w, http.StatusNotFound, "Not Found", "No API documentation registered.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
