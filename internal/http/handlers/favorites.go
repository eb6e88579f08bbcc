package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
)

type FavoritesHandler struct {
	SF  *core.Storefront
	Log *slog.Logger
}

func NewFavoritesHandler(sf *core.Storefront, log *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{SF: sf, Log: log}
}

func (h *FavoritesHandler) Mount(r chi.Router) {
	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/toggle", h.Toggle)
		r.Get("/{product_id}", h.Get)
	})
}

type FavoriteStatus struct {
	ID         core.ProductID `json:"id"`
	IsFavorite bool           `json:"isFavorite"`
}

// List returns favorites in the order they were added.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, h.SF.Favorites.Snapshot())
}

func (h *FavoritesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	writeJSON(h.Log, w, http.StatusOK, FavoriteStatus{ID: id, IsFavorite: h.SF.Favorites.IsFavorite(id)})
}

// Toggle adds the product if absent and removes it otherwise.
// 200: JSON; 400: bad JSON/validation.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var in productBody
	if !decodeJSON(w, r, &in) {
		return
	}

	out, err := dispatch[core.FavoriteToggled](r.Context(), h.SF, core.ToggleFavorite{Product: in.Product})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, out)
}
