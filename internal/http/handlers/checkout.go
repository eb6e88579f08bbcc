package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
)

type CheckoutHandler struct {
	SF  *core.Storefront
	Log *slog.Logger
}

func NewCheckoutHandler(sf *core.Storefront, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{SF: sf, Log: log}
}

func (h *CheckoutHandler) Mount(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.Place)
		r.Post("/quote", h.Quote)
	})
}

// Quote prices a checkout without placing it. A cart checkout with no lines
// prices the current cart.
// 200: JSON; 400: bad JSON/validation; 422: nothing to check out.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req core.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Mode == core.ModeCart && len(req.Lines) == 0 {
		req.Lines = h.SF.Cart.Lines()
	}

	sum, err := h.SF.Checkout.Quote(req)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, sum)
}

// Place places the order and, for a cart checkout, empties the cart.
// 201: JSON; 400: bad JSON/validation; 422: nothing to check out; 500: publish failed.
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req core.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := dispatch[core.Order](r.Context(), h.SF, core.Checkout{Request: req})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusCreated, order)
}
