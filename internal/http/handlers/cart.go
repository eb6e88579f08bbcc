package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
)

type CartHandler struct {
	SF  *core.Storefront
	Log *slog.Logger
}

func NewCartHandler(sf *core.Storefront, log *slog.Logger) *CartHandler {
	return &CartHandler{SF: sf, Log: log}
}

func (h *CartHandler) Mount(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.Add)
		r.Get("/items/{product_id}", h.GetItem)
		r.Put("/items/{product_id}", h.SetQuantity)
		r.Delete("/items/{product_id}", h.Remove)
		r.Post("/items/{product_id}/increase", h.Increase)
		r.Post("/items/{product_id}/decrease", h.Decrease)
	})
}

type productBody struct {
	Product core.Product `json:"product"`
}

type quantityBody struct {
	Quantity *int `json:"quantity"`
}

// CartItem answers "is this product in the cart, and how many".
type CartItem struct {
	ID       core.ProductID `json:"id"`
	Quantity int            `json:"quantity"`
	InCart   bool           `json:"inCart"`
}

// Get returns the cart snapshot.
// 200: JSON.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, h.SF.Cart.Snapshot())
}

// GetItem returns the quantity held for one product; absent products report 0.
// 200: JSON.
func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := productID(r)
	writeJSON(h.Log, w, http.StatusOK, CartItem{
		ID:       id,
		Quantity: h.SF.Cart.ItemQuantity(id),
		InCart:   h.SF.Cart.IsInCart(id),
	})
}

// Add adds one unit of a product.
// 200: JSON; 400: bad JSON/validation.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in productBody
	if !decodeJSON(w, r, &in) {
		return
	}
	h.run(w, r, core.AddToCart{Product: in.Product})
}

// SetQuantity sets a line's quantity; zero or less removes it.
// 200: JSON; 400: bad JSON or missing quantity.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var in quantityBody
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Quantity == nil {
		writeError(r.Context(), h.Log, w, core.ErrValidation, "quantity is required")
		return
	}
	h.run(w, r, core.SetCartQuantity{ID: productID(r), Quantity: *in.Quantity})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.RemoveFromCart{ID: productID(r)})
}

func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.IncreaseCartQuantity{ID: productID(r)})
}

func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.DecreaseCartQuantity{ID: productID(r)})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.ClearCart{})
}

func (h *CartHandler) run(w http.ResponseWriter, r *http.Request, in core.Intent) {
	snap, err := dispatch[core.CartSnapshot](r.Context(), h.SF, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, snap)
}

func productID(r *http.Request) core.ProductID {
	return core.ProductID(chi.URLParam(r, "product_id"))
}
