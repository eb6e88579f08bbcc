package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/pkg/problem"
)

type CatalogHandler struct {
	SF  *core.Storefront
	Log *slog.Logger
}

func NewCatalogHandler(sf *core.Storefront, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{SF: sf, Log: log}
}

func (h *CatalogHandler) Mount(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.Load)
		r.Get("/state", h.State)
		r.Post("/next", h.Next)
		r.Post("/refresh", h.Refresh)
		r.Put("/sort", h.Sort)
		r.Put("/filters", h.SetFilters)
		r.Delete("/filters", h.ClearFilters)
	})
}

// CatalogView is the pager state plus the derived values a grid needs.
type CatalogView struct {
	core.CatalogState
	More          bool `json:"hasMore"`
	ActiveFilters int  `json:"activeFilters"`
}

func viewOf(st core.CatalogState) CatalogView {
	return CatalogView{CatalogState: st, More: st.HasMore(), ActiveFilters: st.Filters.ActiveCount()}
}

// Load fetches a page for the query. page=0 (the default) replaces the grid,
// anything higher appends.
// 200: JSON; 400: bad page; 409: superseded by a newer load; 502: catalog unavailable.
func (h *CatalogHandler) Load(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	page := 0
	if s := r.URL.Query().Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			problem.Write(w, http.StatusBadRequest, "Invalid Page", "page must be a non-negative integer.")
			return
		}
		page = n
	}

	if page == 0 {
		h.run(w, r, core.SearchCatalog{Query: q})
		return
	}
	st, err := h.SF.Catalog.LoadPage(r.Context(), page, true, q)
	h.respond(w, r, st, err)
}

// State returns the current grid without fetching.
func (h *CatalogHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, viewOf(h.SF.Catalog.State()))
}

// Next appends the following page; a no-op while loading or when exhausted.
func (h *CatalogHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.LoadNextPage{})
}

func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.RefreshCatalog{})
}

type sortBody struct {
	Sort string `json:"sort"`
}

// Sort selects an ordering. Selecting the active one again restores the
// order products arrived in.
// 200: JSON; 400: unknown sort.
func (h *CatalogHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var in sortBody
	if !decodeJSON(w, r, &in) {
		return
	}
	order, err := core.ParseSortOrder(in.Sort)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	h.run(w, r, core.ChangeSort{Sort: order})
}

// SetFilters replaces the filters and reloads from page 0.
// 200: JSON; 400: bad JSON or inverted range; 502: catalog unavailable.
func (h *CatalogHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var in core.Filters
	if !decodeJSON(w, r, &in) {
		return
	}
	h.run(w, r, core.ChangeFilters{Filters: in})
}

func (h *CatalogHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, core.ChangeFilters{})
}

func (h *CatalogHandler) run(w http.ResponseWriter, r *http.Request, in core.Intent) {
	st, err := dispatch[core.CatalogState](r.Context(), h.SF, in)
	h.respond(w, r, st, err)
}

func (h *CatalogHandler) respond(w http.ResponseWriter, r *http.Request, st core.CatalogState, err error) {
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	writeJSON(h.Log, w, http.StatusOK, viewOf(st))
}
