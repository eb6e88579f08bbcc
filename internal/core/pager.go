package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// CatalogPager pages products in from a CatalogSource and keeps the filtered,
// sorted view the shopper browses. The raw fetched list is kept in arrival
// order; filters and sort are always re-applied to it.
type CatalogPager struct {
	mu       sync.Mutex
	src      CatalogSource
	pageSize int
	log      *slog.Logger

	raw         []Product
	items       []Product
	total       int
	page        int
	query       string
	sort        SortOrder
	filters     Filters
	loading     bool
	loadingMore bool
	errMsg      string
	generation  uint64
	version     uint64

	changes Broadcaster[CatalogState]
}

func NewCatalogPager(src CatalogSource, pageSize int, log *slog.Logger) *CatalogPager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &CatalogPager{
		src:      src,
		pageSize: pageSize,
		log:      log.With("component", "catalog"),
		raw:      []Product{},
		items:    []Product{},
		sort:     SortDefault,
	}
}

func (p *CatalogPager) PageSize() int { return p.pageSize }

// LoadPage fetches page pageIndex for query. With appendItems the page is
// merged onto what is loaded; otherwise it replaces it and any load still in
// flight becomes stale.
func (p *CatalogPager) LoadPage(ctx context.Context, pageIndex int, appendItems bool, query string) (CatalogState, error) {
	if pageIndex < 0 {
		return p.State(), fmt.Errorf("%w: page must be >= 0", ErrValidation)
	}
	// The end of the page must still fit in an int.
	if maxPage := math.MaxInt/p.pageSize - 1; pageIndex > maxPage {
		return p.State(), fmt.Errorf("%w: page must be <= %d", ErrValidation, maxPage)
	}

	p.mu.Lock()
	if !appendItems {
		p.generation++
		p.loading = true
		p.errMsg = ""
	} else {
		p.loadingMore = true
	}
	gen := p.generation
	p.version++
	started := p.stateLocked()
	p.mu.Unlock()
	p.changes.Publish(started.Version, started)

	pq := PageQuery{Limit: p.pageSize, Offset: pageIndex * p.pageSize, Query: query}
	page, fetchErr := p.src.Search(ctx, pq)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.log.Debug("discarding stale page", "page", pageIndex, "generation", gen)
		return p.State(), fmt.Errorf("%w: page %d generation %d", ErrStaleLoad, pageIndex, gen)
	}

	p.loading = false
	p.loadingMore = false
	p.version++

	if fetchErr != nil {
		p.errMsg = MsgFailedToLoad
		st := p.stateLocked()
		p.mu.Unlock()
		p.changes.Publish(st.Version, st)
		p.log.Warn("catalog load failed", "page", pageIndex, "query", query, "err", fetchErr)
		return st, fmt.Errorf("%w: %w", ErrCatalogUnavailable, fetchErr)
	}

	incoming := page.Items
	if incoming == nil {
		incoming = []Product{}
	}
	if appendItems {
		p.raw = mergeUnique(p.raw, incoming)
	} else {
		p.raw = cloneProducts(incoming)
	}
	p.total = page.Total
	p.page = pageIndex
	p.query = query
	p.errMsg = ""
	p.items = arrange(p.raw, p.filters, p.sort)
	st := p.stateLocked()
	p.mu.Unlock()

	p.changes.Publish(st.Version, st)
	p.log.Debug("catalog page loaded",
		"page", pageIndex,
		"incoming", len(incoming),
		"loaded", st.Loaded,
		"visible", len(st.Items),
		"total", st.TotalAvailable,
	)
	return st, nil
}

// LoadNextPage appends the next page of the current query. It is a no-op while
// another load is running or when nothing is left to fetch.
func (p *CatalogPager) LoadNextPage(ctx context.Context) (CatalogState, error) {
	p.mu.Lock()
	if p.loading || p.loadingMore || len(p.raw) >= p.total {
		st := p.stateLocked()
		p.mu.Unlock()
		return st, nil
	}
	next, query := p.page+1, p.query
	p.mu.Unlock()
	return p.LoadPage(ctx, next, true, query)
}

func (p *CatalogPager) Refresh(ctx context.Context) (CatalogState, error) {
	p.mu.Lock()
	query := p.query
	p.mu.Unlock()
	return p.LoadPage(ctx, 0, false, query)
}

func (p *CatalogPager) Search(ctx context.Context, query string) (CatalogState, error) {
	return p.LoadPage(ctx, 0, false, query)
}

// ChangeSort switches the sort order, or back to default when next is already
// active. Only what is loaded is re-sorted.
func (p *CatalogPager) ChangeSort(next SortOrder) (CatalogState, error) {
	order, err := ParseSortOrder(string(next))
	if err != nil {
		return p.State(), err
	}

	p.mu.Lock()
	if order == p.sort {
		p.sort = SortDefault
	} else {
		p.sort = order
	}
	p.items = arrange(p.raw, p.filters, p.sort)
	p.version++
	st := p.stateLocked()
	p.mu.Unlock()

	p.changes.Publish(st.Version, st)
	return st, nil
}

// ChangeFilters replaces the filter set and re-fetches from page 0.
func (p *CatalogPager) ChangeFilters(ctx context.Context, f Filters) (CatalogState, error) {
	if err := f.Validate(); err != nil {
		return p.State(), err
	}
	p.mu.Lock()
	p.filters = f.clone()
	query := p.query
	p.mu.Unlock()
	return p.LoadPage(ctx, 0, false, query)
}

func (p *CatalogPager) ClearFilters(ctx context.Context) (CatalogState, error) {
	return p.ChangeFilters(ctx, Filters{})
}

func (p *CatalogPager) ActiveFilterCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters.ActiveCount()
}

func (p *CatalogPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.raw) < p.total
}

func (p *CatalogPager) State() CatalogState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *CatalogPager) Subscribe(fn func(CatalogState)) (cancel func()) {
	return p.changes.Subscribe(fn)
}

func (p *CatalogPager) stateLocked() CatalogState {
	return CatalogState{
		Items:          cloneProducts(p.items),
		Loaded:         len(p.raw),
		TotalAvailable: p.total,
		Page:           p.page,
		Query:          p.query,
		Sort:           p.sort,
		Filters:        p.filters.clone(),
		Loading:        p.loading,
		LoadingMore:    p.loadingMore,
		Err:            p.errMsg,
		Generation:     p.generation,
		Version:        p.version,
	}
}
