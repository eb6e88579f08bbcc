package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/MrKriegler/go-storefront/docs"
	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/store/memory"
	"github.com/MrKriegler/go-storefront/pkg/problem"
)

type stubCatalog struct {
	mu  sync.Mutex
	err error
	n   int
}

func (s *stubCatalog) Search(ctx context.Context, q core.PageQuery) (core.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.Page{}, s.err
	}
	var items []core.Product
	for i := q.Offset; i < q.Offset+q.Limit && i < s.n; i++ {
		items = append(items, core.Product{
			ID:       core.ProductID(fmt.Sprint(i + 1)),
			Title:    fmt.Sprintf("%s %d", q.Query, i+1),
			Price:    float64(10 * (i + 1)),
			Category: "beauty",
		})
	}
	return core.Page{Items: items, Total: s.n}, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	orders []core.Order
}

func (p *stubPublisher) PublishOrderPlaced(ctx context.Context, o core.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return nil
}

type fixture struct {
	sf     *core.Storefront
	src    *stubCatalog
	pub    *stubPublisher
	kv     *memory.KVStore
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := memory.NewKVStore()
	persister := core.NewDirectPersister(kv, time.Second)
	cart := core.NewCartLedger(kv, persister, "", log)
	src := &stubCatalog{n: 30}
	pub := &stubPublisher{}
	sf := &core.Storefront{
		Cart:      cart,
		Favorites: core.NewFavoritesSet(kv, persister, "", log),
		Catalog:   core.NewCatalogPager(src, 12, log),
		Checkout:  core.NewCheckoutService(cart, pub, log),
	}

	r := chi.NewRouter()
	NewDocsHandler(log).Mount(r)
	r.Route("/api/v1", func(r chi.Router) {
		for _, m := range []Mountable{
			NewCartHandler(sf, log),
			NewFavoritesHandler(sf, log),
			NewCatalogHandler(sf, log),
			NewCheckoutHandler(sf, log),
			&StreamHandler{SF: sf, Log: log, Heartbeat: time.Hour},
		} {
			m.Mount(r)
		}
	})
	return &fixture{sf: sf, src: src, pub: pub, kv: kv, router: r}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

const lamp = `{"product":{"id":7,"title":"Lamp","price":120.5}}`

func TestCart_AddAndAdjust(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", lamp)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[core.CartSnapshot](t, rec)
	assert.Equal(t, 1, snap.TotalItems)

	f.do(t, http.MethodPost, "/api/v1/cart/items", lamp)
	rec = f.do(t, http.MethodPost, "/api/v1/cart/items/7/increase", "")
	assert.Equal(t, 3, decode[core.CartSnapshot](t, rec).TotalItems)

	rec = f.do(t, http.MethodPost, "/api/v1/cart/items/7/decrease", "")
	assert.Equal(t, 2, decode[core.CartSnapshot](t, rec).TotalItems)

	rec = f.do(t, http.MethodGet, "/api/v1/cart/items/7", "")
	assert.Equal(t, CartItem{ID: "7", Quantity: 2, InCart: true}, decode[CartItem](t, rec))

	rec = f.do(t, http.MethodPut, "/api/v1/cart/items/7", `{"quantity":5}`)
	snap = decode[core.CartSnapshot](t, rec)
	assert.Equal(t, 5, snap.TotalItems)
	assert.Equal(t, "602.5", snap.Subtotal.String())

	stored, ok, err := f.kv.Get(context.Background(), core.CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":7,"title":"Lamp","price":120.5,"quantity":5}]`, stored)
}

func TestCart_RemoveAndClear(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/v1/cart/items", lamp)
	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product":{"id":8,"title":"Rug","price":10}}`)

	rec := f.do(t, http.MethodDelete, "/api/v1/cart/items/7", "")
	assert.Equal(t, 1, decode[core.CartSnapshot](t, rec).TotalItems)

	rec = f.do(t, http.MethodDelete, "/api/v1/cart", "")
	assert.Equal(t, 0, decode[core.CartSnapshot](t, rec).TotalItems)

	rec = f.do(t, http.MethodGet, "/api/v1/cart", "")
	assert.Empty(t, decode[core.CartSnapshot](t, rec).Lines)
}

func TestCart_BadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, method, path, body string
		status                   int
	}{
		{"bad json", http.MethodPost, "/api/v1/cart/items", "{", http.StatusBadRequest},
		{"missing id", http.MethodPost, "/api/v1/cart/items", `{"product":{"title":"x","price":1}}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/v1/cart/items", `{"product":{"id":1,"price":-2}}`, http.StatusBadRequest},
		{"missing quantity", http.MethodPut, "/api/v1/cart/items/1", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestFavorites_Toggle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/favorites/toggle", lamp)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[core.FavoriteToggled](t, rec)
	assert.True(t, out.IsFavorite)
	assert.Equal(t, 1, out.Favorites.Count)

	rec = f.do(t, http.MethodGet, "/api/v1/favorites/7", "")
	assert.True(t, decode[FavoriteStatus](t, rec).IsFavorite)

	rec = f.do(t, http.MethodPost, "/api/v1/favorites/toggle", lamp)
	assert.False(t, decode[core.FavoriteToggled](t, rec).IsFavorite)

	rec = f.do(t, http.MethodGet, "/api/v1/favorites", "")
	assert.Equal(t, 0, decode[core.FavoritesSnapshot](t, rec).Count)
}

func TestCatalog_LoadPagesAndSort(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/catalog?q=lip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[CatalogView](t, rec)
	assert.Len(t, view.Items, 12)
	assert.Equal(t, 30, view.TotalAvailable)
	assert.True(t, view.More)
	assert.Equal(t, "lip", view.Query)

	rec = f.do(t, http.MethodPost, "/api/v1/catalog/next", "")
	assert.Len(t, decode[CatalogView](t, rec).Items, 24)

	rec = f.do(t, http.MethodGet, "/api/v1/catalog?q=lip&page=2", "")
	view = decode[CatalogView](t, rec)
	assert.Len(t, view.Items, 30)
	assert.False(t, view.More)

	rec = f.do(t, http.MethodPut, "/api/v1/catalog/sort", `{"sort":"price_desc"}`)
	view = decode[CatalogView](t, rec)
	assert.Equal(t, core.ProductID("30"), view.Items[0].ID)

	rec = f.do(t, http.MethodPut, "/api/v1/catalog/sort", `{"sort":"cheapest"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/catalog?page=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/catalog?page=9223372036854775807", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog_Filters(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/v1/catalog", "")

	rec := f.do(t, http.MethodPut, "/api/v1/catalog/filters", `{"priceMin":50,"priceMax":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[CatalogView](t, rec)
	assert.Equal(t, 1, view.ActiveFilters)
	assert.Len(t, view.Items, 6)

	rec = f.do(t, http.MethodPut, "/api/v1/catalog/filters", `{"priceMin":100,"priceMax":50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/catalog/filters", "")
	view = decode[CatalogView](t, rec)
	assert.Equal(t, 0, view.ActiveFilters)
	assert.Len(t, view.Items, 12)
}

func TestCatalog_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/v1/catalog", "")
	f.src.err = fmt.Errorf("%w: status 500", core.ErrUpstream)

	rec := f.do(t, http.MethodPost, "/api/v1/catalog/refresh", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	p := decode[problem.Problem](t, rec)
	assert.Equal(t, core.MsgServerError, p.Message)
	assert.Equal(t, core.MsgFailedToLoad, p.Detail)

	rec = f.do(t, http.MethodGet, "/api/v1/catalog/state", "")
	view := decode[CatalogView](t, rec)
	assert.Len(t, view.Items, 12, "previous items survive a failed load")
	assert.Equal(t, core.MsgFailedToLoad, view.Err)
}

func TestCheckout_QuoteAndPlace(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/checkout", `{"mode":"cart"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product":{"id":1,"title":"Pen","price":100}}`)

	rec = f.do(t, http.MethodPost, "/api/v1/checkout/quote", `{"mode":"cart"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[core.OrderSummary](t, rec)
	assert.Equal(t, "168.00", sum.Total.StringFixed(2))

	rec = f.do(t, http.MethodPost, "/api/v1/checkout", `{"mode":"cart"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[core.Order](t, rec)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.Len(t, f.pub.orders, 1)
	assert.Equal(t, 0, f.sf.Cart.TotalItemCount())

	rec = f.do(t, http.MethodPost, "/api/v1/checkout", `{"mode":"singleProduct"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocs(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.Equal(t, "/api/v1", doc["basePath"])
}

func TestStream_InitialSnapshotsAndUpdates(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if name, ok := strings.CutPrefix(sc.Text(), "event: "); ok {
				events <- name
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case e := <-events:
			return e
		case <-time.After(5 * time.Second):
			t.Fatal("no event")
			return ""
		}
	}

	assert.Equal(t, []string{EventCart, EventFavorites, EventCatalog}, []string{next(), next(), next()})

	f.sf.Favorites.Toggle(context.Background(), core.Product{ID: "1", Title: "x"})
	assert.Equal(t, EventFavorites, next())
}

func TestLatest_KeepsNewestVersionPerEvent(t *testing.T) {
	q := newLatest()
	q.put(EventCart, 5, "cart v5")
	q.put(EventCart, 4, "cart v4")
	q.put(EventFavorites, 1, "favorites v1")

	order, pending := q.take()
	assert.Equal(t, []string{EventCart, EventFavorites}, order)
	assert.Equal(t, "cart v5", pending[EventCart])

	q.put(EventCart, 3, "cart v3")
	order, _ = q.take()
	assert.Empty(t, order)
}
