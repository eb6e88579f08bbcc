package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   []PageQuery
	searchF func(ctx context.Context, q PageQuery) (Page, error)
}

func (f *fakeSource) Search(ctx context.Context, q PageQuery) (Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	return f.searchF(ctx, q)
}

// catalogOf serves a fixed catalog of n products with ascending prices.
func catalogOf(n int) func(ctx context.Context, q PageQuery) (Page, error) {
	all := make([]Product, n)
	for i := range all {
		all[i] = Product{
			ID:       ProductID(fmt.Sprint(i + 1)),
			Title:    fmt.Sprintf("Item %02d", n-i),
			Price:    float64((i + 1) * 25),
			Rating:   float64(i%5) + 0.5,
			Category: []string{"beauty", "groceries"}[i%2],
		}
	}
	return func(ctx context.Context, q PageQuery) (Page, error) {
		if q.Offset >= len(all) {
			return Page{Items: []Product{}, Total: len(all)}, nil
		}
		end := q.Offset + q.Limit
		if end > len(all) {
			end = len(all)
		}
		return Page{Items: all[q.Offset:end], Total: len(all)}, nil
	}
}

func productIDs(items []Product) []ProductID {
	out := make([]ProductID, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestPager_LoadAndAppend(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{searchF: catalogOf(30)}
	pager := NewCatalogPager(src, 12, discardLogger())

	st, err := pager.LoadPage(ctx, 0, false, "")
	require.NoError(t, err)
	assert.Len(t, st.Items, 12)
	assert.Equal(t, 30, st.TotalAvailable)
	assert.True(t, st.HasMore())

	st, err = pager.LoadPage(ctx, 1, true, "")
	require.NoError(t, err)
	assert.Len(t, st.Items, 24)
	assert.Equal(t, 30, st.TotalAvailable)
	assert.Equal(t, 1, st.Page)

	assert.Equal(t, PageQuery{Limit: 12, Offset: 12}, src.calls[1])
}

func TestPager_LoadNextPageStopsAtTotal(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{searchF: catalogOf(20)}
	pager := NewCatalogPager(src, 12, discardLogger())

	_, err := pager.Search(ctx, "")
	require.NoError(t, err)
	st, err := pager.LoadNextPage(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Items, 20)
	assert.False(t, pager.HasMore())

	_, err = pager.LoadNextPage(ctx)
	require.NoError(t, err)
	assert.Len(t, src.calls, 2)
}

func TestPager_AppendSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		if q.Offset == 0 {
			return Page{Items: []Product{product("1", 1), product("2", 1)}, Total: 4}, nil
		}
		return Page{Items: []Product{product("2", 1), product("3", 1)}, Total: 4}, nil
	}}
	pager := NewCatalogPager(src, 2, discardLogger())

	_, err := pager.LoadPage(ctx, 0, false, "")
	require.NoError(t, err)
	st, err := pager.LoadPage(ctx, 1, true, "")
	require.NoError(t, err)

	assert.Equal(t, []ProductID{"1", "2", "3"}, productIDs(st.Items))
}

func TestPager_QueryIsPassedThrough(t *testing.T) {
	src := &fakeSource{searchF: catalogOf(3)}
	pager := NewCatalogPager(src, 12, discardLogger())

	st, err := pager.Search(context.Background(), "phone")
	require.NoError(t, err)
	assert.Equal(t, "phone", st.Query)
	assert.Equal(t, "phone", src.calls[0].Query)

	_, err = pager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "phone", src.calls[1].Query)
	assert.Equal(t, 0, src.calls[1].Offset)
}

func TestPager_FailureKeepsPriorState(t *testing.T) {
	ctx := context.Background()
	fail := false
	good := catalogOf(30)
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		if fail {
			return Page{}, fmt.Errorf("%w: status 503", ErrUpstream)
		}
		return good(ctx, q)
	}}
	pager := NewCatalogPager(src, 12, discardLogger())
	_, err := pager.Search(ctx, "")
	require.NoError(t, err)

	fail = true
	st, err := pager.LoadNextPage(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, MsgServerError, UserMessage(err))
	assert.Equal(t, MsgFailedToLoad, st.Err)
	assert.Len(t, st.Items, 12)
	assert.Equal(t, 30, st.TotalAvailable)
	assert.False(t, st.Loading)
	assert.False(t, st.LoadingMore)

	fail = false
	st, err = pager.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Err)
}

func TestPager_SortToggleRestoresOrder(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		return Page{Items: []Product{
			{ID: "1", Title: "b", Price: 30},
			{ID: "2", Title: "a", Price: 10},
			{ID: "3", Title: "B", Price: 20},
			{ID: "4", Title: "a", Price: 10},
		}, Total: 4}, nil
	}}
	pager := NewCatalogPager(src, 12, discardLogger())
	st, err := pager.Search(ctx, "")
	require.NoError(t, err)
	original := productIDs(st.Items)

	st, err = pager.ChangeSort(SortPriceAsc)
	require.NoError(t, err)
	assert.Equal(t, []ProductID{"2", "4", "3", "1"}, productIDs(st.Items))

	st, err = pager.ChangeSort(SortPriceAsc)
	require.NoError(t, err)
	assert.Equal(t, SortDefault, st.Sort)
	assert.Equal(t, original, productIDs(st.Items))

	st, err = pager.ChangeSort(SortPriceDesc)
	require.NoError(t, err)
	assert.Equal(t, []ProductID{"1", "3", "2", "4"}, productIDs(st.Items))

	st, err = pager.ChangeSort(SortAlpha)
	require.NoError(t, err)
	assert.Equal(t, []ProductID{"3", "2", "4", "1"}, productIDs(st.Items))

	assert.Len(t, src.calls, 1, "sorting must not refetch")
}

func TestPager_UnknownSort(t *testing.T) {
	pager := NewCatalogPager(&fakeSource{searchF: catalogOf(1)}, 12, discardLogger())
	_, err := pager.ChangeSort("cheapest")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, SortDefault, pager.State().Sort)
}

func TestPager_PriceFilterKeepsServerTotal(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		items := make([]Product, 12)
		for i := range items {
			items[i] = product(fmt.Sprint(i+1), float64((i+1)*40))
		}
		return Page{Items: items, Total: 50}, nil
	}}
	pager := NewCatalogPager(src, 12, discardLogger())
	_, err := pager.LoadPage(ctx, 0, false, "")
	require.NoError(t, err)

	st, err := pager.ChangeFilters(ctx, Filters{PriceMin: ptr(200.0)})
	require.NoError(t, err)
	require.NotEmpty(t, st.Items)
	for _, p := range st.Items {
		assert.GreaterOrEqual(t, p.Price, 200.0)
	}
	assert.Len(t, st.Items, 8)
	assert.Equal(t, 50, st.TotalAvailable)
	assert.Equal(t, 1, pager.ActiveFilterCount())
	assert.Equal(t, 0, src.calls[1].Offset, "filter change refetches page 0")
}

func TestPager_FiltersCombine(t *testing.T) {
	ctx := context.Background()
	pager := NewCatalogPager(&fakeSource{searchF: catalogOf(10)}, 12, discardLogger())

	st, err := pager.ChangeFilters(ctx, Filters{
		PriceMax:  ptr(200.0),
		MinRating: ptr(2.0),
		Category:  ptr("beauty"),
	})
	require.NoError(t, err)
	for _, p := range st.Items {
		assert.LessOrEqual(t, p.Price, 200.0)
		assert.GreaterOrEqual(t, p.Rating, 2.0)
		assert.Equal(t, "beauty", p.Category)
	}
	assert.Equal(t, []ProductID{"3", "5"}, productIDs(st.Items))
	assert.Equal(t, 3, pager.ActiveFilterCount())

	st, err = pager.ClearFilters(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 0, pager.ActiveFilterCount())
}

func TestPager_InvalidFilters(t *testing.T) {
	pager := NewCatalogPager(&fakeSource{searchF: catalogOf(1)}, 12, discardLogger())
	_, err := pager.ChangeFilters(context.Background(), Filters{PriceMin: ptr(50.0), PriceMax: ptr(10.0)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPager_StaleAppendIsDiscarded(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		if q.Offset > 0 {
			close(entered)
			<-release
			return Page{Items: []Product{product("old", 1)}, Total: 99}, nil
		}
		return Page{Items: []Product{product(q.Query, 1)}, Total: 1}, nil
	}}
	pager := NewCatalogPager(src, 1, discardLogger())
	_, err := pager.Search(ctx, "first")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := pager.LoadPage(ctx, 1, true, "first")
		errCh <- err
	}()
	<-entered

	_, err = pager.Search(ctx, "second")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStaleLoad)
	st := pager.State()
	assert.Equal(t, []ProductID{"second"}, productIDs(st.Items))
	assert.Equal(t, 1, st.TotalAvailable)
	assert.Equal(t, "second", st.Query)
}

func TestPager_SubscribeSeesLoadingTransitions(t *testing.T) {
	pager := NewCatalogPager(&fakeSource{searchF: catalogOf(3)}, 12, discardLogger())
	var loading []bool
	cancel := pager.Subscribe(func(s CatalogState) { loading = append(loading, s.Loading) })
	defer cancel()

	_, err := pager.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, loading)
}

func TestPager_NegativePage(t *testing.T) {
	pager := NewCatalogPager(&fakeSource{searchF: catalogOf(1)}, 0, discardLogger())
	assert.Equal(t, DefaultPageSize, pager.PageSize())
	_, err := pager.LoadPage(context.Background(), -1, false, "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPager_HugePageRejectedBeforeFetch(t *testing.T) {
	src := &fakeSource{searchF: catalogOf(1)}
	pager := NewCatalogPager(src, 12, discardLogger())

	_, err := pager.LoadPage(context.Background(), math.MaxInt/12, true, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = pager.LoadPage(context.Background(), math.MaxInt, false, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, src.calls)

	_, err = pager.LoadPage(context.Background(), math.MaxInt/12-1, true, "")
	require.NoError(t, err)
	require.Len(t, src.calls, 1)
	assert.Positive(t, src.calls[0].Offset)
}

func TestPager_TagsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	src := &fakeSource{searchF: func(ctx context.Context, q PageQuery) (Page, error) {
		return Page{}, ErrUpstream
	}}
	pager := NewCatalogPager(src, 12, log)

	_, err := pager.LoadPage(context.Background(), 0, false, "")
	require.Error(t, err)
	require.Contains(t, buf.String(), "catalog load failed")
	assert.Equal(t, 1, strings.Count(buf.String(), "component=catalog"))
}
