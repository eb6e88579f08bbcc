package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const DefaultPageSize = 12

type PageQuery struct {
	Limit  int
	Offset int
	Query  string
}

// Page is one batch from the catalog source. Total is the provider's count for
// the whole query, not the length of Items.
type Page struct {
	Items []Product
	Total int
}

// CatalogSource fetches a page of products. An empty Query lists the catalog;
// anything else searches it. No matches is an empty page, not an error.
type CatalogSource interface {
	Search(ctx context.Context, q PageQuery) (Page, error)
}

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortAlpha     SortOrder = "alpha"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.TrimSpace(s)); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceAsc, SortPriceDesc, SortAlpha:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q", ErrValidation, s)
	}
}

type Filters struct {
	PriceMin  *float64 `json:"priceMin,omitempty"`
	PriceMax  *float64 `json:"priceMax,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	Category  *string  `json:"category,omitempty"`
}

// ActiveCount counts the price range as a single filter.
func (f Filters) ActiveCount() int {
	n := 0
	if f.PriceMin != nil || f.PriceMax != nil {
		n++
	}
	if f.MinRating != nil {
		n++
	}
	if f.Category != nil {
		n++
	}
	return n
}

func (f Filters) Validate() error {
	if f.PriceMin != nil && *f.PriceMin < 0 {
		return fmt.Errorf("%w: priceMin must be >= 0", ErrValidation)
	}
	if f.PriceMax != nil && *f.PriceMax < 0 {
		return fmt.Errorf("%w: priceMax must be >= 0", ErrValidation)
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return fmt.Errorf("%w: priceMin exceeds priceMax", ErrValidation)
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return fmt.Errorf("%w: minRating must be within 0..5", ErrValidation)
	}
	return nil
}

func (f Filters) Match(p Product) bool {
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	return true
}

func (f Filters) clone() Filters {
	out := Filters{}
	if f.PriceMin != nil {
		v := *f.PriceMin
		out.PriceMin = &v
	}
	if f.PriceMax != nil {
		v := *f.PriceMax
		out.PriceMax = &v
	}
	if f.MinRating != nil {
		v := *f.MinRating
		out.MinRating = &v
	}
	if f.Category != nil {
		v := *f.Category
		out.Category = &v
	}
	return out
}

// arrange filters raw and sorts the result, leaving raw untouched.
func arrange(raw []Product, f Filters, order SortOrder) []Product {
	out := make([]Product, 0, len(raw))
	for _, p := range raw {
		if f.Match(p) {
			out = append(out, p.Clone())
		}
	}
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortAlpha:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	}
	return out
}

// mergeUnique appends incoming to existing, skipping ids already present.
func mergeUnique(existing, incoming []Product) []Product {
	out := make([]Product, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	for _, p := range incoming {
		if p.ID != "" && indexOfProduct(out, p.ID) >= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

type CatalogState struct {
	Items          []Product `json:"items"`
	Loaded         int       `json:"loaded"`
	TotalAvailable int       `json:"total"`
	Page           int       `json:"page"`
	Query          string    `json:"query"`
	Sort           SortOrder `json:"sort"`
	Filters        Filters   `json:"filters"`
	Loading        bool      `json:"loading"`
	LoadingMore    bool      `json:"loadingMore"`
	Err            string    `json:"error,omitempty"`
	Generation     uint64    `json:"generation"`
	Version        uint64    `json:"version"`
}

// HasMore reports whether the source holds items beyond those fetched so far.
func (s CatalogState) HasMore() bool {
	return s.Loaded < s.TotalAvailable
}
