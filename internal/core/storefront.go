package core

import (
	"context"
	"fmt"
)

// Intent is a typed command from the presentation side.
type Intent interface {
	IntentName() string
}

type AddToCart struct{ Product Product }

type RemoveFromCart struct{ ID ProductID }

type SetCartQuantity struct {
	ID       ProductID
	Quantity int
}

type IncreaseCartQuantity struct{ ID ProductID }

type DecreaseCartQuantity struct{ ID ProductID }

type ClearCart struct{}

type ToggleFavorite struct{ Product Product }

type SearchCatalog struct{ Query string }

type LoadNextPage struct{}

type RefreshCatalog struct{}

type ChangeSort struct{ Sort SortOrder }

type ChangeFilters struct{ Filters Filters }

type Checkout struct{ Request CheckoutRequest }

func (AddToCart) IntentName() string            { return "add_to_cart" }
func (RemoveFromCart) IntentName() string       { return "remove_from_cart" }
func (SetCartQuantity) IntentName() string      { return "set_cart_quantity" }
func (IncreaseCartQuantity) IntentName() string { return "increase_cart_quantity" }
func (DecreaseCartQuantity) IntentName() string { return "decrease_cart_quantity" }
func (ClearCart) IntentName() string            { return "clear_cart" }
func (ToggleFavorite) IntentName() string       { return "toggle_favorite" }
func (SearchCatalog) IntentName() string        { return "search_catalog" }
func (LoadNextPage) IntentName() string         { return "load_next_page" }
func (RefreshCatalog) IntentName() string       { return "refresh_catalog" }
func (ChangeSort) IntentName() string           { return "change_sort" }
func (ChangeFilters) IntentName() string        { return "change_filters" }
func (Checkout) IntentName() string             { return "checkout" }

// FavoriteToggled is the result of a ToggleFavorite intent.
type FavoriteToggled struct {
	IsFavorite bool              `json:"isFavorite"`
	Favorites  FavoritesSnapshot `json:"favorites"`
}

// Storefront owns the session services. It is built once at startup and
// handed to whatever drives it.
type Storefront struct {
	Cart      *CartLedger
	Favorites *FavoritesSet
	Catalog   *CatalogPager
	Checkout  CheckoutService
}

// Load seeds the cart and favorites from storage.
func (s *Storefront) Load(ctx context.Context) {
	s.Cart.Load(ctx)
	s.Favorites.Load(ctx)
}

// Dispatch routes an intent to its service and returns that service's new
// state, or the placed Order for Checkout.
func (s *Storefront) Dispatch(ctx context.Context, in Intent) (any, error) {
	switch it := in.(type) {
	case AddToCart:
		if err := it.Product.Validate(); err != nil {
			return nil, err
		}
		return s.Cart.AddItem(ctx, it.Product), nil
	case RemoveFromCart:
		return s.Cart.RemoveItem(ctx, it.ID), nil
	case SetCartQuantity:
		return s.Cart.SetQuantity(ctx, it.ID, it.Quantity), nil
	case IncreaseCartQuantity:
		return s.Cart.IncreaseQuantity(ctx, it.ID), nil
	case DecreaseCartQuantity:
		return s.Cart.DecreaseQuantity(ctx, it.ID), nil
	case ClearCart:
		return s.Cart.Clear(ctx), nil
	case ToggleFavorite:
		if err := it.Product.Validate(); err != nil {
			return nil, err
		}
		fav, snap := s.Favorites.Toggle(ctx, it.Product)
		return FavoriteToggled{IsFavorite: fav, Favorites: snap}, nil
	case SearchCatalog:
		return s.Catalog.Search(ctx, it.Query)
	case LoadNextPage:
		return s.Catalog.LoadNextPage(ctx)
	case RefreshCatalog:
		return s.Catalog.Refresh(ctx)
	case ChangeSort:
		return s.Catalog.ChangeSort(it.Sort)
	case ChangeFilters:
		return s.Catalog.ChangeFilters(ctx, it.Filters)
	case Checkout:
		req := it.Request
		if req.Mode == ModeCart && len(req.Lines) == 0 {
			req.Lines = s.Cart.Lines()
		}
		return s.Checkout.Place(ctx, req)
	case nil:
		return nil, fmt.Errorf("%w: nil intent", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown intent %q", ErrValidation, in.IntentName())
	}
}
