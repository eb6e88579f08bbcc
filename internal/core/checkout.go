package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutMode string

const (
	ModeSingleProduct CheckoutMode = "singleProduct"
	ModeCart          CheckoutMode = "cart"
)

const Currency = "INR"

var (
	TaxRate      = decimal.RequireFromString("0.18")
	ShippingFlat = decimal.NewFromInt(50)
)

// CheckoutRequest is either a single product bought directly (Product set) or
// the cart's lines (Lines set), as selected by Mode.
type CheckoutRequest struct {
	Mode    CheckoutMode `json:"mode"`
	Product *Product     `json:"product,omitempty"`
	Lines   []CartLine   `json:"lines,omitempty"`
}

func SingleProductCheckout(p Product) CheckoutRequest {
	c := p.Clone()
	return CheckoutRequest{Mode: ModeSingleProduct, Product: &c}
}

func CartCheckout(lines []CartLine) CheckoutRequest {
	return CheckoutRequest{Mode: ModeCart, Lines: cloneLines(lines)}
}

func (r CheckoutRequest) Validate() error {
	switch r.Mode {
	case ModeSingleProduct:
		if r.Product == nil {
			return fmt.Errorf("%w: single product checkout needs a product", ErrValidation)
		}
		return r.Product.Validate()
	case ModeCart:
		if len(r.Lines) == 0 {
			return ErrEmptyCheckout
		}
		for _, l := range r.Lines {
			if err := l.Product.Validate(); err != nil {
				return err
			}
			if l.Quantity < 1 {
				return fmt.Errorf("%w: quantity for %s must be >= 1", ErrValidation, l.Product.ID)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown checkout mode %q", ErrValidation, r.Mode)
	}
}

// lines returns the request as cart lines; a single product counts once.
func (r CheckoutRequest) lines() []CartLine {
	if r.Mode == ModeSingleProduct && r.Product != nil {
		return []CartLine{{Product: r.Product.Clone(), Quantity: 1}}
	}
	return cloneLines(r.Lines)
}

type OrderItem struct {
	ID        ProductID       `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type OrderSummary struct {
	Items    []OrderItem     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type Order struct {
	ID       string       `json:"orderId"`
	Mode     CheckoutMode `json:"mode"`
	Summary  OrderSummary `json:"summary"`
	PlacedAt time.Time    `json:"placedAt"`
}

// OrderPublisher hands a placed order to the payment side.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o Order) error
}

type CheckoutService interface {
	Quote(req CheckoutRequest) (OrderSummary, error)
	Place(ctx context.Context, req CheckoutRequest) (Order, error)
}
