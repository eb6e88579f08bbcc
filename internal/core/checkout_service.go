package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrKriegler/go-storefront/internal/platform/ids"
	"github.com/shopspring/decimal"
)

type cartClearer interface {
	Clear(ctx context.Context) CartSnapshot
}

type checkoutService struct {
	cart      cartClearer
	publisher OrderPublisher
	log       *slog.Logger
	clock     func() time.Time
	newID     func() string
}

func NewCheckoutService(cart *CartLedger, publisher OrderPublisher, log *slog.Logger) CheckoutService {
	if log == nil {
		log = slog.Default()
	}
	s := &checkoutService{
		publisher: publisher,
		log:       log.With("component", "checkout"),
		clock:     time.Now,
		newID:     ids.NewOrderID,
	}
	if cart != nil {
		s.cart = cart
	}
	return s
}

func (s *checkoutService) Quote(req CheckoutRequest) (OrderSummary, error) {
	if err := req.Validate(); err != nil {
		return OrderSummary{}, err
	}
	return summarize(req.lines()), nil
}

func (s *checkoutService) Place(ctx context.Context, req CheckoutRequest) (Order, error) {
	// 1) validate and price
	summary, err := s.Quote(req)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:       s.newID(),
		Mode:     req.Mode,
		Summary:  summary,
		PlacedAt: s.clock().UTC(),
	}

	// 2) hand off to payment
	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		return Order{}, fmt.Errorf("publish order %s: %w", o.ID, err)
	}

	// 3) a cart checkout empties the cart only once the order is out
	if req.Mode == ModeCart && s.cart != nil {
		s.cart.Clear(ctx)
	}

	s.log.Info("order placed",
		"order_id", o.ID,
		"mode", o.Mode,
		"items", len(summary.Items),
		"total", summary.Total.StringFixed(2),
	)
	return o, nil
}

func summarize(lines []CartLine) OrderSummary {
	items := make([]OrderItem, 0, len(lines))
	sub := decimal.Zero
	for _, l := range lines {
		lt := l.LineTotal()
		sub = sub.Add(lt)
		items = append(items, OrderItem{
			ID:        l.Product.ID,
			Title:     l.Product.Title,
			Price:     decimal.NewFromFloat(l.Product.Price),
			Quantity:  l.Quantity,
			Thumbnail: l.Product.Thumbnail,
			LineTotal: lt.Round(2),
		})
	}
	tax := sub.Mul(TaxRate).Round(2)
	sub = sub.Round(2)
	return OrderSummary{
		Items:    items,
		Subtotal: sub,
		Tax:      tax,
		Shipping: ShippingFlat,
		Total:    sub.Add(tax).Add(ShippingFlat).Round(2),
		Currency: Currency,
	}
}
