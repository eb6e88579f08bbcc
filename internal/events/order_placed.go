package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/platform/ids"
)

type OrderPlacedItem struct {
	ProductID core.ProductID  `json:"productId"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderPlaced is the contract consumed by the payment side.
type OrderPlaced struct {
	EventID   string            `json:"eventId"`
	EventType string            `json:"eventType"`
	OrderID   string            `json:"orderId"`
	Mode      core.CheckoutMode `json:"mode"`
	Items     []OrderPlacedItem `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Tax       decimal.Decimal   `json:"tax"`
	Shipping  decimal.Decimal   `json:"shipping"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Timestamp time.Time         `json:"timestamp"`
}

func newOrderPlaced(o core.Order) OrderPlaced {
	ev := OrderPlaced{
		EventID:   ids.New(),
		EventType: "OrderPlaced",
		OrderID:   o.ID,
		Mode:      o.Mode,
		Items:     make([]OrderPlacedItem, 0, len(o.Summary.Items)),
		Subtotal:  o.Summary.Subtotal,
		Tax:       o.Summary.Tax,
		Shipping:  o.Summary.Shipping,
		Amount:    o.Summary.Total,
		Currency:  o.Summary.Currency,
		Timestamp: o.PlacedAt,
	}
	for _, it := range o.Summary.Items {
		ev.Items = append(ev.Items, OrderPlacedItem{
			ProductID: it.ID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return ev
}
