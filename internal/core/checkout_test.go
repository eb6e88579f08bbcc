package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []Order
	err       error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, o)
	return nil
}

func newTestCheckout(t *testing.T, cart *CartLedger, pub *fakePublisher) *checkoutService {
	t.Helper()
	svc := NewCheckoutService(cart, pub, discardLogger()).(*checkoutService)
	svc.clock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	svc.newID = func() string { return "ORD-test" }
	return svc
}

func TestCheckout_QuoteSingleProduct(t *testing.T) {
	svc := newTestCheckout(t, nil, &fakePublisher{})

	sum, err := svc.Quote(SingleProductCheckout(Product{ID: "1", Title: "Lamp", Price: 499.99}))
	require.NoError(t, err)

	require.Len(t, sum.Items, 1)
	assert.Equal(t, 1, sum.Items[0].Quantity)
	assert.Equal(t, "499.99", sum.Subtotal.StringFixed(2))
	assert.Equal(t, "90.00", sum.Tax.StringFixed(2))
	assert.Equal(t, "50.00", sum.Shipping.StringFixed(2))
	assert.Equal(t, "639.99", sum.Total.StringFixed(2))
	assert.Equal(t, "INR", sum.Currency)
}

func TestCheckout_QuoteCart(t *testing.T) {
	svc := newTestCheckout(t, nil, &fakePublisher{})

	sum, err := svc.Quote(CartCheckout([]CartLine{
		{Product: product("1", 100), Quantity: 2},
		{Product: product("2", 50), Quantity: 1},
	}))
	require.NoError(t, err)
	assert.Equal(t, "250.00", sum.Subtotal.StringFixed(2))
	assert.Equal(t, "45.00", sum.Tax.StringFixed(2))
	assert.Equal(t, "345.00", sum.Total.StringFixed(2))
	assert.Equal(t, "200.00", sum.Items[0].LineTotal.StringFixed(2))
}

func TestCheckout_Validation(t *testing.T) {
	svc := newTestCheckout(t, nil, &fakePublisher{})

	tests := []struct {
		name string
		req  CheckoutRequest
		want error
	}{
		{name: "empty cart", req: CartCheckout(nil), want: ErrEmptyCheckout},
		{name: "missing product", req: CheckoutRequest{Mode: ModeSingleProduct}, want: ErrValidation},
		{name: "zero quantity", req: CheckoutRequest{Mode: ModeCart, Lines: []CartLine{{Product: product("1", 1)}}}, want: ErrValidation},
		{name: "bad mode", req: CheckoutRequest{Mode: "layaway"}, want: ErrValidation},
		{name: "negative price", req: SingleProductCheckout(Product{ID: "1", Price: -1}), want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Quote(tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckout_PlaceCartClearsAfterPublish(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart(t)
	cart.AddItem(ctx, product("1", 100))
	pub := &fakePublisher{}
	svc := newTestCheckout(t, cart, pub)

	o, err := svc.Place(ctx, CartCheckout(cart.Lines()))
	require.NoError(t, err)

	assert.Equal(t, "ORD-test", o.ID)
	assert.Equal(t, ModeCart, o.Mode)
	require.Len(t, pub.published, 1)
	assert.Equal(t, o, pub.published[0])
	assert.Equal(t, 0, cart.TotalItemCount())
}

func TestCheckout_PlaceSingleProductLeavesCart(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart(t)
	cart.AddItem(ctx, product("1", 100))
	svc := newTestCheckout(t, cart, &fakePublisher{})

	_, err := svc.Place(ctx, SingleProductCheckout(product("2", 10)))
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItemCount())
}

func TestCheckout_PublishFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	cart, _, _ := newTestCart(t)
	cart.AddItem(ctx, product("1", 100))
	boom := errors.New("broker down")
	svc := newTestCheckout(t, cart, &fakePublisher{err: boom})

	_, err := svc.Place(ctx, CartCheckout(cart.Lines()))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cart.TotalItemCount())
}
