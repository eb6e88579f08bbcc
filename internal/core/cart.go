package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart. Quantity is always >= 1 while the line
// is in a ledger.
type CartLine struct {
	Product  Product
	Quantity int
}

// cartLineDoc is the stored shape: the product's fields with quantity alongside.
type cartLineDoc struct {
	Product
	Quantity int `json:"quantity"`
}

func (l CartLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartLineDoc{Product: l.Product, Quantity: l.Quantity})
}

func (l *CartLine) UnmarshalJSON(data []byte) error {
	var doc cartLineDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	l.Product = doc.Product
	l.Quantity = doc.Quantity
	return nil
}

func (l CartLine) Clone() CartLine {
	return CartLine{Product: l.Product.Clone(), Quantity: l.Quantity}
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type CartSnapshot struct {
	Version    uint64          `json:"version"`
	Lines      []CartLine      `json:"items"`
	TotalItems int             `json:"count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// CartLedger is the authoritative cart. Every mutation that changes the
// ledger schedules a full write of it under its storage key.
type CartLedger struct {
	mu        sync.Mutex
	lines     []CartLine
	version   uint64
	key       string
	store     KVStore
	persister Persister
	log       *slog.Logger
	changes   Broadcaster[CartSnapshot]
}

func NewCartLedger(store KVStore, persister Persister, key string, log *slog.Logger) *CartLedger {
	if key == "" {
		key = CartKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &CartLedger{
		lines:     []CartLine{},
		key:       key,
		store:     store,
		persister: persister,
		log:       log.With("component", "cart"),
	}
}

// Load seeds the ledger from storage. A missing or unreadable document leaves
// the cart empty; the failure is logged and never returned.
func (c *CartLedger) Load(ctx context.Context) {
	lines := c.readStored(ctx)

	c.mu.Lock()
	c.lines = lines
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Info("cart loaded", "lines", len(lines), "items", snap.TotalItems)
	c.changes.Publish(snap.Version, snap)
}

func (c *CartLedger) readStored(ctx context.Context) []CartLine {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.log.Warn("cart read failed", "key", c.key, "err", err)
		return []CartLine{}
	}
	if !found || raw == "" {
		return []CartLine{}
	}

	var stored []CartLine
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		c.log.Warn("cart document corrupt, starting empty", "key", c.key, "err", err)
		return []CartLine{}
	}

	lines := make([]CartLine, 0, len(stored))
	for _, l := range stored {
		if l.Quantity <= 0 || l.Product.ID == "" {
			continue
		}
		if indexOfLine(lines, l.Product.ID) >= 0 {
			continue
		}
		lines = append(lines, l)
	}
	if dropped := len(stored) - len(lines); dropped > 0 {
		c.log.Warn("dropped invalid cart lines", "count", dropped)
	}
	return lines
}

// AddItem inserts p with quantity 1, or bumps the existing line by one.
func (c *CartLedger) AddItem(ctx context.Context, p Product) CartSnapshot {
	return c.mutate(ctx, "add", func(lines []CartLine) ([]CartLine, bool) {
		if i := indexOfLine(lines, p.ID); i >= 0 {
			lines[i].Quantity++
			return lines, true
		}
		return append(lines, CartLine{Product: p.Clone(), Quantity: 1}), true
	})
}

func (c *CartLedger) RemoveItem(ctx context.Context, id ProductID) CartSnapshot {
	return c.mutate(ctx, "remove", func(lines []CartLine) ([]CartLine, bool) {
		return removeLine(lines, id)
	})
}

// SetQuantity replaces an existing line's quantity. A quantity <= 0 removes the
// line; an absent id is left absent.
func (c *CartLedger) SetQuantity(ctx context.Context, id ProductID, quantity int) CartSnapshot {
	if quantity <= 0 {
		return c.RemoveItem(ctx, id)
	}
	return c.mutate(ctx, "set_quantity", func(lines []CartLine) ([]CartLine, bool) {
		i := indexOfLine(lines, id)
		if i < 0 || lines[i].Quantity == quantity {
			return lines, false
		}
		lines[i].Quantity = quantity
		return lines, true
	})
}

func (c *CartLedger) IncreaseQuantity(ctx context.Context, id ProductID) CartSnapshot {
	return c.mutate(ctx, "increase", func(lines []CartLine) ([]CartLine, bool) {
		i := indexOfLine(lines, id)
		if i < 0 {
			return lines, false
		}
		lines[i].Quantity++
		return lines, true
	})
}

// DecreaseQuantity drops the quantity by one and removes the line instead of
// leaving it at zero.
func (c *CartLedger) DecreaseQuantity(ctx context.Context, id ProductID) CartSnapshot {
	return c.mutate(ctx, "decrease", func(lines []CartLine) ([]CartLine, bool) {
		i := indexOfLine(lines, id)
		if i < 0 {
			return lines, false
		}
		if lines[i].Quantity <= 1 {
			return removeLine(lines, id)
		}
		lines[i].Quantity--
		return lines, true
	})
}

func (c *CartLedger) Clear(ctx context.Context) CartSnapshot {
	return c.mutate(ctx, "clear", func(lines []CartLine) ([]CartLine, bool) {
		return []CartLine{}, true
	})
}

// ItemQuantity returns the line quantity, or 0 when id is not in the cart.
func (c *CartLedger) ItemQuantity(id ProductID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOfLine(c.lines, id); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *CartLedger) IsInCart(id ProductID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOfLine(c.lines, id) >= 0
}

// TotalItemCount sums all line quantities.
func (c *CartLedger) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalQuantity(c.lines)
}

func (c *CartLedger) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *CartLedger) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.lines)
}

func (c *CartLedger) Snapshot() CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *CartLedger) Subscribe(fn func(CartSnapshot)) (cancel func()) {
	return c.changes.Subscribe(fn)
}

func (c *CartLedger) mutate(ctx context.Context, op string, fn func([]CartLine) ([]CartLine, bool)) CartSnapshot {
	c.mu.Lock()
	next, changed := fn(c.lines)
	if !changed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.lines = next
	c.version++
	c.persistLocked(ctx, op)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.changes.Publish(snap.Version, snap)
	return snap
}

// persistLocked runs under c.mu so writes reach the persister in mutation order.
func (c *CartLedger) persistLocked(ctx context.Context, op string) {
	doc, err := json.Marshal(c.lines)
	if err != nil {
		c.log.Error("cart encode failed", "op", op, "err", err)
		return
	}
	res := c.persister.Persist(context.WithoutCancel(ctx), c.key, doc)
	if !res.OK() {
		c.log.Warn("cart persist failed", "op", op, "key", res.Key, "err", res.Err)
	}
}

func (c *CartLedger) snapshotLocked() CartSnapshot {
	return CartSnapshot{
		Version:    c.version,
		Lines:      cloneLines(c.lines),
		TotalItems: totalQuantity(c.lines),
		Subtotal:   subtotal(c.lines),
	}
}

func indexOfLine(lines []CartLine, id ProductID) int {
	for i := range lines {
		if lines[i].Product.ID == id {
			return i
		}
	}
	return -1
}

func removeLine(lines []CartLine, id ProductID) ([]CartLine, bool) {
	i := indexOfLine(lines, id)
	if i < 0 {
		return lines, false
	}
	out := make([]CartLine, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	return append(out, lines[i+1:]...), true
}

func cloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

func totalQuantity(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}
