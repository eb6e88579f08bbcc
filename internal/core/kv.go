package core

import (
	"context"
	"time"
)

// Storage keys. Each key has exactly one writer.
const (
	CartKey      = "cart_items_v1"
	FavoritesKey = "FAVORITES"
)

// KVStore is the device-style string store backing the cart and favorites.
// Set replaces the whole value; the last writer for a key wins.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// PersistResult reports the outcome of a scheduled write. Owners log Err and
// carry on: the in-memory state stays authoritative for the session.
type PersistResult struct {
	Key    string
	Bytes  int
	Queued bool
	Err    error
}

func (r PersistResult) OK() bool { return r.Err == nil }

// Persister schedules a full-document write for key.
type Persister interface {
	Persist(ctx context.Context, key string, doc []byte) PersistResult
}

// DirectPersister writes through to the store before returning.
type DirectPersister struct {
	Store   KVStore
	Timeout time.Duration
}

func NewDirectPersister(store KVStore, timeout time.Duration) *DirectPersister {
	return &DirectPersister{Store: store, Timeout: timeout}
}

func (p *DirectPersister) Persist(ctx context.Context, key string, doc []byte) PersistResult {
	res := PersistResult{Key: key, Bytes: len(doc)}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	res.Err = p.Store.Set(ctx, key, string(doc))
	return res
}
