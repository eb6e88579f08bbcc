package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type FavoritesSnapshot struct {
	Version uint64    `json:"version"`
	Items   []Product `json:"items"`
	Count   int       `json:"count"`
}

// FavoritesSet holds favorited products in insertion order, at most one entry
// per product id.
type FavoritesSet struct {
	mu        sync.Mutex
	items     []Product
	version   uint64
	key       string
	store     KVStore
	persister Persister
	log       *slog.Logger
	changes   Broadcaster[FavoritesSnapshot]
}

func NewFavoritesSet(store KVStore, persister Persister, key string, log *slog.Logger) *FavoritesSet {
	if key == "" {
		key = FavoritesKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &FavoritesSet{
		items:     []Product{},
		key:       key,
		store:     store,
		persister: persister,
		log:       log.With("component", "favorites"),
	}
}

func (f *FavoritesSet) Load(ctx context.Context) {
	items := f.readStored(ctx)

	f.mu.Lock()
	f.items = items
	f.version++
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.log.Info("favorites loaded", "count", len(items))
	f.changes.Publish(snap.Version, snap)
}

func (f *FavoritesSet) readStored(ctx context.Context) []Product {
	raw, found, err := f.store.Get(ctx, f.key)
	if err != nil {
		f.log.Warn("favorites read failed", "key", f.key, "err", err)
		return []Product{}
	}
	if !found || raw == "" {
		return []Product{}
	}
	var stored []Product
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		f.log.Warn("favorites document corrupt, starting empty", "key", f.key, "err", err)
		return []Product{}
	}
	items := make([]Product, 0, len(stored))
	for _, p := range stored {
		if p.ID == "" || indexOfProduct(items, p.ID) >= 0 {
			continue
		}
		items = append(items, p)
	}
	return items
}

// Toggle removes p when it is a favorite and appends it otherwise. It reports
// whether p is a favorite afterwards.
func (f *FavoritesSet) Toggle(ctx context.Context, p Product) (bool, FavoritesSnapshot) {
	f.mu.Lock()
	var now bool
	if i := indexOfProduct(f.items, p.ID); i >= 0 {
		next := make([]Product, 0, len(f.items)-1)
		next = append(next, f.items[:i]...)
		f.items = append(next, f.items[i+1:]...)
	} else {
		f.items = append(f.items, p.Clone())
		now = true
	}
	f.version++
	f.persistLocked(ctx)
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.changes.Publish(snap.Version, snap)
	return now, snap
}

func (f *FavoritesSet) IsFavorite(id ProductID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return indexOfProduct(f.items, id) >= 0
}

func (f *FavoritesSet) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *FavoritesSet) List() []Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneProducts(f.items)
}

func (f *FavoritesSet) Snapshot() FavoritesSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *FavoritesSet) Subscribe(fn func(FavoritesSnapshot)) (cancel func()) {
	return f.changes.Subscribe(fn)
}

func (f *FavoritesSet) persistLocked(ctx context.Context) {
	doc, err := json.Marshal(f.items)
	if err != nil {
		f.log.Error("favorites encode failed", "err", err)
		return
	}
	if res := f.persister.Persist(context.WithoutCancel(ctx), f.key, doc); !res.OK() {
		f.log.Warn("favorites persist failed", "key", res.Key, "err", res.Err)
	}
}

func (f *FavoritesSet) snapshotLocked() FavoritesSnapshot {
	return FavoritesSnapshot{
		Version: f.version,
		Items:   cloneProducts(f.items),
		Count:   len(f.items),
	}
}
