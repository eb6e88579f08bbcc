package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

type write struct {
	key string
	doc string
}

type recordingPersister struct {
	mu     sync.Mutex
	writes []write
	err    error
}

func (r *recordingPersister) Persist(ctx context.Context, key string, doc []byte) PersistResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, write{key: key, doc: string(doc)})
	return PersistResult{Key: key, Bytes: len(doc), Err: r.err}
}

func (r *recordingPersister) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *recordingPersister) last() write {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return write{}
	}
	return r.writes[len(r.writes)-1]
}

func product(id string, price float64) Product {
	return Product{ID: ProductID(id), Title: "Product " + id, Price: price}
}

func ptr[T any](v T) *T { return &v }
