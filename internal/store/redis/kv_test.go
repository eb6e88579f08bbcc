package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data    map[string]string
	setErr  error
	pingErr error
	ttls    []time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *goredis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.(string)
	f.ttls = append(f.ttls, expiration)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.pingErr)
}

func TestKVStore_PrefixedRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	s := NewKVStore(fake, "storefront:")

	require.NoError(t, s.Set(ctx, "FAVORITES", `[]`))
	assert.Equal(t, `[]`, fake.data["storefront:FAVORITES"])
	assert.Equal(t, []time.Duration{0}, fake.ttls)

	v, found, err := s.Get(ctx, "FAVORITES")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)
}

func TestKVStore_NilIsNotFound(t *testing.T) {
	s := NewKVStore(&fakeRedis{data: map[string]string{}}, "")
	_, found, err := s.Get(context.Background(), "cart_items_v1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVStore_Errors(t *testing.T) {
	boom := errors.New("READONLY")
	s := NewKVStore(&fakeRedis{data: map[string]string{}, setErr: boom, pingErr: boom}, "")
	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), boom)
	assert.ErrorIs(t, s.Ping(context.Background()), boom)
}
