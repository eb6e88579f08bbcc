package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-storefront/internal/platform/config"
	"github.com/MrKriegler/go-storefront/internal/platform/logging"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, &config.Config{StoreType: "memory"}, logging.Discard())
	require.NoError(t, err)
	defer b.Close(ctx)

	require.NoError(t, b.KV.Set(ctx, "k", "v"))
	v, ok, err := b.KV.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.NoError(t, b.KV.Ping(ctx))
	assert.Nil(t, b.Redis)
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreType: "sqlite"}, logging.Discard())
	assert.Error(t, err)
}
