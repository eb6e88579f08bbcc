// Package store opens the key-value backend selected by configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/platform/config"
	"github.com/MrKriegler/go-storefront/internal/store/dynamo"
	"github.com/MrKriegler/go-storefront/internal/store/memory"
	"github.com/MrKriegler/go-storefront/internal/store/mongo"
	"github.com/MrKriegler/go-storefront/internal/store/redis"
)

// KV is a core.KVStore that can report its health.
type KV interface {
	core.KVStore
	Ping(ctx context.Context) error
}

// Backend is an open store plus whatever must be released at shutdown.
type Backend struct {
	Type string
	KV   KV
	// Redis is set when Type is "redis" so other components can share it.
	Redis *goredis.Client

	closers []func(context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open connects to cfg.StoreType and prepares its schema (index, table).
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	b := &Backend{Type: cfg.StoreType}

	switch cfg.StoreType {
	case "memory":
		b.KV = memory.NewKVStore()

	case "mongo":
		log.Info("connecting to MongoDB", "db", cfg.MongoDB, "collection", cfg.MongoCollection)
		client, err := mongo.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		if err := mongo.EnsureIndexes(ctx, client.DB, cfg.MongoCollection); err != nil {
			_ = b.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		b.KV = mongoKV{
			KVRepoMongo: mongo.NewKVRepo(client.DB, cfg.MongoCollection, time.Duration(cfg.MongoOpTimeoutMs)*time.Millisecond),
			client:      client,
		}

	case "dynamodb":
		log.Info("connecting to DynamoDB", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint, "table", cfg.DynamoDBTable)
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		if err := dynamo.EnsureTable(ctx, client.DB, cfg.DynamoDBTable, log); err != nil {
			return nil, fmt.Errorf("ensure dynamodb table: %w", err)
		}
		b.KV = dynamoKV{KVRepo: dynamo.NewKVRepo(client.DB, cfg.DynamoDBTable), client: client}

	case "redis":
		log.Info("connecting to Redis")
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return rdb.Close() })
		b.Redis = rdb
		b.KV = redis.NewKVStore(rdb, cfg.RedisKeyPrefix)

	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}

	return b, nil
}

type mongoKV struct {
	*mongo.KVRepoMongo
	client *mongo.MongoClient
}

func (m mongoKV) Ping(ctx context.Context) error { return m.client.Ping(ctx) }

type dynamoKV struct {
	*dynamo.KVRepo
	client *dynamo.Client
}

func (d dynamoKV) Ping(ctx context.Context) error { return d.client.Ping(ctx) }
