package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrKriegler/go-storefront/internal/platform/config"
)

const (
	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewClient connects and pings, retrying with exponential backoff so the API
// can start before the database is reachable.
func NewClient(cfg *config.Config) (*MongoClient, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("go-storefront")
	connectTimeout := time.Duration(cfg.MongoConnectTimeoutSec) * time.Second

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		client, err := connectOnce(clientOpts, connectTimeout)
		if err == nil {
			return &MongoClient{Client: client, DB: client.Database(cfg.MongoDB)}, nil
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("mongo unavailable after %d attempts: %w", maxRetries, err)
		}
		slog.Warn("mongo not ready, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}
}

func connectOnce(opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// Ping verifies connectivity (used by /readyz).
func (c *MongoClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, nil)
}

// Close gracefully disconnects from MongoDB.
func (c *MongoClient) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
