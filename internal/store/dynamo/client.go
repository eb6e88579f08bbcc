package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// Client wraps the DynamoDB client.
type Client struct {
	DB *dynamodb.Client
}

// Config holds DynamoDB configuration.
type Config struct {
	Region   string
	Endpoint string // Optional: DynamoDB Local, e.g. "http://localhost:8000"
	// Static keys for local development; production uses the default chain
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient loads AWS config and waits until DynamoDB answers.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}

	if cfg.Endpoint != "" {
		// Static credentials keep the SDK away from instance metadata when local
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				orDefault(cfg.AccessKeyID, "local"),
				orDefault(cfg.SecretAccessKey, "local"),
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	if err := pingWithRetry(ctx, client); err != nil {
		return nil, err
	}
	return &Client{DB: client}, nil
}

func pingWithRetry(ctx context.Context, client *dynamodb.Client) error {
	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := ping(pingCtx, client)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			return fmt.Errorf("dynamodb ping failed after %d attempts: %w", maxRetries, err)
		}

		slog.Warn("dynamodb ping failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func ping(ctx context.Context, client *dynamodb.Client) error {
	_, err := client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

// Ping checks DynamoDB connectivity (used by /readyz).
func (c *Client) Ping(ctx context.Context) error {
	return ping(ctx, c.DB)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
