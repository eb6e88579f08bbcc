package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// Store selection: "memory", "mongo", "dynamodb" or "redis"
	StoreType string

	// Storage keys for the two persisted documents
	CartKey      string
	FavoritesKey string

	// Persistence: "direct" writes through, "writebehind" coalesces and flushes
	PersistMode      string
	PersistTimeoutMs int
	FlushIntervalMs  int

	// MongoDB settings (when StoreType = "mongo")
	MongoURI        string
	MongoDB         string
	MongoCollection string

	// DynamoDB settings (when StoreType = "dynamodb")
	AWSRegion          string
	DynamoDBEndpoint   string // Optional: for local development
	DynamoDBTable      string
	AWSAccessKeyID     string // Optional: for local development
	AWSSecretAccessKey string // Optional: for local development

	// Redis settings (when StoreType = "redis")
	RedisURL       string
	RedisKeyPrefix string

	// Catalog source
	CatalogBaseURL    string
	CatalogTimeoutSec int
	CatalogPageSize   int

	// Order events; empty RabbitURL logs orders instead of publishing
	RabbitURL      string
	RabbitExchange string

	// Timeouts
	HTTPReadTimeoutSec     int
	HTTPWriteTimeoutSec    int
	HTTPIdleTimeoutSec     int
	HTTPRequestTimeoutSec  int
	MongoConnectTimeoutSec int
	MongoOpTimeoutMs       int

	// Security settings
	APIKey         string   // Simple API key auth
	AllowedOrigins []string // CORS allowed origins
	RateLimitRPM   int      // Rate limit requests per minute
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")
	cfg.StoreType = strings.ToLower(getEnv("STORE_TYPE", "memory"))

	cfg.CartKey = getEnv("CART_KEY", "cart_items_v1")
	cfg.FavoritesKey = getEnv("FAVORITES_KEY", "FAVORITES")

	cfg.PersistMode = strings.ToLower(getEnv("PERSIST_MODE", "writebehind"))
	cfg.PersistTimeoutMs = getEnvAsInt("PERSIST_TIMEOUT_MS", 2000)
	cfg.FlushIntervalMs = getEnvAsInt("FLUSH_INTERVAL_MS", 250)

	// MongoDB settings (check both MONGODB_URI and MONGO_URI for compatibility)
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "go_storefront")
	cfg.MongoCollection = getEnv("MONGO_COLLECTION", "kv")

	// DynamoDB settings
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "") // Empty means use AWS
	cfg.DynamoDBTable = getEnv("DYNAMODB_TABLE", "storefront_kv")
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", "storefront:")

	cfg.CatalogBaseURL = strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://dummyjson.com"), "/")
	cfg.CatalogTimeoutSec = getEnvAsInt("CATALOG_TIMEOUT_SEC", 10)
	cfg.CatalogPageSize = getEnvAsInt("CATALOG_PAGE_SIZE", 12)

	cfg.RabbitURL = getEnv("RABBITMQ_URL", "")
	cfg.RabbitExchange = getEnv("RABBITMQ_EXCHANGE", "storefront.events")

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 30)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 30)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.MongoOpTimeoutMs = getEnvAsInt("MONGO_OP_TIMEOUT_MS", 500)

	// Security settings
	cfg.APIKey = getEnv("API_KEY", "")
	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.RateLimitRPM = getEnvAsInt("RATE_LIMIT_RPM", 120)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Default API key for development only
	if cfg.APIKey == "" {
		cfg.APIKey = "demo-api-key-12345"
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreType {
	case "memory", "dynamodb":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_TYPE=mongo")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_TYPE=redis")
		}
	default:
		return fmt.Errorf("unknown STORE_TYPE %q", c.StoreType)
	}

	switch c.PersistMode {
	case "direct", "writebehind":
	default:
		return fmt.Errorf("unknown PERSIST_MODE %q", c.PersistMode)
	}

	if c.CartKey == c.FavoritesKey {
		return fmt.Errorf("CART_KEY and FAVORITES_KEY must differ")
	}
	if c.CatalogPageSize <= 0 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be > 0")
	}

	// In production, API_KEY must be explicitly set
	if c.Env == "prod" && c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production environment")
	}
	return nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	// Split by comma and trim whitespace
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
