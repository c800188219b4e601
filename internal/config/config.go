package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL  string        // FLEET_DATABASE_URL (required)
	HTTPAddr     string        // FLEET_HTTP_ADDR (default ":8080")
	NATSURL      string        // FLEET_NATS_URL (optional, empty = no event mirror)
	AuthToken    string        // FLEET_AUTH_TOKEN (optional, empty = auth disabled)
	StoreTimeout time.Duration // FLEET_STORE_TIMEOUT (default 5s)

	// Image archive settings
	S3Bucket   string // FLEET_S3_BUCKET (enables image archive when set)
	S3Endpoint string // FLEET_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string // FLEET_S3_REGION (default "us-east-1")
	S3Prefix   string // FLEET_S3_PREFIX (default "fleet/images")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL: os.Getenv("FLEET_DATABASE_URL"),
		HTTPAddr:    envOrDefault("FLEET_HTTP_ADDR", ":8080"),
		NATSURL:     os.Getenv("FLEET_NATS_URL"),
		AuthToken:   os.Getenv("FLEET_AUTH_TOKEN"),
		S3Bucket:    os.Getenv("FLEET_S3_BUCKET"),
		S3Endpoint:  os.Getenv("FLEET_S3_ENDPOINT"),
		S3Region:    envOrDefault("FLEET_S3_REGION", "us-east-1"),
		S3Prefix:    envOrDefault("FLEET_S3_PREFIX", "fleet/images"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FLEET_DATABASE_URL is required")
	}

	timeoutStr := envOrDefault("FLEET_STORE_TIMEOUT", "5s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("FLEET_STORE_TIMEOUT: %w", err)
	}
	c.StoreTimeout = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
