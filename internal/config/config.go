package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	JWTSecret            string
	WebhookSecret        string
	BaseCurrency         string
	CardGatewayAddress   string
	CardGatewaySecret    string
	CryptoGatewayAddress string
	FulfillmentAddress   string
	OrderExpiration      time.Duration
	SweepInterval        time.Duration
	WorkerPoolSize       int
	SweepBatchSize       int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultWebhookSecret   = "change-me-in-production"
	defaultBaseCurrency    = "eur"
	defaultOrderExpiration = 30 * time.Minute
	defaultSweepInterval   = time.Minute
	defaultWorkerPoolSize  = 4
	defaultSweepBatchSize  = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		JWTSecret:            getString(lookup, "JWT_SECRET", defaultJWTSecret),
		WebhookSecret:        getString(lookup, "WEBHOOK_SECRET", defaultWebhookSecret),
		BaseCurrency:         getString(lookup, "BASE_CURRENCY", defaultBaseCurrency),
		CardGatewayAddress:   getString(lookup, "CARD_GATEWAY_ADDRESS", ""),
		CardGatewaySecret:    getString(lookup, "CARD_GATEWAY_SECRET", ""),
		CryptoGatewayAddress: getString(lookup, "CRYPTO_GATEWAY_ADDRESS", ""),
		FulfillmentAddress:   getString(lookup, "FULFILLMENT_ADDRESS", ""),
		OrderExpiration:      getDuration(lookup, "ORDER_EXPIRATION", defaultOrderExpiration),
		SweepInterval:        getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SweepBatchSize:       getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		orderExpirationStr = cfg.OrderExpiration.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Secret for verifying webhook signatures")
	fs.StringVar(&cfg.BaseCurrency, "base-currency", cfg.BaseCurrency, "Catalog base currency")
	fs.StringVar(&cfg.CardGatewayAddress, "card-gateway", cfg.CardGatewayAddress, "Card payment gateway base URL")
	fs.StringVar(&cfg.CardGatewaySecret, "card-secret", cfg.CardGatewaySecret, "Card payment gateway API secret")
	fs.StringVar(&cfg.CryptoGatewayAddress, "crypto-gateway", cfg.CryptoGatewayAddress, "Crypto payment gateway base URL")
	fs.StringVar(&cfg.FulfillmentAddress, "fulfillment", cfg.FulfillmentAddress, "Fulfillment service base URL")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum payments per sweep batch")
	fs.StringVar(&orderExpirationStr, "order-expiration", orderExpirationStr, "Window before a pending payment times out")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry/poll sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OrderExpiration, err = time.ParseDuration(orderExpirationStr); err != nil {
		return nil, fmt.Errorf("invalid order expiration: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.OrderExpiration <= 0 {
		cfg.OrderExpiration = defaultOrderExpiration
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.FulfillmentAddress == "" {
		return nil, fmt.Errorf("fulfillment address must be provided")
	}

	if cfg.CardGatewayAddress != "" && cfg.CardGatewaySecret == "" {
		return nil, fmt.Errorf("card gateway secret must be provided with its address")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
