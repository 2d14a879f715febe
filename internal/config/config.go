package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	RedisAddr         string
	KafkaBrokers      []string
	EventTopic        string
	CatalogAddress    string
	DirectoryAddress  string
	PaymentAddress    string
	SchedulingAddress string
	AuthSecret        string
	CartTTL           time.Duration
	ReaperInterval    time.Duration
	ReaperBatch       int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultRedisAddr       = "localhost:6379"
	defaultEventTopic      = "order-events"
	defaultAuthSecret      = "change-me-in-production"
	defaultCartTTL         = 72 * time.Hour
	defaultReaperInterval  = 15 * time.Minute
	defaultReaperBatch     = 100
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables. A .env file
// in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		RedisAddr:         getString(lookup, "REDIS_ADDR", defaultRedisAddr),
		KafkaBrokers:      splitList(getString(lookup, "KAFKA_BROKERS", "")),
		EventTopic:        getString(lookup, "EVENT_TOPIC", defaultEventTopic),
		CatalogAddress:    getString(lookup, "CATALOG_ADDRESS", ""),
		DirectoryAddress:  getString(lookup, "DIRECTORY_ADDRESS", ""),
		PaymentAddress:    getString(lookup, "PAYMENT_ADDRESS", ""),
		SchedulingAddress: getString(lookup, "SCHEDULING_ADDRESS", ""),
		AuthSecret:        getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		CartTTL:           getDuration(lookup, "CART_TTL", defaultCartTTL),
		ReaperInterval:    getDuration(lookup, "CART_REAPER_INTERVAL", defaultReaperInterval),
		ReaperBatch:       getInt(lookup, "CART_REAPER_BATCH", defaultReaperBatch),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
		cartTTLStr         = cfg.CartTTL.String()
		reaperIntervalStr  = cfg.ReaperInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&brokersStr, "brokers", brokersStr, "Comma separated kafka broker list")
	fs.StringVar(&cfg.EventTopic, "event-topic", cfg.EventTopic, "Kafka topic for order events")
	fs.StringVar(&cfg.CatalogAddress, "catalog", cfg.CatalogAddress, "Catalog service base URL")
	fs.StringVar(&cfg.DirectoryAddress, "directory", cfg.DirectoryAddress, "Customer directory base URL")
	fs.StringVar(&cfg.PaymentAddress, "payment", cfg.PaymentAddress, "Payment provider base URL")
	fs.StringVar(&cfg.SchedulingAddress, "scheduling", cfg.SchedulingAddress, "Scheduling service base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&cartTTLStr, "cart-ttl", cartTTLStr, "Cart inactivity lifetime")
	fs.StringVar(&reaperIntervalStr, "reaper-interval", reaperIntervalStr, "Interval between expired cart sweeps")
	fs.IntVar(&cfg.ReaperBatch, "reaper-batch", cfg.ReaperBatch, "Maximum carts removed per sweep")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.KafkaBrokers = splitList(brokersStr)

	var err error

	if cfg.CartTTL, err = time.ParseDuration(cartTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cart ttl: %w", err)
	}

	if cfg.ReaperInterval, err = time.ParseDuration(reaperIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reaper interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.CartTTL <= 0 {
		cfg.CartTTL = defaultCartTTL
	}

	if cfg.ReaperInterval <= 0 {
		cfg.ReaperInterval = defaultReaperInterval
	}

	if cfg.ReaperBatch <= 0 {
		cfg.ReaperBatch = defaultReaperBatch
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CatalogAddress == "" {
		return nil, fmt.Errorf("catalog address must be provided")
	}

	if cfg.DirectoryAddress == "" {
		return nil, fmt.Errorf("directory address must be provided")
	}

	if cfg.PaymentAddress == "" {
		return nil, fmt.Errorf("payment address must be provided")
	}

	if cfg.SchedulingAddress == "" {
		return nil, fmt.Errorf("scheduling address must be provided")
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("kafka brokers must be provided")
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

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
