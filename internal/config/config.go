package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" env-default:":8080"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" env-default:"15s"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	LogLevel     string        `env:"LOG_LEVEL" env-default:"info"`
	ServiceName  string        `env:"SERVICE_NAME" env-default:"eurekastreams-notifier"`
	OTLPEndpoint string        `env:"OTLP_ENDPOINT"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"memory"`
	// SeedFile is a JSON dataset loaded into the memory or sqlite store at startup.
	SeedFile    string `env:"SEED_FILE"`
	SQLitePath  string `env:"SQLITE_PATH" env-default:"notifier.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	LookupCacheTTL time.Duration `env:"LOOKUP_CACHE_TTL" env-default:"1m"`

	NATSURL       string `env:"NATS_URL"`
	EventsSubject string `env:"EVENTS_SUBJECT" env-default:"eurekastreams.events"`
	EventsQueue   string `env:"EVENTS_QUEUE" env-default:"notifier"`
	BatchSubject  string `env:"BATCH_SUBJECT" env-default:"eurekastreams.notifications"`
	AMQPURL       string `env:"AMQP_URL"`
	AMQPQueue     string `env:"AMQP_QUEUE" env-default:"notification_batches"`
	// BatchSinks restricts which sinks (nats, amqp, log) receive batches. Empty means
	// every configured broker.
	BatchSinks []string `env:"BATCH_SINKS" env-separator:","`

	OutboxInterval  time.Duration `env:"OUTBOX_INTERVAL" env-default:"1s"`
	OutboxBatchSize int           `env:"OUTBOX_BATCH_SIZE" env-default:"100"`

	NotifyGroupCoordinators bool `env:"NOTIFY_GROUP_COORDINATORS" env-default:"true"`

	BreakerThreshold int           `env:"BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `env:"BREAKER_TIMEOUT" env-default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config

	// ReadEnv only: the service is configured through the environment.
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}
