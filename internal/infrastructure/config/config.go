package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo          MongoConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Alerts         AlertsConfig
	AccountService AccountServiceConfig
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=payment_user"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=0"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,           default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,             default=0"`
	UserCacheTTL time.Duration `env:"REDIS_USER_CACHE_TTL, default=5m"`
	AlertStream  string        `env:"REDIS_ALERT_STREAM,   default=payment-alert"`
}

type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS,     default=localhost:9092"`
	AlertTopic string   `env:"KAFKA_ALERT_TOPIC, default=payment-alert"`
}

// AlertsConfig selects the alert transport and sizes the dispatcher.
type AlertsConfig struct {
	Transport      string        `env:"ALERT_TRANSPORT,       default=kafka"`
	Workers        int           `env:"ALERT_WORKERS,         default=4"`
	Buffer         int           `env:"ALERT_BUFFER,          default=256"`
	PublishTimeout time.Duration `env:"ALERT_PUBLISH_TIMEOUT, default=5s"`
}

type AccountServiceConfig struct {
	BaseURL string        `env:"ACCOUNT_SERVICE_URL,     default=http://localhost:8081"`
	Timeout time.Duration `env:"ACCOUNT_SERVICE_TIMEOUT, default=10s"`
}

const (
	TransportKafka = "kafka"
	TransportRedis = "redis"
)

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return Process(ctx, envconfig.OsLookuper())
}

// Process fills a Config from lookuper and validates it.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Alerts.Transport {
	case TransportKafka, TransportRedis:
	default:
		return fmt.Errorf("ALERT_TRANSPORT must be %q or %q, got %q", TransportKafka, TransportRedis, c.Alerts.Transport)
	}
	if c.Alerts.Transport == TransportKafka && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required for the kafka alert transport")
	}
	if c.Alerts.Workers <= 0 || c.Alerts.Buffer <= 0 {
		return errors.New("ALERT_WORKERS and ALERT_BUFFER must be positive")
	}
	if c.AccountService.BaseURL == "" {
		return errors.New("ACCOUNT_SERVICE_URL is required")
	}
	return nil
}
