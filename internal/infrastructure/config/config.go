package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	UPS      UPSConfig
	PeriShip PeriShipConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Feed     FeedConfig
}

// UPSConfig holds the UPS access-request credentials. TestMode routes calls
// to the customer integration environment.
type UPSConfig struct {
	AccessKey     string `env:"UPS_ACCESS_KEY"`
	UserID        string `env:"UPS_USER_ID"`
	Password      string `env:"UPS_PASSWORD"`
	ShipperNumber string `env:"UPS_SHIPPER_NUMBER"`
	TestMode      bool   `env:"UPS_TEST_MODE, default=true"`
}

type PeriShipConfig struct {
	ShipperID string `env:"PERISHIP_SHIPPER_ID"`
	Password  string `env:"PERISHIP_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=carrier_gateway"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// FeedConfig controls the shipment-event feed poller. A zero interval
// disables polling.
type FeedConfig struct {
	PollInterval time.Duration `env:"FEED_POLL_INTERVAL, default=15m"`
	Workers      int           `env:"FEED_WORKERS,       default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
