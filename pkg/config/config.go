package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/postgresql"
	"github.com/muhammadchandra19/token-exchange/pkg/redis"
)

// Store drivers accepted by ENGINE_STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverPebble   = "pebble"
	DriverMemory   = "memory"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig         `envPrefix:"APP_"`
	Exchange ExchangeConfig    `envPrefix:"EXCHANGE_"`
	Engine   EngineConfig      `envPrefix:"ENGINE_"`
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
	Pebble   PebbleConfig      `envPrefix:"PEBBLE_"`
	Redis    redis.Config      `envPrefix:"REDIS_"`
	Kafka    KafkaConfig       `envPrefix:"KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"token-exchange"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`
}

// ExchangeConfig is fixed for the lifetime of an engine.
type ExchangeConfig struct {
	Address    string `env:"ADDRESS" envDefault:"0x00000000000000000000000000000000000000e1"`
	FeeAccount string `env:"FEE_ACCOUNT,required,notEmpty"`
	FeePercent uint32 `env:"FEE_PERCENT" envDefault:"10"`
}

// EngineConfig selects the durable store and tunes the background loops.
type EngineConfig struct {
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	CheckpointEnabled  bool          `env:"CHECKPOINT_ENABLED" envDefault:"true"`
	CheckpointInterval time.Duration `env:"CHECKPOINT_INTERVAL" envDefault:"30s"`
	CheckpointKey      string        `env:"CHECKPOINT_KEY" envDefault:"checkpoint"`

	RelayEnabled   bool          `env:"RELAY_ENABLED" envDefault:"true"`
	RelayInterval  time.Duration `env:"RELAY_INTERVAL" envDefault:"500ms"`
	RelayBatchSize int           `env:"RELAY_BATCH_SIZE" envDefault:"256"`
}

// PebbleConfig represents the embedded store configuration.
type PebbleConfig struct {
	Dir string `env:"DIR" envDefault:"./data/pebble"`
}

// KafkaConfig represents the event stream configuration.
type KafkaConfig struct {
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"token-exchange.events"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	be := errors.NewBaseError()
	invalid := func(field, message string) {
		be.AddErrorDetails(errors.NewErrorDetails(message, errors.ConfigValidationError.String(), field))
	}

	if c.Exchange.Address == "" {
		invalid("exchange.address", "exchange address is required")
	}
	if c.Exchange.FeeAccount == "" {
		invalid("exchange.fee_account", "fee account is required")
	}
	if c.Exchange.FeePercent > 100 {
		invalid("exchange.fee_percent", "fee percent must be at most 100")
	}

	switch c.Engine.StoreDriver {
	case DriverPostgres, DriverPebble, DriverMemory:
	default:
		invalid("engine.store_driver", fmt.Sprintf("unknown store driver %q", c.Engine.StoreDriver))
	}
	if c.Engine.StoreDriver == DriverPebble && c.Pebble.Dir == "" {
		invalid("pebble.dir", "pebble directory is required")
	}
	if c.Engine.CheckpointEnabled && c.Engine.CheckpointInterval <= 0 {
		invalid("engine.checkpoint_interval", "checkpoint interval must be positive")
	}
	if c.Engine.RelayEnabled {
		if c.Engine.RelayInterval <= 0 {
			invalid("engine.relay_interval", "relay interval must be positive")
		}
		if c.Engine.RelayBatchSize <= 0 {
			invalid("engine.relay_batch_size", "relay batch size must be positive")
		}
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			invalid("kafka", "kafka brokers and topic are required when the relay is enabled")
		}
	}
	if c.Engine.CheckpointEnabled || c.Engine.StoreDriver == DriverMemory {
		if err := c.Redis.Validate(); err != nil {
			invalid("redis", err.Error())
		}
	}

	if be.HasDetails() {
		return be
	}
	return nil
}
