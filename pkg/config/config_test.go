package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("EXCHANGE_FEE_ACCOUNT", "0xFEE")
	t.Setenv("ENGINE_STORE_DRIVER", "pebble")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("POSTGRES_DATABASE", "exchange_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-exchange", cfg.App.Name)
	assert.Equal(t, "0xFEE", cfg.Exchange.FeeAccount)
	assert.Equal(t, uint32(10), cfg.Exchange.FeePercent)
	assert.Equal(t, DriverPebble, cfg.Engine.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.Engine.CheckpointInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "exchange_test", cfg.Postgres.Database)
	assert.Equal(t, "token-exchange:", cfg.Redis.PrefixKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RequiresFeeAccount(t *testing.T) {
	t.Setenv("EXCHANGE_FEE_ACCOUNT", "")

	_, err := Load()
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Exchange: ExchangeConfig{Address: "0xEX", FeeAccount: "0xFEE", FeePercent: 10},
		Engine: EngineConfig{
			StoreDriver:        DriverPostgres,
			CheckpointEnabled:  true,
			CheckpointInterval: time.Second,
			RelayEnabled:       true,
			RelayInterval:      time.Second,
			RelayBatchSize:     10,
		},
		Kafka: KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "events"},
		Redis: *redis.DefaultConfig(),
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		fields []string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name: "fee percent above 100",
			mutate: func(c *Config) {
				c.Exchange.FeePercent = 101
			},
			fields: []string{"exchange.fee_percent"},
		},
		{
			name: "unknown driver",
			mutate: func(c *Config) {
				c.Engine.StoreDriver = "sqlite"
			},
			fields: []string{"engine.store_driver"},
		},
		{
			name: "relay without kafka",
			mutate: func(c *Config) {
				c.Kafka.Brokers = nil
				c.Engine.RelayBatchSize = 0
			},
			fields: []string{"engine.relay_batch_size", "kafka"},
		},
		{
			name: "relay disabled ignores kafka",
			mutate: func(c *Config) {
				c.Engine.RelayEnabled = false
				c.Kafka = KafkaConfig{}
			},
		},
		{
			name: "memory driver needs redis",
			mutate: func(c *Config) {
				c.Engine.StoreDriver = DriverMemory
				c.Engine.CheckpointEnabled = false
				c.Redis.Addrs = nil
			},
			fields: []string{"redis"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			be, ok := err.(*errors.BaseError)
			require.True(t, ok)
			var fields []string
			for _, d := range be.GetDetails() {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tc.fields, fields)
		})
	}
}
