package redis

import (
	"context"
	"testing"

	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(c *Config) {}},
		{name: "no addresses", mutate: func(c *Config) { c.Addrs = nil }, wantErr: true},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "sentinel" }, wantErr: true},
		{name: "zero pool", mutate: func(c *Config) { c.PoolSize = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConfigError.String()))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClientKey(t *testing.T) {
	c := NewClient(logger.NewNop(), DefaultConfig())
	assert.Equal(t, "token-exchange:checkpoint:0xEX", c.Key("checkpoint", "0xEX"))
}

func TestConnectRejectsNilConfig(t *testing.T) {
	c := NewClient(logger.NewNop(), nil)
	err := c.Connect(context.Background())
	assert.True(t, errors.ErrorCodeEquals(err, errors.RedisConfigError.String()))
}
