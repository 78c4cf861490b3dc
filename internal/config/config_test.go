package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"RPC_URL", "PROVIDER", "PRIVATE_KEY", "DESCRIPTOR", "HTTP_PORT", "LOG_LEVEL",
		"RECEIPT_POLL_ENABLED", "RECEIPT_MAX_RETRIES", "RECEIPT_INITIAL_DELAY_MS", "RECEIPT_MAX_DELAY_MS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ProviderKeyed, cfg.Provider)
	assert.Equal(t, "build/contracts/SupplyChain.json", cfg.Descriptor)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ReceiptPollEnabled)
	assert.Equal(t, 30, cfg.ReceiptMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.ReceiptInitialDelay)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RPC_URL", "http://127.0.0.1:7545")
	t.Setenv("PROVIDER", "NODE")
	t.Setenv("PRIVATE_KEY", "0xabc")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("RECEIPT_POLL_ENABLED", "false")
	t.Setenv("RECEIPT_MAX_DELAY_MS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "http://127.0.0.1:7545", cfg.RPCURL)
	assert.Equal(t, ProviderNode, cfg.Provider)
	assert.Equal(t, "abc", cfg.PrivateKey)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.False(t, cfg.ReceiptPollEnabled)
	assert.Equal(t, 4*time.Second, cfg.ReceiptMaxDelay, "invalid values fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "metamask" }, "unknown PROVIDER"},
		{"empty descriptor", func(c *Config) { c.Descriptor = "" }, "DESCRIPTOR"},
		{"bad port", func(c *Config) { c.HTTPPort = 70000 }, "HTTP_PORT"},
		{"negative retries", func(c *Config) { c.ReceiptMaxRetries = -1 }, "RECEIPT_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderKeyed, Descriptor: "x.json", HTTPPort: 8080}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
