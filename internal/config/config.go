package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider kinds accepted in PROVIDER
const (
	ProviderKeyed = "keyed" // local private key, signs in-process
	ProviderNode  = "node"  // accounts unlocked on the RPC node
)

type Config struct {
	// JSON-RPC endpoint of the ledger node
	RPCURL string

	// Which wallet backs the session ( keyed or node )
	Provider string

	// Keyed wallet material. PrivateKey wins over the keystore when both are set
	PrivateKey         string
	KeystorePath       string
	KeystorePassphrase string

	// Contract descriptor: file path or http(s) URL of the build artifact
	Descriptor string

	// HTTP port for the form front-end
	HTTPPort int

	LogLevel string

	// Receipt polling after a transaction is submitted
	ReceiptPollEnabled  bool
	ReceiptMaxRetries   int
	ReceiptInitialDelay time.Duration
	ReceiptMaxDelay     time.Duration
}

// Load returns the configuration read from the environment.
// Call godotenv.Load() first if a .env file should be honoured.
func Load() *Config {
	return &Config{
		RPCURL:             os.Getenv("RPC_URL"),
		Provider:           strings.ToLower(getEnv("PROVIDER", ProviderKeyed)),
		PrivateKey:         strings.TrimPrefix(os.Getenv("PRIVATE_KEY"), "0x"),
		KeystorePath:       os.Getenv("KEYSTORE_PATH"),
		KeystorePassphrase: os.Getenv("KEYSTORE_PASSPHRASE"),

		// Truffle writes artifacts here by default
		Descriptor: getEnv("DESCRIPTOR", "build/contracts/SupplyChain.json"),

		HTTPPort: getEnvAsInt("HTTP_PORT", 8080),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		ReceiptPollEnabled:  getEnvAsBool("RECEIPT_POLL_ENABLED", true),
		ReceiptMaxRetries:   getEnvAsInt("RECEIPT_MAX_RETRIES", 30),
		ReceiptInitialDelay: time.Duration(getEnvAsInt("RECEIPT_INITIAL_DELAY_MS", 250)) * time.Millisecond,
		ReceiptMaxDelay:     time.Duration(getEnvAsInt("RECEIPT_MAX_DELAY_MS", 4000)) * time.Millisecond,
	}
}

// Validate checks if the configuration is valid.
// A missing RPC_URL is not an error here: the bridge starts inert and
// reports the missing provider to the user instead.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderKeyed, ProviderNode:
	default:
		return fmt.Errorf("unknown PROVIDER %q (want %q or %q)", c.Provider, ProviderKeyed, ProviderNode)
	}
	if c.Descriptor == "" {
		return fmt.Errorf("DESCRIPTOR is required")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.ReceiptMaxRetries < 0 {
		return fmt.Errorf("RECEIPT_MAX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Helper: get bool from env
func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper: get int from env
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
