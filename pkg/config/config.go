package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         bool
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network
	RPCURL     string
	Commitment string
	Timeout    time.Duration
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger
}

// MarketplaceConfig identifies one storefront instance and its read API.
type MarketplaceConfig struct {
	// Subdomain of the storefront, used as the marketplace key in the read API.
	Subdomain string
	// AuctionHouse is the base58 address of the house all operations are scoped to.
	AuctionHouse string
	// GraphEndpoint is the GraphQL read API URL.
	GraphEndpoint string
	// Commitment awaited before an operation is declared successful.
	// Value-bearing operations always use at least "confirmed".
	Commitment string
}

// Config bundles everything the transaction pipeline needs.
type Config struct {
	RPC         RPCConfig
	Marketplace MarketplaceConfig
}

// DefaultRPCConfig yields production-safe defaults (mainnet, confirmed commitment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: "confirmed",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.New(io.Discard),
	}
}

// Default returns a full config with RPC defaults and an empty marketplace.
func Default() Config {
	return Config{
		RPC: DefaultRPCConfig(),
		Marketplace: MarketplaceConfig{
			GraphEndpoint: "https://graph.holaplex.com/v1",
			Commitment:    "confirmed",
		},
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// LoadFile reads a YAML config file on top of defaults.
// Keys: network, rpc_url, commitment, timeout, retry.*, rate_limit.*,
// marketplace.subdomain, marketplace.auction_house, marketplace.graph_endpoint.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("network", string(cfg.RPC.Network))
	v.SetDefault("commitment", cfg.RPC.Commitment)
	v.SetDefault("timeout", cfg.RPC.Timeout)
	v.SetDefault("retry.enabled", cfg.RPC.Retry.Enabled)
	v.SetDefault("retry.max_attempts", cfg.RPC.Retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff", cfg.RPC.Retry.InitialBackoff)
	v.SetDefault("retry.max_backoff", cfg.RPC.Retry.MaxBackoff)
	v.SetDefault("retry.jitter", cfg.RPC.Retry.Jitter)
	v.SetDefault("rate_limit.rps", cfg.RPC.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", cfg.RPC.RateLimit.Burst)
	v.SetDefault("marketplace.graph_endpoint", cfg.Marketplace.GraphEndpoint)
	v.SetDefault("marketplace.commitment", cfg.Marketplace.Commitment)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.RPC.Network = Network(v.GetString("network"))
	cfg.RPC.RPCURL = v.GetString("rpc_url")
	cfg.RPC.Commitment = v.GetString("commitment")
	cfg.RPC.Timeout = v.GetDuration("timeout")
	cfg.RPC.Retry.Enabled = v.GetBool("retry.enabled")
	cfg.RPC.Retry.MaxAttempts = v.GetInt("retry.max_attempts")
	cfg.RPC.Retry.InitialBackoff = v.GetDuration("retry.initial_backoff")
	cfg.RPC.Retry.MaxBackoff = v.GetDuration("retry.max_backoff")
	cfg.RPC.Retry.Jitter = v.GetBool("retry.jitter")
	cfg.RPC.RateLimit.RPS = v.GetFloat64("rate_limit.rps")
	cfg.RPC.RateLimit.Burst = v.GetInt("rate_limit.burst")
	cfg.Marketplace.Subdomain = v.GetString("marketplace.subdomain")
	cfg.Marketplace.AuctionHouse = v.GetString("marketplace.auction_house")
	cfg.Marketplace.GraphEndpoint = v.GetString("marketplace.graph_endpoint")
	cfg.Marketplace.Commitment = v.GetString("marketplace.commitment")

	return cfg, nil
}

// LoadEnv layers environment variables (optionally from a .env file) onto cfg.
// Recognized: MARKETPLACE_RPC_URL, MARKETPLACE_COMMITMENT,
// MARKETPLACE_AUCTION_HOUSE, MARKETPLACE_GRAPH_ENDPOINT, MARKETPLACE_SUBDOMAIN.
func LoadEnv(cfg Config) Config {
	_ = godotenv.Load()

	if v := os.Getenv("MARKETPLACE_RPC_URL"); v != "" {
		cfg.RPC.RPCURL = v
	}
	if v := os.Getenv("MARKETPLACE_COMMITMENT"); v != "" {
		cfg.RPC.Commitment = v
		cfg.Marketplace.Commitment = v
	}
	if v := os.Getenv("MARKETPLACE_AUCTION_HOUSE"); v != "" {
		cfg.Marketplace.AuctionHouse = v
	}
	if v := os.Getenv("MARKETPLACE_GRAPH_ENDPOINT"); v != "" {
		cfg.Marketplace.GraphEndpoint = v
	}
	if v := os.Getenv("MARKETPLACE_SUBDOMAIN"); v != "" {
		cfg.Marketplace.Subdomain = v
	}
	return cfg
}
