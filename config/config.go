package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP action surface
	ListenAddr string

	// External ledger transfer service (the token mover)
	TransferServiceURL string

	// ProtocolAccount is this contract's own account name on the external
	// ledger; inbound transfers from it are outbound payout echoes.
	ProtocolAccount string

	// Protocol parameters, all amounts in shells (smallest asset increment)
	AssetSymbol   string
	MinBalance    int64         // minimum balance to open or keep a bankroll account
	MinTransfer   int64         // minimum inbound transfer and non-emptying withdrawal
	MaxBetRatio   int64         // a bet may not exceed balance/MaxBetRatio
	RevealTimeout time.Duration // window the host has to reveal a matched commitment

	// Environment
	Environment string // "development", "test" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		TransferServiceURL: os.Getenv("TRANSFER_SERVICE_URL"),
		ProtocolAccount:    os.Getenv("PROTOCOL_ACCOUNT"),

		// Protocol defaults
		AssetSymbol:   "ACORN",
		MinBalance:    500000,
		MinTransfer:   100,
		MaxBetRatio:   100, // bets can't exceed 1% of a host's bankroll
		RevealTimeout: 5 * time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.ProtocolAccount == "" {
		config.ProtocolAccount = "dicehouse"
	}
	if symbol := os.Getenv("ASSET_SYMBOL"); symbol != "" {
		config.AssetSymbol = symbol
	}

	// Override protocol defaults if environment variables are set
	if v := os.Getenv("MIN_BALANCE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MinBalance = parsed
		}
	}
	if v := os.Getenv("MIN_TRANSFER"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MinTransfer = parsed
		}
	}
	if v := os.Getenv("MAX_BET_RATIO"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.MaxBetRatio = parsed
		}
	}
	if v := os.Getenv("REVEAL_TIMEOUT_SECS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.RevealTimeout = time.Duration(parsed) * time.Second
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment == "production" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.TransferServiceURL == "" {
			return nil, fmt.Errorf("TRANSFER_SERVICE_URL is required")
		}
	}

	return config, nil
}
