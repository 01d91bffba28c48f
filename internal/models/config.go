package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Chain    ChainConfig
	Auth     AuthConfig
	Market   MarketConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedDemoUsers   bool
}

// ChainConfig holds simulated chain adapter settings. The delays mirror the
// demo's artificial latencies; the failure rate is the uniform probability of
// a fabricated transaction error.
type ChainConfig struct {
	ConnectDelay    time.Duration
	PurchaseDelay   time.Duration
	MintDelay       time.Duration
	DistributeDelay time.Duration
	FailureRate     float64
}

// AuthConfig holds identity/session settings. The delay is cosmetic, not a
// concurrency contract.
type AuthConfig struct {
	SimulatedDelay time.Duration
}

// MarketConfig holds catalog and opening balance settings
type MarketConfig struct {
	CatalogFile      string
	WalletOpening    decimal.Decimal
	RoyaltyOpening   decimal.Decimal
	MinOfferPriceSOL decimal.Decimal
}
