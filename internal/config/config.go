/**
 * Copyright 2025-present AgroLink
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	connectDelay, err := getEnvDuration("CHAIN_CONNECT_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	purchaseDelay, err := getEnvDuration("CHAIN_PURCHASE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	mintDelay, err := getEnvDuration("CHAIN_MINT_DELAY", 3*time.Second)
	if err != nil {
		return nil, err
	}

	distributeDelay, err := getEnvDuration("CHAIN_DISTRIBUTE_DELAY", 1500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	authDelay, err := getEnvDuration("AUTH_SIMULATED_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	walletOpening, err := getEnvDecimal("WALLET_OPENING_BALANCE", "25")
	if err != nil {
		return nil, err
	}

	royaltyOpening, err := getEnvDecimal("ROYALTY_OPENING_BALANCE", "20")
	if err != nil {
		return nil, err
	}

	minOfferPrice, err := getEnvDecimal("MIN_OFFER_PRICE_SOL", "0.1")
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "agrolink.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedDemoUsers:   getEnvBool("SEED_DEMO_USERS", false),
		},
		Chain: models.ChainConfig{
			ConnectDelay:    connectDelay,
			PurchaseDelay:   purchaseDelay,
			MintDelay:       mintDelay,
			DistributeDelay: distributeDelay,
			FailureRate:     getEnvFloat("CHAIN_FAILURE_RATE", 0.1),
		},
		Auth: models.AuthConfig{
			SimulatedDelay: authDelay,
		},
		Market: models.MarketConfig{
			CatalogFile:      getEnvString("CATALOG_FILE", "catalog.yaml"),
			WalletOpening:    walletOpening,
			RoyaltyOpening:   royaltyOpening,
			MinOfferPriceSOL: minOfferPrice,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvDecimal(key, defaultValue string) (decimal.Decimal, error) {
	raw := defaultValue
	if value := os.Getenv(key); value != "" {
		raw = value
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount for %s: %q (%w)", key, raw, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
