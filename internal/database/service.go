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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrolink/internal/models"
	"agrolink/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.MarketStore.
var _ store.MarketStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.SeedDemoUsers); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(seedDemoUsers bool) error {
	schema := `
	-- User directory (plaintext credentials, demo system)
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		farm_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

	-- Single current session record
	CREATE TABLE IF NOT EXISTS sessions (
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		farm_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Product batch catalog (farm x product cross product)
	CREATE TABLE IF NOT EXISTS catalog (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price_sol TEXT NOT NULL,
		image TEXT NOT NULL,
		caption TEXT NOT NULL,
		farm_id INTEGER NOT NULL,
		owned BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_farm_id ON catalog(farm_id);
	CREATE INDEX IF NOT EXISTS idx_catalog_owned ON catalog(owned);

	-- Offer ledger (append-only rows, status advances in place)
	CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		entry_id INTEGER NOT NULL REFERENCES catalog(id),
		buyer TEXT NOT NULL,
		price_sol TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_offers_entry_id ON offers(entry_id);
	CREATE INDEX IF NOT EXISTS idx_offers_buyer ON offers(buyer);
	CREATE INDEX IF NOT EXISTS idx_offers_status ON offers(status);

	-- Royalty payout records (append only, never mutated)
	CREATE TABLE IF NOT EXISTS payouts (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	-- Fiat withdrawal queue
	CREATE TABLE IF NOT EXISTS fiat_withdrawals (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		eta TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'processing',
		account_masked TEXT NOT NULL,
		beneficiary TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fiat_withdrawals_status ON fiat_withdrawals(status);

	-- Wallet ledger: current balances (hot data)
	CREATE TABLE IF NOT EXISTS account_balances (
		id TEXT PRIMARY KEY,
		account TEXT NOT NULL UNIQUE,
		balance TEXT NOT NULL DEFAULT '0',
		last_transaction_id TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Wallet ledger: audit trail (cold data)
	CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		account TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		external_transaction_id TEXT,
		reference TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_account ON wallet_transactions(account);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_external_id ON wallet_transactions(external_transaction_id);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_created_at ON wallet_transactions(created_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	// Insert demo accounts for manual testing if configured to do so
	if seedDemoUsers {
		users := []store.CreateUserParams{
			{Username: "asa-agro", Password: "demo", Role: models.RoleFactory, FarmId: 1},
			{Username: "investor-one", Password: "demo", Role: models.RoleInvestor},
		}

		for _, user := range users {
			if _, err := s.CreateUser(context.Background(), user); err != nil {
				if errors.Is(err, store.ErrUserExists) {
					continue
				}
				zap.L().Error("Failed to insert demo user", zap.String("username", user.Username), zap.Error(err))
			} else {
				zap.L().Info("Demo user created", zap.String("username", user.Username), zap.String("role", string(user.Role)))
			}
		}
	}

	return nil
}

// SeedAccount opens a wallet ledger account with an initial credit. The seed
// transaction carries a fixed external id so repeated setup runs stay
// idempotent.
func (s *Service) SeedAccount(ctx context.Context, account string, opening decimal.Decimal) error {
	if opening.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	_, err := s.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
		Account:         account,
		TransactionType: "opening_balance",
		Amount:          opening,
		ExternalTxId:    "seed-" + account,
		Reference:       "opening balance",
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTransaction) {
			zap.L().Info("Account already seeded", zap.String("account", account))
			return nil
		}
		return fmt.Errorf("failed to seed account %s: %w", account, err)
	}

	zap.L().Info("Account seeded",
		zap.String("account", account),
		zap.String("opening_balance", opening.String()))
	return nil
}
