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

const (
	// User queries
	queryInsertUser = `
		INSERT OR IGNORE INTO users (username, password, role, farm_id) VALUES (?, ?, ?, ?)`

	queryGetUserByUsername = `
		SELECT username, password, role, farm_id, created_at
		FROM users
		WHERE username = ?`

	queryGetUsers = `
		SELECT username, password, role, farm_id, created_at
		FROM users
		ORDER BY created_at`

	// Session queries
	queryClearSessions = `
		DELETE FROM sessions`

	queryInsertSession = `
		INSERT INTO sessions (username, role, farm_id) VALUES (?, ?, ?)`

	queryGetSession = `
		SELECT username, role, farm_id, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1`

	// Catalog queries
	queryInsertCatalogEntry = `
		INSERT OR IGNORE INTO catalog (id, name, price_sol, image, caption, farm_id, owned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetCatalog = `
		SELECT id, name, price_sol, image, caption, farm_id, owned
		FROM catalog
		ORDER BY id`

	queryGetCatalogByFarm = `
		SELECT id, name, price_sol, image, caption, farm_id, owned
		FROM catalog
		WHERE farm_id = ?
		ORDER BY id`

	queryGetCatalogEntry = `
		SELECT id, name, price_sol, image, caption, farm_id, owned
		FROM catalog
		WHERE id = ?`

	queryMarkEntryOwned = `
		UPDATE catalog SET owned = 1 WHERE id = ?`

	queryCountOwnedEntries = `
		SELECT COUNT(*) FROM catalog WHERE owned = 1`

	// Offer queries
	queryInsertOffer = `
		INSERT INTO offers (id, entry_id, buyer, price_sol, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetOffer = `
		SELECT id, entry_id, buyer, price_sol, status, created_at
		FROM offers
		WHERE id = ?`

	queryGetOffersByBuyer = `
		SELECT id, entry_id, buyer, price_sol, status, created_at
		FROM offers
		WHERE buyer = ?
		ORDER BY created_at DESC`

	queryGetOffersByFarm = `
		SELECT o.id, o.entry_id, o.buyer, o.price_sol, o.status, o.created_at
		FROM offers o
		JOIN catalog c ON c.id = o.entry_id
		WHERE c.farm_id = ?
		ORDER BY o.created_at DESC`

	queryUpdateOfferStatus = `
		UPDATE offers SET status = ? WHERE id = ? AND status = ?`

	// Payout queries
	queryInsertPayout = `
		INSERT INTO payouts (id, date, amount) VALUES (?, ?, ?)`

	queryGetPayouts = `
		SELECT id, date, amount
		FROM payouts
		ORDER BY date, id`

	// Fiat withdrawal queries
	queryInsertWithdrawal = `
		INSERT INTO fiat_withdrawals (id, amount, eta, status, account_masked, beneficiary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetWithdrawals = `
		SELECT id, amount, eta, status, account_masked, beneficiary, created_at
		FROM fiat_withdrawals
		ORDER BY created_at DESC`

	querySettleWithdrawalsDue = `
		UPDATE fiat_withdrawals SET status = 'paid' WHERE status = 'processing' AND eta <= ?`

	// Wallet ledger queries
	queryGetAccountBalance = `
		SELECT balance
		FROM account_balances
		WHERE account = ?`

	queryGetAccountForUpdate = `
		SELECT id, balance, version
		FROM account_balances
		WHERE account = ?`

	queryInsertAccountBalance = `
		INSERT INTO account_balances (id, account, balance, version)
		VALUES (?, ?, ?, ?)`

	queryUpdateAccountBalance = `
		UPDATE account_balances
		SET balance = ?, last_transaction_id = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE account = ? AND version = ?`

	queryCheckDuplicateWalletTransaction = `
		SELECT id FROM wallet_transactions WHERE external_transaction_id = ? LIMIT 1`

	queryInsertWalletTransaction = `
		INSERT INTO wallet_transactions (
			id, account, transaction_type, amount, balance_before, balance_after,
			external_transaction_id, reference, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetWalletHistory = `
		SELECT id, account, transaction_type, amount, balance_before, balance_after,
		       external_transaction_id, reference, created_at
		FROM wallet_transactions
		WHERE account = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
)
