package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetAccountBalance returns the current balance for a wallet ledger account.
// A missing account row reads as zero.
func (s *Service) GetAccountBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetAccountBalance, account).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("Failed to get balance", zap.String("account", account), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}

	return balance, nil
}

// ProcessWalletTransaction atomically updates an account balance and records
// the audit row. Balances never go negative unless the caller opts in.
func (s *Service) ProcessWalletTransaction(ctx context.Context, params store.WalletTransactionParams) (*models.WalletTransaction, error) {
	zap.L().Info("Processing wallet transaction",
		zap.String("account", params.Account),
		zap.String("type", params.TransactionType),
		zap.String("amount", params.Amount.String()),
		zap.String("external_tx_id", params.ExternalTxId))

	// Check for duplicate external transaction Id
	if params.ExternalTxId != "" {
		var existingTxId string
		err := s.db.QueryRowContext(ctx, queryCheckDuplicateWalletTransaction, params.ExternalTxId).Scan(&existingTxId)
		if err == nil {
			zap.L().Warn("Duplicate external transaction Id detected, skipping",
				zap.String("external_tx_id", params.ExternalTxId),
				zap.String("existing_internal_tx_id", existingTxId))
			return nil, fmt.Errorf("%w: external_transaction_id %s already exists", store.ErrDuplicateTransaction, params.ExternalTxId)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check for duplicate transaction: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentBalanceStr string
	var accountId string
	var version int64

	err = tx.QueryRowContext(ctx, queryGetAccountForUpdate, params.Account).Scan(&accountId, &currentBalanceStr, &version)

	var currentBalance decimal.Decimal
	if errors.Is(err, sql.ErrNoRows) {
		accountId = uuid.New().String()
		currentBalance = decimal.Zero
		version = 1

		if _, err := tx.ExecContext(ctx, queryInsertAccountBalance, accountId, params.Account, "0", 1); err != nil {
			return nil, fmt.Errorf("failed to create account balance: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get current balance: %w", err)
	} else {
		currentBalance, err = decimal.NewFromString(currentBalanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current balance '%s': %w", currentBalanceStr, err)
		}
	}

	newBalance := currentBalance.Add(params.Amount)
	if newBalance.IsNegative() && !params.AllowNegative {
		return nil, fmt.Errorf("account %s: current=%s, requested=%s: %w",
			params.Account, currentBalance.String(), params.Amount.Neg().String(), store.ErrInsufficientBalance)
	}

	transactionId := uuid.New().String()
	now := time.Now()

	if _, err := tx.ExecContext(ctx, queryInsertWalletTransaction,
		transactionId, params.Account, params.TransactionType,
		params.Amount.String(), currentBalance.String(), newBalance.String(),
		params.ExternalTxId, params.Reference, now); err != nil {
		return nil, fmt.Errorf("failed to insert wallet transaction: %w", err)
	}

	// Update account balance (with optimistic locking)
	result, err := tx.ExecContext(ctx, queryUpdateAccountBalance,
		newBalance.String(), transactionId, params.Account, version)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("balance update failed - %w", store.ErrConcurrentModification)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Wallet transaction processed successfully",
		zap.String("transaction_id", transactionId),
		zap.String("account", params.Account),
		zap.String("old_balance", currentBalance.String()),
		zap.String("new_balance", newBalance.String()))

	return &models.WalletTransaction{
		Id:                    transactionId,
		Account:               params.Account,
		TransactionType:       params.TransactionType,
		Amount:                params.Amount,
		BalanceBefore:         currentBalance,
		BalanceAfter:          newBalance,
		ExternalTransactionId: params.ExternalTxId,
		Reference:             params.Reference,
		CreatedAt:             now,
	}, nil
}

// GetWalletHistory returns paginated ledger rows for an account, newest first.
func (s *Service) GetWalletHistory(ctx context.Context, account string, limit, offset int) ([]models.WalletTransaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetWalletHistory, account, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.WalletTransaction
	for rows.Next() {
		var tx models.WalletTransaction
		var amountStr, balanceBeforeStr, balanceAfterStr string
		var externalTxId, reference sql.NullString
		err := rows.Scan(&tx.Id, &tx.Account, &tx.TransactionType,
			&amountStr, &balanceBeforeStr, &balanceAfterStr,
			&externalTxId, &reference, &tx.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}

		tx.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		tx.BalanceBefore, err = decimal.NewFromString(balanceBeforeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance before '%s': %w", balanceBeforeStr, err)
		}
		tx.BalanceAfter, err = decimal.NewFromString(balanceAfterStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance after '%s': %w", balanceAfterStr, err)
		}
		tx.ExternalTransactionId = externalTxId.String
		tx.Reference = reference.String

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}

	return transactions, nil
}
