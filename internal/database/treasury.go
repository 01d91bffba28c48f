package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) AppendPayout(ctx context.Context, payout models.Payout) error {
	_, err := s.db.ExecContext(ctx, queryInsertPayout,
		payout.Id, payout.Date, payout.Amount.String())
	if err != nil {
		zap.L().Error("Failed to insert payout", zap.String("payout_id", payout.Id), zap.Error(err))
		return fmt.Errorf("unable to insert payout: %w", err)
	}

	zap.L().Info("Payout recorded",
		zap.String("payout_id", payout.Id),
		zap.String("date", payout.Date),
		zap.String("amount", payout.Amount.String()))
	return nil
}

func (s *Service) GetPayouts(ctx context.Context) ([]models.Payout, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPayouts)
	if err != nil {
		return nil, fmt.Errorf("unable to query payouts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var payouts []models.Payout
	for rows.Next() {
		var payout models.Payout
		var amountStr string
		if err := rows.Scan(&payout.Id, &payout.Date, &amountStr); err != nil {
			return nil, fmt.Errorf("unable to scan payout row: %w", err)
		}
		payout.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payout amount '%s': %w", amountStr, err)
		}
		payouts = append(payouts, payout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payout rows: %w", err)
	}

	return payouts, nil
}

func (s *Service) AppendWithdrawal(ctx context.Context, withdrawal models.FiatWithdrawal) error {
	_, err := s.db.ExecContext(ctx, queryInsertWithdrawal,
		withdrawal.Id, withdrawal.Amount.String(), withdrawal.Eta, string(withdrawal.Status),
		withdrawal.AccountMasked, withdrawal.Beneficiary, withdrawal.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert withdrawal", zap.String("withdrawal_id", withdrawal.Id), zap.Error(err))
		return fmt.Errorf("unable to insert withdrawal: %w", err)
	}

	zap.L().Info("Fiat withdrawal queued",
		zap.String("withdrawal_id", withdrawal.Id),
		zap.String("amount", withdrawal.Amount.String()),
		zap.String("eta", withdrawal.Eta),
		zap.String("account", withdrawal.AccountMasked))
	return nil
}

func (s *Service) GetWithdrawals(ctx context.Context) ([]models.FiatWithdrawal, error) {
	rows, err := s.db.QueryContext(ctx, queryGetWithdrawals)
	if err != nil {
		return nil, fmt.Errorf("unable to query withdrawals: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var withdrawals []models.FiatWithdrawal
	for rows.Next() {
		var w models.FiatWithdrawal
		var amountStr, status string
		if err := rows.Scan(&w.Id, &amountStr, &w.Eta, &status, &w.AccountMasked, &w.Beneficiary, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan withdrawal row: %w", err)
		}
		w.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse withdrawal amount '%s': %w", amountStr, err)
		}
		w.Status = models.WithdrawalStatus(status)
		withdrawals = append(withdrawals, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawal rows: %w", err)
	}

	return withdrawals, nil
}

// SettleWithdrawalsDue marks processing withdrawals whose ETA has passed as
// paid, and returns how many were settled. ETA dates compare lexically.
func (s *Service) SettleWithdrawalsDue(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, querySettleWithdrawalsDue, now.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("unable to settle withdrawals: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unable to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		zap.L().Info("Withdrawals settled", zap.Int64("count", rowsAffected))
	}
	return int(rowsAffected), nil
}
