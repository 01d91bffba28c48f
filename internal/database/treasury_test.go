package database

import (
	"context"
	"testing"
	"time"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
)

func TestAppendAndGetPayouts(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	payouts := []models.Payout{
		{Id: "royalty_1", Date: "2026-08-01", Amount: decimal.NewFromInt(3)},
		{Id: "royalty_2", Date: "2026-08-15", Amount: decimal.NewFromFloat(1.5)},
	}
	for _, payout := range payouts {
		if err := service.AppendPayout(ctx, payout); err != nil {
			t.Fatalf("AppendPayout failed: %v", err)
		}
	}

	stored, err := service.GetPayouts(ctx)
	if err != nil {
		t.Fatalf("GetPayouts failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("Expected 2 payouts, got %d", len(stored))
	}

	total := decimal.Zero
	for _, payout := range stored {
		total = total.Add(payout.Amount)
	}
	if !total.Equal(decimal.NewFromFloat(4.5)) {
		t.Errorf("Expected total 4.5, got %s", total.String())
	}
}

func TestSettleWithdrawalsDue(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	withdrawals := []models.FiatWithdrawal{
		{
			Id:            "wd_1",
			Amount:        decimal.NewFromInt(5),
			Eta:           "2026-08-30", // past due
			Status:        models.WithdrawalProcessing,
			AccountMasked: "1234****5678",
			Beneficiary:   "Test Person",
			CreatedAt:     now.Add(-72 * time.Hour),
		},
		{
			Id:            "wd_2",
			Amount:        decimal.NewFromInt(2),
			Eta:           "2026-09-03", // still pending
			Status:        models.WithdrawalProcessing,
			AccountMasked: "1234****5678",
			Beneficiary:   "Test Person",
			CreatedAt:     now,
		},
	}
	for _, w := range withdrawals {
		if err := service.AppendWithdrawal(ctx, w); err != nil {
			t.Fatalf("AppendWithdrawal failed: %v", err)
		}
	}

	settled, err := service.SettleWithdrawalsDue(ctx, now)
	if err != nil {
		t.Fatalf("SettleWithdrawalsDue failed: %v", err)
	}
	if settled != 1 {
		t.Errorf("Expected 1 settled withdrawal, got %d", settled)
	}

	stored, err := service.GetWithdrawals(ctx)
	if err != nil {
		t.Fatalf("GetWithdrawals failed: %v", err)
	}

	statuses := make(map[string]models.WithdrawalStatus)
	for _, w := range stored {
		statuses[w.Id] = w.Status
	}
	if statuses["wd_1"] != models.WithdrawalPaid {
		t.Errorf("Expected wd_1 paid, got %s", statuses["wd_1"])
	}
	if statuses["wd_2"] != models.WithdrawalProcessing {
		t.Errorf("Expected wd_2 still processing, got %s", statuses["wd_2"])
	}

	// A second settle run finds nothing new
	settled, err = service.SettleWithdrawalsDue(ctx, now)
	if err != nil {
		t.Fatalf("Second SettleWithdrawalsDue failed: %v", err)
	}
	if settled != 0 {
		t.Errorf("Expected 0 settled on repeat, got %d", settled)
	}
}
