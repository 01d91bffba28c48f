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

package treasury

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agrolink/internal/chain"
	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minAccountNumberLength = 8
	withdrawalEtaDelay     = 48 * time.Hour
)

// WithdrawalParams contains the fiat withdrawal request form fields.
type WithdrawalParams struct {
	Amount        decimal.Decimal
	Beneficiary   string
	AccountNumber string
}

// Service manages the royalty and wallet money flows: recording payout
// distributions, moving royalty earnings into the wallet, and queueing fiat
// withdrawals against the wallet balance.
type Service struct {
	store store.MarketStore
	chain *chain.Service
}

func NewService(marketStore store.MarketStore, chainService *chain.Service) *Service {
	return &Service{
		store: marketStore,
		chain: chainService,
	}
}

// RecordPayout distributes a royalty amount to batch holders on chain, then
// appends the payout record and credits the royalty account. It requires a
// connected wallet and at least one owned catalog entry to distribute to.
func (s *Service) RecordPayout(ctx context.Context, amount decimal.Decimal, walletPubkey string) (*models.Payout, error) {
	if strings.TrimSpace(walletPubkey) == "" {
		return nil, &store.ValidationError{Field: "wallet", Reason: "connect a wallet before distributing royalties"}
	}
	if !amount.IsPositive() {
		return nil, &store.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	owned, err := s.store.CountOwnedEntries(ctx)
	if err != nil {
		return nil, err
	}
	if owned == 0 {
		return nil, &store.ValidationError{Field: "holders", Reason: "no owned batches to distribute to"}
	}

	txHash, err := s.chain.DistributeRoyalties(ctx, amount, []string{walletPubkey})
	if err != nil {
		return nil, err
	}

	payout := models.Payout{
		Id:     txHash,
		Date:   time.Now().Format("2006-01-02"),
		Amount: amount,
	}
	if err := s.store.AppendPayout(ctx, payout); err != nil {
		return nil, err
	}

	if _, err := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
		Account:         models.AccountRoyalty,
		TransactionType: "royalty_payout",
		Amount:          amount,
		ExternalTxId:    txHash,
		Reference:       fmt.Sprintf("royalty distribution %s", payout.Date),
	}); err != nil {
		return nil, err
	}

	zap.L().Info("Payout recorded and credited",
		zap.String("payout_id", payout.Id),
		zap.String("amount", amount.String()),
		zap.Int("holders", owned))
	return &payout, nil
}

// WithdrawRoyalty moves the entire royalty balance into the wallet account
// after a simulated on-chain distribution.
func (s *Service) WithdrawRoyalty(ctx context.Context, walletPubkey string) (decimal.Decimal, error) {
	if strings.TrimSpace(walletPubkey) == "" {
		return decimal.Zero, &store.ValidationError{Field: "wallet", Reason: "connect a wallet before withdrawing royalties"}
	}

	balance, err := s.store.GetAccountBalance(ctx, models.AccountRoyalty)
	if err != nil {
		return decimal.Zero, err
	}
	if !balance.IsPositive() {
		return decimal.Zero, &store.ValidationError{Field: "balance", Reason: "no royalty balance to withdraw"}
	}

	txHash, err := s.chain.DistributeRoyalties(ctx, balance, []string{walletPubkey})
	if err != nil {
		return decimal.Zero, err
	}

	if _, err := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
		Account:         models.AccountRoyalty,
		TransactionType: "royalty_withdrawal",
		Amount:          balance.Neg(),
		ExternalTxId:    txHash,
		Reference:       "royalty withdrawal to wallet",
	}); err != nil {
		return decimal.Zero, err
	}

	if _, err := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
		Account:         models.AccountWallet,
		TransactionType: "royalty_withdrawal",
		Amount:          balance,
		ExternalTxId:    txHash + "-credit",
		Reference:       "royalty withdrawal from royalty account",
	}); err != nil {
		// The royalty debit already committed. Reverse it so the two
		// accounts stay consistent.
		zap.L().Error("Wallet credit failed, reversing royalty debit", zap.Error(err))
		if _, revErr := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
			Account:         models.AccountRoyalty,
			TransactionType: "royalty_withdrawal_reversal",
			Amount:          balance,
			ExternalTxId:    txHash + "-reversal",
			Reference:       "reversal of failed royalty withdrawal",
		}); revErr != nil {
			zap.L().Error("Reversal failed, royalty account out of balance", zap.Error(revErr))
		}
		return decimal.Zero, err
	}

	zap.L().Info("Royalty balance withdrawn to wallet",
		zap.String("amount", balance.String()),
		zap.String("tx_hash", txHash))
	return balance, nil
}

// RequestWithdrawal validates a fiat withdrawal request, debits the wallet,
// and queues the transfer with a two-day ETA.
func (s *Service) RequestWithdrawal(ctx context.Context, params WithdrawalParams) (*models.FiatWithdrawal, error) {
	if !params.Amount.IsPositive() {
		return nil, &store.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if strings.TrimSpace(params.Beneficiary) == "" {
		return nil, &store.ValidationError{Field: "beneficiary", Reason: "must not be empty"}
	}
	account := strings.TrimSpace(params.AccountNumber)
	if len(account) < minAccountNumberLength {
		return nil, &store.ValidationError{Field: "account_number", Reason: fmt.Sprintf("must be at least %d characters", minAccountNumberLength)}
	}

	balance, err := s.store.GetAccountBalance(ctx, models.AccountWallet)
	if err != nil {
		return nil, err
	}
	if params.Amount.GreaterThan(balance) {
		return nil, fmt.Errorf("wallet balance %s, requested %s: %w",
			balance.String(), params.Amount.String(), store.ErrInsufficientBalance)
	}

	now := time.Now()
	withdrawalId := fmt.Sprintf("wd_%d", now.UnixMilli())

	if _, err := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
		Account:         models.AccountWallet,
		TransactionType: "fiat_withdrawal",
		Amount:          params.Amount.Neg(),
		ExternalTxId:    withdrawalId,
		Reference:       fmt.Sprintf("fiat withdrawal for %s", params.Beneficiary),
	}); err != nil {
		return nil, err
	}

	withdrawal := models.FiatWithdrawal{
		Id:            withdrawalId,
		Amount:        params.Amount,
		Eta:           now.Add(withdrawalEtaDelay).Format("2006-01-02"),
		Status:        models.WithdrawalProcessing,
		AccountMasked: maskAccount(account),
		Beneficiary:   strings.TrimSpace(params.Beneficiary),
		CreatedAt:     now,
	}

	if err := s.store.AppendWithdrawal(ctx, withdrawal); err != nil {
		// Refund the reserved funds, otherwise the money vanishes.
		zap.L().Error("Failed to queue withdrawal, refunding wallet", zap.Error(err))
		if _, refundErr := s.store.ProcessWalletTransaction(ctx, store.WalletTransactionParams{
			Account:         models.AccountWallet,
			TransactionType: "fiat_withdrawal_refund",
			Amount:          params.Amount,
			ExternalTxId:    withdrawalId + "-refund",
			Reference:       "refund of failed withdrawal request",
		}); refundErr != nil {
			zap.L().Error("Refund failed, wallet out of balance", zap.Error(refundErr))
		}
		return nil, err
	}

	return &withdrawal, nil
}

// SettleDueWithdrawals marks queued withdrawals past their ETA as paid.
func (s *Service) SettleDueWithdrawals(ctx context.Context) (int, error) {
	return s.store.SettleWithdrawalsDue(ctx, time.Now())
}

func (s *Service) Withdrawals(ctx context.Context) ([]models.FiatWithdrawal, error) {
	return s.store.GetWithdrawals(ctx)
}

func (s *Service) Payouts(ctx context.Context) ([]models.Payout, error) {
	return s.store.GetPayouts(ctx)
}

// Balances returns the wallet and royalty balances in one call.
func (s *Service) Balances(ctx context.Context) (wallet, royalty decimal.Decimal, err error) {
	wallet, err = s.store.GetAccountBalance(ctx, models.AccountWallet)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	royalty, err = s.store.GetAccountBalance(ctx, models.AccountRoyalty)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return wallet, royalty, nil
}

// maskAccount keeps the first and last four characters visible. Callers
// validate the minimum length first.
func maskAccount(account string) string {
	return account[:4] + "****" + account[len(account)-4:]
}
