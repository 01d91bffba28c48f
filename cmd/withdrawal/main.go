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

package main

import (
	"context"
	"flag"
	"fmt"

	"agrolink/internal/common"
	"agrolink/internal/config"
	"agrolink/internal/models"
	"agrolink/internal/treasury"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printWithdrawals(withdrawals []models.FiatWithdrawal) {
	common.PrintHeader("FIAT WITHDRAWALS", common.DefaultWidth)

	for i, w := range withdrawals {
		isLast := i == len(withdrawals)-1
		fmt.Printf("%s %-20s %10s SOL  [%s]  eta %s\n",
			common.BoxPrefix(isLast), w.Id, w.Amount.String(), w.Status, w.Eta)
		fmt.Printf("%s      %s, account %s\n",
			common.BoxDetailPrefix(isLast), w.Beneficiary, w.AccountMasked)
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d withdrawals", len(withdrawals)), common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amount := flag.String("amount", "", "Withdrawal amount in SOL")
	beneficiary := flag.String("beneficiary", "", "Beneficiary name")
	account := flag.String("account", "", "Bank account number (minimum 8 characters)")
	settle := flag.Bool("settle", false, "Mark withdrawals past their ETA as paid")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	switch {
	case *settle:
		settled, err := services.TreasuryService.SettleDueWithdrawals(ctx)
		if err != nil {
			zap.L().Fatal("Settlement failed", zap.Error(err))
		}
		fmt.Printf("Settled %d withdrawals\n", settled)

	case *amount != "":
		withdrawalAmount, err := decimal.NewFromString(*amount)
		if err != nil {
			zap.L().Fatal("Invalid amount", zap.String("amount", *amount), zap.Error(err))
		}

		withdrawal, err := services.TreasuryService.RequestWithdrawal(ctx, treasury.WithdrawalParams{
			Amount:        withdrawalAmount,
			Beneficiary:   *beneficiary,
			AccountNumber: *account,
		})
		if err != nil {
			zap.L().Fatal("Withdrawal request failed", zap.Error(err))
		}

		fmt.Printf("Withdrawal %s queued: %s SOL to %s, eta %s\n",
			withdrawal.Id, withdrawal.Amount.String(), withdrawal.AccountMasked, withdrawal.Eta)

	default:
		withdrawals, err := services.TreasuryService.Withdrawals(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list withdrawals", zap.Error(err))
		}
		printWithdrawals(withdrawals)
	}
}
