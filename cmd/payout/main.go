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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func printPayouts(payouts []models.Payout) {
	common.PrintHeader("ROYALTY PAYOUTS", common.DefaultWidth)

	total := decimal.Zero
	for i, payout := range payouts {
		symbol := common.BoxPrefix(i == len(payouts)-1)
		fmt.Printf("%s %s  %10s SOL  (%s)\n", symbol, payout.Date, payout.Amount.String(), payout.Id)
		total = total.Add(payout.Amount)
	}

	summary := fmt.Sprintf("SUMMARY: %d payouts, %s SOL distributed", len(payouts), total.String())
	common.PrintFooter(summary, common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amount := flag.String("amount", "", "Distribute this royalty amount in SOL")
	withdraw := flag.Bool("withdraw", false, "Move the entire royalty balance into the wallet")
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
	case *amount != "":
		payoutAmount, err := decimal.NewFromString(*amount)
		if err != nil {
			zap.L().Fatal("Invalid amount", zap.String("amount", *amount), zap.Error(err))
		}

		pubkey, err := services.ChainService.Connect(ctx)
		if err != nil {
			zap.L().Fatal("Failed to connect wallet", zap.Error(err))
		}

		payout, err := services.TreasuryService.RecordPayout(ctx, payoutAmount, pubkey)
		if err != nil {
			zap.L().Fatal("Payout failed", zap.Error(err))
		}
		fmt.Printf("Payout recorded: %s SOL on %s (%s)\n", payout.Amount.String(), payout.Date, payout.Id)

	case *withdraw:
		pubkey, err := services.ChainService.Connect(ctx)
		if err != nil {
			zap.L().Fatal("Failed to connect wallet", zap.Error(err))
		}

		withdrawn, err := services.TreasuryService.WithdrawRoyalty(ctx, pubkey)
		if err != nil {
			zap.L().Fatal("Royalty withdrawal failed", zap.Error(err))
		}
		fmt.Printf("Withdrew %s SOL from royalty balance to wallet\n", withdrawn.String())

	default:
		payouts, err := services.TreasuryService.Payouts(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list payouts", zap.Error(err))
		}
		printPayouts(payouts)
	}
}
