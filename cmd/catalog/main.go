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
	"agrolink/internal/database"
	"agrolink/internal/models"

	"go.uber.org/zap"
)

type catalogStats struct {
	totalEntries int
	ownedEntries int
}

func printEntry(entry models.CatalogEntry, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	status := "available"
	if entry.Owned {
		status = "owned"
	}

	fmt.Printf("%s #%-3d %-45s %8s SOL  [%s]\n",
		symbol, entry.Id, entry.Name, entry.PriceSOL.String(), status)
	fmt.Printf("%s      %s\n", common.BoxDetailPrefix(isLast), entry.Caption)
}

func printCatalog(entries []models.CatalogEntry) catalogStats {
	stats := catalogStats{totalEntries: len(entries)}

	for i, entry := range entries {
		printEntry(entry, i == len(entries)-1)
		if entry.Owned {
			stats.ownedEntries++
		}
	}

	return stats
}

func printBalances(ctx context.Context, dbService *database.Service) {
	wallet, err := dbService.GetAccountBalance(ctx, models.AccountWallet)
	if err != nil {
		zap.L().Fatal("Failed to get wallet balance", zap.Error(err))
	}
	royalty, err := dbService.GetAccountBalance(ctx, models.AccountRoyalty)
	if err != nil {
		zap.L().Fatal("Failed to get royalty balance", zap.Error(err))
	}

	fmt.Printf("\nWallet balance:  %s SOL\n", wallet.String())
	fmt.Printf("Royalty balance: %s SOL\n", royalty.String())
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	farmId := flag.Int64("farm", 0, "Filter by farm id (optional)")
	showBalances := flag.Bool("balances", false, "Show wallet and royalty balances")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	var entries []models.CatalogEntry
	if *farmId > 0 {
		entries, err = dbService.GetCatalogByFarm(ctx, *farmId)
	} else {
		entries, err = dbService.GetCatalog(ctx)
	}
	if err != nil {
		zap.L().Fatal("Failed to load catalog", zap.Error(err))
	}

	common.PrintHeader("PRODUCT BATCH CATALOG", common.DefaultWidth)
	stats := printCatalog(entries)

	if *showBalances {
		printBalances(ctx, dbService)
	}

	summary := fmt.Sprintf("SUMMARY: %d entries, %d owned", stats.totalEntries, stats.ownedEntries)
	common.PrintFooter(summary, common.DefaultWidth)
}
