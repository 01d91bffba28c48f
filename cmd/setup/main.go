package main

import (
	"context"
	"flag"

	"agrolink/internal/common"
	"agrolink/internal/config"
	"agrolink/internal/database"
	"agrolink/internal/models"

	"go.uber.org/zap"
)

func seedCatalog(ctx context.Context, dbService *database.Service, catalogFile string) {
	zap.L().Info("Loading catalog configuration", zap.String("file", catalogFile))
	catalogConfig, err := common.LoadCatalogConfig(catalogFile)
	if err != nil {
		zap.L().Fatal("Failed to load catalog config", zap.Error(err))
	}
	zap.L().Info("Catalog configuration loaded",
		zap.Int("farms", len(catalogConfig.Farms)),
		zap.Int("products", len(catalogConfig.Products)))

	entries := common.BuildEntries(catalogConfig)
	if err := dbService.SeedCatalog(ctx, entries); err != nil {
		zap.L().Fatal("Failed to seed catalog", zap.Error(err))
	}
}

func seedBalances(ctx context.Context, dbService *database.Service, cfg *models.Config) {
	if err := dbService.SeedAccount(ctx, models.AccountWallet, cfg.Market.WalletOpening); err != nil {
		zap.L().Fatal("Failed to seed wallet balance", zap.Error(err))
	}
	if err := dbService.SeedAccount(ctx, models.AccountRoyalty, cfg.Market.RoyaltyOpening); err != nil {
		zap.L().Fatal("Failed to seed royalty balance", zap.Error(err))
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	catalogOnly := flag.Bool("catalog-only", false, "Seed the catalog but skip opening balances")
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

	seedCatalog(ctx, dbService, cfg.Market.CatalogFile)

	if !*catalogOnly {
		seedBalances(ctx, dbService, cfg)
	}

	zap.L().Info("Setup complete")
}
