package main

import (
	"context"
	"flag"
	"fmt"

	"agrolink/internal/common"
	"agrolink/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	entryId := flag.Int64("entry", 0, "Catalog entry id to purchase")
	flag.Parse()

	if *entryId <= 0 {
		zap.L().Fatal("Missing required -entry flag")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	pubkey, err := services.ChainService.Connect(ctx)
	if err != nil {
		zap.L().Fatal("Failed to connect wallet", zap.Error(err))
	}

	txHash, err := services.MarketService.Purchase(ctx, *entryId, pubkey)
	if err != nil {
		zap.L().Fatal("Purchase failed", zap.Error(err))
	}

	fmt.Printf("Purchase confirmed: entry #%d, tx %s\n", *entryId, txHash)
}
