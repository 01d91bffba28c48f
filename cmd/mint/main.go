package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"agrolink/internal/common"
	"agrolink/internal/config"
	"agrolink/internal/models"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	title := flag.String("title", "", "Batch collection title")
	cover := flag.String("cover", "", "Cover image path (optional)")
	products := flag.String("products", "", "Comma-separated product names")
	factoryShare := flag.Int("factory-share", 70, "Factory share percentage")
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

	var productList []string
	for _, p := range strings.Split(*products, ",") {
		if p = strings.TrimSpace(p); p != "" {
			productList = append(productList, p)
		}
	}

	pubkey, err := services.ChainService.Connect(ctx)
	if err != nil {
		zap.L().Fatal("Failed to connect wallet", zap.Error(err))
	}

	collectionId, err := services.MarketService.MintBatch(ctx, models.Batch{
		Title:            *title,
		Cover:            *cover,
		Products:         productList,
		FactorySharePct:  *factoryShare,
		InvestorSharePct: 100 - *factoryShare,
	}, pubkey)
	if err != nil {
		zap.L().Fatal("Mint failed", zap.Error(err))
	}

	fmt.Printf("Batch minted: %s\n", collectionId)
}
