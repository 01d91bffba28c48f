package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"agrolink/internal/analytics"
	"agrolink/internal/common"
	"agrolink/internal/config"

	"go.uber.org/zap"
)

func printReport(report *analytics.FarmReport) {
	common.PrintHeader(fmt.Sprintf("FARM %d ANALYTICS", report.FarmId), common.DefaultWidth)

	fmt.Printf("Plan:               %s (platform fee %d%%)\n", report.Plan, report.PlatformFeePct)
	fmt.Printf("Batches listed:     %d\n", report.TotalEntries)
	fmt.Printf("Batches sold:       %d\n", report.Sold)
	fmt.Printf("Raised:             %s SOL\n", report.Raised.String())
	fmt.Printf("Conversion:         %s\n", report.Conversion.String())
	fmt.Printf("Avg accepted price: %s SOL\n", report.AvgAcceptedPrice.String())
	fmt.Printf("Paid to investors:  %s SOL\n", report.PaidToInvestors.String())

	fmt.Printf("\nOffer funnel: %d pending, %d accepted, %d shipped\n",
		report.Funnel.Pending, report.Funnel.Accepted, report.Funnel.Shipped)

	if len(report.SoldByProduct) > 0 {
		fmt.Println("\nSold by product:")
		products := make([]string, 0, len(report.SoldByProduct))
		for product := range report.SoldByProduct {
			products = append(products, product)
		}
		sort.Strings(products)
		for i, product := range products {
			fmt.Printf("%s %-20s %d\n", common.BoxPrefix(i == len(products)-1), product, report.SoldByProduct[product])
		}
	}

	common.PrintFooter(report.Recommendation, common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	farmId := flag.Int64("farm", 0, "Farm id to report on")
	flag.Parse()

	if *farmId <= 0 {
		zap.L().Fatal("Missing required -farm flag")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	report, err := analytics.NewService(dbService).FarmReport(ctx, *farmId)
	if err != nil {
		zap.L().Fatal("Failed to build report", zap.Error(err))
	}

	printReport(report)
}
