package analytics

import (
	"context"
	"testing"
	"time"

	"agrolink/internal/database"
	"agrolink/internal/models"

	"github.com/shopspring/decimal"
)

func setupTestAnalytics(t *testing.T) (*Service, *database.Service, func()) {
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		dbService.Close()
	}

	return NewService(dbService), dbService, cleanup
}

func seedReportData(t *testing.T, dbService *database.Service) {
	ctx := context.Background()

	entries := []models.CatalogEntry{
		{Id: 1, Name: "Drumstick — Test Farm", PriceSOL: decimal.NewFromInt(1), Image: "/golen.png", Caption: "Batch #1", FarmId: 1},
		{Id: 2, Name: "Drumstick — Test Farm", PriceSOL: decimal.NewFromInt(1), Image: "/golen.png", Caption: "Batch #2", FarmId: 1},
		{Id: 3, Name: "Egg — Test Farm", PriceSOL: decimal.NewFromInt(1), Image: "/eggs.png", Caption: "Batch #3", FarmId: 1},
		{Id: 4, Name: "Fillet — Test Farm", PriceSOL: decimal.NewFromInt(1), Image: "/fillet.png", Caption: "Batch #4", FarmId: 1},
	}
	if err := dbService.SeedCatalog(ctx, entries); err != nil {
		t.Fatalf("SeedCatalog failed: %v", err)
	}

	offers := []models.Offer{
		{Id: "offer_1", EntryId: 1, Buyer: "investor-one", PriceSOL: decimal.NewFromFloat(0.8), Status: models.OfferPending, CreatedAt: time.Now()},
		{Id: "offer_2", EntryId: 2, Buyer: "investor-one", PriceSOL: decimal.NewFromFloat(0.6), Status: models.OfferPending, CreatedAt: time.Now()},
		{Id: "offer_3", EntryId: 3, Buyer: "investor-two", PriceSOL: decimal.NewFromFloat(0.9), Status: models.OfferPending, CreatedAt: time.Now()},
	}
	for _, offer := range offers {
		if err := dbService.AppendOffer(ctx, offer); err != nil {
			t.Fatalf("AppendOffer failed: %v", err)
		}
	}

	// Accept two offers (marks entries 1 and 2 owned), ship one of them
	if _, err := dbService.AcceptOffer(ctx, "offer_1"); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}
	if _, err := dbService.AcceptOffer(ctx, "offer_2"); err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}
	if _, err := dbService.ShipOffer(ctx, "offer_2"); err != nil {
		t.Fatalf("ShipOffer failed: %v", err)
	}

	payouts := []models.Payout{
		{Id: "royalty_1", Date: "2026-08-01", Amount: decimal.NewFromInt(2)},
		{Id: "royalty_2", Date: "2026-08-15", Amount: decimal.NewFromInt(1)},
	}
	for _, payout := range payouts {
		if err := dbService.AppendPayout(ctx, payout); err != nil {
			t.Fatalf("AppendPayout failed: %v", err)
		}
	}
}

func TestFarmReport(t *testing.T) {
	service, dbService, cleanup := setupTestAnalytics(t)
	defer cleanup()

	seedReportData(t, dbService)

	report, err := service.FarmReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("FarmReport failed: %v", err)
	}

	if report.TotalEntries != 4 {
		t.Errorf("Expected 4 entries, got %d", report.TotalEntries)
	}
	if report.Sold != 2 {
		t.Errorf("Expected 2 sold, got %d", report.Sold)
	}
	if !report.Raised.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected 2 SOL raised, got %s", report.Raised.String())
	}
	if !report.Conversion.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("Expected conversion 0.5, got %s", report.Conversion.String())
	}

	// Two sold drumstick batches group under one product
	if report.SoldByProduct["Drumstick"] != 2 {
		t.Errorf("Expected 2 drumsticks sold, got %d", report.SoldByProduct["Drumstick"])
	}
	if len(report.SoldByProduct) != 1 {
		t.Errorf("Expected 1 product group, got %d", len(report.SoldByProduct))
	}

	if report.Funnel.Pending != 1 || report.Funnel.Accepted != 1 || report.Funnel.Shipped != 1 {
		t.Errorf("Expected funnel 1/1/1, got %d/%d/%d",
			report.Funnel.Pending, report.Funnel.Accepted, report.Funnel.Shipped)
	}

	// Accepted and shipped offers both count: (0.8 + 0.6) / 2
	if !report.AvgAcceptedPrice.Equal(decimal.NewFromFloat(0.7)) {
		t.Errorf("Expected avg accepted price 0.7, got %s", report.AvgAcceptedPrice.String())
	}

	if !report.PaidToInvestors.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected 3 SOL paid to investors, got %s", report.PaidToInvestors.String())
	}

	if report.Plan != Plan || report.PlatformFeePct != PlatformFeePct {
		t.Errorf("Expected plan %s with fee %d%%, got %s/%d", Plan, PlatformFeePct, report.Plan, report.PlatformFeePct)
	}
}

func TestFarmReport_EmptyFarm(t *testing.T) {
	service, _, cleanup := setupTestAnalytics(t)
	defer cleanup()

	report, err := service.FarmReport(context.Background(), 9)
	if err != nil {
		t.Fatalf("FarmReport failed: %v", err)
	}
	if report.TotalEntries != 0 || report.Sold != 0 {
		t.Errorf("Expected empty report, got %d entries, %d sold", report.TotalEntries, report.Sold)
	}
	if !report.Conversion.Equal(decimal.Zero) {
		t.Errorf("Expected zero conversion, got %s", report.Conversion.String())
	}
	if report.Recommendation == "" {
		t.Errorf("Expected a recommendation even for empty farms")
	}
}

func TestRecommendationThresholds(t *testing.T) {
	low := recommend(decimal.NewFromFloat(0.1))
	mid := recommend(decimal.NewFromFloat(0.5))
	high := recommend(decimal.NewFromFloat(0.9))

	if low == mid || mid == high || low == high {
		t.Errorf("Expected distinct recommendations per conversion band")
	}
}
