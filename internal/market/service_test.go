package market

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agrolink/internal/chain"
	"agrolink/internal/database"
	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/shopspring/decimal"
)

func setupTestMarket(t *testing.T, chainSuccess bool) (*Service, *database.Service, func()) {
	ctx := context.Background()

	dbService, err := database.NewService(ctx, models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	entries := []models.CatalogEntry{
		{Id: 1, Name: "Drumstick — Test Farm", PriceSOL: decimal.NewFromInt(1), Image: "/golen.png", Caption: "Batch #1", FarmId: 1},
		{Id: 2, Name: "Egg — Other Farm", PriceSOL: decimal.NewFromInt(1), Image: "/eggs.png", Caption: "Batch #1", FarmId: 2},
	}
	if err := dbService.SeedCatalog(ctx, entries); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	chainService := chain.NewService(models.ChainConfig{}, chain.FixedOutcomes{Success: chainSuccess})
	service := NewService(dbService, chainService, models.MarketConfig{
		MinOfferPriceSOL: decimal.NewFromFloat(0.1),
	})

	cleanup := func() {
		dbService.Close()
	}

	return service, dbService, cleanup
}

func loginAs(t *testing.T, dbService *database.Service, username string, role models.Role, farmId int64) {
	session := models.Session{Username: username, Role: role, FarmId: farmId, CreatedAt: time.Now()}
	if err := dbService.SaveSession(context.Background(), session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
}

func TestSubmitOffer_ClampsToFloor(t *testing.T) {
	service, dbService, cleanup := setupTestMarket(t, true)
	defer cleanup()

	ctx := context.Background()
	loginAs(t, dbService, "investor-one", models.RoleInvestor, 0)

	offer, err := service.SubmitOffer(ctx, 1, decimal.NewFromFloat(0.01))
	if err != nil {
		t.Fatalf("SubmitOffer failed: %v", err)
	}

	if !offer.PriceSOL.Equal(decimal.NewFromFloat(0.1)) {
		t.Errorf("Expected price clamped to 0.1, got %s", offer.PriceSOL.String())
	}
	if offer.Status != models.OfferPending {
		t.Errorf("Expected pending status, got %s", offer.Status)
	}
	if !strings.HasPrefix(offer.Id, "offer_") {
		t.Errorf("Expected offer_ id prefix, got %s", offer.Id)
	}
	if offer.Buyer != "investor-one" {
		t.Errorf("Expected buyer investor-one, got %s", offer.Buyer)
	}
}

func TestSubmitOffer_RequiresSession(t *testing.T) {
	service, _, cleanup := setupTestMarket(t, true)
	defer cleanup()

	_, err := service.SubmitOffer(context.Background(), 1, decimal.NewFromFloat(0.5))
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got: %v", err)
	}
}

func TestAcceptOffer_RequiresOwningFarm(t *testing.T) {
	service, dbService, cleanup := setupTestMarket(t, true)
	defer cleanup()

	ctx := context.Background()

	loginAs(t, dbService, "investor-one", models.RoleInvestor, 0)
	offer, err := service.SubmitOffer(ctx, 1, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("SubmitOffer failed: %v", err)
	}

	// An investor cannot accept
	_, err = service.AcceptOffer(ctx, offer.Id)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized for investor, got: %v", err)
	}

	// A different farm cannot accept
	loginAs(t, dbService, "other-farm", models.RoleFactory, 2)
	_, err = service.AcceptOffer(ctx, offer.Id)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized for wrong farm, got: %v", err)
	}

	// The owning farm can
	loginAs(t, dbService, "asa-agro", models.RoleFactory, 1)
	accepted, err := service.AcceptOffer(ctx, offer.Id)
	if err != nil {
		t.Fatalf("AcceptOffer failed: %v", err)
	}
	if accepted.Status != models.OfferAccepted {
		t.Errorf("Expected accepted status, got %s", accepted.Status)
	}
}

func TestPurchase_Lifecycle(t *testing.T) {
	service, dbService, cleanup := setupTestMarket(t, true)
	defer cleanup()

	ctx := context.Background()
	loginAs(t, dbService, "investor-one", models.RoleInvestor, 0)

	// No wallet connected
	_, err := service.Purchase(ctx, 1, "")
	var validationErr *store.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError without wallet, got: %v", err)
	}

	txHash, err := service.Purchase(ctx, 1, chain.DemoPubkey)
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if !strings.HasPrefix(txHash, "tx_") {
		t.Errorf("Expected tx_ prefix, got %s", txHash)
	}

	entry, err := dbService.GetCatalogEntry(ctx, 1)
	if err != nil {
		t.Fatalf("GetCatalogEntry failed: %v", err)
	}
	if !entry.Owned {
		t.Errorf("Expected entry owned after purchase")
	}

	// Second purchase of the same entry is rejected
	_, err = service.Purchase(ctx, 1, chain.DemoPubkey)
	if !errors.Is(err, store.ErrAlreadyOwned) {
		t.Errorf("Expected ErrAlreadyOwned, got: %v", err)
	}
}

func TestPurchase_ChainFailureLeavesEntryUnowned(t *testing.T) {
	service, dbService, cleanup := setupTestMarket(t, false)
	defer cleanup()

	ctx := context.Background()
	loginAs(t, dbService, "investor-one", models.RoleInvestor, 0)

	_, err := service.Purchase(ctx, 1, chain.DemoPubkey)
	var txErr *chain.TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("Expected TransactionError, got: %v", err)
	}

	entry, err := dbService.GetCatalogEntry(ctx, 1)
	if err != nil {
		t.Fatalf("GetCatalogEntry failed: %v", err)
	}
	if entry.Owned {
		t.Errorf("Entry must stay unowned when the chain call fails")
	}
}

func TestMintBatch_Validation(t *testing.T) {
	service, dbService, cleanup := setupTestMarket(t, true)
	defer cleanup()

	ctx := context.Background()
	loginAs(t, dbService, "asa-agro", models.RoleFactory, 1)

	cases := []struct {
		name  string
		batch models.Batch
	}{
		{"empty title", models.Batch{Products: []string{"Egg"}, FactorySharePct: 70, InvestorSharePct: 30}},
		{"no products", models.Batch{Title: "Batch", FactorySharePct: 70, InvestorSharePct: 30}},
		{"bad shares", models.Batch{Title: "Batch", Products: []string{"Egg"}, FactorySharePct: 70, InvestorSharePct: 40}},
	}
	for _, tc := range cases {
		_, err := service.MintBatch(ctx, tc.batch, chain.DemoPubkey)
		var validationErr *store.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got: %v", tc.name, err)
		}
	}

	// No wallet connected
	_, err := service.MintBatch(ctx, models.Batch{
		Title:            "Autumn Batch",
		Products:         []string{"Egg"},
		FactorySharePct:  70,
		InvestorSharePct: 30,
	}, "")
	var validationErr *store.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError without wallet, got: %v", err)
	}

	collectionId, err := service.MintBatch(ctx, models.Batch{
		Title:            "Autumn Batch",
		Products:         []string{"Drumstick", "Egg"},
		FactorySharePct:  70,
		InvestorSharePct: 30,
	}, chain.DemoPubkey)
	if err != nil {
		t.Fatalf("MintBatch failed: %v", err)
	}
	if !strings.HasPrefix(collectionId, "collection_") {
		t.Errorf("Expected collection_ prefix, got %s", collectionId)
	}

	// Investors cannot mint
	loginAs(t, dbService, "investor-one", models.RoleInvestor, 0)
	_, err = service.MintBatch(ctx, models.Batch{
		Title:            "Autumn Batch",
		Products:         []string{"Egg"},
		FactorySharePct:  70,
		InvestorSharePct: 30,
	}, chain.DemoPubkey)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Expected ErrNotAuthorized for investor, got: %v", err)
	}
}
