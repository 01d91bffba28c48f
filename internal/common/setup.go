package common

import (
	"context"
	"log"
	"strings"

	"agrolink/internal/analytics"
	"agrolink/internal/auth"
	"agrolink/internal/chain"
	"agrolink/internal/database"
	"agrolink/internal/market"
	"agrolink/internal/models"
	"agrolink/internal/treasury"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService        *database.Service
	ChainService     *chain.Service
	AuthService      *auth.Service
	MarketService    *market.Service
	TreasuryService  *treasury.Service
	AnalyticsService *analytics.Service
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	chainService := chain.NewService(cfg.Chain, chain.NewRandomOutcomes(cfg.Chain.FailureRate))

	return &Services{
		DbService:        dbService,
		ChainService:     chainService,
		AuthService:      auth.NewService(dbService, cfg.Auth),
		MarketService:    market.NewService(dbService, chainService, cfg.Market),
		TreasuryService:  treasury.NewService(dbService, chainService),
		AnalyticsService: analytics.NewService(dbService),
	}, nil
}

// InitializeStoreOnly initializes just the database service without the
// simulated chain. Useful for read-only operations like listing the catalog.
func InitializeStoreOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
