package chain

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DemoPubkey is the fixed wallet key the simulated provider hands out.
const DemoPubkey = "Phan...t0mKey...ABCD"

// Fixed demo program identifiers, mirroring a devnet deployment.
const (
	ProgramId       = "11111111111111111111111111111111"
	NftCollectionId = "22222222222222222222222222222222"
	RoyaltyTokenId  = "33333333333333333333333333333333"
)

// TransactionError is a fabricated chain failure. It stands in for a real
// distributed ledger integration and carries no consistency guarantees.
type TransactionError struct {
	Op     string
	Reason string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// OutcomeProvider decides whether the next simulated call succeeds. Tests
// inject deterministic outcomes; production uses uniform randomness.
type OutcomeProvider interface {
	Succeed() bool
}

// RandomOutcomes fails with the configured probability.
type RandomOutcomes struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomOutcomes(failureRate float64) *RandomOutcomes {
	return &RandomOutcomes{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RandomOutcomes) Succeed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() > r.failureRate
}

// FixedOutcomes always returns the configured result.
type FixedOutcomes struct {
	Success bool
}

func (f FixedOutcomes) Succeed() bool {
	return f.Success
}

// Service fabricates asynchronous chain outcomes: every call waits its
// configured delay, then either returns a fake transaction identifier or a
// TransactionError.
type Service struct {
	cfg      models.ChainConfig
	outcomes OutcomeProvider
}

func NewService(cfg models.ChainConfig, outcomes OutcomeProvider) *Service {
	return &Service{cfg: cfg, outcomes: outcomes}
}

// Connect simulates a wallet connection. It always succeeds and yields the
// fixed demo pubkey.
func (s *Service) Connect(ctx context.Context) (string, error) {
	if err := s.wait(ctx, s.cfg.ConnectDelay); err != nil {
		return "", err
	}

	zap.L().Info("Wallet connected", zap.String("pubkey", DemoPubkey))
	return DemoPubkey, nil
}

// Purchase simulates buying a catalog entry on chain.
func (s *Service) Purchase(ctx context.Context, entryId int64, buyer string, price decimal.Decimal) (string, error) {
	if err := s.wait(ctx, s.cfg.PurchaseDelay); err != nil {
		return "", err
	}

	if !s.outcomes.Succeed() {
		zap.L().Warn("Simulated purchase failed", zap.Int64("entry_id", entryId))
		return "", &TransactionError{Op: "purchase", Reason: "transaction failed"}
	}

	txHash := fmt.Sprintf("tx_%d_%d", time.Now().UnixMilli(), entryId)
	zap.L().Info("Simulated purchase confirmed",
		zap.Int64("entry_id", entryId),
		zap.String("buyer", buyer),
		zap.String("price_sol", price.String()),
		zap.String("tx_hash", txHash))
	return txHash, nil
}

// MintCollection simulates minting a batch collection.
func (s *Service) MintCollection(ctx context.Context, batch models.Batch, factory string) (string, error) {
	if err := s.wait(ctx, s.cfg.MintDelay); err != nil {
		return "", err
	}

	if !s.outcomes.Succeed() {
		zap.L().Warn("Simulated mint failed", zap.String("batch", batch.Title))
		return "", &TransactionError{Op: "mint", Reason: "minting failed"}
	}

	collectionId := fmt.Sprintf("collection_%d", time.Now().UnixMilli())
	zap.L().Info("Simulated collection minted",
		zap.String("batch", batch.Title),
		zap.String("factory", factory),
		zap.Int("products", len(batch.Products)),
		zap.String("collection_id", collectionId))
	return collectionId, nil
}

// DistributeRoyalties simulates a royalty distribution to holder addresses.
func (s *Service) DistributeRoyalties(ctx context.Context, amount decimal.Decimal, holders []string) (string, error) {
	if err := s.wait(ctx, s.cfg.DistributeDelay); err != nil {
		return "", err
	}

	if !s.outcomes.Succeed() {
		zap.L().Warn("Simulated distribution failed", zap.String("amount", amount.String()))
		return "", &TransactionError{Op: "distribute", Reason: "distribution failed"}
	}

	txHash := fmt.Sprintf("royalty_%d", time.Now().UnixMilli())
	zap.L().Info("Simulated royalties distributed",
		zap.String("amount", amount.String()),
		zap.Int("holders", len(holders)),
		zap.String("tx_hash", txHash))
	return txHash, nil
}

// wait blocks for the configured artificial latency, honoring cancellation.
func (s *Service) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
