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

package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrolink/internal/chain"
	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotAuthorized is returned when the current session lacks the role or
// farm binding an operation requires.
var ErrNotAuthorized = errors.New("not authorized")

// Service implements the storefront operations: browsing, offers, purchases,
// and batch minting. Chain calls are simulated and may fail; the store is
// only touched after the chain call confirms.
type Service struct {
	store store.MarketStore
	chain *chain.Service
	cfg   models.MarketConfig
}

func NewService(marketStore store.MarketStore, chainService *chain.Service, cfg models.MarketConfig) *Service {
	return &Service{
		store: marketStore,
		chain: chainService,
		cfg:   cfg,
	}
}

func (s *Service) Catalog(ctx context.Context) ([]models.CatalogEntry, error) {
	return s.store.GetCatalog(ctx)
}

func (s *Service) CatalogByFarm(ctx context.Context, farmId int64) ([]models.CatalogEntry, error) {
	return s.store.GetCatalogByFarm(ctx, farmId)
}

// SubmitOffer records a buyer's price proposal for a catalog entry. Prices
// below the configured floor are clamped up to it, not rejected.
func (s *Service) SubmitOffer(ctx context.Context, entryId int64, price decimal.Decimal) (*models.Offer, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.GetCatalogEntry(ctx, entryId)
	if err != nil {
		return nil, err
	}

	if price.LessThan(s.cfg.MinOfferPriceSOL) {
		zap.L().Info("Offer price below floor, clamping",
			zap.String("requested", price.String()),
			zap.String("floor", s.cfg.MinOfferPriceSOL.String()))
		price = s.cfg.MinOfferPriceSOL
	}

	offer := models.Offer{
		Id:        fmt.Sprintf("offer_%d_%d", time.Now().UnixMilli(), entry.Id),
		EntryId:   entry.Id,
		Buyer:     session.Username,
		PriceSOL:  price,
		Status:    models.OfferPending,
		CreatedAt: time.Now(),
	}

	if err := s.store.AppendOffer(ctx, offer); err != nil {
		return nil, err
	}

	zap.L().Info("Offer submitted",
		zap.String("offer_id", offer.Id),
		zap.Int64("entry_id", entry.Id),
		zap.String("buyer", offer.Buyer),
		zap.String("price_sol", price.String()))
	return &offer, nil
}

// MyOffers returns the current session's offers, newest first.
func (s *Service) MyOffers(ctx context.Context) ([]models.Offer, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetOffersByBuyer(ctx, session.Username)
}

// FarmOffers returns the incoming offers for the session's farm. Factory only.
func (s *Service) FarmOffers(ctx context.Context) ([]models.Offer, error) {
	session, err := s.requireFactory(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetOffersByFarm(ctx, session.FarmId)
}

// AcceptOffer lets the offer's farm accept a pending offer.
func (s *Service) AcceptOffer(ctx context.Context, id string) (*models.Offer, error) {
	if err := s.requireOfferOwnership(ctx, id); err != nil {
		return nil, err
	}
	return s.store.AcceptOffer(ctx, id)
}

// DeclineOffer lets the offer's farm decline a pending offer.
func (s *Service) DeclineOffer(ctx context.Context, id string) (*models.Offer, error) {
	if err := s.requireOfferOwnership(ctx, id); err != nil {
		return nil, err
	}
	return s.store.DeclineOffer(ctx, id)
}

// ShipOffer lets the offer's farm mark an accepted offer as shipped.
func (s *Service) ShipOffer(ctx context.Context, id string) (*models.Offer, error) {
	if err := s.requireOfferOwnership(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ShipOffer(ctx, id)
}

// Purchase buys a catalog entry outright at list price. The caller must have
// connected a wallet first; the simulated chain transaction settles outside
// the wallet ledger, so no balance is debited here.
func (s *Service) Purchase(ctx context.Context, entryId int64, walletPubkey string) (string, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(walletPubkey) == "" {
		return "", &store.ValidationError{Field: "wallet", Reason: "connect a wallet before purchasing"}
	}

	entry, err := s.store.GetCatalogEntry(ctx, entryId)
	if err != nil {
		return "", err
	}
	if entry.Owned {
		return "", fmt.Errorf("catalog entry %d: %w", entryId, store.ErrAlreadyOwned)
	}

	txHash, err := s.chain.Purchase(ctx, entry.Id, session.Username, entry.PriceSOL)
	if err != nil {
		return "", err
	}

	if err := s.store.MarkEntryOwned(ctx, entry.Id); err != nil {
		return "", err
	}

	zap.L().Info("Purchase completed",
		zap.Int64("entry_id", entry.Id),
		zap.String("buyer", session.Username),
		zap.String("tx_hash", txHash))
	return txHash, nil
}

// MintBatch mints a new batch collection for the session's farm.
func (s *Service) MintBatch(ctx context.Context, batch models.Batch, walletPubkey string) (string, error) {
	session, err := s.requireFactory(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(walletPubkey) == "" {
		return "", &store.ValidationError{Field: "wallet", Reason: "connect a wallet before minting"}
	}

	if strings.TrimSpace(batch.Title) == "" {
		return "", &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(batch.Products) == 0 {
		return "", &store.ValidationError{Field: "products", Reason: "select at least one product"}
	}
	if batch.FactorySharePct+batch.InvestorSharePct != 100 {
		return "", &store.ValidationError{Field: "shares", Reason: "factory and investor shares must sum to 100"}
	}

	collectionId, err := s.chain.MintCollection(ctx, batch, session.Username)
	if err != nil {
		return "", err
	}

	zap.L().Info("Batch minted",
		zap.String("collection_id", collectionId),
		zap.String("factory", session.Username),
		zap.Int64("farm_id", session.FarmId))
	return collectionId, nil
}

func (s *Service) requireFactory(ctx context.Context) (*models.Session, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session.Role != models.RoleFactory {
		return nil, fmt.Errorf("%s operations require a factory account: %w", session.Role, ErrNotAuthorized)
	}
	return session, nil
}

// requireOfferOwnership checks the session is a factory and the offer
// targets one of its own catalog entries.
func (s *Service) requireOfferOwnership(ctx context.Context, offerId string) error {
	session, err := s.requireFactory(ctx)
	if err != nil {
		return err
	}

	offer, err := s.store.GetOffer(ctx, offerId)
	if err != nil {
		return err
	}
	entry, err := s.store.GetCatalogEntry(ctx, offer.EntryId)
	if err != nil {
		return err
	}
	if entry.FarmId != session.FarmId {
		return fmt.Errorf("offer %s belongs to farm %d: %w", offerId, entry.FarmId, ErrNotAuthorized)
	}
	return nil
}
