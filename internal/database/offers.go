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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) AppendOffer(ctx context.Context, offer models.Offer) error {
	zap.L().Info("Appending offer",
		zap.String("offer_id", offer.Id),
		zap.Int64("entry_id", offer.EntryId),
		zap.String("buyer", offer.Buyer),
		zap.String("price_sol", offer.PriceSOL.String()))

	_, err := s.db.ExecContext(ctx, queryInsertOffer,
		offer.Id, offer.EntryId, offer.Buyer, offer.PriceSOL.String(), string(offer.Status), offer.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert offer", zap.String("offer_id", offer.Id), zap.Error(err))
		return fmt.Errorf("unable to insert offer: %w", err)
	}

	return nil
}

func (s *Service) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	row := s.db.QueryRowContext(ctx, queryGetOffer, id)
	offer, err := scanOffer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("offer %s: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	return offer, nil
}

func (s *Service) GetOffersByBuyer(ctx context.Context, buyer string) ([]models.Offer, error) {
	return s.queryOffers(ctx, queryGetOffersByBuyer, buyer)
}

func (s *Service) GetOffersByFarm(ctx context.Context, farmId int64) ([]models.Offer, error) {
	return s.queryOffers(ctx, queryGetOffersByFarm, farmId)
}

func (s *Service) queryOffers(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query offers", zap.Error(err))
		return nil, fmt.Errorf("unable to query offers: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows.Scan)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offer rows: %w", err)
	}

	return offers, nil
}

// AcceptOffer advances a pending offer to accepted and marks the target
// catalog entry owned, in one transaction. An entry already owned by a prior
// purchase is not treated as a conflict: last write wins, with a warning.
func (s *Service) AcceptOffer(ctx context.Context, id string) (*models.Offer, error) {
	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferPending {
		return nil, fmt.Errorf("offer %s is %s: %w", id, offer.Status, store.ErrInvalidTransition)
	}

	entry, err := s.GetCatalogEntry(ctx, offer.EntryId)
	if err != nil {
		return nil, err
	}
	if entry.Owned {
		zap.L().Warn("Accepting offer against already-owned entry",
			zap.String("offer_id", id),
			zap.Int64("entry_id", entry.Id))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryUpdateOfferStatus,
		string(models.OfferAccepted), id, string(models.OfferPending))
	if err != nil {
		return nil, fmt.Errorf("unable to update offer status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("offer %s changed underneath: %w", id, store.ErrConcurrentModification)
	}

	if _, err := tx.ExecContext(ctx, queryMarkEntryOwned, offer.EntryId); err != nil {
		return nil, fmt.Errorf("unable to mark entry owned: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit offer acceptance: %w", err)
	}

	zap.L().Info("Offer accepted",
		zap.String("offer_id", id),
		zap.Int64("entry_id", offer.EntryId),
		zap.String("buyer", offer.Buyer))

	offer.Status = models.OfferAccepted
	return offer, nil
}

// DeclineOffer advances a pending offer to declined. Declining an
// already-declined offer is a no-op so repeated clicks stay harmless.
func (s *Service) DeclineOffer(ctx context.Context, id string) (*models.Offer, error) {
	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}

	switch offer.Status {
	case models.OfferDeclined:
		zap.L().Info("Offer already declined", zap.String("offer_id", id))
		return offer, nil
	case models.OfferPending:
		// fall through to the update
	default:
		return nil, fmt.Errorf("offer %s is %s: %w", id, offer.Status, store.ErrInvalidTransition)
	}

	if err := s.updateOfferStatus(ctx, id, models.OfferPending, models.OfferDeclined); err != nil {
		return nil, err
	}

	zap.L().Info("Offer declined", zap.String("offer_id", id))
	offer.Status = models.OfferDeclined
	return offer, nil
}

// ShipOffer advances an accepted offer to shipped.
func (s *Service) ShipOffer(ctx context.Context, id string) (*models.Offer, error) {
	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferAccepted {
		return nil, fmt.Errorf("offer %s is %s: %w", id, offer.Status, store.ErrInvalidTransition)
	}

	if err := s.updateOfferStatus(ctx, id, models.OfferAccepted, models.OfferShipped); err != nil {
		return nil, err
	}

	zap.L().Info("Offer shipped", zap.String("offer_id", id))
	offer.Status = models.OfferShipped
	return offer, nil
}

func (s *Service) updateOfferStatus(ctx context.Context, id string, from, to models.OfferStatus) error {
	result, err := s.db.ExecContext(ctx, queryUpdateOfferStatus, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("unable to update offer status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("offer %s changed underneath: %w", id, store.ErrConcurrentModification)
	}
	return nil
}

func scanOffer(scan func(dest ...any) error) (*models.Offer, error) {
	var offer models.Offer
	var priceStr, status string
	if err := scan(&offer.Id, &offer.EntryId, &offer.Buyer, &priceStr, &status, &offer.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("unable to scan offer row: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse offer price '%s': %w", priceStr, err)
	}
	offer.PriceSOL = price
	offer.Status = models.OfferStatus(status)
	return &offer, nil
}
