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

// SeedCatalog inserts catalog entries, skipping ids that already exist so
// repeated setup runs never reset owned flags.
func (s *Service) SeedCatalog(ctx context.Context, entries []models.CatalogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, entry := range entries {
		result, err := tx.ExecContext(ctx, queryInsertCatalogEntry,
			entry.Id, entry.Name, entry.PriceSOL.String(), entry.Image, entry.Caption, entry.FarmId, entry.Owned)
		if err != nil {
			return fmt.Errorf("unable to insert catalog entry %d: %w", entry.Id, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("unable to get rows affected: %w", err)
		}
		inserted += int(rowsAffected)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog seed: %w", err)
	}

	zap.L().Info("Catalog seeded",
		zap.Int("entries", len(entries)),
		zap.Int("inserted", inserted))
	return nil
}

func (s *Service) GetCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	return s.queryCatalog(ctx, queryGetCatalog)
}

func (s *Service) GetCatalogByFarm(ctx context.Context, farmId int64) ([]models.CatalogEntry, error) {
	return s.queryCatalog(ctx, queryGetCatalogByFarm, farmId)
}

func (s *Service) queryCatalog(ctx context.Context, query string, args ...any) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query catalog", zap.Error(err))
		return nil, fmt.Errorf("unable to query catalog: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.CatalogEntry
	for rows.Next() {
		entry, err := scanCatalogEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}

	return entries, nil
}

func (s *Service) GetCatalogEntry(ctx context.Context, id int64) (*models.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, queryGetCatalogEntry, id)
	entry, err := scanCatalogEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("catalog entry %d: %w", id, store.ErrNotFound)
		}
		return nil, err
	}
	return entry, nil
}

// MarkEntryOwned flips the owned flag to true. The flag never goes back;
// marking an already-owned entry is a no-op at this layer.
func (s *Service) MarkEntryOwned(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, queryMarkEntryOwned, id)
	if err != nil {
		return fmt.Errorf("unable to mark entry owned: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("catalog entry %d: %w", id, store.ErrNotFound)
	}

	zap.L().Info("Catalog entry marked owned", zap.Int64("entry_id", id))
	return nil
}

func (s *Service) CountOwnedEntries(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, queryCountOwnedEntries).Scan(&count); err != nil {
		return 0, fmt.Errorf("unable to count owned entries: %w", err)
	}
	return count, nil
}

func scanCatalogEntry(scan func(dest ...any) error) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	var priceStr string
	if err := scan(&entry.Id, &entry.Name, &priceStr, &entry.Image, &entry.Caption, &entry.FarmId, &entry.Owned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("unable to scan catalog row: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price '%s': %w", priceStr, err)
	}
	entry.PriceSOL = price
	return &entry, nil
}
