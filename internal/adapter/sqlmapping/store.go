// Package sqlmapping implements ports.MappingStore against Postgres,
// grounded on the repository package's Begin/Prepare/Exec/Commit
// pattern, adapted to the two-table mapping schema (spec §6).
package sqlmapping

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/pkg/logger"
)

// Store is a database/sql-backed ports.MappingStore implementation.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save upserts m by id, replacing its pattern set atomically
// (delete-then-insert within a single transaction, spec §4.4).
func (s *Store) Save(ctx context.Context, m domain.CategoryMapping) error {
	return s.saveAll(ctx, []domain.CategoryMapping{m})
}

// SaveAll applies Save in input order within a single atomic scope;
// any failure rolls the whole batch back.
func (s *Store) SaveAll(ctx context.Context, ms []domain.CategoryMapping) error {
	return s.saveAll(ctx, ms)
}

func (s *Store) saveAll(ctx context.Context, ms []domain.CategoryMapping) error {
	if len(ms) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("failed to begin mapping store transaction")
		return apperr.StoreErrorFrom("failed to begin transaction", err)
	}
	defer tx.Rollback()

	upsertMapping, err := tx.PrepareContext(ctx, `
		INSERT INTO category_mappings (id, category_id, category_name, category_type, confidence, occurrence_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			category_type = EXCLUDED.category_type,
			confidence = EXCLUDED.confidence,
			occurrence_count = EXCLUDED.occurrence_count,
			updated_at = now()
	`)
	if err != nil {
		return apperr.StoreErrorFrom("failed to prepare mapping upsert", err)
	}
	defer upsertMapping.Close()

	deletePatterns, err := tx.PrepareContext(ctx, `DELETE FROM category_mapping_patterns WHERE mapping_id = $1`)
	if err != nil {
		return apperr.StoreErrorFrom("failed to prepare pattern delete", err)
	}
	defer deletePatterns.Close()

	insertPattern, err := tx.PrepareContext(ctx, `
		INSERT INTO category_mapping_patterns (mapping_id, pattern) VALUES ($1, $2)
		ON CONFLICT (mapping_id, pattern) DO NOTHING
	`)
	if err != nil {
		return apperr.StoreErrorFrom("failed to prepare pattern insert", err)
	}
	defer insertPattern.Close()

	for _, m := range ms {
		cat := m.Category()
		if _, err := upsertMapping.ExecContext(ctx, string(m.Id()), string(cat.Id()), cat.Name(), string(cat.Type()), m.Confidence(), m.OccurrenceCount()); err != nil {
			logger.GetLogger().WithError(err).WithField("mapping_id", string(m.Id())).Error("failed to upsert mapping")
			return apperr.StoreErrorFrom("failed to upsert mapping", err)
		}
		if _, err := deletePatterns.ExecContext(ctx, string(m.Id())); err != nil {
			return apperr.StoreErrorFrom("failed to clear existing patterns", err)
		}
		for tok := range uniqueTokens(m.Patterns()) {
			if _, err := insertPattern.ExecContext(ctx, string(m.Id()), tok); err != nil {
				return apperr.StoreErrorFrom("failed to insert pattern", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("failed to commit mapping store transaction")
		return apperr.StoreErrorFrom("failed to commit transaction", err)
	}
	return nil
}

// uniqueTokens flattens every pattern's tokens into one set: each row
// in category_mapping_patterns holds a single normalized token (spec
// §6), not a whole joined pattern, so that a query can match on
// individual token membership rather than full-pattern equality.
func uniqueTokens(patterns []domain.TransactionPattern) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range patterns {
		for _, tok := range p.Tokens() {
			out[tok] = struct{}{}
		}
	}
	return out
}
