package sqlmapping

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
)

type mappingRow struct {
	id              string
	categoryId      string
	categoryName    string
	categoryType    string
	confidence      float64
	occurrenceCount int
}

// FindMappingsForPattern returns every mapping with a learned pattern
// token in common with p — spec §3's exact pattern match is a row-level
// token-membership test, not equality against the whole joined pattern.
func (s *Store) FindMappingsForPattern(ctx context.Context, p domain.TransactionPattern) ([]domain.CategoryMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT m.id, m.category_id, m.category_name, m.category_type, m.confidence, m.occurrence_count
		FROM category_mappings m
		JOIN category_mapping_patterns p ON p.mapping_id = m.id
		WHERE p.pattern = ANY($1)
		ORDER BY m.confidence DESC, m.occurrence_count DESC
	`, argsArray(p.Tokens()))
	if err != nil {
		return nil, apperr.StoreErrorFrom("failed to query mappings for pattern", err)
	}
	defer rows.Close()
	return s.hydrateRows(ctx, rows)
}

func (s *Store) FindBestMappingForPattern(ctx context.Context, p domain.TransactionPattern) (*domain.CategoryMapping, error) {
	matches, err := s.FindMappingsForPattern(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *Store) FindMappingsForCategory(ctx context.Context, c domain.Category) ([]domain.CategoryMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, category_name, category_type, confidence, occurrence_count
		FROM category_mappings
		WHERE category_id = $1
		ORDER BY confidence DESC, occurrence_count DESC
	`, string(c.Id()))
	if err != nil {
		return nil, apperr.StoreErrorFrom("failed to query mappings for category", err)
	}
	defer rows.Close()
	return s.hydrateRows(ctx, rows)
}

func (s *Store) FindMappingsContainingAnyPattern(ctx context.Context, patterns []domain.TransactionPattern) ([]domain.CategoryMapping, error) {
	var args []string
	for _, p := range patterns {
		args = append(args, p.Tokens()...)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT m.id, m.category_id, m.category_name, m.category_type, m.confidence, m.occurrence_count
		FROM category_mappings m
		JOIN category_mapping_patterns p ON p.mapping_id = m.id
		WHERE p.pattern = ANY($1)
		ORDER BY m.confidence DESC, m.occurrence_count DESC
	`, argsArray(args))
	if err != nil {
		return nil, apperr.StoreErrorFrom("failed to query mappings by pattern set", err)
	}
	defer rows.Close()
	return s.hydrateRows(ctx, rows)
}

func argsArray(values []string) interface{} {
	return pq.Array(values)
}

func (s *Store) hydrateRows(ctx context.Context, rows *sql.Rows) ([]domain.CategoryMapping, error) {
	var out []domain.CategoryMapping
	var raw []mappingRow
	for rows.Next() {
		var r mappingRow
		if err := rows.Scan(&r.id, &r.categoryId, &r.categoryName, &r.categoryType, &r.confidence, &r.occurrenceCount); err != nil {
			return nil, apperr.StoreErrorFrom("failed to scan mapping row", err)
		}
		raw = append(raw, r)
	}

	for _, r := range raw {
		patterns, err := s.loadPatterns(ctx, r.id)
		if err != nil {
			return nil, err
		}
		cat, err := domain.NewCategory(domain.CategoryId(r.categoryId), r.categoryName, domain.CategoryType(r.categoryType))
		if err != nil {
			continue
		}
		m, err := domain.Rehydrate(domain.CategoryMappingId(r.id), cat, patterns, r.confidence, r.occurrenceCount)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// loadPatterns reassembles a mapping's learned tokens into a single
// TransactionPattern. Since HasExactMatch and OverlapsAny only care
// whether *some* stored pattern intersects a candidate, and
// intersection distributes over union ((A∪B)∩C ≠ ∅ iff A∩C ≠ ∅ or
// B∩C ≠ ∅), unioning every persisted token into one pattern here is
// equivalent to tracking each originally observed pattern separately.
func (s *Store) loadPatterns(ctx context.Context, mappingId string) ([]domain.TransactionPattern, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pattern FROM category_mapping_patterns WHERE mapping_id = $1`, mappingId)
	if err != nil {
		return nil, apperr.StoreErrorFrom("failed to load patterns", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, apperr.StoreErrorFrom("failed to scan pattern row", err)
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	p, err := domain.PatternFromTokens(tokens)
	if err != nil {
		return nil, nil
	}
	return []domain.TransactionPattern{p}, nil
}
