package mapping

import (
	"context"
	"sort"
	"sync"

	"ynab-recon-engine/internal/domain"
)

// MemoryStore is an in-process ports.MappingStore reference
// implementation, useful for tests and for running the engine without
// a database configured. A persistent deployment wires
// internal/adapter/sqlmapping instead.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[domain.CategoryMappingId]domain.CategoryMapping
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mappings: make(map[domain.CategoryMappingId]domain.CategoryMapping)}
}

// Save upserts m by id, replacing its pattern set wholesale.
func (s *MemoryStore) Save(_ context.Context, m domain.CategoryMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[m.Id()] = m
	return nil
}

// SaveAll applies Save in input order within a single lock scope.
func (s *MemoryStore) SaveAll(_ context.Context, ms []domain.CategoryMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range ms {
		s.mappings[m.Id()] = m
	}
	return nil
}

// FindMappingsForPattern returns every mapping with a non-empty token
// intersection against p (spec §3's exact pattern match, via
// CategoryMapping.HasExactMatch).
func (s *MemoryStore) FindMappingsForPattern(_ context.Context, p domain.TransactionPattern) ([]domain.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CategoryMapping
	for _, m := range s.mappings {
		if m.HasExactMatch(p) {
			out = append(out, m)
		}
	}
	sortByConfidenceThenOccurrence(out)
	return out, nil
}

func (s *MemoryStore) FindBestMappingForPattern(ctx context.Context, p domain.TransactionPattern) (*domain.CategoryMapping, error) {
	matches, err := s.FindMappingsForPattern(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	best := matches[0]
	return &best, nil
}

func (s *MemoryStore) FindMappingsForCategory(_ context.Context, c domain.Category) ([]domain.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CategoryMapping
	for _, m := range s.mappings {
		if m.Category().Id() == c.Id() {
			out = append(out, m)
		}
	}
	sortByConfidenceThenOccurrence(out)
	return out, nil
}

// FindMappingsContainingAnyPattern matches the same way
// FindMappingsForPattern does (non-empty token overlap) but against a
// whole batch of patterns at once, rather than a single query pattern —
// the learning store's conflict detection uses it to pull every mapping
// worth comparing against a candidate's full pattern set (spec §4.4).
func (s *MemoryStore) FindMappingsContainingAnyPattern(_ context.Context, patterns []domain.TransactionPattern) ([]domain.CategoryMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CategoryMapping
	for _, m := range s.mappings {
		for _, mp := range m.Patterns() {
			matched := false
			for _, p := range patterns {
				if mp.OverlapCoefficient(p) > 0 {
					matched = true
					break
				}
			}
			if matched {
				out = append(out, m)
				break
			}
		}
	}
	sortByConfidenceThenOccurrence(out)
	return out, nil
}

func sortByConfidenceThenOccurrence(ms []domain.CategoryMapping) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Confidence() != ms[j].Confidence() {
			return ms[i].Confidence() > ms[j].Confidence()
		}
		return ms[i].OccurrenceCount() > ms[j].OccurrenceCount()
	})
}
