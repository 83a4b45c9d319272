package domain

import (
	"math"

	"ynab-recon-engine/internal/apperr"
)

// MinConfidence is the lowest confidence a learned mapping may carry;
// the learning store rejects anything below this (spec §4.4).
const MinConfidence = 0.3

// HighConfidenceThreshold marks a mapping as reliable enough to apply
// without corroboration from the similarity fallback.
const HighConfidenceThreshold = 0.75

// CategoryMapping is a learned association between a set of transaction
// text patterns and a category, strengthened by repeated occurrence.
type CategoryMapping struct {
	id              CategoryMappingId
	category        Category
	patterns        []TransactionPattern
	confidence      float64
	occurrenceCount int
}

// NewCategoryMapping validates and constructs a CategoryMapping with a
// single seed pattern and occurrence count of 1.
func NewCategoryMapping(id CategoryMappingId, category Category, pattern TransactionPattern, confidence float64) (CategoryMapping, error) {
	if isBlank(string(id)) {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping id must not be blank")
	}
	if pattern.IsEmpty() {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping requires a non-empty pattern")
	}
	if confidence < 0 || confidence > 1 {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping confidence must be within [0, 1]")
	}
	return CategoryMapping{
		id:              id,
		category:        category,
		patterns:        []TransactionPattern{pattern},
		confidence:      confidence,
		occurrenceCount: 1,
	}, nil
}

// Rehydrate reconstructs a CategoryMapping with explicit occurrence
// count and pattern set, as loaded back from a store or consolidated
// from several candidates. Unlike NewCategoryMapping it does not force
// occurrenceCount to 1, so callers must have already validated the
// inputs (store rows, or a consolidation step that computed its own
// confidence formula).
func Rehydrate(id CategoryMappingId, category Category, patterns []TransactionPattern, confidence float64, occurrenceCount int) (CategoryMapping, error) {
	if isBlank(string(id)) {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping id must not be blank")
	}
	if len(patterns) == 0 {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping requires a non-empty pattern set")
	}
	if confidence < 0 || confidence > 1 {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping confidence must be within [0, 1]")
	}
	if occurrenceCount < 1 {
		return CategoryMapping{}, apperr.InvalidArgument("category mapping occurrence count must be at least 1")
	}
	return CategoryMapping{
		id:              id,
		category:        category,
		patterns:        patterns,
		confidence:      confidence,
		occurrenceCount: occurrenceCount,
	}, nil
}

func (m CategoryMapping) Id() CategoryMappingId          { return m.id }
func (m CategoryMapping) Category() Category             { return m.category }
func (m CategoryMapping) Confidence() float64             { return m.confidence }
func (m CategoryMapping) OccurrenceCount() int            { return m.occurrenceCount }
func (m CategoryMapping) Patterns() []TransactionPattern { return m.patterns }

// IsHighConfidence reports whether m's confidence clears
// HighConfidenceThreshold.
func (m CategoryMapping) IsHighConfidence() bool {
	return m.confidence >= HighConfidenceThreshold
}

// HasExactMatch reports whether any of m's patterns shares at least one
// token with candidate — spec §3's "exact pattern match": set
// membership against the learned token dictionary, not full-pattern
// equality and not the similarity fallback's fuzzy scoring.
func (m CategoryMapping) HasExactMatch(candidate TransactionPattern) bool {
	for _, p := range m.patterns {
		if p.OverlapRatio(candidate) > 0 {
			return true
		}
	}
	return false
}

// hasIdenticalPattern reports whether any of m's patterns is the exact
// same token set as candidate, used to dedupe before appending a new
// observed pattern.
func (m CategoryMapping) hasIdenticalPattern(candidate TransactionPattern) bool {
	for _, p := range m.patterns {
		if p.Equal(candidate) {
			return true
		}
	}
	return false
}

// WithNewOccurrence returns a copy of m with occurrenceCount
// incremented and confidence raised monotonically, bounded at 1.0
// (spec §4.4: confidence grows with diminishing returns as occurrences
// accumulate).
func (m CategoryMapping) WithNewOccurrence() CategoryMapping {
	m.occurrenceCount++
	increment := math.Min(0.1, 0.1/math.Sqrt(float64(m.occurrenceCount)))
	m.confidence = math.Min(1.0, m.confidence+increment)
	return m
}

// WithAdditionalPattern returns a copy of m with candidate appended to
// its pattern set, unless an equal pattern is already present.
func (m CategoryMapping) WithAdditionalPattern(candidate TransactionPattern) CategoryMapping {
	if m.hasIdenticalPattern(candidate) {
		return m
	}
	next := make([]TransactionPattern, len(m.patterns), len(m.patterns)+1)
	copy(next, m.patterns)
	next = append(next, candidate)
	m.patterns = next
	return m
}

// OverlapsAny reports the highest overlap coefficient between
// candidate and any of m's patterns — the measure the mapping store's
// conflict detection thresholds at 0.5 (spec §4.4).
func (m CategoryMapping) OverlapsAny(candidate TransactionPattern) float64 {
	max := 0.0
	for _, p := range m.patterns {
		if r := p.OverlapCoefficient(candidate); r > max {
			max = r
		}
	}
	return max
}
