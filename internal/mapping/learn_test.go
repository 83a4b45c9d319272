package mapping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
)

func mustPattern(t *testing.T, merchant, description string) domain.TransactionPattern {
	t.Helper()
	p, err := domain.NewTransactionPattern(merchant, description)
	require.NoError(t, err)
	return p
}

func mustMapping(t *testing.T, id, categoryId, categoryName string, pattern domain.TransactionPattern, confidence float64) domain.CategoryMapping {
	t.Helper()
	cat, err := domain.NewCategory(domain.CategoryId(categoryId), categoryName, domain.CategoryBankInferred)
	require.NoError(t, err)
	m, err := domain.NewCategoryMapping(domain.CategoryMappingId(id), cat, pattern, confidence)
	require.NoError(t, err)
	return m
}

func TestLearn_RejectsLowConfidence(t *testing.T) {
	store := NewMemoryStore()
	pattern := mustPattern(t, "Starbucks", "coffee")
	low := mustMapping(t, "m1", "c1", "Dining", pattern, 0.1)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{low})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 0, resp.SavedNew)
}

func TestLearn_RejectsGenericTokenOnlyPatterns(t *testing.T) {
	store := NewMemoryStore()
	pattern := mustPattern(t, "Transfer", "Payment")
	m := mustMapping(t, "m1", "c1", "Transfers", pattern, 0.9)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{m})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Skipped)
}

func TestLearn_ConsolidatesBySamePatternSet(t *testing.T) {
	store := NewMemoryStore()
	pattern := mustPattern(t, "Starbucks", "coffee")
	a := mustMapping(t, "m1", "c1", "Dining", pattern, 0.5)
	b := mustMapping(t, "m2", "c1", "Dining", pattern, 0.6)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalRequested)
	assert.Equal(t, 1, resp.SavedNew+resp.UpdatedExisting)
}

func TestLearn_SkipsConflictingOverlapWithDifferentCategory(t *testing.T) {
	store := NewMemoryStore()
	existingPattern := mustPattern(t, "Uber Eats Delivery", "")
	existing := mustMapping(t, "existing", "dining", "Dining", existingPattern, 0.9)
	require.NoError(t, store.Save(context.Background(), existing))

	conflictingPattern := mustPattern(t, "Uber Eats", "")
	conflicting := mustMapping(t, "m1", "transport", "Transport", conflictingPattern, 0.8)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{conflicting})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Skipped)
	assert.NotEmpty(t, resp.Warnings)
}

func TestLearn_AcceptsNonConflicting(t *testing.T) {
	store := NewMemoryStore()
	pattern := mustPattern(t, "Starbucks", "coffee")
	m := mustMapping(t, "m1", "c1", "Dining", pattern, 0.5)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{m})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SavedNew)
	assert.Equal(t, 0, resp.Skipped)

	saved, err := store.FindMappingsForPattern(context.Background(), pattern)
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestLearn_CountsSumToTotalRequested(t *testing.T) {
	store := NewMemoryStore()
	p1 := mustPattern(t, "Starbucks", "coffee")
	p2 := mustPattern(t, "Lowconf", "merchant")
	m1 := mustMapping(t, "m1", "c1", "Dining", p1, 0.5)
	m2 := mustMapping(t, "m2", "c2", "Other", p2, 0.1)

	resp, err := Learn(context.Background(), store, []domain.CategoryMapping{m1, m2})
	require.NoError(t, err)
	assert.Equal(t, resp.TotalRequested, resp.SavedNew+resp.UpdatedExisting+resp.Skipped)
}

// TestMemoryStore_FindMappingsForPattern_OverlappingNotIdentical mirrors
// spec scenario S5: a stored single-token pattern still matches a
// richer query pattern that merely shares that token.
func TestMemoryStore_FindMappingsForPattern_OverlappingNotIdentical(t *testing.T) {
	store := NewMemoryStore()
	learned, err := domain.PatternFromTokens([]string{"starbucks"})
	require.NoError(t, err)
	m := mustMapping(t, "m1", "c1", "Dining", learned, 0.6)
	require.NoError(t, store.Save(context.Background(), m))

	richer := mustPattern(t, "Starbucks #4521", "coffee purchase")
	found, err := store.FindMappingsForPattern(context.Background(), richer)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.CategoryMappingId("m1"), found[0].Id())
}

func TestMemoryStore_FindBestMappingForPattern(t *testing.T) {
	store := NewMemoryStore()
	pattern := mustPattern(t, "Starbucks", "coffee")
	m := mustMapping(t, "m1", "c1", "Dining", pattern, 0.7)
	require.NoError(t, store.Save(context.Background(), m))

	best, err := store.FindBestMappingForPattern(context.Background(), pattern)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, domain.CategoryMappingId("m1"), best.Id())
}

func TestMemoryStore_FindMappingsForCategory_OrdersByConfidenceDesc(t *testing.T) {
	store := NewMemoryStore()
	cat, _ := domain.NewCategory("c1", "Dining", domain.CategoryBankInferred)
	p1 := mustPattern(t, "Starbucks", "")
	p2 := mustPattern(t, "McDonalds", "")
	low := mustMapping(t, "m1", "c1", "Dining", p1, 0.4)
	high := mustMapping(t, "m2", "c1", "Dining", p2, 0.8)
	require.NoError(t, store.SaveAll(context.Background(), []domain.CategoryMapping{low, high}))

	results, err := store.FindMappingsForCategory(context.Background(), cat)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.CategoryMappingId("m2"), results[0].Id())
}
