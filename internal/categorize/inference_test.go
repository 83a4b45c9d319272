package categorize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/money"
)

func txWith(merchant, description string) domain.BankTransaction {
	tx, err := domain.NewBankTransaction("b1", "acc1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), money.OfMilliunits(-10000), description)
	if err != nil {
		panic(err)
	}
	tx.MerchantName = merchant
	return tx
}

func TestInfer_EmptyCatalog_ReturnsNone(t *testing.T) {
	tx := txWith("Starbucks", "coffee purchase")
	_, ok := Infer(tx, nil, nil)
	assert.False(t, ok)
}

func TestInfer_ExactPatternMatch_AppliesLearnedBoost(t *testing.T) {
	tx := txWith("Starbucks", "coffee purchase")
	pattern, err := domain.NewTransactionPattern("Starbucks", "coffee purchase")
	require.NoError(t, err)

	cat, _ := domain.NewCategory("c1", "Dining Out", domain.CategoryBankInferred)
	mapping, err := domain.NewCategoryMapping("m1", cat, pattern, 0.6)
	require.NoError(t, err)

	catalog := []domain.YnabCategory{}
	result, ok := Infer(tx, append(catalog, mustYnabCategory("c1", "Dining Out", "Food")), []domain.CategoryMapping{mapping})
	require.True(t, ok)
	assert.Equal(t, cat.Id(), result.Category.Id())
	assert.InDelta(t, 0.8, result.Confidence, 0.0001)
}

// TestInfer_ExactPatternMatch_OverlappingNotIdentical mirrors spec
// scenario S5: a mapping learned from a single-token pattern still
// fires the exact-match path against a transaction whose pattern
// merely shares that token, rather than falling through to the
// similarity fallback.
func TestInfer_ExactPatternMatch_OverlappingNotIdentical(t *testing.T) {
	tx := txWith("Starbucks #4521", "")
	learned, err := domain.PatternFromTokens([]string{"starbucks"})
	require.NoError(t, err)

	cat, _ := domain.NewCategory("c1", "Dining Out", domain.CategoryBankInferred)
	mapping, err := domain.NewCategoryMapping("m1", cat, learned, 0.6)
	require.NoError(t, err)

	result, ok := Infer(tx, []domain.YnabCategory{mustYnabCategory("c1", "Dining Out", "Food")}, []domain.CategoryMapping{mapping})
	require.True(t, ok)
	assert.Equal(t, cat.Id(), result.Category.Id())
	assert.Contains(t, result.Reasoning, "Exact pattern match")
}

func TestInfer_SimilarityFallback_MerchantNameContainsCategory(t *testing.T) {
	tx := txWith("Dining Out Express", "")
	catalog := []domain.YnabCategory{mustYnabCategory("c1", "Dining Out", "Food")}

	result, ok := Infer(tx, catalog, nil)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryId("c1"), result.Category.Id())
	assert.InDelta(t, 1.0*FallbackDamping, result.Confidence, 0.0001)
}

func TestInfer_SimilarityFallback_BelowThreshold_ReturnsNone(t *testing.T) {
	tx := txWith("Unrelated Merchant", "no signal here")
	catalog := []domain.YnabCategory{mustYnabCategory("c1", "Dining Out", "Food")}

	_, ok := Infer(tx, catalog, nil)
	assert.False(t, ok)
}

func TestInfer_HiddenCategory_Excluded(t *testing.T) {
	tx := txWith("Dining Out", "")
	hidden, _ := domain.NewYnabCategory("c1", "Dining Out", "g1", "Food", true, false)
	_, ok := Infer(tx, []domain.YnabCategory{hidden}, nil)
	assert.False(t, ok)
}

func TestInferBatch_PreviouslyInferred_SkipsPipeline(t *testing.T) {
	tx := txWith("Starbucks", "coffee")
	cat, _ := domain.NewCategory("c1", "Dining", domain.CategoryYnabAssigned)
	tx = tx.WithInferredCategory(cat)

	results := InferBatch([]domain.BankTransaction{tx}, nil, nil)
	require.Len(t, results, 1)
	require.NotNil(t, results[0])
	assert.Equal(t, 1.0, results[0].Confidence)
	assert.Equal(t, "Previously inferred", results[0].Reasoning)
}

func mustYnabCategory(id, name, group string) domain.YnabCategory {
	c, err := domain.NewYnabCategory(domain.CategoryId(id), name, "g1", group, false, false)
	if err != nil {
		panic(err)
	}
	return c
}
