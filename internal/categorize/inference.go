package categorize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/pkg/logger"
)

// Constants from spec §4.3.
const (
	MinConfidence         = 0.3
	LearnedBoost          = 0.2
	FallbackDamping       = 0.8
	DescriptionDamping    = 0.9
	ExpensePatternDamping = 0.8
)

// InferenceResult is the pipeline's positive outcome.
type InferenceResult struct {
	Category   domain.Category
	Confidence float64
	Reasoning  string
}

// Infer runs the category inference pipeline for a single transaction.
// It is a pure function of its three inputs (spec I5): no hidden
// state, no IO.
func Infer(tx domain.BankTransaction, catalog []domain.YnabCategory, mappings []domain.CategoryMapping) (InferenceResult, bool) {
	if len(catalog) == 0 {
		return InferenceResult{}, false
	}

	pattern, err := domain.NewTransactionPattern(tx.MerchantName, tx.Description)
	if err == nil {
		if result, ok := exactPatternMatch(pattern, mappings); ok {
			return result, true
		}
	}

	return similarityFallback(tx, catalog)
}

// exactPatternMatch selects, among mappings with an exact pattern
// match, the one with the highest (confidence, occurrenceCount).
func exactPatternMatch(pattern domain.TransactionPattern, mappings []domain.CategoryMapping) (InferenceResult, bool) {
	var candidates []domain.CategoryMapping
	for _, m := range mappings {
		if m.HasExactMatch(pattern) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return InferenceResult{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence() != candidates[j].Confidence() {
			return candidates[i].Confidence() > candidates[j].Confidence()
		}
		return candidates[i].OccurrenceCount() > candidates[j].OccurrenceCount()
	})

	best := candidates[0]
	return InferenceResult{
		Category:   best.Category(),
		Confidence: math.Min(1.0, best.Confidence()+LearnedBoost),
		Reasoning:  fmt.Sprintf("Exact pattern match (mapping %s)", best.Id()),
	}, true
}

type scoredCategory struct {
	category domain.YnabCategory
	score    float64
	source   string
}

// similarityFallback scores every catalog category against the
// transaction's merchant name, description, and keyword-combined text,
// keeping the best candidate that clears MinConfidence.
func similarityFallback(tx domain.BankTransaction, catalog []domain.YnabCategory) (InferenceResult, bool) {
	var best *scoredCategory

	combined := strings.ToLower(strings.TrimSpace(tx.MerchantName + " " + tx.Description))

	for _, c := range catalog {
		if !c.IsAvailableForInference() {
			continue
		}

		if score, ok := candidateScore(c.Similarity(tx.MerchantName), len(strings.TrimSpace(tx.MerchantName)) >= 3, 1.0); ok {
			best = keepBest(best, scoredCategory{c, score, "merchant"})
		}
		if score, ok := candidateScore(c.Similarity(tx.Description), len(strings.TrimSpace(tx.Description)) >= 3, DescriptionDamping); ok {
			best = keepBest(best, scoredCategory{c, score, "description"})
		}
		if keywordHit(c, combined) {
			if score, ok := candidateScore(c.Similarity(combined), true, ExpensePatternDamping); ok {
				best = keepBest(best, scoredCategory{c, score, "keyword"})
			}
		}
	}

	if best == nil {
		logger.GetLogger().WithField("transaction_id", string(tx.Id)).Debug("no category inference candidate cleared threshold")
		return InferenceResult{}, false
	}

	return InferenceResult{
		Category:   best.category.ToCategory(),
		Confidence: best.score * FallbackDamping,
		Reasoning:  fmt.Sprintf("Fallback similarity match: %s (%s)", best.category.Name(), best.source),
	}, true
}

func candidateScore(raw float64, eligible bool, damping float64) (float64, bool) {
	if !eligible {
		return 0, false
	}
	score := raw * damping
	if score < MinConfidence {
		return 0, false
	}
	return score, true
}

func keywordHit(c domain.YnabCategory, combined string) bool {
	if combined == "" {
		return false
	}
	for _, kw := range c.InferenceKeywords() {
		if kw != "" && strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

func keepBest(current *scoredCategory, candidate scoredCategory) *scoredCategory {
	if current == nil || candidate.score > current.score {
		c := candidate
		return &c
	}
	return current
}

// InferBatch runs Infer across a batch of transactions, reusing a
// single catalog/mappings fetch. Transactions already carrying a
// non-unknown inferred category are passed through unchanged with
// confidence 1.0 (spec §4.3). A nil entry means no candidate cleared
// threshold for that transaction.
func InferBatch(txns []domain.BankTransaction, catalog []domain.YnabCategory, mappings []domain.CategoryMapping) []*InferenceResult {
	results := make([]*InferenceResult, len(txns))
	for i, tx := range txns {
		if tx.HasCategoryInferred() {
			results[i] = &InferenceResult{
				Category:   tx.InferredCategory,
				Confidence: 1.0,
				Reasoning:  "Previously inferred",
			}
			continue
		}
		if result, ok := Infer(tx, catalog, mappings); ok {
			r := result
			results[i] = &r
		}
	}
	return results
}
