package mapping

import (
	"context"
	"math"
	"sort"
	"strings"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/ports"
	"ynab-recon-engine/pkg/logger"
)

// genericTokenBlocklist holds tokens too generic to ground a pattern on
// their own (spec §4.4). It is unexported, so only this package can
// extend it.
var genericTokenBlocklist = map[string]struct{}{
	"transfer":   {},
	"payment":    {},
	"fee":        {},
	"atm":        {},
	"deposit":    {},
	"withdrawal": {},
	"purchase":   {},
	"debit":      {},
	"credit":     {},
}

// LearnResponse reports the outcome of a SaveCategoryMappings batch
// (spec §4.4). savedNew + updatedExisting + skipped must equal
// totalRequested.
type LearnResponse struct {
	TotalRequested  int
	SavedNew        int
	UpdatedExisting int
	Skipped         int
	Warnings        []string
	Errors          []error
}

// Learn consolidates and persists a batch of candidate mappings
// produced from successful categorizations.
func Learn(ctx context.Context, store ports.MappingStore, candidates []domain.CategoryMapping) (LearnResponse, error) {
	resp := LearnResponse{TotalRequested: len(candidates)}
	log := logger.GetLogger().WithField("candidate_count", len(candidates))
	log.Info("starting mapping consolidation")

	var surviving []domain.CategoryMapping
	for _, c := range candidates {
		if c.Confidence() < domain.MinConfidence {
			resp.Skipped++
			continue
		}
		if onlyGenericTokens(c) {
			resp.Skipped++
			continue
		}
		surviving = append(surviving, c)
	}

	consolidated := consolidateByPatternSet(surviving)

	var toPersist []domain.CategoryMapping
	for _, c := range consolidated {
		conflict, warning := checkConflict(ctx, store, c)
		if conflict {
			resp.Skipped++
			resp.Warnings = append(resp.Warnings, warning)
			continue
		}
		toPersist = append(toPersist, c)
	}

	if len(toPersist) > 0 {
		if err := store.SaveAll(ctx, toPersist); err != nil {
			wrapped := apperr.StoreErrorFrom("failed to persist mappings", err)
			resp.Errors = append(resp.Errors, wrapped)
			return resp, wrapped
		}
	}

	for _, c := range toPersist {
		if c.OccurrenceCount() > 1 {
			resp.UpdatedExisting++
		} else {
			resp.SavedNew++
		}
	}

	log.WithField("saved_new", resp.SavedNew).
		WithField("updated_existing", resp.UpdatedExisting).
		WithField("skipped", resp.Skipped).
		Info("mapping consolidation completed")

	return resp, nil
}

func onlyGenericTokens(m domain.CategoryMapping) bool {
	for _, p := range m.Patterns() {
		for _, tok := range p.Tokens() {
			if _, generic := genericTokenBlocklist[tok]; !generic {
				return false
			}
		}
	}
	return true
}

// consolidateByPatternSet groups candidates with an identical pattern
// set into a single mapping per spec §4.4 step 3.
func consolidateByPatternSet(candidates []domain.CategoryMapping) []domain.CategoryMapping {
	type group struct {
		members []domain.CategoryMapping
	}

	var groups []*group
	for _, c := range candidates {
		placed := false
		for _, g := range groups {
			if samePatternSet(g.members[0], c) {
				g.members = append(g.members, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &group{members: []domain.CategoryMapping{c}})
		}
	}

	out := make([]domain.CategoryMapping, 0, len(groups))
	for _, g := range groups {
		out = append(out, consolidateGroup(g.members))
	}
	return out
}

func samePatternSet(a, b domain.CategoryMapping) bool {
	ap, bp := a.Patterns(), b.Patterns()
	if len(ap) != len(bp) {
		return false
	}
	for _, p := range ap {
		found := false
		for _, q := range bp {
			if p.Equal(q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func consolidateGroup(members []domain.CategoryMapping) domain.CategoryMapping {
	if len(members) == 1 {
		return members[0]
	}

	totalOccurrences := 0
	maxConfidence := 0.0
	for _, m := range members {
		totalOccurrences += m.OccurrenceCount()
		if m.Confidence() > maxConfidence {
			maxConfidence = m.Confidence()
		}
	}

	confidence := math.Min(0.95, maxConfidence+0.05*math.Log2(float64(1+totalOccurrences-1)))

	base := members[0]
	consolidated, err := domain.Rehydrate(base.Id(), base.Category(), base.Patterns(), confidence, totalOccurrences)
	if err != nil {
		return base
	}
	return consolidated
}

// checkConflict compares candidate against existing store mappings of
// any category that share a token with it, ignoring those of the
// candidate's own category: overlap coefficient ≥ 0.5 against a
// mapping for a *different* category is a conflict.
func checkConflict(ctx context.Context, store ports.MappingStore, candidate domain.CategoryMapping) (bool, string) {
	existing, err := store.FindMappingsContainingAnyPattern(ctx, candidate.Patterns())
	if err != nil {
		return false, ""
	}

	for _, e := range existing {
		if e.Category().Id() == candidate.Category().Id() {
			continue
		}
		for _, cp := range candidate.Patterns() {
			if e.OverlapsAny(cp) >= 0.5 {
				return true, conflictWarning(candidate, e)
			}
		}
	}
	return false, ""
}

func conflictWarning(candidate, existing domain.CategoryMapping) string {
	var b strings.Builder
	b.WriteString("mapping for category ")
	b.WriteString(string(candidate.Category().Id()))
	b.WriteString(" conflicts with existing mapping for category ")
	b.WriteString(string(existing.Category().Id()))
	return b.String()
}

// FindBest resolves the best applicable mapping for a pattern,
// ordering candidates by (confidence desc, occurrenceCount desc) per
// spec §4.4.
func FindBest(ctx context.Context, store ports.MappingStore, p domain.TransactionPattern) (*domain.CategoryMapping, error) {
	matches, err := store.FindMappingsForPattern(ctx, p)
	if err != nil {
		return nil, apperr.StoreErrorFrom("failed to query mappings for pattern", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence() != matches[j].Confidence() {
			return matches[i].Confidence() > matches[j].Confidence()
		}
		return matches[i].OccurrenceCount() > matches[j].OccurrenceCount()
	})
	best := matches[0]
	return &best, nil
}
