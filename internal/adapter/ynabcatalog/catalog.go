// Package ynabcatalog implements ports.YnabCategoryCatalog as a thin,
// budget-scoped view over a ports.LedgerClient's category listing,
// filtering hidden/deleted entries at the boundary (spec §6).
package ynabcatalog

import (
	"context"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/ports"
)

// Catalog adapts a LedgerClient's raw category listing to
// ports.YnabCategoryCatalog for a single fixed budget.
type Catalog struct {
	client   ports.LedgerClient
	budgetId domain.BudgetId
}

func New(client ports.LedgerClient, budgetId domain.BudgetId) *Catalog {
	return &Catalog{client: client, budgetId: budgetId}
}

// ListAvailable returns every catalog category available for
// inference, excluding anything hidden or deleted.
func (c *Catalog) ListAvailable(ctx context.Context) ([]domain.YnabCategory, error) {
	all, err := c.client.ListCategories(ctx, c.budgetId)
	if err != nil {
		return nil, err
	}

	out := make([]domain.YnabCategory, 0, len(all))
	for _, cat := range all {
		if cat.IsAvailableForInference() {
			out = append(out, cat)
		}
	}
	return out, nil
}
