package ynabcatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/ports"
)

type fakeLedgerClient struct {
	ports.LedgerClient
	categories []domain.YnabCategory
}

func (f *fakeLedgerClient) ListCategories(ctx context.Context, budgetId domain.BudgetId) ([]domain.YnabCategory, error) {
	return f.categories, nil
}

func mustCategory(t *testing.T, name string, hidden, deleted bool) domain.YnabCategory {
	t.Helper()
	c, err := domain.NewYnabCategory(domain.CategoryId(name), name, "group1", "Group One", hidden, deleted)
	require.NoError(t, err)
	return c
}

func TestListAvailable_FiltersHiddenAndDeleted(t *testing.T) {
	visible := mustCategory(t, "Groceries", false, false)
	hidden := mustCategory(t, "Old Category", true, false)
	deleted := mustCategory(t, "Removed Category", false, true)

	client := &fakeLedgerClient{categories: []domain.YnabCategory{visible, hidden, deleted}}
	catalog := New(client, domain.BudgetId("budget-1"))

	out, err := catalog.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "Groceries", out[0].Name())
}
