// Package ports declares the abstract boundaries the core consumes.
// Every interface here is implemented by an adapter (HTTP client,
// CSV reader, Postgres store); the core never depends on a concrete
// transport, driver, or file format.
package ports

import (
	"context"
	"time"

	"ynab-recon-engine/internal/domain"
)

// Budget is the subset of a YNAB budget the core cares about.
type Budget struct {
	Id       domain.BudgetId
	Name     string
	Currency string
}

// Account is the subset of a YNAB account the core cares about.
type Account struct {
	Id     domain.AccountId
	Name   string
	Closed bool
}

// LedgerClient is the outbound port to the remote budgeting API.
// Implementations must map transport failures to apperr.LedgerError.
type LedgerClient interface {
	ListBudgets(ctx context.Context) ([]Budget, error)
	GetBudget(ctx context.Context, budgetId domain.BudgetId) (*Budget, error)
	ListAccounts(ctx context.Context, budgetId domain.BudgetId) ([]Account, error)
	ListCategories(ctx context.Context, budgetId domain.BudgetId) ([]domain.YnabCategory, error)
	ListTransactions(ctx context.Context, budgetId domain.BudgetId) ([]domain.YnabTransaction, error)
	ListTransactionsSince(ctx context.Context, budgetId domain.BudgetId, since time.Time) ([]domain.YnabTransaction, error)
	ListAccountTransactions(ctx context.Context, budgetId domain.BudgetId, accountId domain.AccountId) ([]domain.YnabTransaction, error)
	CreateTransaction(ctx context.Context, budgetId domain.BudgetId, txn domain.YnabTransaction) (domain.YnabTransaction, error)
	UpdateTransaction(ctx context.Context, budgetId domain.BudgetId, txnId domain.TransactionId, txn domain.YnabTransaction) (domain.YnabTransaction, error)
	IsHealthy(ctx context.Context) bool
}

// BankTransactionSource is the outbound, read-only port to the bank
// feed.
type BankTransactionSource interface {
	ListByAccountAndWindow(ctx context.Context, accountId domain.AccountId, from, to time.Time) ([]domain.BankTransaction, error)
	FindByIds(ctx context.Context, ids []domain.TransactionId) ([]domain.BankTransaction, error)
}

// YnabCategoryCatalog is the outbound, read-only port to the category
// catalog. Implementations must filter hidden/deleted entries at the
// boundary.
type YnabCategoryCatalog interface {
	ListAvailable(ctx context.Context) ([]domain.YnabCategory, error)
}

// MappingStore is the outbound, read/write port to the learned
// mapping dictionary (spec §4.4).
type MappingStore interface {
	Save(ctx context.Context, m domain.CategoryMapping) error
	SaveAll(ctx context.Context, ms []domain.CategoryMapping) error
	FindMappingsForPattern(ctx context.Context, p domain.TransactionPattern) ([]domain.CategoryMapping, error)
	FindBestMappingForPattern(ctx context.Context, p domain.TransactionPattern) (*domain.CategoryMapping, error)
	FindMappingsForCategory(ctx context.Context, c domain.Category) ([]domain.CategoryMapping, error)
	FindMappingsContainingAnyPattern(ctx context.Context, patterns []domain.TransactionPattern) ([]domain.CategoryMapping, error)
}
