package domain

import (
	"strings"

	"ynab-recon-engine/internal/apperr"
)

// AccountId identifies an account shared by both the bank feed and the
// YNAB budget.
type AccountId string

// BudgetId identifies a YNAB budget.
type BudgetId string

// TransactionId identifies either a bank or a YNAB transaction,
// depending on which struct embeds it.
type TransactionId string

// CategoryId identifies a category, either YNAB-assigned or inferred.
type CategoryId string

// CategoryMappingId identifies a learned category mapping.
type CategoryMappingId string

// NewAccountId validates and constructs an AccountId.
func NewAccountId(s string) (AccountId, error) {
	if isBlank(s) {
		return "", apperr.InvalidArgument("account id must not be blank")
	}
	return AccountId(s), nil
}

// NewBudgetId validates and constructs a BudgetId.
func NewBudgetId(s string) (BudgetId, error) {
	if isBlank(s) {
		return "", apperr.InvalidArgument("budget id must not be blank")
	}
	return BudgetId(s), nil
}

// NewTransactionId validates and constructs a TransactionId.
func NewTransactionId(s string) (TransactionId, error) {
	if isBlank(s) {
		return "", apperr.InvalidArgument("transaction id must not be blank")
	}
	return TransactionId(s), nil
}

// NewCategoryId validates and constructs a CategoryId.
func NewCategoryId(s string) (CategoryId, error) {
	if isBlank(s) {
		return "", apperr.InvalidArgument("category id must not be blank")
	}
	return CategoryId(s), nil
}

// NewCategoryMappingId validates and constructs a CategoryMappingId.
func NewCategoryMappingId(s string) (CategoryMappingId, error) {
	if isBlank(s) {
		return "", apperr.InvalidArgument("category mapping id must not be blank")
	}
	return CategoryMappingId(s), nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
