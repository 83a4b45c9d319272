package domain

import (
	"strings"
	"time"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/money"
)

// BankTransaction is an immutable snapshot of a bank feed entry. All
// transforms (e.g. WithInferredCategory) return a new value.
type BankTransaction struct {
	Id               TransactionId
	AccountId        AccountId
	Date             time.Time
	Amount           money.Money
	Description      string
	MerchantName     string
	Memo             string
	TransactionType  TransactionType
	Reference        string
	InferredCategory Category
}

// NewBankTransaction validates and constructs a BankTransaction. The
// inferred category starts at Unknown() unless overridden by the
// caller.
func NewBankTransaction(
	id TransactionId,
	accountId AccountId,
	date time.Time,
	amount money.Money,
	description string,
) (BankTransaction, error) {
	if isBlank(string(id)) {
		return BankTransaction{}, apperr.InvalidArgument("bank transaction id must not be blank")
	}
	if isBlank(string(accountId)) {
		return BankTransaction{}, apperr.InvalidArgument("bank transaction account id must not be blank")
	}
	return BankTransaction{
		Id:               id,
		AccountId:        accountId,
		Date:             date,
		Amount:           amount,
		Description:      description,
		InferredCategory: Unknown(),
	}, nil
}

// DisplayName returns MerchantName when non-blank, else Description.
func (t BankTransaction) DisplayName() string {
	if !isBlank(t.MerchantName) {
		return t.MerchantName
	}
	return t.Description
}

// IsDebit reports whether the transaction is a debit: negative amount,
// or an explicit "DEBIT" transaction type (case-insensitive).
func (t BankTransaction) IsDebit() bool {
	if t.Amount.IsNegative() {
		return true
	}
	return strings.EqualFold(string(t.TransactionType), string(TransactionDebit))
}

// HasCategoryInferred reports whether InferredCategory has been set to
// something other than the Unknown() sentinel.
func (t BankTransaction) HasCategoryInferred() bool {
	return !t.InferredCategory.IsUnknown()
}

// WithInferredCategory returns a copy of t with InferredCategory
// replaced.
func (t BankTransaction) WithInferredCategory(c Category) BankTransaction {
	t.InferredCategory = c
	return t
}

// YnabTransaction is an immutable snapshot of a transaction as recorded
// in the remote budget.
type YnabTransaction struct {
	Id            TransactionId
	AccountId     AccountId
	Date          time.Time
	Amount        money.Money
	PayeeName     string
	Memo          string
	Category      Category
	ClearedStatus ClearedStatus
	Approved      bool
	FlagColor     string
}

// NewYnabTransaction validates and constructs a YnabTransaction.
func NewYnabTransaction(
	id TransactionId,
	accountId AccountId,
	date time.Time,
	amount money.Money,
	category Category,
	clearedStatus ClearedStatus,
) (YnabTransaction, error) {
	if isBlank(string(id)) {
		return YnabTransaction{}, apperr.InvalidArgument("ynab transaction id must not be blank")
	}
	if isBlank(string(accountId)) {
		return YnabTransaction{}, apperr.InvalidArgument("ynab transaction account id must not be blank")
	}
	return YnabTransaction{
		Id:            id,
		AccountId:     accountId,
		Date:          date,
		Amount:        amount,
		Category:      category,
		ClearedStatus: clearedStatus,
	}, nil
}

// IsReconciled reports whether the transaction has been bank-reconciled
// in YNAB.
func (t YnabTransaction) IsReconciled() bool {
	return t.ClearedStatus == Reconciled
}

// DisplayName returns the payee name, or "Unknown Payee" when blank.
func (t YnabTransaction) DisplayName() string {
	if !isBlank(t.PayeeName) {
		return t.PayeeName
	}
	return "Unknown Payee"
}

// Reconcilable is the capability bundle the matching/reconciliation
// engine consumes. Both BankTransaction and YnabTransaction satisfy it;
// the engine is otherwise indifferent to the concrete source type
// (spec §9 Design Notes).
type Reconcilable interface {
	ReconcileId() TransactionId
	ReconcileAccountId() AccountId
	ReconcileDate() time.Time
	ReconcileAmount() money.Money
	ReconcileDisplayName() string
	ReconcileCategory() Category
	ReconcileSource() Source
}

func (t BankTransaction) ReconcileId() TransactionId    { return t.Id }
func (t BankTransaction) ReconcileAccountId() AccountId { return t.AccountId }
func (t BankTransaction) ReconcileDate() time.Time      { return t.Date }
func (t BankTransaction) ReconcileAmount() money.Money  { return t.Amount }
func (t BankTransaction) ReconcileDisplayName() string  { return t.DisplayName() }
func (t BankTransaction) ReconcileCategory() Category   { return t.InferredCategory }
func (t BankTransaction) ReconcileSource() Source       { return SourceBank }

func (t YnabTransaction) ReconcileId() TransactionId    { return t.Id }
func (t YnabTransaction) ReconcileAccountId() AccountId { return t.AccountId }
func (t YnabTransaction) ReconcileDate() time.Time      { return t.Date }
func (t YnabTransaction) ReconcileAmount() money.Money  { return t.Amount }
func (t YnabTransaction) ReconcileDisplayName() string  { return t.DisplayName() }
func (t YnabTransaction) ReconcileCategory() Category   { return t.Category }
func (t YnabTransaction) ReconcileSource() Source       { return SourceYnab }
