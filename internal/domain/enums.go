package domain

// CategoryType classifies the provenance of a Category.
type CategoryType string

const (
	CategoryYnabAssigned CategoryType = "YNAB_ASSIGNED"
	CategoryBankInferred CategoryType = "BANK_INFERRED"
	CategoryUnknown      CategoryType = "UNKNOWN"
)

// ClearedStatus mirrors YNAB's transaction cleared states.
type ClearedStatus string

const (
	Uncleared  ClearedStatus = "UNCLEARED"
	Cleared    ClearedStatus = "CLEARED"
	Reconciled ClearedStatus = "RECONCILED"
)

// Source distinguishes which feed a reconcilable transaction came from.
type Source string

const (
	SourceBank Source = "BANK"
	SourceYnab Source = "YNAB"
)

// TransactionType is the bank feed's debit/credit marker, used only as
// a fallback signal in BankTransaction.isDebit (spec §3).
type TransactionType string

const (
	TransactionDebit  TransactionType = "DEBIT"
	TransactionCredit TransactionType = "CREDIT"
)

// ImportStatus classifies the outcome of an import batch (spec §4.5).
type ImportStatus string

const (
	ImportSuccess        ImportStatus = "SUCCESS"
	ImportPartialSuccess ImportStatus = "PARTIAL_SUCCESS"
	ImportFailed         ImportStatus = "FAILED"
)
