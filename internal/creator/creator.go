package creator

import (
	"context"
	"fmt"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/ports"
	"ynab-recon-engine/pkg/logger"
)

const maxMissingPerCall = 100

// TransactionCreationResult classifies the outcome of submitting one
// missing bank transaction to the ledger. Exactly one of NewYnabId or
// Error is set (spec §4.6).
type TransactionCreationResult struct {
	Source    domain.BankTransaction
	NewYnabId domain.TransactionId
	Error     string
}

func success(source domain.BankTransaction, newYnabId domain.TransactionId) TransactionCreationResult {
	return TransactionCreationResult{Source: source, NewYnabId: newYnabId}
}

func failure(source domain.BankTransaction, reason string) TransactionCreationResult {
	return TransactionCreationResult{Source: source, Error: fmt.Sprintf("Failed to create transaction: %s", reason)}
}

// IsSuccess reports whether the result carries a created transaction
// id rather than an error.
func (r TransactionCreationResult) IsSuccess() bool {
	return r.Error == ""
}

// CreateMissingResponse aggregates the per-transaction results of one
// create-missing call.
type CreateMissingResponse struct {
	Results []TransactionCreationResult
}

// Successes returns the subset of results that created a transaction.
func (r CreateMissingResponse) Successes() []TransactionCreationResult {
	out := make([]TransactionCreationResult, 0, len(r.Results))
	for _, res := range r.Results {
		if res.IsSuccess() {
			out = append(out, res)
		}
	}
	return out
}

// Failures returns the subset of results that failed to create.
func (r CreateMissingResponse) Failures() []TransactionCreationResult {
	out := make([]TransactionCreationResult, 0, len(r.Results))
	for _, res := range r.Results {
		if !res.IsSuccess() {
			out = append(out, res)
		}
	}
	return out
}

// CreateMissing submits each missing bank transaction to the ledger
// port as a new YNAB transaction, continuing past individual failures
// (spec §4.6). It requires 1 ≤ |missing| ≤ 100.
func CreateMissing(
	ctx context.Context,
	client ports.LedgerClient,
	budgetId domain.BudgetId,
	ynabAccountId domain.AccountId,
	missing []domain.BankTransaction,
) (CreateMissingResponse, error) {
	if len(missing) == 0 {
		return CreateMissingResponse{}, apperr.PreconditionFailed("missing list must not be empty")
	}
	if len(missing) > maxMissingPerCall {
		return CreateMissingResponse{}, apperr.PreconditionFailed(fmt.Sprintf("cannot create more than %d transactions in one call", maxMissingPerCall))
	}

	log := logger.GetLogger().WithField("missing_count", len(missing))
	log.Info("starting create-missing orchestration")

	resp := CreateMissingResponse{Results: make([]TransactionCreationResult, 0, len(missing))}

	for _, b := range missing {
		request, err := domain.NewYnabTransaction(
			b.Id,
			ynabAccountId,
			b.Date,
			b.Amount,
			b.InferredCategory,
			domain.Uncleared,
		)
		if err != nil {
			resp.Results = append(resp.Results, failure(b, err.Error()))
			continue
		}
		request.PayeeName = b.MerchantName
		request.Memo = b.Memo
		request.Approved = true

		created, err := client.CreateTransaction(ctx, budgetId, request)
		if err != nil {
			resp.Results = append(resp.Results, failure(b, err.Error()))
			continue
		}
		resp.Results = append(resp.Results, success(b, created.Id))
	}

	log.WithField("created", len(resp.Successes())).
		WithField("failed", len(resp.Failures())).
		Info("create-missing orchestration completed")

	return resp, nil
}
