package matcher

import (
	"sort"
	"time"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/pkg/logger"
)

// ReconciliationInput bundles a single reconciliation run's request.
type ReconciliationInput struct {
	AccountId        domain.AccountId
	WindowStart      time.Time
	WindowEnd        time.Time
	Strategy         StrategyKind
	BankTransactions []domain.BankTransaction
	YnabTransactions []domain.YnabTransaction
}

// ReconciliationOutput preserves the input order of BankTransactions
// across both Matched and MissingFromYnab.
type ReconciliationOutput struct {
	Matched         []domain.BankTransaction
	MissingFromYnab []domain.BankTransaction
}

// ReconciliationSummary echoes the request alongside aggregate counts
// (spec §4.2).
type ReconciliationSummary struct {
	AccountId               domain.AccountId
	WindowStart             time.Time
	WindowEnd               time.Time
	Strategy                StrategyKind
	RunAt                   time.Time
	TotalBank               int
	TotalYnab               int
	MatchedCount            int
	MissingCount            int
	ReconciliationPercentage float64
}

// ReconciliationEngine matches bank transactions against a YNAB feed
// using a date-sorted index, binary search, and a windowed linear
// scan (spec §4.2). It does not consume candidates: a single YNAB
// transaction may satisfy more than one bank transaction within the
// same window. This mirrors the system's documented behavior and is
// not a bug.
type ReconciliationEngine struct{}

func NewReconciliationEngine() *ReconciliationEngine {
	return &ReconciliationEngine{}
}

// Reconcile runs the matching algorithm and returns the matched/missing
// split plus a run summary.
func (e *ReconciliationEngine) Reconcile(input ReconciliationInput) (ReconciliationOutput, ReconciliationSummary) {
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"account_id": string(input.AccountId),
		"strategy":   string(input.Strategy),
		"bank_count": len(input.BankTransactions),
		"ynab_count": len(input.YnabTransactions),
	})
	log.Info("starting reconciliation run")

	runAt := time.Now().UTC()
	strategy := NewStrategy(input.Strategy)

	output := ReconciliationOutput{
		Matched:         make([]domain.BankTransaction, 0, len(input.BankTransactions)),
		MissingFromYnab: make([]domain.BankTransaction, 0),
	}

	if len(input.BankTransactions) == 0 {
		return output, e.summarize(input, runAt, 0, 0)
	}

	if len(input.YnabTransactions) == 0 {
		output.MissingFromYnab = append(output.MissingFromYnab, input.BankTransactions...)
		return output, e.summarize(input, runAt, 0, len(output.MissingFromYnab))
	}

	sortedYnab := make([]domain.YnabTransaction, len(input.YnabTransactions))
	copy(sortedYnab, input.YnabTransactions)
	sort.SliceStable(sortedYnab, func(i, j int) bool {
		return sortedYnab[i].Date.Before(sortedYnab[j].Date)
	})

	for _, bank := range input.BankTransactions {
		start, end := strategy.Window(bank.Date)
		i := sort.Search(len(sortedYnab), func(idx int) bool {
			return !sortedYnab[idx].Date.Before(start)
		})

		matched := false
		for j := i; j < len(sortedYnab) && !sortedYnab[j].Date.After(end); j++ {
			if strategy.Matches(bank, sortedYnab[j]) {
				output.Matched = append(output.Matched, bank)
				matched = true
				break
			}
		}
		if !matched {
			output.MissingFromYnab = append(output.MissingFromYnab, bank)
		}
	}

	summary := e.summarize(input, runAt, len(output.Matched), len(output.MissingFromYnab))
	logger.GetLogger().WithFields(map[string]interface{}{
		"matched": summary.MatchedCount,
		"missing": summary.MissingCount,
	}).Info("reconciliation run completed")

	return output, summary
}

func (e *ReconciliationEngine) summarize(input ReconciliationInput, runAt time.Time, matched, missing int) ReconciliationSummary {
	total := len(input.BankTransactions)
	percentage := 100.0
	if total > 0 {
		percentage = float64(matched) / float64(total) * 100.0
	}
	return ReconciliationSummary{
		AccountId:                input.AccountId,
		WindowStart:              input.WindowStart,
		WindowEnd:                input.WindowEnd,
		Strategy:                 input.Strategy,
		RunAt:                    runAt,
		TotalBank:                total,
		TotalYnab:                len(input.YnabTransactions),
		MatchedCount:             matched,
		MissingCount:             missing,
		ReconciliationPercentage: percentage,
	}
}
