package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/money"
	"ynab-recon-engine/pkg/logger"
)

const maxMerchantNameLength = 50

// ImportRecord is a single raw record from an import batch (spec
// §4.5). Amount and date arrive as strings since they originate from
// an external, untyped source (CSV row, HTTP payload).
type ImportRecord struct {
	Date         string
	Description  string
	Amount       string
	MerchantName string
}

// RecordError pairs a 1-based line number with the failure that
// occurred parsing or validating that record.
type RecordError struct {
	Line int
	Err  error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err.Error())
}

// ImportResponse reports the outcome of an import batch.
type ImportResponse struct {
	TotalProcessed    int
	SuccessfulImports int
	DuplicatesSkipped int
	Errors            []RecordError
	Accepted          []domain.BankTransaction
	Status            domain.ImportStatus
}

type fingerprint struct {
	accountId   domain.AccountId
	date        string
	milliunits  int64
	description string
}

// Import validates and converts a batch of raw records into
// BankTransaction values, in input order, skipping intra-batch
// duplicates and accumulating per-record errors.
func Import(accountId domain.AccountId, records []ImportRecord) ImportResponse {
	log := logger.GetLogger().WithField("record_count", len(records))
	log.Info("starting transaction import")

	resp := ImportResponse{TotalProcessed: len(records)}
	seen := make(map[fingerprint]struct{}, len(records))

	for i, record := range records {
		line := i + 1

		date, err := time.Parse("2006-01-02", strings.TrimSpace(record.Date))
		if err != nil {
			resp.Errors = append(resp.Errors, RecordError{Line: line, Err: apperr.ParseErrorAt(line, "invalid date", err)})
			continue
		}

		amount, err := money.ParseString(record.Amount)
		if err != nil {
			resp.Errors = append(resp.Errors, RecordError{Line: line, Err: apperr.ParseErrorAt(line, "invalid amount", err)})
			continue
		}

		description := strings.TrimSpace(record.Description)
		if description == "" {
			resp.Errors = append(resp.Errors, RecordError{
				Line: line,
				Err:  apperr.InvalidArgument("description must not be blank"),
			})
			continue
		}

		fp := fingerprint{accountId: accountId, date: record.Date, milliunits: amount.Milliunits(), description: description}
		if _, dup := seen[fp]; dup {
			resp.DuplicatesSkipped++
			continue
		}
		seen[fp] = struct{}{}

		merchantName := strings.TrimSpace(record.MerchantName)
		if merchantName == "" {
			merchantName = description
		}
		if len(merchantName) > maxMerchantNameLength {
			merchantName = merchantName[:maxMerchantNameLength]
		}

		transactionType := domain.TransactionCredit
		if amount.IsNegative() {
			transactionType = domain.TransactionDebit
		}

		txn, err := domain.NewBankTransaction(domain.TransactionId(uuid.NewString()), accountId, date, amount, description)
		if err != nil {
			resp.Errors = append(resp.Errors, RecordError{Line: line, Err: err})
			continue
		}
		txn.MerchantName = merchantName
		txn.TransactionType = transactionType

		resp.Accepted = append(resp.Accepted, txn)
		resp.SuccessfulImports++
	}

	resp.Status = classify(resp)
	log.WithField("successful", resp.SuccessfulImports).
		WithField("duplicates", resp.DuplicatesSkipped).
		WithField("errors", len(resp.Errors)).
		Info("import completed")

	return resp
}

func classify(resp ImportResponse) domain.ImportStatus {
	if len(resp.Errors) == 0 {
		return domain.ImportSuccess
	}
	if resp.SuccessfulImports > 0 {
		return domain.ImportPartialSuccess
	}
	return domain.ImportFailed
}
