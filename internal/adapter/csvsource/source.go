// Package csvsource implements ports.BankTransactionSource by
// streaming a bank feed CSV file, grounded on the teacher's
// column-mapped CSV parsing idiom (header normalization, lenient
// row-level skip-and-log, multi-format date parsing).
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/importer"
	"ynab-recon-engine/pkg/logger"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	time.RFC3339,
}

// Source reads a single CSV file as the bank transaction feed for one
// account.
type Source struct {
	filePath  string
	accountId domain.AccountId
}

func New(filePath string, accountId domain.AccountId) *Source {
	return &Source{filePath: filePath, accountId: accountId}
}

// ListByAccountAndWindow reads the whole file and filters to the
// requested account and inclusive date window.
func (s *Source) ListByAccountAndWindow(ctx context.Context, accountId domain.AccountId, from, to time.Time) ([]domain.BankTransaction, error) {
	if accountId != s.accountId {
		return nil, nil
	}

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]domain.BankTransaction, 0, len(all))
	for _, tx := range all {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FindByIds returns the subset of the feed matching ids, silently
// omitting ids not present.
func (s *Source) FindByIds(ctx context.Context, ids []domain.TransactionId) ([]domain.BankTransaction, error) {
	wanted := make(map[domain.TransactionId]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]domain.BankTransaction, 0, len(wanted))
	for _, tx := range all {
		if _, ok := wanted[tx.Id]; ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Source) readAll() ([]domain.BankTransaction, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", s.filePath).Error("failed to open bank feed file")
		return nil, apperr.LedgerErrorFrom("failed to open bank feed file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperr.ParseErrorAt(0, "failed to read bank feed header", err)
	}
	columns := mapColumns(header)
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	var records []importer.ImportRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.GetLogger().WithError(err).WithField("line", line).Warn("skipping unreadable bank feed row")
			continue
		}
		records = append(records, importer.ImportRecord{
			Date:         normalizeDate(valueOf(row, columns, "date")),
			Description:  valueOf(row, columns, "description"),
			Amount:       valueOf(row, columns, "amount"),
			MerchantName: valueOf(row, columns, "merchant_name"),
		})
	}

	resp := importer.Import(s.accountId, records)
	if len(resp.Errors) > 0 {
		logger.GetLogger().WithField("error_count", len(resp.Errors)).Warn("some bank feed rows failed validation")
	}
	return resp.Accepted, nil
}

func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return columns
}

func validateColumns(columns map[string]int) error {
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := columns[required]; !ok {
			return apperr.ParseErrorAt(0, fmt.Sprintf("bank feed missing required column %q", required), nil)
		}
	}
	return nil
}

func valueOf(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeDate tries each known bank-feed date layout and reduces the
// first one that parses to ISO form; the importer only understands
// ISO, so an unrecognized layout is passed through unchanged and
// surfaces as a parse error downstream.
func normalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
