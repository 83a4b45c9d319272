// Package ynabclient implements ports.LedgerClient against the real
// YNAB HTTP API, grounded on the request/response shapes a bulk
// transaction writer for that API uses: bearer-token auth, milliunit
// amounts, ISO dates.
package ynabclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/money"
	"ynab-recon-engine/internal/ports"
	"ynab-recon-engine/pkg/logger"
)

const baseURL = "https://api.youneedabudget.com/v1"

// Client is an HTTP-backed ports.LedgerClient.
type Client struct {
	http *http.Client
}

// New builds a Client authenticating every request with a static
// bearer token.
func New(accessToken string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Client{http: oauth2.NewClient(context.Background(), src)}
}

type budgetDTO struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	CurrencyFmt  struct {
		IsoCode string `json:"iso_code"`
	} `json:"currency_format"`
}

type accountDTO struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

type categoryGroupDTO struct {
	Id         string        `json:"id"`
	Name       string        `json:"name"`
	Hidden     bool          `json:"hidden"`
	Deleted    bool          `json:"deleted"`
	Categories []categoryDTO `json:"categories"`
}

type categoryDTO struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

type transactionDTO struct {
	Id            string `json:"id,omitempty"`
	AccountId     string `json:"account_id"`
	Date          string `json:"date"`
	Amount        int64  `json:"amount"`
	PayeeName     string `json:"payee_name,omitempty"`
	CategoryId    string `json:"category_id,omitempty"`
	Memo          string `json:"memo,omitempty"`
	Cleared       string `json:"cleared,omitempty"`
	Approved      bool   `json:"approved"`
	FlagColor     string `json:"flag_color,omitempty"`
}

func (c *Client) ListBudgets(ctx context.Context) ([]ports.Budget, error) {
	var body struct {
		Data struct {
			Budgets []budgetDTO `json:"budgets"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets", &body); err != nil {
		return nil, err
	}
	out := make([]ports.Budget, 0, len(body.Data.Budgets))
	for _, b := range body.Data.Budgets {
		out = append(out, ports.Budget{Id: domain.BudgetId(b.Id), Name: b.Name, Currency: b.CurrencyFmt.IsoCode})
	}
	return out, nil
}

func (c *Client) GetBudget(ctx context.Context, budgetId domain.BudgetId) (*ports.Budget, error) {
	var body struct {
		Data struct {
			Budget budgetDTO `json:"budget"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets/"+string(budgetId), &body); err != nil {
		return nil, err
	}
	return &ports.Budget{Id: domain.BudgetId(body.Data.Budget.Id), Name: body.Data.Budget.Name, Currency: body.Data.Budget.CurrencyFmt.IsoCode}, nil
}

func (c *Client) ListAccounts(ctx context.Context, budgetId domain.BudgetId) ([]ports.Account, error) {
	var body struct {
		Data struct {
			Accounts []accountDTO `json:"accounts"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets/"+string(budgetId)+"/accounts", &body); err != nil {
		return nil, err
	}
	out := make([]ports.Account, 0, len(body.Data.Accounts))
	for _, a := range body.Data.Accounts {
		out = append(out, ports.Account{Id: domain.AccountId(a.Id), Name: a.Name, Closed: a.Closed})
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context, budgetId domain.BudgetId) ([]domain.YnabCategory, error) {
	var body struct {
		Data struct {
			CategoryGroups []categoryGroupDTO `json:"category_groups"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets/"+string(budgetId)+"/categories", &body); err != nil {
		return nil, err
	}

	var out []domain.YnabCategory
	for _, group := range body.Data.CategoryGroups {
		for _, cat := range group.Categories {
			yc, err := domain.NewYnabCategory(domain.CategoryId(cat.Id), cat.Name, group.Id, group.Name, cat.Hidden || group.Hidden, cat.Deleted || group.Deleted)
			if err != nil {
				continue
			}
			out = append(out, yc)
		}
	}
	return out, nil
}

func (c *Client) ListTransactions(ctx context.Context, budgetId domain.BudgetId) ([]domain.YnabTransaction, error) {
	return c.listTransactions(ctx, "/budgets/"+string(budgetId)+"/transactions")
}

func (c *Client) ListTransactionsSince(ctx context.Context, budgetId domain.BudgetId, since time.Time) ([]domain.YnabTransaction, error) {
	return c.listTransactions(ctx, fmt.Sprintf("/budgets/%s/transactions?since_date=%s", budgetId, since.Format("2006-01-02")))
}

func (c *Client) ListAccountTransactions(ctx context.Context, budgetId domain.BudgetId, accountId domain.AccountId) ([]domain.YnabTransaction, error) {
	return c.listTransactions(ctx, fmt.Sprintf("/budgets/%s/accounts/%s/transactions", budgetId, accountId))
}

func (c *Client) listTransactions(ctx context.Context, path string) ([]domain.YnabTransaction, error) {
	var body struct {
		Data struct {
			Transactions []transactionDTO `json:"transactions"`
		} `json:"data"`
	}
	if err := c.get(ctx, path, &body); err != nil {
		return nil, err
	}

	out := make([]domain.YnabTransaction, 0, len(body.Data.Transactions))
	for _, dto := range body.Data.Transactions {
		txn, err := fromDTO(dto)
		if err != nil {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, budgetId domain.BudgetId, txn domain.YnabTransaction) (domain.YnabTransaction, error) {
	payload := struct {
		Transaction transactionDTO `json:"transaction"`
	}{Transaction: toDTO(txn)}

	var body struct {
		Data struct {
			Transaction transactionDTO `json:"transaction"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/budgets/"+string(budgetId)+"/transactions", payload, &body); err != nil {
		return domain.YnabTransaction{}, err
	}
	return fromDTO(body.Data.Transaction)
}

func (c *Client) UpdateTransaction(ctx context.Context, budgetId domain.BudgetId, txnId domain.TransactionId, txn domain.YnabTransaction) (domain.YnabTransaction, error) {
	payload := struct {
		Transaction transactionDTO `json:"transaction"`
	}{Transaction: toDTO(txn)}

	var body struct {
		Data struct {
			Transaction transactionDTO `json:"transaction"`
		} `json:"data"`
	}
	if err := c.put(ctx, fmt.Sprintf("/budgets/%s/transactions/%s", budgetId, txnId), payload, &body); err != nil {
		return domain.YnabTransaction{}, err
	}
	return fromDTO(body.Data.Transaction)
}

func (c *Client) IsHealthy(ctx context.Context) bool {
	_, err := c.ListBudgets(ctx)
	return err == nil
}

func fromDTO(dto transactionDTO) (domain.YnabTransaction, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return domain.YnabTransaction{}, apperr.ParseErrorAt(0, "invalid transaction date from ledger", err)
	}
	cat := domain.Unknown()
	if dto.CategoryId != "" {
		if c, err := domain.NewCategory(domain.CategoryId(dto.CategoryId), dto.CategoryId, domain.CategoryYnabAssigned); err == nil {
			cat = c
		}
	}
	txn, err := domain.NewYnabTransaction(
		domain.TransactionId(dto.Id),
		domain.AccountId(dto.AccountId),
		date,
		money.OfMilliunits(dto.Amount),
		cat,
		clearedStatusFromWire(dto.Cleared),
	)
	if err != nil {
		return domain.YnabTransaction{}, err
	}
	txn.PayeeName = dto.PayeeName
	txn.Memo = dto.Memo
	txn.Approved = dto.Approved
	txn.FlagColor = dto.FlagColor
	return txn, nil
}

func toDTO(txn domain.YnabTransaction) transactionDTO {
	return transactionDTO{
		AccountId:  string(txn.AccountId),
		Date:       txn.Date.Format("2006-01-02"),
		Amount:     txn.Amount.Milliunits(),
		PayeeName:  txn.PayeeName,
		CategoryId: string(txn.Category.Id()),
		Memo:       txn.Memo,
		Cleared:    clearedStatusToWire(txn.ClearedStatus),
		Approved:   txn.Approved,
		FlagColor:  txn.FlagColor,
	}
}

func clearedStatusFromWire(wire string) domain.ClearedStatus {
	switch wire {
	case "cleared":
		return domain.Cleared
	case "reconciled":
		return domain.Reconciled
	default:
		return domain.Uncleared
	}
}

func clearedStatusToWire(status domain.ClearedStatus) string {
	switch status {
	case domain.Cleared:
		return "cleared"
	case domain.Reconciled:
		return "reconciled"
	default:
		return "uncleared"
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return apperr.LedgerErrorFrom("failed to build request", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	return c.send(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out interface{}) error {
	return c.send(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return apperr.LedgerErrorFrom("failed to encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return apperr.LedgerErrorFrom("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("url", req.URL.String()).Error("ledger request failed")
		return apperr.LedgerErrorFrom("ledger request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("ledger entity not found")
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apperr.LedgerErrorFrom(fmt.Sprintf("unexpected ledger status %d: %s", resp.StatusCode, string(body)), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.LedgerErrorFrom("failed to decode ledger response", err)
	}
	return nil
}
