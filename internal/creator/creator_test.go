package creator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/money"
	"ynab-recon-engine/internal/ports"
)

type fakeLedgerClient struct {
	ports.LedgerClient
	failFor map[domain.TransactionId]error
	nextId  int
}

func (f *fakeLedgerClient) CreateTransaction(_ context.Context, _ domain.BudgetId, txn domain.YnabTransaction) (domain.YnabTransaction, error) {
	if err, fail := f.failFor[txn.Id]; fail {
		return domain.YnabTransaction{}, err
	}
	f.nextId++
	txn.Id = domain.TransactionId("ynab-created")
	return txn, nil
}

func bankTxn(id string) domain.BankTransaction {
	tx, err := domain.NewBankTransaction(domain.TransactionId(id), "acc1", time.Now(), money.OfMilliunits(-1000), "test")
	if err != nil {
		panic(err)
	}
	return tx
}

func TestCreateMissing_RejectsEmptyList(t *testing.T) {
	client := &fakeLedgerClient{}
	_, err := CreateMissing(context.Background(), client, "budget1", "acc1", nil)
	assert.Error(t, err)
}

func TestCreateMissing_RejectsOverHundred(t *testing.T) {
	client := &fakeLedgerClient{}
	missing := make([]domain.BankTransaction, 101)
	for i := range missing {
		missing[i] = bankTxn("b")
	}
	_, err := CreateMissing(context.Background(), client, "budget1", "acc1", missing)
	assert.Error(t, err)
}

func TestCreateMissing_AllSucceed(t *testing.T) {
	client := &fakeLedgerClient{failFor: map[domain.TransactionId]error{}}
	missing := []domain.BankTransaction{bankTxn("b1"), bankTxn("b2")}

	resp, err := CreateMissing(context.Background(), client, "budget1", "acc1", missing)
	require.NoError(t, err)
	assert.Len(t, resp.Successes(), 2)
	assert.Empty(t, resp.Failures())
	for _, r := range resp.Results {
		assert.True(t, r.IsSuccess())
		assert.Empty(t, r.Error)
		assert.NotEmpty(t, r.NewYnabId)
	}
}

func TestCreateMissing_ContinuesPastFailure(t *testing.T) {
	client := &fakeLedgerClient{failFor: map[domain.TransactionId]error{"b1": errors.New("network timeout")}}
	missing := []domain.BankTransaction{bankTxn("b1"), bankTxn("b2")}

	resp, err := CreateMissing(context.Background(), client, "budget1", "acc1", missing)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.False(t, resp.Results[0].IsSuccess())
	assert.Contains(t, resp.Results[0].Error, "Failed to create transaction")
	assert.True(t, resp.Results[1].IsSuccess())
}

func TestCreateMissing_ResultNeverCarriesBothIdAndError(t *testing.T) {
	client := &fakeLedgerClient{failFor: map[domain.TransactionId]error{"b1": errors.New("boom")}}
	missing := []domain.BankTransaction{bankTxn("b1")}

	resp, err := CreateMissing(context.Background(), client, "budget1", "acc1", missing)
	require.NoError(t, err)
	r := resp.Results[0]
	assert.True(t, r.Error != "" && r.NewYnabId == "" || r.Error == "" && r.NewYnabId != "")
}
