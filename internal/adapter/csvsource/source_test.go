package csvsource

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "bank-feed-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestListByAccountAndWindow_FiltersByDateAndAccount(t *testing.T) {
	path := writeTempCSV(t, "date,description,amount,merchant_name\n"+
		"2024-01-05,Coffee Shop,-4.50,Blue Bottle\n"+
		"2024-02-20,Out Of Window,-10.00,Somewhere\n")

	src := New(path, domain.AccountId("acct-1"))
	out, err := src.ListByAccountAndWindow(context.Background(), domain.AccountId("acct-1"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Coffee Shop", out[0].Description)
}

func TestListByAccountAndWindow_WrongAccount_ReturnsEmpty(t *testing.T) {
	path := writeTempCSV(t, "date,description,amount,merchant_name\n2024-01-05,Coffee Shop,-4.50,Blue Bottle\n")

	src := New(path, domain.AccountId("acct-1"))
	out, err := src.ListByAccountAndWindow(context.Background(), domain.AccountId("other-account"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFindByIds_OmitsUnknownIds(t *testing.T) {
	path := writeTempCSV(t, "date,description,amount,merchant_name\n2024-01-05,Coffee Shop,-4.50,Blue Bottle\n")

	src := New(path, domain.AccountId("acct-1"))
	all, err := src.ListByAccountAndWindow(context.Background(), domain.AccountId("acct-1"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, all, 1)

	out, err := src.FindByIds(context.Background(), []domain.TransactionId{all[0].Id, "does-not-exist"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestReadAll_MissingRequiredColumn_ReturnsError(t *testing.T) {
	path := writeTempCSV(t, "description,amount\nCoffee Shop,-4.50\n")

	src := New(path, domain.AccountId("acct-1"))
	_, err := src.ListByAccountAndWindow(context.Background(), domain.AccountId("acct-1"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestNormalizeDate_AlternateLayout_Reformatted(t *testing.T) {
	path := writeTempCSV(t, "date,description,amount,merchant_name\n01/05/2024,Coffee Shop,-4.50,Blue Bottle\n")

	src := New(path, domain.AccountId("acct-1"))
	out, err := src.ListByAccountAndWindow(context.Background(), domain.AccountId("acct-1"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 1)
}
