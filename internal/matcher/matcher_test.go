package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/money"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bankTx(id, account string, d time.Time, amount int64) domain.BankTransaction {
	tx, err := domain.NewBankTransaction(
		domain.TransactionId(id),
		domain.AccountId(account),
		d,
		money.OfMilliunits(amount),
		"test bank txn",
	)
	if err != nil {
		panic(err)
	}
	return tx
}

func ynabTx(id, account string, d time.Time, amount int64) domain.YnabTransaction {
	tx, err := domain.NewYnabTransaction(
		domain.TransactionId(id),
		domain.AccountId(account),
		d,
		money.OfMilliunits(amount),
		domain.Unknown(),
		domain.Cleared,
	)
	if err != nil {
		panic(err)
	}
	return tx
}

func TestReconcile_StrictMatch_SameDateSameAmount(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	y1 := ynabTx("y1", "A", date("2024-01-15"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	require.Len(t, out.Matched, 1)
	assert.Empty(t, out.MissingFromYnab)
	assert.Equal(t, b1.Id, out.Matched[0].Id)
}

func TestReconcile_StrictMismatch_DifferentDate(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	y1 := ynabTx("y1", "A", date("2024-01-16"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	assert.Empty(t, out.Matched)
	require.Len(t, out.MissingFromYnab, 1)
}

func TestReconcile_RangeMatch_PicksFirstCandidateInWindowOrder(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	y1 := ynabTx("y1", "A", date("2024-01-16"), -10000)
	y2 := ynabTx("y2", "A", date("2024-01-20"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Range,
		BankTransactions: []domain.BankTransaction{b1},
		YnabTransactions: []domain.YnabTransaction{y1, y2},
	})

	require.Len(t, out.Matched, 1)
	assert.Equal(t, b1.Id, out.Matched[0].Id)
}

func TestReconcile_MilliunitPrecisionMismatch_NotMatched(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), 12345)
	y1 := ynabTx("y1", "A", date("2024-01-15"), 12340)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	assert.Empty(t, out.Matched)
	require.Len(t, out.MissingFromYnab, 1)
}

func TestReconcile_EmptyBankTransactions(t *testing.T) {
	y1 := ynabTx("y1", "A", date("2024-01-15"), -10000)
	engine := NewReconciliationEngine()
	out, summary := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	assert.Empty(t, out.Matched)
	assert.Empty(t, out.MissingFromYnab)
	assert.Equal(t, 100.0, summary.ReconciliationPercentage)
}

func TestReconcile_EmptyYnabTransactions_AllMissing(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	engine := NewReconciliationEngine()
	out, summary := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1},
	})

	assert.Empty(t, out.Matched)
	require.Len(t, out.MissingFromYnab, 1)
	assert.Equal(t, 0.0, summary.ReconciliationPercentage)
}

func TestReconcile_DifferentAccount_NeverMatches(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	y1 := ynabTx("y1", "B", date("2024-01-15"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	assert.Empty(t, out.Matched)
	require.Len(t, out.MissingFromYnab, 1)
}

func TestReconcile_DoesNotConsumeCandidates(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	b2 := bankTx("b2", "A", date("2024-01-15"), -10000)
	y1 := ynabTx("y1", "A", date("2024-01-15"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1, b2},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	require.Len(t, out.Matched, 2)
}

func TestReconcile_PreservesBankInputOrder(t *testing.T) {
	b1 := bankTx("b1", "A", date("2024-01-15"), -10000)
	b2 := bankTx("b2", "A", date("2024-01-16"), -5000)
	y1 := ynabTx("y1", "A", date("2024-01-15"), -10000)

	engine := NewReconciliationEngine()
	out, _ := engine.Reconcile(ReconciliationInput{
		AccountId:        "A",
		Strategy:         Strict,
		BankTransactions: []domain.BankTransaction{b1, b2},
		YnabTransactions: []domain.YnabTransaction{y1},
	})

	require.Len(t, out.Matched, 1)
	require.Len(t, out.MissingFromYnab, 1)
	assert.Equal(t, b1.Id, out.Matched[0].Id)
	assert.Equal(t, b2.Id, out.MissingFromYnab[0].Id)
}

func TestStrategy_RangeWindow_IsSevenDaysInclusive(t *testing.T) {
	s := NewStrategy(Range)
	start, end := s.Window(date("2024-01-15"))
	assert.Equal(t, date("2024-01-12"), start)
	assert.Equal(t, date("2024-01-18"), end)
}
