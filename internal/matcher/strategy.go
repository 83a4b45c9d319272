package matcher

import (
	"time"

	"ynab-recon-engine/internal/domain"
)

// StrategyKind names a matching strategy variant.
type StrategyKind string

const (
	Strict StrategyKind = "STRICT"
	Range  StrategyKind = "RANGE"
)

// window is the inclusive [start, end] date range a strategy searches
// for candidates within.
type window struct {
	start time.Time
	end   time.Time
}

// Strategy yields a search window for a bank transaction's date and a
// per-pair predicate deciding whether a candidate within that window
// actually matches. There is no inheritance: each kind is a tagged
// variant, and NewStrategy is a simple map from enum to variant.
type Strategy interface {
	Kind() StrategyKind
	Window(date time.Time) (time.Time, time.Time)
	Matches(bank, ynab domain.Reconcilable) bool
}

// NewStrategy resolves a StrategyKind to its Strategy variant.
func NewStrategy(kind StrategyKind) Strategy {
	switch kind {
	case Range:
		return rangeStrategy{}
	default:
		return strictStrategy{}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := ad.Sub(bd).Hours() / 24
	if diff < 0 {
		diff = -diff
	}
	return int(diff + 0.5)
}

// prefilter applies the common pre-filter shared by every strategy:
// same account, byte-equal amount, opposite sources (spec §4.1).
func prefilter(bank, ynab domain.Reconcilable) bool {
	if bank.ReconcileSource() == ynab.ReconcileSource() {
		return false
	}
	if bank.ReconcileAccountId() != ynab.ReconcileAccountId() {
		return false
	}
	return bank.ReconcileAmount().Equal(ynab.ReconcileAmount())
}

// categoryCompatible implements the permissive compatibility hook: a
// deliberate decision point preserved for future tightening (spec
// §4.1 Design Notes). It currently accepts any pair whose date
// predicate already passed.
func categoryCompatible(bank, ynab domain.Reconcilable) bool {
	bankCat := bank.ReconcileCategory()
	ynabCat := ynab.ReconcileCategory()
	if bankCat.IsUnknown() || ynabCat.IsUnknown() {
		return true
	}
	if bankCat.IsSimilarTo(ynabCat) {
		return true
	}
	return true
}

type strictStrategy struct{}

func (strictStrategy) Kind() StrategyKind { return Strict }

func (strictStrategy) Window(date time.Time) (time.Time, time.Time) {
	return date, date
}

func (strictStrategy) Matches(bank, ynab domain.Reconcilable) bool {
	if !prefilter(bank, ynab) {
		return false
	}
	if !sameDay(bank.ReconcileDate(), ynab.ReconcileDate()) {
		return false
	}
	return categoryCompatible(bank, ynab)
}

type rangeStrategy struct{}

func (rangeStrategy) Kind() StrategyKind { return Range }

func (rangeStrategy) Window(date time.Time) (time.Time, time.Time) {
	return date.AddDate(0, 0, -3), date.AddDate(0, 0, 3)
}

func (rangeStrategy) Matches(bank, ynab domain.Reconcilable) bool {
	if !prefilter(bank, ynab) {
		return false
	}
	if daysBetween(bank.ReconcileDate(), ynab.ReconcileDate()) > 3 {
		return false
	}
	return categoryCompatible(bank, ynab)
}
