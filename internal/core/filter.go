package core

import "time"

// TypeAll and StatusAll are the pass-everything sentinels for list filters.
const (
	TypeAll   TypeFilter   = "ALL"
	StatusAll StatusFilter = "ALL"
)

type (
	TypeFilter   string
	StatusFilter string

	// TransactionFilter selects transactions by cash direction and an
	// inclusive date range. Zero bounds impose no constraint.
	TransactionFilter struct {
		Type TypeFilter
		From time.Time
		To   time.Time
	}

	// DebtFilter selects liabilities or receivables by status and date
	// range.
	DebtFilter struct {
		Status StatusFilter
		From   time.Time
		To     time.Time
	}
)

// Match reports whether tx passes the filter. The From bound is normalized
// to start-of-day and To to 23:59:59, so date-only bounds behave inclusively
// on both ends.
func (f TransactionFilter) Match(tx Transaction) bool {
	if f.Type != "" && f.Type != TypeAll && TransactionType(f.Type) != tx.Type {
		return false
	}
	return inRange(tx.Date, f.From, f.To)
}

func (f DebtFilter) Match(d Debt) bool {
	if f.Status != "" && f.Status != StatusAll && DebtStatus(f.Status) != d.Status {
		return false
	}
	return inRange(d.Date, f.From, f.To)
}

// FilterTransactions returns the subset of txs passing f, preserving order.
// The input is never modified.
func FilterTransactions(txs []Transaction, f TransactionFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func FilterDebts(items []Debt, f DebtFilter) []Debt {
	out := make([]Debt, 0, len(items))
	for _, d := range items {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

func inRange(at, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if !from.IsZero() && at.Before(startOfDay(from)) {
		return false
	}
	if !to.IsZero() && at.After(endOfDay(to)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
