package core

import "sort"

// UncategorizedLabel groups transactions that carry no category.
const UncategorizedLabel = "Uncategorized"

type (
	// Totals is the headline cash position: Balance = In - Out.
	Totals struct {
		In      Money
		Out     Money
		Balance Money
	}

	// CategoryTotal is the per-category activity split by direction.
	CategoryTotal struct {
		Name string
		In   Money
		Out  Money
	}
)

// Summarize computes running totals over txs. An empty collection yields all
// zeroes.
func Summarize(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case In:
			t.In.Cents += tx.Amount.Cents
		case Out:
			t.Out.Cents += tx.Amount.Cents
		}
	}
	t.Balance.Cents = t.In.Cents - t.Out.Cents
	return t
}

// CategoryBreakdown groups txs by category (UncategorizedLabel when absent)
// and accumulates IN and OUT amounts separately. Categories with no activity
// are dropped. The result is ordered by activity magnitude (in+out)
// descending, name ascending on ties so the ordering is stable.
func CategoryBreakdown(txs []Transaction) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	for _, tx := range txs {
		name := tx.Category
		if name == "" {
			name = UncategorizedLabel
		}
		ct, ok := byName[name]
		if !ok {
			ct = &CategoryTotal{Name: name}
			byName[name] = ct
		}
		switch tx.Type {
		case In:
			ct.In.Cents += tx.Amount.Cents
		case Out:
			ct.Out.Cents += tx.Amount.Cents
		}
	}

	out := make([]CategoryTotal, 0, len(byName))
	for _, ct := range byName {
		if ct.In.Cents == 0 && ct.Out.Cents == 0 {
			continue
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		ai := out[i].In.Cents + out[i].Out.Cents
		aj := out[j].In.Cents + out[j].Out.Cents
		if ai != aj {
			return ai > aj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PendingTotal sums the amounts of items still PENDING. Callers apply it to
// liabilities and receivables independently.
func PendingTotal(items []Debt) Money {
	var m Money
	for _, d := range items {
		if d.Status == Pending {
			m.Cents += d.Amount.Cents
		}
	}
	return m
}
