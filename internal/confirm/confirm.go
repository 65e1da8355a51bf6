// Package confirm gates destructive and balance-affecting ledger operations
// behind a single explicit confirm/cancel step. Exactly one request may be
// outstanding at a time; initiating a new one overwrites the previous.
package confirm

import (
	"context"
	"sync"

	"cashbook/internal/core"
)

// Action kind labels, also used on the wire.
const (
	KindDeleteTransaction = "delete-transaction"
	KindDeleteLiability   = "delete-liability"
	KindDeleteReceivable  = "delete-receivable"
	KindSettleLiability   = "settle-liability"
	KindSettleReceivable  = "settle-receivable"
)

// Ledger is the subset of ledger operations a confirmed action may dispatch.
type Ledger interface {
	DeleteTransaction(ctx context.Context, id string)
	DeleteDebt(ctx context.Context, kind core.DebtKind, id string)
	SettleDebt(ctx context.Context, kind core.DebtKind, id string)
}

// Snapshot is the minimal display payload for a pending request: what the
// user is about to act on.
type Snapshot struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
}

// Action is one of the five concrete confirmable operations. Each variant
// carries exactly the target id and snapshot it needs, nothing dynamic.
type Action interface {
	Kind() string
	TargetID() string
	Snapshot() Snapshot

	apply(ctx context.Context, l Ledger)
}

// DeleteTransaction removes a single transaction.
type DeleteTransaction struct {
	Tx core.Transaction
}

func (a DeleteTransaction) Kind() string     { return KindDeleteTransaction }
func (a DeleteTransaction) TargetID() string { return a.Tx.ID }
func (a DeleteTransaction) Snapshot() Snapshot {
	return Snapshot{Description: a.Tx.Description, Amount: a.Tx.Amount}
}
func (a DeleteTransaction) apply(ctx context.Context, l Ledger) {
	l.DeleteTransaction(ctx, a.Tx.ID)
}

// DeleteDebt removes a liability or receivable record.
type DeleteDebt struct {
	DebtKind core.DebtKind
	Debt     core.Debt
}

func (a DeleteDebt) Kind() string {
	if a.DebtKind == core.Liability {
		return KindDeleteLiability
	}
	return KindDeleteReceivable
}
func (a DeleteDebt) TargetID() string { return a.Debt.ID }
func (a DeleteDebt) Snapshot() Snapshot {
	return Snapshot{Description: a.Debt.Description, Amount: a.Debt.Amount}
}
func (a DeleteDebt) apply(ctx context.Context, l Ledger) {
	l.DeleteDebt(ctx, a.DebtKind, a.Debt.ID)
}

// SettleDebt marks a liability paid or a receivable received.
type SettleDebt struct {
	DebtKind core.DebtKind
	Debt     core.Debt
}

func (a SettleDebt) Kind() string {
	if a.DebtKind == core.Liability {
		return KindSettleLiability
	}
	return KindSettleReceivable
}
func (a SettleDebt) TargetID() string { return a.Debt.ID }
func (a SettleDebt) Snapshot() Snapshot {
	return Snapshot{Description: a.Debt.Description, Amount: a.Debt.Amount}
}
func (a SettleDebt) apply(ctx context.Context, l Ledger) {
	l.SettleDebt(ctx, a.DebtKind, a.Debt.ID)
}

// Workflow is the single-slot state machine: Idle until Initiate, back to
// Idle on either Confirm or Cancel.
type Workflow struct {
	mu      sync.Mutex
	ledger  Ledger
	pending Action
}

func NewWorkflow(l Ledger) *Workflow {
	return &Workflow{ledger: l}
}

// Initiate stores the request, replacing any previous pending one.
func (w *Workflow) Initiate(a Action) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = a
}

// Pending returns the outstanding request, if any.
func (w *Workflow) Pending() (Action, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending, w.pending != nil
}

// Confirm dispatches the stored action against the ledger and resets to
// Idle, returning what was dispatched. The slot is cleared atomically, so
// concurrent confirms dispatch and report the action at most once. With
// nothing pending it returns false.
func (w *Workflow) Confirm(ctx context.Context) (Action, bool) {
	w.mu.Lock()
	a := w.pending
	w.pending = nil
	w.mu.Unlock()

	if a == nil {
		return nil, false
	}
	a.apply(ctx, w.ledger)
	return a, true
}

// Cancel discards the pending request; the ledger is untouched.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
}
