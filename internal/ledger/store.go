// Package ledger owns the three collections of the cash book (transactions,
// liabilities, receivables) and every rule that keeps them mutually
// consistent: recording a debt generates its paired cash transaction, and
// settling one generates the reversing transaction. All mutations run under
// one lock and are mirrored to the persistence gateway before the lock is
// released, so no caller ever observes a debt without its paired transaction.
//
// Persistence is best-effort: the in-memory state is the source of truth for
// the session, and a failed write is logged and counted but never rolled
// back.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cashbook/internal/core"
	"cashbook/internal/storage"
)

type Store struct {
	mu      sync.Mutex
	gateway storage.Gateway

	transactions []core.Transaction
	liabilities  []core.Debt
	receivables  []core.Debt

	newID func() string
	now   func() time.Time

	// OnSaveError, when set, is called for every failed persistence write.
	// Assign it before the store is shared across goroutines.
	OnSaveError func(key string, err error)
}

func NewStore(gateway storage.Gateway) *Store {
	return &Store{
		gateway: gateway,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Load reads all three collections from the gateway. A missing or
// unparsable document loads as an empty collection; nothing here is fatal.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = loadCollection[core.Transaction](ctx, s.gateway, storage.KeyTransactions)
	s.liabilities = loadCollection[core.Debt](ctx, s.gateway, storage.KeyLiabilities)
	s.receivables = loadCollection[core.Debt](ctx, s.gateway, storage.KeyReceivables)
	slog.InfoContext(ctx, "Ledger loaded",
		"transactions", len(s.transactions),
		"liabilities", len(s.liabilities),
		"receivables", len(s.receivables))
}

// AddTransaction assigns a fresh id, appends the transaction and persists
// the collection. Input the caller already validated never fails.
func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.appendTransaction(in, "")
	s.flushTransactions(ctx)
	slog.InfoContext(ctx, "Transaction recorded",
		"id", tx.ID, "type", tx.Type, "amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return tx, nil
}

// AddDebt appends a PENDING debt record to the collection for kind and, as
// part of the same logical step, the cash transaction it implies: an IN
// "Borrowed: …" for a liability, an OUT "Lent: …" for a receivable. The
// transaction takes the debt's category, falling back to the kind default.
func (s *Store) AddDebt(ctx context.Context, kind core.DebtKind, in core.DebtInput) (core.Debt, error) {
	if !kind.Valid() {
		return core.Debt{}, core.ErrInvalidKind
	}
	if err := in.Validate(); err != nil {
		return core.Debt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := core.Debt{
		ID:          s.newID(),
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		DueDate:     in.DueDate,
		Status:      core.Pending,
		Category:    in.Category,
	}
	*s.collection(kind) = append(*s.collection(kind), d)

	category := in.Category
	if category == "" {
		category = kind.CreationCategory()
	}
	s.appendTransaction(core.TransactionInput{
		Type:        kind.CreationType(),
		Description: kind.CreationDescription(in.Description),
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    category,
	}, d.ID)

	s.flushDebts(ctx, kind)
	s.flushTransactions(ctx)
	slog.InfoContext(ctx, "Debt recorded",
		"kind", kind, "id", d.ID, "amount_cents", d.Amount.Cents)
	return d, nil
}

// DeleteTransaction removes the transaction with id. Missing ids are a
// silent no-op, and no debt record is touched.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.transactions {
		if tx.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			s.flushTransactions(ctx)
			slog.InfoContext(ctx, "Transaction deleted", "id", id)
			return
		}
	}
}

// DeleteDebt removes the debt with id from the collection for kind.
// Transactions generated from it stay: the sourceId link is informational
// and deletion never cascades.
func (s *Store) DeleteDebt(ctx context.Context, kind core.DebtKind, id string) {
	if !kind.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collection(kind)
	for i, d := range *items {
		if d.ID == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			s.flushDebts(ctx, kind)
			slog.InfoContext(ctx, "Debt deleted", "kind", kind, "id", id)
			return
		}
	}
}

// SettleDebt transitions the record to its terminal status and generates the
// reversing transaction, dated at settlement time rather than the debt's
// original date. Missing ids and already-settled records are silent no-ops,
// so settling twice never produces a second transaction.
func (s *Store) SettleDebt(ctx context.Context, kind core.DebtKind, id string) {
	if !kind.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.collection(kind)
	for i := range *items {
		if (*items)[i].ID != id {
			continue
		}
		if (*items)[i].Settled() {
			slog.DebugContext(ctx, "Debt already settled", "kind", kind, "id", id)
			return
		}
		(*items)[i].Status = kind.SettledStatus()
		d := (*items)[i]

		s.appendTransaction(core.TransactionInput{
			Type:        kind.SettlementType(),
			Description: kind.SettlementDescription(d.Description),
			Amount:      d.Amount,
			Date:        s.now(),
			Category:    kind.SettlementCategory(),
		}, d.ID)

		s.flushDebts(ctx, kind)
		s.flushTransactions(ctx)
		slog.InfoContext(ctx, "Debt settled",
			"kind", kind, "id", id, "status", d.Status)
		return
	}
}

// Transactions returns a defensive copy of the transaction collection.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Debts returns a defensive copy of the liability or receivable collection.
func (s *Store) Debts(kind core.DebtKind) []core.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Debt(nil), *s.collection(kind)...)
}

// FindTransaction returns the transaction with id, if present.
func (s *Store) FindTransaction(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// FindDebt returns the debt with id in the collection for kind, if present.
func (s *Store) FindDebt(kind core.DebtKind, id string) (core.Debt, bool) {
	if !kind.Valid() {
		return core.Debt{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range *s.collection(kind) {
		if d.ID == id {
			return d, true
		}
	}
	return core.Debt{}, false
}

// appendTransaction adds a transaction without flushing; the caller holds
// the lock and decides when to persist.
func (s *Store) appendTransaction(in core.TransactionInput, sourceID string) core.Transaction {
	tx := core.Transaction{
		ID:          s.newID(),
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    in.Category,
		SourceID:    sourceID,
	}
	s.transactions = append(s.transactions, tx)
	return tx
}

func (s *Store) collection(kind core.DebtKind) *[]core.Debt {
	if kind == core.Liability {
		return &s.liabilities
	}
	return &s.receivables
}

func (s *Store) flushTransactions(ctx context.Context) {
	s.flush(ctx, storage.KeyTransactions, s.transactions)
}

func (s *Store) flushDebts(ctx context.Context, kind core.DebtKind) {
	if kind == core.Liability {
		s.flush(ctx, storage.KeyLiabilities, s.liabilities)
		return
	}
	s.flush(ctx, storage.KeyReceivables, s.receivables)
}

func (s *Store) flush(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode collection", "key", key, "error", err)
		return
	}
	if err := s.gateway.Save(ctx, key, raw); err != nil {
		slog.ErrorContext(ctx, "Failed to persist collection, keeping in-memory state",
			"key", key, "error", err)
		if s.OnSaveError != nil {
			s.OnSaveError(key, err)
		}
	}
}

func loadCollection[T any](ctx context.Context, gw storage.Gateway, key string) []T {
	raw, ok, err := gw.Load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read collection, starting empty", "key", key, "error", err)
		return nil
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.WarnContext(ctx, "Corrupt collection, starting empty", "key", key, "error", err)
		return nil
	}
	return items
}
