package core

import (
	"errors"
	"strings"
	"time"
)

const (
	In  TransactionType = "IN"
	Out TransactionType = "OUT"
)

const (
	Liability  DebtKind = "liability"
	Receivable DebtKind = "receivable"
)

const (
	Pending  DebtStatus = "PENDING"
	Paid     DebtStatus = "PAID"
	Received DebtStatus = "RECEIVED"
)

type (
	TransactionType string

	DebtKind string

	DebtStatus string

	// Transaction is a single cash movement. Immutable once recorded,
	// except for deletion. SourceID links transactions generated by debt
	// creation or settlement back to the originating debt record; it is
	// informational only and never drives cascades.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Date        time.Time       `json:"date"`
		Category    string          `json:"category,omitempty"`
		SourceID    string          `json:"sourceId,omitempty"`
	}

	// Debt is a liability or receivable record. The kind is carried by the
	// collection it lives in, not by the record itself, matching the
	// persisted schema.
	Debt struct {
		ID          string     `json:"id"`
		Description string     `json:"description"`
		Amount      Money      `json:"amount"`
		Date        time.Time  `json:"date"`
		DueDate     *time.Time `json:"dueDate,omitempty"`
		Status      DebtStatus `json:"status"`
		Category    string     `json:"category,omitempty"`
	}

	// TransactionInput is a user-entered transaction before an id is
	// assigned.
	TransactionInput struct {
		Type        TransactionType
		Description string
		Amount      Money
		Date        time.Time
		Category    string
	}

	// DebtInput is a user-entered liability or receivable before an id and
	// status are assigned.
	DebtInput struct {
		Description string
		Amount      Money
		Date        time.Time
		DueDate     *time.Time
		Category    string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidKind      = errors.New("invalid debt kind")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t TransactionType) Valid() bool {
	return t == In || t == Out
}

func (k DebtKind) Valid() bool {
	return k == Liability || k == Receivable
}

// SettledStatus is the terminal status for the kind: PAID for liabilities,
// RECEIVED for receivables.
func (k DebtKind) SettledStatus() DebtStatus {
	if k == Liability {
		return Paid
	}
	return Received
}

// CreationType is the cash direction of the transaction generated when a
// debt is recorded: borrowing brings cash in, lending sends cash out.
func (k DebtKind) CreationType() TransactionType {
	if k == Liability {
		return In
	}
	return Out
}

// SettlementType is the reverse direction, used for the transaction
// generated on settlement.
func (k DebtKind) SettlementType() TransactionType {
	if k == Liability {
		return Out
	}
	return In
}

// CreationCategory is the default category for the creation-time transaction
// when the debt carries none.
func (k DebtKind) CreationCategory() string {
	if k == Liability {
		return "Debt"
	}
	return "Loan"
}

func (k DebtKind) SettlementCategory() string {
	if k == Liability {
		return "Debt Repayment"
	}
	return "Loan Repayment"
}

// CreationDescription prefixes the debt description for the creation-time
// transaction.
func (k DebtKind) CreationDescription(desc string) string {
	if k == Liability {
		return "Borrowed: " + desc
	}
	return "Lent: " + desc
}

func (k DebtKind) SettlementDescription(desc string) string {
	if k == Liability {
		return "Repaid: " + desc
	}
	return "Received: " + desc
}

// Settled reports whether the debt has left the PENDING state. Status
// transitions are one-way: a settled debt never becomes pending again.
func (d Debt) Settled() bool {
	return d.Status != Pending
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (in DebtInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
