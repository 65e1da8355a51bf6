package core

import (
	"testing"
	"time"
)

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Type:        In,
		Description: "Salary",
		Amount:      Money{Cents: 5000000},
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TransactionInput{
		{Type: "SIDEWAYS", Description: "a", Amount: Money{Cents: 1}, Date: good.Date},
		{Type: In, Description: "  ", Amount: Money{Cents: 1}, Date: good.Date},
		{Type: In, Description: "a", Amount: Money{Cents: 0}, Date: good.Date},
		{Type: Out, Description: "a", Amount: Money{Cents: -5}, Date: good.Date},
		{Type: In, Description: "a", Amount: Money{Cents: 1}},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDebtInputValidate(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	good := DebtInput{
		Description: "Loan from Friend",
		Amount:      Money{Cents: 200000},
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// due date stays optional
	good.DueDate = nil
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok without due date, got %v", err)
	}

	bads := []DebtInput{
		{Description: "", Amount: Money{Cents: 1}, Date: good.Date},
		{Description: "a", Amount: Money{Cents: 0}, Date: good.Date},
		{Description: "a", Amount: Money{Cents: 1}},
	}
	for i, in := range bads {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDebtKindSemantics(t *testing.T) {
	cases := []struct {
		kind           DebtKind
		settled        DebtStatus
		creation       TransactionType
		settlement     TransactionType
		createCat      string
		settleCat      string
		createDesc     string
		settleDesc     string
	}{
		{Liability, Paid, In, Out, "Debt", "Debt Repayment", "Borrowed: X", "Repaid: X"},
		{Receivable, Received, Out, In, "Loan", "Loan Repayment", "Lent: X", "Received: X"},
	}
	for _, tc := range cases {
		if got := tc.kind.SettledStatus(); got != tc.settled {
			t.Errorf("%s settled status = %s, want %s", tc.kind, got, tc.settled)
		}
		if got := tc.kind.CreationType(); got != tc.creation {
			t.Errorf("%s creation type = %s, want %s", tc.kind, got, tc.creation)
		}
		if got := tc.kind.SettlementType(); got != tc.settlement {
			t.Errorf("%s settlement type = %s, want %s", tc.kind, got, tc.settlement)
		}
		if got := tc.kind.CreationCategory(); got != tc.createCat {
			t.Errorf("%s creation category = %s, want %s", tc.kind, got, tc.createCat)
		}
		if got := tc.kind.SettlementCategory(); got != tc.settleCat {
			t.Errorf("%s settlement category = %s, want %s", tc.kind, got, tc.settleCat)
		}
		if got := tc.kind.CreationDescription("X"); got != tc.createDesc {
			t.Errorf("%s creation description = %q, want %q", tc.kind, got, tc.createDesc)
		}
		if got := tc.kind.SettlementDescription("X"); got != tc.settleDesc {
			t.Errorf("%s settlement description = %q, want %q", tc.kind, got, tc.settleDesc)
		}
	}
}

func TestDebtSettled(t *testing.T) {
	if (Debt{Status: Pending}).Settled() {
		t.Fatal("pending debt reported settled")
	}
	if !(Debt{Status: Paid}).Settled() {
		t.Fatal("paid debt reported pending")
	}
	if !(Debt{Status: Received}).Settled() {
		t.Fatal("received debt reported pending")
	}
}
