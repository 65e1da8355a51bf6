package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
	"cashbook/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gw, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	store := ledger.NewStore(gw)
	store.Load(context.Background())
	s := NewServer(":0", store)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"type": "IN", "description": "Salary", "amount": "50000", "date": "2024-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created core.Transaction
	decode(t, rec, &created)
	if created.ID == "" || created.Amount.Cents != 5000000 {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
		TotalCount   int                `json:"totalCount"`
	}
	decode(t, rec, &list)
	if list.Count != 1 || list.TotalCount != 1 {
		t.Fatalf("list = %+v", list)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)
	cases := []map[string]string{
		{"type": "IN", "description": "", "amount": "10", "date": "2024-01-01"},
		{"type": "IN", "description": "x", "amount": "0", "date": "2024-01-01"},
		{"type": "IN", "description": "x", "amount": "-5", "date": "2024-01-01"},
		{"type": "SIDEWAYS", "description": "x", "amount": "10", "date": "2024-01-01"},
		{"type": "IN", "description": "x", "amount": "10", "date": "yesterday"},
	}
	for i, body := range cases {
		rec := doJSON(t, s, http.MethodPost, "/api/transactions", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("case %d status = %d, want 422", i, rec.Code)
		}
	}
	rec := doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	var list struct {
		TotalCount int `json:"totalCount"`
	}
	decode(t, rec, &list)
	if list.TotalCount != 0 {
		t.Fatalf("invalid input reached the ledger: %d records", list.TotalCount)
	}
}

func TestListTransactionsFiltered(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []map[string]string{
		{"type": "IN", "description": "Salary", "amount": "50000", "date": "2024-01-01"},
		{"type": "OUT", "description": "Rent", "amount": "15000", "date": "2024-01-05"},
		{"type": "OUT", "description": "Old bill", "amount": "100", "date": "2023-12-01"},
	} {
		if rec := doJSON(t, s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %s", rec.Body.String())
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/transactions?type=OUT&start=2024-01-01", nil)
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
		TotalCount   int                `json:"totalCount"`
	}
	decode(t, rec, &list)
	if len(list.Transactions) != 1 || list.Transactions[0].Description != "Rent" {
		t.Fatalf("filtered = %+v", list.Transactions)
	}
	if list.TotalCount != 3 {
		t.Fatalf("totalCount = %d, want 3", list.TotalCount)
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/transactions?type=DIAGONAL", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type filter status = %d, want 400", rec.Code)
	}
}

func TestSummaryHeadlineVersusPeriod(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []map[string]string{
		{"type": "IN", "description": "Salary", "amount": "500", "date": "2024-01-01", "category": "Salary"},
		{"type": "OUT", "description": "Rent", "amount": "200", "date": "2024-02-01", "category": "Housing"},
	} {
		doJSON(t, s, http.MethodPost, "/api/transactions", body)
	}

	// period scoped to February: headline totals still cover everything
	rec := doJSON(t, s, http.MethodGet, "/api/summary?start=2024-02-01&end=2024-02-28", nil)
	var resp struct {
		Totals struct {
			TotalIn  int64 `json:"totalIn"`
			TotalOut int64 `json:"totalOut"`
			Balance  int64 `json:"balance"`
		} `json:"totals"`
		Period struct {
			TotalOut int64 `json:"totalOut"`
		} `json:"period"`
		Categories []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	decode(t, rec, &resp)
	if resp.Totals.TotalIn != 50000 || resp.Totals.TotalOut != 20000 || resp.Totals.Balance != 30000 {
		t.Fatalf("headline totals = %+v", resp.Totals)
	}
	if resp.Period.TotalOut != 20000 {
		t.Fatalf("period totals = %+v", resp.Period)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Category != "Housing" {
		t.Fatalf("categories = %+v, want only the period's", resp.Categories)
	}
}

func TestDebtLifecycleThroughConfirmation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/liabilities", map[string]string{
		"description": "Loan from Friend", "amount": "2000", "date": "2024-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create liability: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Record      core.Debt        `json:"record"`
		Transaction core.Transaction `json:"transaction"`
	}
	decode(t, rec, &created)
	if created.Record.Status != core.Pending {
		t.Fatalf("record = %+v", created.Record)
	}
	if created.Transaction.Description != "Borrowed: Loan from Friend" || created.Transaction.Type != core.In {
		t.Fatalf("generated transaction = %+v", created.Transaction)
	}

	// settling goes through the confirmation workflow
	rec = doJSON(t, s, http.MethodPost, "/api/confirmations", map[string]string{
		"action": "settle-liability", "id": created.Record.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("initiate: %d %s", rec.Code, rec.Body.String())
	}
	var pending struct {
		Action   string `json:"action"`
		TargetID string `json:"targetId"`
	}
	decode(t, rec, &pending)
	if pending.Action != "settle-liability" || pending.TargetID != created.Record.ID {
		t.Fatalf("pending = %+v", pending)
	}

	if rec = doJSON(t, s, http.MethodPost, "/api/confirmations/confirm", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("confirm status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/liabilities?status=PAID", nil)
	var list struct {
		Items        []core.Debt `json:"items"`
		PendingTotal int64       `json:"pendingTotal"`
	}
	decode(t, rec, &list)
	if len(list.Items) != 1 || list.Items[0].Status != core.Paid {
		t.Fatalf("items = %+v", list.Items)
	}
	if list.PendingTotal != 0 {
		t.Fatalf("pendingTotal = %d, want 0 after settle", list.PendingTotal)
	}

	// the settlement pair nets to zero
	rec = doJSON(t, s, http.MethodGet, "/api/summary", nil)
	var summary struct {
		Totals struct {
			Balance int64 `json:"balance"`
		} `json:"totals"`
	}
	decode(t, rec, &summary)
	if summary.Totals.Balance != 0 {
		t.Fatalf("balance = %d, want 0", summary.Totals.Balance)
	}
}

func TestConfirmationCancelAndErrors(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]string{
		"type": "OUT", "description": "Coffee", "amount": "3.50", "date": "2024-01-01",
	})
	var tx core.Transaction
	decode(t, rec, &tx)

	// cancel leaves the ledger untouched
	doJSON(t, s, http.MethodPost, "/api/confirmations", map[string]string{
		"action": "delete-transaction", "id": tx.ID,
	})
	doJSON(t, s, http.MethodPost, "/api/confirmations/cancel", nil)

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	var list struct {
		TotalCount int `json:"totalCount"`
	}
	decode(t, rec, &list)
	if list.TotalCount != 1 {
		t.Fatalf("cancel deleted the transaction: %d left", list.TotalCount)
	}

	// confirm with nothing pending is a safe no-op
	if rec = doJSON(t, s, http.MethodPost, "/api/confirmations/confirm", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("idle confirm status = %d", rec.Code)
	}

	if rec = doJSON(t, s, http.MethodGet, "/api/confirmations", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("idle pending status = %d, want 404", rec.Code)
	}
	if rec = doJSON(t, s, http.MethodPost, "/api/confirmations", map[string]string{"action": "explode", "id": "x"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown action status = %d, want 400", rec.Code)
	}
	if rec = doJSON(t, s, http.MethodPost, "/api/confirmations", map[string]string{"action": "delete-transaction", "id": "missing"}); rec.Code != http.StatusNotFound {
		t.Fatalf("missing target status = %d, want 404", rec.Code)
	}
}

func TestDeleteDebtViaConfirmationDoesNotCascade(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/receivables", map[string]string{
		"description": "Lunch", "amount": "15", "date": "2024-01-01",
	})
	var created struct {
		Record core.Debt `json:"record"`
	}
	decode(t, rec, &created)

	doJSON(t, s, http.MethodPost, "/api/confirmations", map[string]string{
		"action": "delete-receivable", "id": created.Record.ID,
	})
	doJSON(t, s, http.MethodPost, "/api/confirmations/confirm", nil)

	rec = doJSON(t, s, http.MethodGet, "/api/receivables", nil)
	var debts struct {
		TotalCount int `json:"totalCount"`
	}
	decode(t, rec, &debts)
	if debts.TotalCount != 0 {
		t.Fatalf("receivables = %d, want 0", debts.TotalCount)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	var txs struct {
		TotalCount int `json:"totalCount"`
	}
	decode(t, rec, &txs)
	if txs.TotalCount != 1 {
		t.Fatalf("transactions = %d, deleting the debt must not cascade", txs.TotalCount)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/transactions"},
		{http.MethodPut, "/api/liabilities"},
		{http.MethodPost, "/api/summary"},
		{http.MethodGet, "/api/confirmations/confirm"},
	}
	for _, tc := range cases {
		if rec := doJSON(t, s, tc.method, tc.path, nil); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status = %d, want 405", tc.method, tc.path, rec.Code)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		if rec := doJSON(t, s, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
