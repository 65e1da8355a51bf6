package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cashbook/internal/core"
)

type transactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := transactionFilterFromQuery(w, r)
	if !ok {
		return
	}
	all := s.store.Transactions()
	visible := core.FilterTransactions(all, filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": visible,
		"count":        len(visible),
		"totalCount":   len(all),
	})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		logValidation(r, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx, err := s.store.AddTransaction(r.Context(), in)
	if err != nil {
		logValidation(r, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.transactionsCreated.Inc()
	writeJSON(w, http.StatusCreated, tx)
}

func (req transactionRequest) toInput() (core.TransactionInput, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.TransactionInput{}, core.ErrInvalidDate
	}
	return core.TransactionInput{
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Date:        date,
		Category:    strings.TrimSpace(req.Category),
	}, nil
}

// transactionFilterFromQuery builds the filter from type/start/end query
// parameters, writing a 400 on malformed input.
func transactionFilterFromQuery(w http.ResponseWriter, r *http.Request) (core.TransactionFilter, bool) {
	filter := core.TransactionFilter{Type: core.TypeAll}
	if v := r.URL.Query().Get("type"); v != "" {
		typ := core.TypeFilter(strings.ToUpper(v))
		if typ != core.TypeAll && !core.TransactionType(typ).Valid() {
			writeError(w, http.StatusBadRequest, "invalid type filter")
			return filter, false
		}
		filter.Type = typ
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date bound")
		return filter, false
	}
	filter.From, filter.To = from, to
	return filter, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	filter, ok := transactionFilterFromQuery(w, r)
	if !ok {
		return
	}

	all := s.store.Transactions()
	visible := core.FilterTransactions(all, filter)

	// Headline totals cover the full collection (all-time cash position);
	// the breakdown covers the filtered period only.
	totals := core.Summarize(all)
	period := core.Summarize(visible)
	categories := core.CategoryBreakdown(visible)

	catPayload := make([]map[string]any, 0, len(categories))
	for _, ct := range categories {
		catPayload = append(catPayload, map[string]any{
			"category": ct.Name,
			"in":       ct.In.Cents,
			"out":      ct.Out.Cents,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totals": map[string]int64{
			"totalIn":  totals.In.Cents,
			"totalOut": totals.Out.Cents,
			"balance":  totals.Balance.Cents,
		},
		"period": map[string]int64{
			"totalIn":  period.In.Cents,
			"totalOut": period.Out.Cents,
			"balance":  period.Balance.Cents,
		},
		"categories":         catPayload,
		"pendingLiabilities": core.PendingTotal(s.store.Debts(core.Liability)).Cents,
		"pendingReceivables": core.PendingTotal(s.store.Debts(core.Receivable)).Cents,
	})
}

// logValidation logs rejected input at debug level; rejected input is
// routine, not an error condition.
func logValidation(r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrEmptyDescription) {
		slog.DebugContext(r.Context(), "Input rejected", "url", r.URL.Path, "error", err)
	}
}
