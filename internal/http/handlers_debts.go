package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"cashbook/internal/core"
)

type debtRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
}

// handleDebts serves both /api/liabilities and /api/receivables; the kind
// comes from the request path.
func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	kind := core.Liability
	if strings.HasSuffix(r.URL.Path, "/receivables") {
		kind = core.Receivable
	}
	switch r.Method {
	case http.MethodGet:
		s.listDebts(w, r, kind)
	case http.MethodPost:
		s.createDebt(w, r, kind)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listDebts(w http.ResponseWriter, r *http.Request, kind core.DebtKind) {
	filter := core.DebtFilter{Status: core.StatusAll}
	if v := r.URL.Query().Get("status"); v != "" {
		status := core.StatusFilter(strings.ToUpper(v))
		switch status {
		case core.StatusAll,
			core.StatusFilter(core.Pending),
			core.StatusFilter(kind.SettledStatus()):
		default:
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = status
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date bound")
		return
	}
	filter.From, filter.To = from, to

	all := s.store.Debts(kind)
	visible := core.FilterDebts(all, filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":        visible,
		"count":        len(visible),
		"totalCount":   len(all),
		"pendingTotal": core.PendingTotal(all).Cents,
	})
}

func (s *Server) createDebt(w http.ResponseWriter, r *http.Request, kind core.DebtKind) {
	var req debtRequest
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

	d, err := s.store.AddDebt(r.Context(), kind, in)
	if err != nil {
		logValidation(r, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.metrics.debtsCreated.WithLabelValues(string(kind)).Inc()
	s.metrics.transactionsCreated.Inc()

	// return the generated transaction alongside the record
	resp := map[string]any{"record": d}
	for _, tx := range s.store.Transactions() {
		if tx.SourceID == d.ID {
			resp["transaction"] = tx
			break
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (req debtRequest) toInput() (core.DebtInput, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.DebtInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.DebtInput{}, core.ErrInvalidDate
	}
	in := core.DebtInput{
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Date:        date,
		Category:    strings.TrimSpace(req.Category),
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return core.DebtInput{}, core.ErrInvalidDate
		}
		in.DueDate = &due
	}
	return in, nil
}
