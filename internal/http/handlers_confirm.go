package http

import (
	"encoding/json"
	"net/http"

	"cashbook/internal/confirm"
	"cashbook/internal/core"
)

type confirmationRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// handleConfirmations initiates a confirmation (POST) or reports the pending
// one (GET).
func (s *Server) handleConfirmations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.pendingConfirmation(w, r)
	case http.MethodPost:
		s.initiateConfirmation(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) pendingConfirmation(w http.ResponseWriter, r *http.Request) {
	action, ok := s.flow.Pending()
	if !ok {
		writeError(w, http.StatusNotFound, "no pending confirmation")
		return
	}
	writeJSON(w, http.StatusOK, confirmationPayload(action))
}

func (s *Server) initiateConfirmation(w http.ResponseWriter, r *http.Request) {
	var req confirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, ok := s.buildAction(req)
	if !ok {
		// Unknown action names are a 400; a known action on a missing id
		// is a 404. buildAction already wrote nothing, so pick here.
		if !knownAction(req.Action) {
			writeError(w, http.StatusBadRequest, "unknown action")
		} else {
			writeError(w, http.StatusNotFound, "target not found")
		}
		return
	}

	s.flow.Initiate(action)
	writeJSON(w, http.StatusCreated, confirmationPayload(action))
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if action, ok := s.flow.Confirm(r.Context()); ok {
		s.countConfirmed(action)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	s.flow.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// buildAction resolves the target record and wraps it in the matching
// action variant. A missing target yields false.
func (s *Server) buildAction(req confirmationRequest) (confirm.Action, bool) {
	switch req.Action {
	case confirm.KindDeleteTransaction:
		tx, ok := s.store.FindTransaction(req.ID)
		if !ok {
			return nil, false
		}
		return confirm.DeleteTransaction{Tx: tx}, true
	case confirm.KindDeleteLiability, confirm.KindSettleLiability:
		d, ok := s.store.FindDebt(core.Liability, req.ID)
		if !ok {
			return nil, false
		}
		if req.Action == confirm.KindDeleteLiability {
			return confirm.DeleteDebt{DebtKind: core.Liability, Debt: d}, true
		}
		return confirm.SettleDebt{DebtKind: core.Liability, Debt: d}, true
	case confirm.KindDeleteReceivable, confirm.KindSettleReceivable:
		d, ok := s.store.FindDebt(core.Receivable, req.ID)
		if !ok {
			return nil, false
		}
		if req.Action == confirm.KindDeleteReceivable {
			return confirm.DeleteDebt{DebtKind: core.Receivable, Debt: d}, true
		}
		return confirm.SettleDebt{DebtKind: core.Receivable, Debt: d}, true
	default:
		return nil, false
	}
}

func knownAction(name string) bool {
	switch name {
	case confirm.KindDeleteTransaction,
		confirm.KindDeleteLiability,
		confirm.KindDeleteReceivable,
		confirm.KindSettleLiability,
		confirm.KindSettleReceivable:
		return true
	}
	return false
}

func confirmationPayload(a confirm.Action) map[string]any {
	return map[string]any{
		"action":   a.Kind(),
		"targetId": a.TargetID(),
		"snapshot": a.Snapshot(),
	}
}

func (s *Server) countConfirmed(a confirm.Action) {
	switch a.Kind() {
	case confirm.KindDeleteTransaction:
		s.metrics.recordsDeleted.WithLabelValues("transaction").Inc()
	case confirm.KindDeleteLiability:
		s.metrics.recordsDeleted.WithLabelValues("liability").Inc()
	case confirm.KindDeleteReceivable:
		s.metrics.recordsDeleted.WithLabelValues("receivable").Inc()
	case confirm.KindSettleLiability:
		s.metrics.debtsSettled.WithLabelValues(string(core.Liability)).Inc()
		s.metrics.transactionsCreated.Inc()
	case confirm.KindSettleReceivable:
		s.metrics.debtsSettled.WithLabelValues(string(core.Receivable)).Inc()
		s.metrics.transactionsCreated.Inc()
	}
}
