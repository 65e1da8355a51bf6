package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cashbook/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// parseDate accepts a date-only value (2006-01-02) or a full RFC 3339
// timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// dateRange pulls optional start/end bounds from query parameters.
func dateRange(r *http.Request) (from, to time.Time, err error) {
	if v := r.URL.Query().Get("start"); v != "" {
		if from, err = parseDate(v); err != nil {
			return
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if to, err = parseDate(v); err != nil {
			return
		}
	}
	return
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"checks": map[string]any{
			"transactions": len(s.store.Transactions()),
			"liabilities":  len(s.store.Debts(core.Liability)),
			"receivables":  len(s.store.Debts(core.Receivable)),
		},
	})
}
