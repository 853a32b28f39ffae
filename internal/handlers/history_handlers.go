package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"marketing-agent-service/internal/services"
)

// HistoryHandlers exposes the resolved session's recent turns so the chat
// widget can re-hydrate after a reload.
type HistoryHandlers struct {
	Store services.HistoryStore
}

func (h *HistoryHandlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	msgs, err := h.Store.ListRecent(r.Context(), ResolveSession(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "list_history_failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": msgs})
}
