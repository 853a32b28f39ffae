package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"marketing-agent-service/internal/models"
	"marketing-agent-service/internal/services"
)

// The chat widget must always have something to render, so orchestration
// failures of any kind still answer 200 with a generic reply and no action.
const apologeticReply = "Desculpe, tive um problema para processar sua mensagem. Tente novamente em instantes."

type ChatHandlers struct {
	Chat *services.ChatService
}

func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("chat handler panic: %v", rec)
			writeJSON(w, http.StatusOK, models.ChatResponse{Response: apologeticReply})
		}
	}()

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_json"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "message_required"})
		return
	}
	if strings.TrimSpace(req.Context.Path) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "context_path_required"})
		return
	}

	resp, err := h.Chat.Chat(r.Context(), ResolveSession(r), req)
	if err != nil {
		log.Printf("chat failed: %v", err)
		writeJSON(w, http.StatusOK, models.ChatResponse{Response: apologeticReply})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
