package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketing-agent-service/internal/config"
	"marketing-agent-service/internal/handlers"
)

func NewRouter(cfg config.Config, chat *handlers.ChatHandlers, history *handlers.HistoryHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(handlers.WithRequestLogging())
	r.Use(handlers.WithCORS(cfg))

	// The chat contract requires 405 + Allow for wrong methods.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			w.Header().Set("Allow", http.MethodPost)
		case "/chat/history":
			w.Header().Set("Allow", http.MethodGet)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"method_not_allowed"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/chat", chat.HandleChat)
	r.Get("/chat/history", history.ListHistory)

	return r
}
