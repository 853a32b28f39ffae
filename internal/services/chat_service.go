package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"marketing-agent-service/internal/models"
)

const emptyCompletionReply = "Desculpe, não consegui gerar uma resposta agora. Pode reformular?"

type HistoryStore interface {
	AppendMessage(ctx context.Context, sessionID string, seq int64, m models.ConversationMessage) error
	ListRecent(ctx context.Context, sessionID string, limit int) ([]models.ConversationMessage, error)
}

type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatService runs one user turn end to end: load windowed history, record
// the user turn, call the model once, interpret the reply and assemble the
// final {response, action} pair. History failures are logged and swallowed;
// only a model failure propagates, to be rendered as a generic reply at the
// HTTP boundary.
type ChatService struct {
	Store        HistoryStore
	OpenAI       Completer
	Tools        *ToolRunner
	HistoryLimit int
}

func (c *ChatService) Chat(ctx context.Context, sessionID string, req models.ChatRequest) (models.ChatResponse, error) {
	limit := c.HistoryLimit
	if limit <= 0 {
		limit = 20
	}

	history, err := c.Store.ListRecent(ctx, sessionID, limit)
	if err != nil {
		// Degrades continuity, keeps the request alive.
		log.Printf("history load failed session=%s: %v", sessionID, err)
		history = nil
	}

	// Read-then-append: sessions are assumed single-writer. A racing writer
	// hits the (session_id, seq) primary key and its append is swallowed.
	nextSeq := int64(1)
	if len(history) > 0 {
		nextSeq = history[len(history)-1].Sequence + 1
	}

	// The user turn is recorded before the model call so a model failure
	// still leaves it durable.
	c.append(ctx, sessionID, nextSeq, models.ConversationMessage{Role: models.RoleUser, Content: strPtr(req.Message)})
	nextSeq++

	prompt := AssemblePrompt(BuildInstructions(req.Context.Path), history, req.Message)
	raw, err := c.OpenAI.Complete(ctx, prompt)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("completion: %w", err)
	}

	if strings.TrimSpace(raw) == "" {
		return models.ChatResponse{Response: emptyCompletionReply}, nil
	}

	// The raw assistant text is always preserved, even when it is a tool
	// call; the tool outcome becomes a separate tool turn right after.
	c.append(ctx, sessionID, nextSeq, models.ConversationMessage{Role: models.RoleAssistant, Content: strPtr(raw)})
	nextSeq++

	inv := ParseToolCall(raw)
	if inv == nil {
		return models.ChatResponse{Response: raw}, nil
	}

	outcome := c.Tools.Dispatch(ctx, inv)
	if outcome.Action != nil {
		// Navigation is narration only; no tool turn is recorded.
		return models.ChatResponse{Response: outcome.Text, Action: outcome.Action}, nil
	}

	c.append(ctx, sessionID, nextSeq, models.ConversationMessage{
		Role:       models.RoleTool,
		Content:    strPtr(outcome.Text),
		ToolName:   inv.Tool,
		ToolCallID: uuid.NewString(),
	})
	return models.ChatResponse{Response: outcome.Text}, nil
}

func (c *ChatService) append(ctx context.Context, sessionID string, seq int64, m models.ConversationMessage) {
	if err := c.Store.AppendMessage(ctx, sessionID, seq, m); err != nil {
		log.Printf("history append failed session=%s seq=%d role=%s: %v", sessionID, seq, m.Role, err)
	}
}

func strPtr(s string) *string {
	return &s
}
