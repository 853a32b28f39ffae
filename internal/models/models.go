package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChatRequest struct {
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

// ChatContext carries where in the dashboard the user currently is.
type ChatContext struct {
	Path string `json:"path"`
}

type ChatResponse struct {
	Response string  `json:"response"`
	Action   *Action `json:"action"`
}

type Action struct {
	Type    string        `json:"type"`
	Payload ActionPayload `json:"payload"`
}

type ActionPayload struct {
	Path string `json:"path"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	// RoleFunction is a legacy synonym for RoleTool, still accepted on read.
	RoleFunction = "function"
)

// ConversationMessage is one durable turn of a session's history. Sequence is
// assigned by the orchestrator and is strictly increasing within a session.
// Content may be nil for assistant/tool turns.
type ConversationMessage struct {
	SessionID  string    `json:"session_id"`
	Sequence   int64     `json:"sequence"`
	Role       string    `json:"role"`
	Content    *string   `json:"content"`
	ToolName   string    `json:"tool_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Campaign mirrors the fields this service reads and writes through the
// dashboard's CRUD API and store. The record itself is owned elsewhere.
type Campaign struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	Budget          decimal.Decimal `json:"budget"`
	DailyBudget     decimal.Decimal `json:"daily_budget"`
	CostTraffic     decimal.Decimal `json:"cost_traffic"`
	CostCreative    decimal.Decimal `json:"cost_creative"`
	CostOperational decimal.Decimal `json:"cost_operational"`
}

// CampaignTotals is the summed cost/revenue for one campaign over the
// recorded metrics period.
type CampaignTotals struct {
	Cost    decimal.Decimal `json:"cost"`
	Revenue decimal.Decimal `json:"revenue"`
}
