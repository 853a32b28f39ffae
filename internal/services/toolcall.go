package services

import (
	"encoding/json"
	"strings"
)

// ToolInvocation is the structured intent extracted from a model reply. It
// lives only for the duration of one request.
type ToolInvocation struct {
	Tool      string
	Arguments map[string]any
}

// ParseToolCall decides whether a raw model reply is a tool invocation.
// Two stages: a cheap shape check (the whole trimmed text must be one
// object), then a semantic decode into {tool, arguments}. Anything else,
// including prose with an embedded JSON snippet, is plain narrative and
// yields nil. Never panics.
func ParseToolCall(raw string) *ToolInvocation {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil
	}
	var payload struct {
		Tool      string         `json:"tool"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil
	}
	if strings.TrimSpace(payload.Tool) == "" || payload.Arguments == nil {
		return nil
	}
	return &ToolInvocation{Tool: strings.TrimSpace(payload.Tool), Arguments: payload.Arguments}
}
