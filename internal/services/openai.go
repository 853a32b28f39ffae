package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ChatMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Low temperature biases the model toward emitting the literal tool-call
// object instead of prose around it.
const (
	completionTemperature = 0.2
	completionMaxTokens   = 700
)

type OpenAIClient struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *OpenAIClient) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return base
}

// Complete performs a single chat-completion round trip. No retries; any
// transport or API error propagates to the orchestration boundary.
func (c *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	payload := completionRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	}
	buf, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai request failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai invalid json: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}
