package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"marketing-agent-service/internal/models"
)

// APIError is a completed HTTP exchange the campaign API answered with a
// non-2xx status. Transport failures stay plain errors, so callers can tell
// "API rejected request" from "cannot reach API".
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("campaign api status=%d body=%s", e.Status, e.Body)
}

// CampaignAPIClient talks to the dashboard's campaign CRUD endpoints.
type CampaignAPIClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func (c *CampaignAPIClient) buildURL(path string, query map[string]string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return "", errors.New("campaign api base url is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := base + path
	if len(query) > 0 {
		parsed, err := url.Parse(u)
		if err != nil {
			return "", err
		}
		q := parsed.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		parsed.RawQuery = q.Encode()
		u = parsed.String()
	}
	return u, nil
}

func (c *CampaignAPIClient) doJSON(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	u, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	var rbody io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rbody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u, rbody)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.APIKey) != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("campaign api invalid json: %w", err)
	}
	return nil
}

// CreateCampaign creates a draft campaign with the given daily budget.
func (c *CampaignAPIClient) CreateCampaign(ctx context.Context, name string, dailyBudget decimal.Decimal) (models.Campaign, error) {
	var created models.Campaign
	err := c.doJSON(ctx, http.MethodPost, "/campaigns", nil, map[string]any{
		"name":         name,
		"daily_budget": dailyBudget,
		"status":       "draft",
	}, &created)
	return created, err
}

// UpdateCampaign applies a field-level partial update.
func (c *CampaignAPIClient) UpdateCampaign(ctx context.Context, id string, fields map[string]any) (models.Campaign, error) {
	var updated models.Campaign
	err := c.doJSON(ctx, http.MethodPut, "/campaigns", map[string]string{"id": id}, fields, &updated)
	return updated, err
}

// ListCampaignNames fetches all campaign names.
func (c *CampaignAPIClient) ListCampaignNames(ctx context.Context) ([]string, error) {
	var items []struct {
		Name string `json:"name"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/campaigns", map[string]string{"fields": "name"}, nil, &items); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names, nil
}
