package store

import (
	"context"
	"database/sql"
	"strings"

	"marketing-agent-service/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AppendMessage stores one turn at the sequence chosen by the caller.
// Uniqueness of (session_id, seq) is enforced only by the primary key; a
// colliding append from a concurrent writer surfaces as an error here and is
// the caller's to swallow.
func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID string, seq int64, m models.ConversationMessage) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	role := m.Role
	if role == models.RoleFunction {
		role = models.RoleTool
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, seq, role, content, tool_name, tool_call_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sessionID, seq, role, m.Content, nullable(m.ToolName), nullable(m.ToolCallID),
	)
	return err
}

// ListRecent returns at most limit most recent turns in ascending sequence
// order: fetched descending, then reversed.
func (s *PostgresStore) ListRecent(ctx context.Context, sessionID string, limit int) ([]models.ConversationMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return []models.ConversationMessage{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, seq, role, content, tool_name, tool_call_id, created_at
		 FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY seq DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ConversationMessage, 0)
	for rows.Next() {
		var m models.ConversationMessage
		var content, toolName, toolCallID sql.NullString
		if err := rows.Scan(&m.SessionID, &m.Sequence, &m.Role, &content, &toolName, &toolCallID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Role == models.RoleFunction {
			m.Role = models.RoleTool
		}
		if content.Valid {
			m.Content = &content.String
		}
		m.ToolName = toolName.String
		m.ToolCallID = toolCallID.String
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// GetCampaignByName resolves a campaign by exact name; first match wins.
// The campaigns table is owned by the dashboard, this service only reads it.
func (s *PostgresStore) GetCampaignByName(ctx context.Context, name string) (models.Campaign, error) {
	var c models.Campaign
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, status, budget, daily_budget, cost_traffic, cost_creative, cost_operational
		 FROM campaigns
		 WHERE name = $1
		 ORDER BY id
		 LIMIT 1`,
		name,
	).Scan(&c.ID, &c.Name, &c.Status, &c.Budget, &c.DailyBudget, &c.CostTraffic, &c.CostCreative, &c.CostOperational)
	return c, err
}

// AggregateCampaignTotals sums recorded cost/revenue for one campaign.
func (s *PostgresStore) AggregateCampaignTotals(ctx context.Context, campaignID string) (models.CampaignTotals, error) {
	var t models.CampaignTotals
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0), COALESCE(SUM(revenue), 0)
		 FROM campaign_metrics
		 WHERE campaign_id = $1`,
		campaignID,
	).Scan(&t.Cost, &t.Revenue)
	return t, err
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
