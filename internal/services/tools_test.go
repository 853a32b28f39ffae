package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing-agent-service/internal/models"
)

type fakeCampaignAPI struct {
	createCalls int
	updateCalls int
	listCalls   int

	createdWith decimal.Decimal
	updatedID   string
	updatedWith map[string]any

	campaign models.Campaign
	names    []string
	err      error
}

func (f *fakeCampaignAPI) CreateCampaign(_ context.Context, name string, dailyBudget decimal.Decimal) (models.Campaign, error) {
	f.createCalls++
	f.createdWith = dailyBudget
	if f.err != nil {
		return models.Campaign{}, f.err
	}
	c := f.campaign
	if c.Name == "" {
		c.Name = name
	}
	return c, nil
}

func (f *fakeCampaignAPI) UpdateCampaign(_ context.Context, id string, fields map[string]any) (models.Campaign, error) {
	f.updateCalls++
	f.updatedID = id
	f.updatedWith = fields
	if f.err != nil {
		return models.Campaign{}, f.err
	}
	return f.campaign, nil
}

func (f *fakeCampaignAPI) ListCampaignNames(_ context.Context) ([]string, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

type fakeDirectory struct {
	campaign   models.Campaign
	lookupErr  error
	totals     models.CampaignTotals
	metricsErr error
}

func (f *fakeDirectory) GetCampaignByName(_ context.Context, name string) (models.Campaign, error) {
	if f.lookupErr != nil {
		return models.Campaign{}, f.lookupErr
	}
	return f.campaign, nil
}

func (f *fakeDirectory) AggregateCampaignTotals(_ context.Context, campaignID string) (models.CampaignTotals, error) {
	if f.metricsErr != nil {
		return models.CampaignTotals{}, f.metricsErr
	}
	return f.totals, nil
}

func TestDispatchUnknownTool(t *testing.T) {
	runner := NewToolRunner(&fakeCampaignAPI{}, &fakeDirectory{})
	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "delete_everything", Arguments: map[string]any{}})
	assert.Equal(t, outcomeUnknown, out.Kind)
	assert.Contains(t, out.Text, "delete_everything")
	assert.Nil(t, out.Action)
}

func TestNavigatePassesPathVerbatim(t *testing.T) {
	runner := NewToolRunner(&fakeCampaignAPI{}, &fakeDirectory{})
	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "navigate", Arguments: map[string]any{"path": "/Metrics"}})

	assert.Equal(t, navigateConfirmation, out.Text)
	require.NotNil(t, out.Action)
	assert.Equal(t, "navigate", out.Action.Type)
	assert.Equal(t, "/Metrics", out.Action.Payload.Path)
}

func TestCreateCampaignValidation(t *testing.T) {
	api := &fakeCampaignAPI{}
	runner := NewToolRunner(api, &fakeDirectory{})

	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"budget": float64(10)}})
	assert.Equal(t, outcomeValidation, out.Kind)
	assert.Contains(t, out.Text, "Erro:")

	out = runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"name": "Teste", "budget": float64(-5)}})
	assert.Equal(t, outcomeValidation, out.Kind)
	assert.Contains(t, out.Text, "Erro:")

	out = runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"name": "Teste"}})
	assert.Equal(t, outcomeValidation, out.Kind)

	assert.Equal(t, 0, api.createCalls, "validation failures must not reach the API")
}

func TestCreateCampaignSuccess(t *testing.T) {
	api := &fakeCampaignAPI{campaign: models.Campaign{ID: "cmp_42", Name: "Teste"}}
	runner := NewToolRunner(api, &fakeDirectory{})

	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"name": "Teste", "budget": float64(10)}})
	assert.Equal(t, outcomeOK, out.Kind)
	assert.Contains(t, out.Text, "criada")
	assert.Contains(t, out.Text, "cmp_42")
	assert.True(t, api.createdWith.Equal(decimal.NewFromInt(10)))
}

func TestCreateCampaignTransportErrors(t *testing.T) {
	api := &fakeCampaignAPI{err: errors.New("dial tcp: connection refused")}
	runner := NewToolRunner(api, &fakeDirectory{})
	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"name": "Teste", "budget": float64(1)}})
	assert.Equal(t, outcomeTransport, out.Kind)
	assert.Contains(t, out.Text, "não consegui falar com a API")

	api = &fakeCampaignAPI{err: &APIError{Status: 422, Body: "bad"}}
	runner = NewToolRunner(api, &fakeDirectory{})
	out = runner.Dispatch(context.Background(), &ToolInvocation{Tool: "create_campaign", Arguments: map[string]any{"name": "Teste", "budget": float64(1)}})
	assert.Equal(t, outcomeTransport, out.Kind)
	assert.Contains(t, out.Text, "rejeitou")
	assert.Contains(t, out.Text, "422")
}

func TestModifyCampaignNotFound(t *testing.T) {
	api := &fakeCampaignAPI{}
	dir := &fakeDirectory{lookupErr: sql.ErrNoRows}
	runner := NewToolRunner(api, dir)

	out := runner.Dispatch(context.Background(), &ToolInvocation{
		Tool:      "modify_campaign",
		Arguments: map[string]any{"name": "Fantasma", "fields": map[string]any{"status": "active"}},
	})
	assert.Equal(t, outcomeNotFound, out.Kind)
	assert.Contains(t, out.Text, "Fantasma")
	assert.Equal(t, 0, api.updateCalls, "not-found must not reach the update endpoint")
}

func TestModifyCampaignValidation(t *testing.T) {
	api := &fakeCampaignAPI{}
	runner := NewToolRunner(api, &fakeDirectory{})

	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "modify_campaign", Arguments: map[string]any{"fields": map[string]any{"status": "active"}}})
	assert.Equal(t, outcomeValidation, out.Kind)

	out = runner.Dispatch(context.Background(), &ToolInvocation{Tool: "modify_campaign", Arguments: map[string]any{"name": "Teste"}})
	assert.Equal(t, outcomeValidation, out.Kind)

	assert.Equal(t, 0, api.updateCalls)
}

func TestModifyCampaignByNameResolvesID(t *testing.T) {
	api := &fakeCampaignAPI{campaign: models.Campaign{ID: "cmp_7", Name: "Verão"}}
	dir := &fakeDirectory{campaign: models.Campaign{ID: "cmp_7", Name: "Verão"}}
	runner := NewToolRunner(api, dir)

	out := runner.Dispatch(context.Background(), &ToolInvocation{
		Tool:      "modify_campaign",
		Arguments: map[string]any{"name": "Verão", "fields": map[string]any{"daily_budget": float64(25), "status": "active"}},
	})
	assert.Equal(t, outcomeOK, out.Kind)
	assert.Equal(t, "cmp_7", api.updatedID)
	assert.Contains(t, out.Text, "Verão")
	assert.Contains(t, out.Text, "daily_budget")
	assert.Contains(t, out.Text, "status")
}

func TestListCampaigns(t *testing.T) {
	runner := NewToolRunner(&fakeCampaignAPI{}, &fakeDirectory{})
	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "list_campaigns", Arguments: map[string]any{}})
	assert.Equal(t, outcomeOK, out.Kind)
	assert.Contains(t, out.Text, "nenhuma campanha")

	runner = NewToolRunner(&fakeCampaignAPI{names: []string{"Verão", "Inverno"}}, &fakeDirectory{})
	out = runner.Dispatch(context.Background(), &ToolInvocation{Tool: "list_campaigns", Arguments: map[string]any{}})
	assert.Contains(t, out.Text, "2 campanha(s)")
	assert.Contains(t, out.Text, "Verão, Inverno")
}

func TestCampaignDetailsDegradesOnMetricsFailure(t *testing.T) {
	dir := &fakeDirectory{
		campaign: models.Campaign{
			ID: "cmp_9", Name: "Verão", Status: "active",
			Budget:      decimal.NewFromInt(300),
			DailyBudget: decimal.NewFromInt(10),
		},
		metricsErr: errors.New("metrics store down"),
	}
	runner := NewToolRunner(&fakeCampaignAPI{}, dir)

	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "get_campaign_details", Arguments: map[string]any{"name": "Verão"}})
	assert.Equal(t, outcomeOK, out.Kind)
	assert.Contains(t, out.Text, "Verão")
	assert.Contains(t, out.Text, "custo R$ 0.00")
	assert.Contains(t, out.Text, "receita R$ 0.00")
}

func TestCampaignDetailsNotFoundIsInformational(t *testing.T) {
	runner := NewToolRunner(&fakeCampaignAPI{}, &fakeDirectory{lookupErr: sql.ErrNoRows})
	out := runner.Dispatch(context.Background(), &ToolInvocation{Tool: "get_campaign_details", Arguments: map[string]any{"name": "Fantasma"}})
	assert.Equal(t, outcomeNotFound, out.Kind)
	assert.NotContains(t, out.Text, "Erro:")
}
