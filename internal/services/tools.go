package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"marketing-agent-service/internal/models"
)

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeValidation
	outcomeNotFound
	outcomeTransport
	outcomeUnknown
)

// toolOutcome is what every handler returns: human-readable text on success
// and failure alike, because the text doubles as the chat reply and the
// tool-role history entry. Only navigate sets Action.
type toolOutcome struct {
	Text   string
	Kind   outcomeKind
	Action *models.Action
}

const navigateConfirmation = "Claro, levando você para lá agora."

type CampaignAPI interface {
	CreateCampaign(ctx context.Context, name string, dailyBudget decimal.Decimal) (models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, fields map[string]any) (models.Campaign, error)
	ListCampaignNames(ctx context.Context) ([]string, error)
}

// CampaignDirectory is the read side of the dashboard's store: point lookups
// and the metrics aggregate.
type CampaignDirectory interface {
	GetCampaignByName(ctx context.Context, name string) (models.Campaign, error)
	AggregateCampaignTotals(ctx context.Context, campaignID string) (models.CampaignTotals, error)
}

type toolHandler func(ctx context.Context, args map[string]any) toolOutcome

// ToolRunner dispatches a parsed invocation to one of the five known
// handlers through a lookup table; any other name is a terminal unknown
// outcome, never an error.
type ToolRunner struct {
	api      CampaignAPI
	dir      CampaignDirectory
	handlers map[string]toolHandler
}

func NewToolRunner(api CampaignAPI, dir CampaignDirectory) *ToolRunner {
	t := &ToolRunner{api: api, dir: dir}
	t.handlers = map[string]toolHandler{
		"navigate":             t.navigate,
		"create_campaign":      t.createCampaign,
		"modify_campaign":      t.modifyCampaign,
		"list_campaigns":       t.listCampaigns,
		"get_campaign_details": t.campaignDetails,
	}
	return t
}

func (t *ToolRunner) Dispatch(ctx context.Context, inv *ToolInvocation) toolOutcome {
	h, ok := t.handlers[inv.Tool]
	if !ok {
		return toolOutcome{
			Kind: outcomeUnknown,
			Text: fmt.Sprintf("Erro: não conheço a ferramenta %q.", inv.Tool),
		}
	}
	return h(ctx, inv.Arguments)
}

// The dashboard router ignores unknown paths client-side, so the path is
// passed through verbatim.
func (t *ToolRunner) navigate(_ context.Context, args map[string]any) toolOutcome {
	path := stringArg(args, "path")
	return toolOutcome{
		Text:   navigateConfirmation,
		Action: &models.Action{Type: "navigate", Payload: models.ActionPayload{Path: path}},
	}
}

func (t *ToolRunner) createCampaign(ctx context.Context, args map[string]any) toolOutcome {
	name := stringArg(args, "name")
	if name == "" {
		return toolOutcome{Kind: outcomeValidation, Text: "Erro: preciso de um nome para criar a campanha."}
	}
	budget, ok := numberArg(args, "budget")
	if !ok || budget.IsNegative() {
		return toolOutcome{Kind: outcomeValidation, Text: "Erro: o orçamento diário precisa ser um número maior ou igual a zero."}
	}

	created, err := t.api.CreateCampaign(ctx, name, budget)
	if err != nil {
		return t.apiFailure("criar a campanha", err)
	}
	return toolOutcome{Text: fmt.Sprintf(
		"Campanha %q criada em rascunho com orçamento diário de R$ %s (id: %s).",
		name, budget.StringFixed(2), created.ID,
	)}
}

func (t *ToolRunner) modifyCampaign(ctx context.Context, args map[string]any) toolOutcome {
	id := stringArg(args, "id")
	name := stringArg(args, "name")
	if name == "" {
		name = stringArg(args, "identifier")
	}
	if id == "" && name == "" {
		return toolOutcome{Kind: outcomeValidation, Text: "Erro: informe o nome ou o id da campanha que devo alterar."}
	}
	fields, _ := args["fields"].(map[string]any)
	if len(fields) == 0 {
		return toolOutcome{Kind: outcomeValidation, Text: "Erro: informe ao menos um campo para alterar."}
	}

	label := name
	if id == "" {
		camp, err := t.dir.GetCampaignByName(ctx, name)
		if errors.Is(err, sql.ErrNoRows) {
			return toolOutcome{Kind: outcomeNotFound, Text: fmt.Sprintf("Não encontrei nenhuma campanha chamada %q.", name)}
		}
		if err != nil {
			log.Printf("campaign lookup failed name=%q: %v", name, err)
			return toolOutcome{Kind: outcomeTransport, Text: "Erro: não consegui consultar as campanhas agora. Tente novamente em instantes."}
		}
		id = camp.ID
		label = camp.Name
	}
	if label == "" {
		label = id
	}

	updated, err := t.api.UpdateCampaign(ctx, id, fields)
	if err != nil {
		return t.apiFailure("atualizar a campanha", err)
	}
	if updated.Name != "" {
		label = updated.Name
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	sort.Strings(changed)
	return toolOutcome{Text: fmt.Sprintf("Campanha %q atualizada: %s.", label, strings.Join(changed, ", "))}
}

func (t *ToolRunner) listCampaigns(ctx context.Context, _ map[string]any) toolOutcome {
	names, err := t.api.ListCampaignNames(ctx)
	if err != nil {
		return t.apiFailure("listar as campanhas", err)
	}
	if len(names) == 0 {
		return toolOutcome{Text: "Você ainda não tem nenhuma campanha cadastrada."}
	}
	return toolOutcome{Text: fmt.Sprintf("Você tem %d campanha(s): %s.", len(names), strings.Join(names, ", "))}
}

func (t *ToolRunner) campaignDetails(ctx context.Context, args map[string]any) toolOutcome {
	name := stringArg(args, "name")
	if name == "" {
		return toolOutcome{Kind: outcomeValidation, Text: "Erro: informe o nome da campanha que devo detalhar."}
	}

	camp, err := t.dir.GetCampaignByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return toolOutcome{Kind: outcomeNotFound, Text: fmt.Sprintf("Não encontrei nenhuma campanha chamada %q.", name)}
	}
	if err != nil {
		log.Printf("campaign lookup failed name=%q: %v", name, err)
		return toolOutcome{Kind: outcomeTransport, Text: "Erro: não consegui consultar as campanhas agora. Tente novamente em instantes."}
	}

	// Metrics degrade to zero rather than failing the whole lookup.
	totals, err := t.dir.AggregateCampaignTotals(ctx, camp.ID)
	if err != nil {
		log.Printf("metrics aggregation failed campaign=%s: %v", camp.ID, err)
		totals = models.CampaignTotals{}
	}

	return toolOutcome{Text: fmt.Sprintf(
		"Campanha %q (%s)\n"+
			"Orçamento total: R$ %s | diário: R$ %s\n"+
			"Custos fixos: tráfego R$ %s, criativos R$ %s, operacional R$ %s\n"+
			"No período: custo R$ %s, receita R$ %s.",
		camp.Name, camp.Status,
		camp.Budget.StringFixed(2), camp.DailyBudget.StringFixed(2),
		camp.CostTraffic.StringFixed(2), camp.CostCreative.StringFixed(2), camp.CostOperational.StringFixed(2),
		totals.Cost.StringFixed(2), totals.Revenue.StringFixed(2),
	)}
}

func (t *ToolRunner) apiFailure(what string, err error) toolOutcome {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		log.Printf("campaign api rejected request (%s): %v", what, err)
		return toolOutcome{Kind: outcomeTransport, Text: fmt.Sprintf("Erro: a API de campanhas rejeitou o pedido ao %s (status %d).", what, apiErr.Status)}
	}
	log.Printf("campaign api unreachable (%s): %v", what, err)
	return toolOutcome{Kind: outcomeTransport, Text: fmt.Sprintf("Erro: não consegui falar com a API de campanhas para %s. Tente novamente em instantes.", what)}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// numberArg tolerates the model emitting budgets as JSON numbers or strings.
func numberArg(args map[string]any, key string) (decimal.Decimal, bool) {
	switch v := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	}
	return decimal.Zero, false
}
