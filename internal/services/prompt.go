package services

import (
	"fmt"

	"marketing-agent-service/internal/models"
)

const instructionsTemplate = `Você é o assistente do painel de operações de marketing. Responda sempre em português, de forma curta e direta. O usuário está na página %s do painel.

Quando o usuário pedir uma ação, responda SOMENTE com um objeto JSON, sem nenhum texto antes ou depois, no formato:
{"tool":"<nome>","arguments":{...}}

Ferramentas disponíveis:
- create_campaign: {"name": string, "budget": número} — cria uma campanha em rascunho com esse orçamento diário.
- modify_campaign: {"name" ou "id": string, "fields": {campo: novo valor}} — altera campos de uma campanha existente.
- list_campaigns: {} — lista as campanhas cadastradas.
- get_campaign_details: {"name": string} — mostra detalhes e métricas de uma campanha.
- navigate: {"path": string} — leva o usuário a uma página do painel (ex.: /Metrics, /Campaigns, /Budget).

Para qualquer outra pergunta, responda em texto simples, sem JSON.`

// BuildInstructions interpolates the caller's current dashboard location into
// the fixed instruction block.
func BuildInstructions(uiLocation string) string {
	if uiLocation == "" {
		uiLocation = "/"
	}
	return fmt.Sprintf(instructionsTemplate, uiLocation)
}

// AssemblePrompt builds the exact ordered message list sent to the model:
// instructions, then the already-windowed history, then the new user turn.
// Nil content is coerced to an empty string and the legacy "function" role is
// normalized; malformed history must never make this panic.
func AssemblePrompt(instructions string, history []models.ConversationMessage, userMessage string) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+2)
	out = append(out, ChatMessage{Role: models.RoleSystem, Content: instructions})
	for _, m := range history {
		role := m.Role
		if role == models.RoleFunction {
			role = models.RoleTool
		}
		content := ""
		if m.Content != nil {
			content = *m.Content
		}
		out = append(out, ChatMessage{Role: role, Content: content, ToolCallID: m.ToolCallID})
	}
	out = append(out, ChatMessage{Role: models.RoleUser, Content: userMessage})
	return out
}
