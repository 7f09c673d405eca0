package assistant

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `Você é o assistente de gestão da oficina %s.
Responda em português, de forma curta e objetiva, usando apenas os dados do
snapshot JSON abaixo. Se a resposta não estiver nos dados, diga que não sabe.

Snapshot:
%s`

// SystemPrompt embeds the business snapshot into the instructions.
func SystemPrompt(company string, snapshot any) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return fmt.Sprintf(systemPrompt, company, data), nil
}
