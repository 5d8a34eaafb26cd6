package advice

import (
	"encoding/json"
	"fmt"

	"cofrinho/internal/core"
)

type entrySummary struct {
	Tipo      string  `json:"tipo"`
	Valor     float64 `json:"valor"`
	Categoria string  `json:"categoria"`
	Descricao string  `json:"descricao"`
	Dono      string  `json:"dono"`
}

const promptTemplate = "Você é o Julius da série 'Todo Mundo Odeia o Chris'. " +
	"Analise os gastos de %s do casal %s e %s. " +
	"Eles estão juntando dinheiro para um CRUZEIRO e um CARRO NOVO. " +
	"Dê 3 broncas ou dicas curtas de economia, do jeito mais pão-duro possível, " +
	"para eles chegarem no navio e no carro sem gastar 1 centavo a mais do que o necessário. " +
	"Use as frases icônicas dele. Seja engraçado e direto. Transações: %s"

// BuildPrompt renders the persona instructions followed by the month's
// entries as a JSON array.
func BuildPrompt(entries []core.Entry, monthName string, h core.Household) (string, error) {
	summary := make([]entrySummary, 0, len(entries))
	for _, e := range entries {
		summary = append(summary, entrySummary{
			Tipo:      e.Kind.Label(),
			Valor:     e.Amount,
			Categoria: e.Category.Label(),
			Descricao: e.Description,
			Dono:      h.Name(e.Owner),
		})
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	return fmt.Sprintf(promptTemplate, monthName, h.PersonA, h.PersonB, data), nil
}
