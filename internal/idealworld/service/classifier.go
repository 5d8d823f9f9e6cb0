package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eon-interface/idealworld/internal/idealworld/domain"
)

const classifierSystem = "Você é um especialista rigoroso na ODS 13 (Ação Climática) da ONU e responde apenas em JSON."

const classifierRubric = `Avalie se a descrição abaixo trata ESPECIFICAMENTE da ODS 13: Ação Climática.
Descrição: "%s"

Conta como ODS 13: combate às mudanças climáticas, energias renováveis, redução de emissões,
resiliência e adaptação climática, prevenção de desastres naturais, políticas climáticas.
Temas genéricos de "natureza", "árvores" ou "animais felizes" NÃO contam, a menos que estejam
ligados à mitigação ou adaptação climática (ex: "reflorestamento para captura de carbono",
"cidade verde para reduzir o calor").

Responda APENAS com um objeto JSON com uma única chave:
"aligned": booleano (true somente se a descrição estiver claramente focada na ODS 13).`

// Classifier judges whether a description is aligned with climate action.
type Classifier struct {
	text domain.TextCompleter
}

func NewClassifier(text domain.TextCompleter) *Classifier {
	return &Classifier{text: text}
}

// Classify makes one call to the text service. Only provider failures are
// returned as errors; unreadable answers count as not aligned.
func (c *Classifier) Classify(ctx context.Context, idealWorldText string) (bool, error) {
	raw, err := c.text.CompleteText(ctx, classifierSystem, fmt.Sprintf(classifierRubric, idealWorldText), true)
	if err != nil {
		return false, err
	}
	return ParseAlignment(raw), nil
}

// ParseAlignment is the fail-closed policy: anything but a JSON object with a
// boolean "aligned" set to true is a rejection.
func ParseAlignment(raw string) bool {
	var out struct {
		Aligned *bool `json:"aligned"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return false
	}
	return out.Aligned != nil && *out.Aligned
}
