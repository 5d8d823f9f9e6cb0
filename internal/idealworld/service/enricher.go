package service

import (
	"context"
	"fmt"

	"github.com/eon-interface/idealworld/internal/idealworld/domain"
)

const enricherSystem = "Você é um especialista em prompts para geração de imagens. Crie prompts concisos e diretos (máximo 20 palavras) para imagens realistas. Responda APENAS com o prompt melhorado, sem explicações."

const enricherInstruction = "Enriqueça este prompt de forma concisa para uma imagem realista: 'mundo perfeito com %s'. Adicione apenas detalhes essenciais de iluminação e realismo. Máximo 20 palavras. Não inclua nada que não possa existir na realidade; se houver algo assim, retire da imagem."

// Enricher turns a raw description into a short image prompt.
type Enricher struct {
	text domain.TextCompleter
}

func NewEnricher(text domain.TextCompleter) *Enricher {
	return &Enricher{text: text}
}

// Enrich returns the provider's answer verbatim.
func (e *Enricher) Enrich(ctx context.Context, idealWorldText string) (string, error) {
	return e.text.CompleteText(ctx, enricherSystem, fmt.Sprintf(enricherInstruction, idealWorldText), false)
}
