package services

import (
	"context"
	"strings"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/platform/openai"
)

const seoSystemPrompt = "Eres un asistente SEO. Responde siempre en español y solo con el JSON pedido."

// NewLLMGenerator adapts the OpenAI client to the analysis pipeline. A nil
// client yields a nil Generator so analysis endpoints report unavailability.
func NewLLMGenerator(client openai.Client) analysis.Generator {
	if client == nil {
		return nil
	}
	return analysis.GeneratorFunc(func(ctx context.Context, prompt string, cfg analysis.GenerateConfig) (string, error) {
		temp := cfg.Temperature
		return client.GenerateText(ctx, seoSystemPrompt, prompt, openai.GenerateOptions{
			Temperature:     &temp,
			MaxOutputTokens: cfg.MaxOutputTokens,
			JSON:            strings.EqualFold(cfg.ResponseFormat, "json"),
		})
	})
}
