package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

// Gemini generates text with the Generative Language API.
type Gemini struct {
	models *generativelanguage.ModelsService
	model  string
}

// NewGemini authenticates with an API key. Extra client options are appended,
// so tests can point the service at another endpoint.
func NewGemini(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}
	return &Gemini{models: svc.Models, model: modelResource(model)}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     temperature,
			ForceSendFields: []string{"Temperature"},
		},
	}

	resp, err := g.models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", errors.New("gemini blocked prompt: " + resp.PromptFeedback.BlockReason)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		return b.String(), nil
	}
	return "", nil
}

func modelResource(model string) string {
	if strings.HasPrefix(model, "models/") || strings.HasPrefix(model, "tunedModels/") {
		return model
	}
	return "models/" + model
}
