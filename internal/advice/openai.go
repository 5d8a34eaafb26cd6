package advice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text through any OpenAI-compatible chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a client for baseURL, or the public API when it is empty.
// A nil httpClient uses the library default.
func NewOpenAI(apiKey, baseURL, model string, httpClient *http.Client) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: float32(temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
