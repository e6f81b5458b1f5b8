package generation

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMProvider generates through any langchaingo model.
type LLMProvider struct {
	name string
	llm  llms.Model
}

func NewLLMProvider(name string, llm llms.Model) *LLMProvider {
	return &LLMProvider{name: name, llm: llm}
}

// NewOpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
func NewOpenRouterProvider(apiKey, model, baseURL string) (*LLMProvider, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}
	return NewLLMProvider("openrouter", llm), nil
}

func (p *LLMProvider) Name() string {
	return p.name
}

func (p *LLMProvider) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	messages := []llms.MessageContent{}
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	resp, err := p.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
