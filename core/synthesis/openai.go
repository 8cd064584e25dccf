package synthesis

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures the OpenAI-compatible generation client. Setting
// BaseURL points the client at any compatible endpoint (Groq, Ollama, ...).
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

type openAIGenerator struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIGenerator creates a Generator backed by an OpenAI-compatible
// chat completion API.
func NewOpenAIGenerator(opts OpenAIOptions) (Generator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("generation api key is not set")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("generation model is not set")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &openAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
	}, nil
}

// Generate implements Generator.
func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.opts.Model,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
