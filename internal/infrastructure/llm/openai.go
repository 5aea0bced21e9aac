package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NewsReel/internal/ports"
)

const systemPrompt = "You are a creative social media content writer specializing in short-form video scripts."

// OpenAIClient implements ports.Completer over the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

var _ ports.Completer = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from an API key and model name.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}
	return &OpenAIClient{
		client: &client,
		model:  chatModel,
	}
}

// Complete sends the prompt as a user message and returns the raw text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
