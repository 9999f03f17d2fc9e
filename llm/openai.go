package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient runs single-turn chat completions.
type OpenAIClient struct {
	Client   *openai.Client
	Model    string
	JSONMode bool // ask for a JSON object response
	logger   *zap.SugaredLogger
}

func NewOpenAIClient(apiKey, model string, jsonMode bool, logger *zap.SugaredLogger) *OpenAIClient {
	return NewOpenAIClientWithConfig(openai.DefaultConfig(apiKey), model, jsonMode, logger)
}

func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string, jsonMode bool, logger *zap.SugaredLogger) *OpenAIClient {
	return &OpenAIClient{
		Client:   openai.NewClientWithConfig(cfg),
		Model:    model,
		JSONMode: jsonMode,
		logger:   logger,
	}
}

// Complete sends the system instruction and user text and returns the
// trimmed content of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if c.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}
	c.logger.Debugw("OpenAI completion", "model", c.Model, "finish_reason", resp.Choices[0].FinishReason,
		"total_tokens", resp.Usage.TotalTokens)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
