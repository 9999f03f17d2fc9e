package stt

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient transcribes WAV files with the OpenAI audio API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.SugaredLogger
}

func NewOpenAIClient(apiKey, model string, logger *zap.SugaredLogger) *OpenAIClient {
	return NewOpenAIClientWithConfig(openai.DefaultConfig(apiKey), model, logger)
}

// NewOpenAIClientWithConfig allows pointing the client at a different base
// URL.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string, logger *zap.SugaredLogger) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Transcribe returns the trimmed transcript of the file at wavPath. An empty
// string means no speech was recognised.
func (c *OpenAIClient) Transcribe(ctx context.Context, wavPath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: wavPath,
	})
	if err != nil {
		return "", errors.Wrap(err, "openai transcription")
	}
	text := strings.TrimSpace(resp.Text)
	c.logger.Debugw("OpenAI transcription", "model", c.model, "chars", len(text))
	return text, nil
}
