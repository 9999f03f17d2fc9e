package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultDeepgramEndpoint = "https://api.deepgram.com/v1/listen"

// TranscriptionMessage is the subset of a Deepgram prerecorded response we
// read.
type TranscriptionMessage struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// DeepgramClient transcribes WAV files with Deepgram's prerecorded API.
type DeepgramClient struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewDeepgramClient(apiKey, model string, logger *zap.SugaredLogger) *DeepgramClient {
	return &DeepgramClient{
		APIKey:   apiKey,
		Endpoint: defaultDeepgramEndpoint,
		Model:    model,
		Timeout:  60 * time.Second,
		logger:   logger,
	}
}

func (dg *DeepgramClient) requestURL() string {
	q := url.Values{}
	q.Set("model", dg.Model)
	q.Set("punctuate", "true")
	q.Set("smart_format", "true")
	q.Set("detect_language", "true")
	return dg.Endpoint + "?" + q.Encode()
}

// Transcribe uploads the file and returns the trimmed top alternative. A
// response without channels or alternatives counts as no speech.
func (dg *DeepgramClient) Transcribe(ctx context.Context, wavPath string) (string, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", wavPath)
	}

	timeout := dg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(dg.requestURL())
	agent.Set(fiber.HeaderAuthorization, "Token "+dg.APIKey)
	agent.ContentType("audio/wav")
	agent.Body(data)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errors.Wrap(errs[0], "deepgram request")
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("deepgram returned status %d: %s", code, string(body))
	}

	var msg TranscriptionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", errors.Wrap(err, "parse deepgram response")
	}

	if len(msg.Results.Channels) == 0 || len(msg.Results.Channels[0].Alternatives) == 0 {
		dg.logger.Warn("No transcription alternatives found in Deepgram response")
		return "", nil
	}
	alt := msg.Results.Channels[0].Alternatives[0]
	dg.logger.Debugw("Deepgram transcription", "confidence", alt.Confidence)
	return strings.TrimSpace(alt.Transcript), nil
}
