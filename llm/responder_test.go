package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap/zaptest"

	"github.com/mrsingh-rishi/call-assist/mocks"
)

func TestRespondStructured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	profile, _ := LookupProfile("sehat-assist")
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), profile.Instruction, "mera sar dard kar raha hai").
		Return(`{"full_answer":"Paani piyo, aaram karo.","summary":"Aaram karo."}`, nil)

	r := NewResponder(completer, profile, zaptest.NewLogger(t).Sugar())
	got, err := r.Respond(context.Background(), "mera sar dard kar raha hai")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if got.FullAnswer != "Paani piyo, aaram karo." {
		t.Errorf("expected full answer, got %q", got.FullAnswer)
	}
	if got.Summary != "Aaram karo." {
		t.Errorf("expected summary, got %q", got.Summary)
	}
}

func TestRespondPlainTextFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw := strings.Repeat("b", 200)
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(raw, nil)

	profile, _ := LookupProfile("sehat-assist")
	r := NewResponder(completer, profile, zaptest.NewLogger(t).Sugar())
	got, err := r.Respond(context.Background(), "kuch bhi")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if got.FullAnswer != raw {
		t.Errorf("expected raw text as answer, got %q", got.FullAnswer)
	}
	if got.Summary != strings.Repeat("b", 120)+"..." {
		t.Errorf("expected truncated summary, got %q", got.Summary)
	}
}

func TestRespondUsesProfileKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"answer":"Long","short":"S"}`, nil)

	profile, _ := LookupProfile("general")
	r := NewResponder(completer, profile, zaptest.NewLogger(t).Sugar())
	got, err := r.Respond(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if got.FullAnswer != "Long" || got.Summary != "S" {
		t.Errorf("expected Long/S, got %q/%q", got.FullAnswer, got.Summary)
	}
}

func TestRespondModelFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("rate limited")
	completer := mocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

	profile, _ := LookupProfile("sehat-assist")
	r := NewResponder(completer, profile, zaptest.NewLogger(t).Sugar())
	if _, err := r.Respond(context.Background(), "hello"); errors.Cause(err) != boom {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestOpenAICompleteJSONMode(t *testing.T) {
	var req openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("expected chat completions endpoint, got %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4.1-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":"  {\"full_answer\":\"A\",\"summary\":\"B\"}\n"},"finish_reason":"stop"}],
"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "gpt-4.1-mini", true, zaptest.NewLogger(t).Sugar())

	out, err := c.Complete(context.Background(), "be brief", "mera sar dard")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != `{"full_answer":"A","summary":"B"}` {
		t.Errorf("expected trimmed content, got %q", out)
	}
	if req.Model != "gpt-4.1-mini" {
		t.Errorf("expected model gpt-4.1-mini, got %s", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[1].Content != "mera sar dard" {
		t.Errorf("expected system and user messages, got %+v", req.Messages)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("expected json_object response format, got %+v", req.ResponseFormat)
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "gpt-4.1-mini", false, zaptest.NewLogger(t).Sugar())

	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("expected error for empty choices")
	}
}
