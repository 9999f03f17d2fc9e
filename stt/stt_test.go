package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap/zaptest"
)

func writeWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call-test.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAITranscribeTrims(t *testing.T) {
	var gotPath, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotModel = r.FormValue("model")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"  mera sar dard kar raha hai \n"}`)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "gpt-4o-mini-transcribe", zaptest.NewLogger(t).Sugar())

	text, err := c.Transcribe(context.Background(), writeWav(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "mera sar dard kar raha hai" {
		t.Errorf("expected trimmed transcript, got %q", text)
	}
	if gotPath != "/v1/audio/transcriptions" {
		t.Errorf("expected transcription endpoint, got %s", gotPath)
	}
	if gotModel != "gpt-4o-mini-transcribe" {
		t.Errorf("expected model gpt-4o-mini-transcribe, got %q", gotModel)
	}
}

func TestOpenAITranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "gpt-4o-mini-transcribe", zaptest.NewLogger(t).Sugar())

	if _, err := c.Transcribe(context.Background(), writeWav(t)); err == nil {
		t.Error("expected error for quota failure")
	}
}

func TestDeepgramTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotModel = r.URL.Query().Get("model")
		gotType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, `{"results":{"channels":[{"alternatives":[{"transcript":" hello there ","confidence":0.93}]}]}}`)
	}))
	defer srv.Close()

	dg := NewDeepgramClient("dg-key", "nova-2-phonecall", zaptest.NewLogger(t).Sugar())
	dg.Endpoint = srv.URL + "/v1/listen"

	text, err := dg.Transcribe(context.Background(), writeWav(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello there" {
		t.Errorf("expected %q, got %q", "hello there", text)
	}
	if gotAuth != "Token dg-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotModel != "nova-2-phonecall" {
		t.Errorf("unexpected model %q", gotModel)
	}
	if !strings.HasPrefix(gotType, "audio/wav") {
		t.Errorf("unexpected content type %q", gotType)
	}
}

func TestDeepgramNoAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":{"channels":[]}}`)
	}))
	defer srv.Close()

	dg := NewDeepgramClient("dg-key", "nova-2-phonecall", zaptest.NewLogger(t).Sugar())
	dg.Endpoint = srv.URL

	text, err := dg.Transcribe(context.Background(), writeWav(t))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "" {
		t.Errorf("expected empty transcript, got %q", text)
	}
}

func TestDeepgramErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"err_code":"INVALID_AUTH"}`)
	}))
	defer srv.Close()

	dg := NewDeepgramClient("bad", "nova-2-phonecall", zaptest.NewLogger(t).Sugar())
	dg.Endpoint = srv.URL

	_, err := dg.Transcribe(context.Background(), writeWav(t))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestDeepgramMissingFile(t *testing.T) {
	dg := NewDeepgramClient("k", "m", zaptest.NewLogger(t).Sugar())
	if _, err := dg.Transcribe(context.Background(), "/nonexistent.wav"); err == nil {
		t.Error("expected error for missing file")
	}
}
