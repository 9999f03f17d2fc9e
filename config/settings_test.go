package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NGROK_BASE_URL", "https://abcd.ngrok-free.app")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550001111")
	t.Setenv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886")
	t.Setenv("MY_WHATSAPP_NUMBER", "whatsapp:+919999999999")
	t.Setenv("MY_PHONE_NUMBER", "+919999999999")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", s.Server.Port)
	}
	if s.Server.PublicBaseURL != "https://abcd.ngrok-free.app" {
		t.Errorf("expected public base url from NGROK_BASE_URL, got %q", s.Server.PublicBaseURL)
	}
	if s.Twilio.WhatsAppTo != "whatsapp:+919999999999" {
		t.Errorf("unexpected whatsapp recipient %q", s.Twilio.WhatsAppTo)
	}
	if s.OpenAI.TranscribeModel != "gpt-4o-mini-transcribe" {
		t.Errorf("expected default transcribe model, got %q", s.OpenAI.TranscribeModel)
	}
	if s.OpenAI.ChatModel != "gpt-4.1-mini" {
		t.Errorf("expected default chat model, got %q", s.OpenAI.ChatModel)
	}
	if !s.OpenAI.JSONMode {
		t.Error("expected json mode on by default")
	}
	if s.Audio.MaxDuration != 60*time.Second {
		t.Errorf("expected 60s max duration, got %s", s.Audio.MaxDuration)
	}
	if s.Pipeline.FallbackCache != FallbackCacheTranscript {
		t.Errorf("expected fallback cache %q, got %q", FallbackCacheTranscript, s.Pipeline.FallbackCache)
	}
}

func TestPublicBaseURLPrecedence(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLIC_BASE_URL", "https://calls.example.com/")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := s.VoiceURL(); got != "https://calls.example.com/voice" {
		t.Errorf("expected voice url https://calls.example.com/voice, got %s", got)
	}
	if got := s.MediaStreamURL(); got != "wss://calls.example.com/media" {
		t.Errorf("expected media url wss://calls.example.com/media, got %s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
pipeline:
  profile: general
  fallback_cache: untouched
  shutdown_grace: 5s
stt:
  provider: deepgram
  deepgram_api_key: dg-key
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Pipeline.Profile != "general" {
		t.Errorf("expected profile general, got %q", s.Pipeline.Profile)
	}
	if s.Pipeline.FallbackCache != FallbackCacheUntouched {
		t.Errorf("expected fallback cache untouched, got %q", s.Pipeline.FallbackCache)
	}
	if s.Pipeline.ShutdownGrace != 5*time.Second {
		t.Errorf("expected 5s shutdown grace, got %s", s.Pipeline.ShutdownGrace)
	}
	if s.STT.Provider != "deepgram" || s.STT.DeepgramAPIKey != "dg-key" {
		t.Errorf("unexpected stt config %+v", s.STT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	setRequiredEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func validSettings() Settings {
	return Settings{
		Server: ServerConfig{Port: 3000, PublicBaseURL: "https://example.com"},
		Twilio: TwilioConfig{
			AccountSID:   "AC1",
			AuthToken:    "tok",
			FromNumber:   "+1",
			WhatsAppFrom: "whatsapp:+1",
			WhatsAppTo:   "whatsapp:+2",
			CallTo:       "+2",
		},
		OpenAI:   OpenAIConfig{APIKey: "sk"},
		STT:      STTConfig{Provider: "openai"},
		Audio:    AudioConfig{SampleRate: 8000, Channels: 1, MaxDuration: time.Minute},
		Pipeline: PipelineConfig{FallbackCache: FallbackCacheTranscript},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"bad port", func(s *Settings) { s.Server.Port = 70000 }, "port"},
		{"no base url", func(s *Settings) { s.Server.PublicBaseURL = "" }, "PUBLIC_BASE_URL"},
		{"no twilio creds", func(s *Settings) { s.Twilio.AuthToken = "" }, "TWILIO_AUTH_TOKEN"},
		{"no whatsapp", func(s *Settings) { s.Twilio.WhatsAppTo = "" }, "MY_WHATSAPP_NUMBER"},
		{"no openai key", func(s *Settings) { s.OpenAI.APIKey = "" }, "OPENAI_API_KEY"},
		{"deepgram without key", func(s *Settings) { s.STT.Provider = "deepgram" }, "DEEPGRAM_API_KEY"},
		{"unknown stt", func(s *Settings) { s.STT.Provider = "whisper" }, "provider"},
		{"stereo", func(s *Settings) { s.Audio.Channels = 2 }, "mono"},
		{"bad fallback", func(s *Settings) { s.Pipeline.FallbackCache = "sometimes" }, "fallback_cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
