package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port          int    `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Debug         bool   `mapstructure:"debug"`
}

type TwilioConfig struct {
	AccountSID   string `mapstructure:"account_sid"`
	AuthToken    string `mapstructure:"auth_token"`
	FromNumber   string `mapstructure:"from_number"`
	WhatsAppFrom string `mapstructure:"whatsapp_from"`
	WhatsAppTo   string `mapstructure:"whatsapp_to"`
	CallTo       string `mapstructure:"call_to"`
}

type OpenAIConfig struct {
	APIKey          string `mapstructure:"api_key"`
	TranscribeModel string `mapstructure:"transcribe_model"`
	ChatModel       string `mapstructure:"chat_model"`
	JSONMode        bool   `mapstructure:"json_mode"`
}

type STTConfig struct {
	Provider       string `mapstructure:"provider"`
	DeepgramAPIKey string `mapstructure:"deepgram_api_key"`
	DeepgramModel  string `mapstructure:"deepgram_model"`
}

type AudioConfig struct {
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	WorkDir     string        `mapstructure:"work_dir"`
	SampleRate  int           `mapstructure:"sample_rate"`
	Channels    int           `mapstructure:"channels"`
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

type PipelineConfig struct {
	Profile       string        `mapstructure:"profile"`
	AnswerKey     string        `mapstructure:"answer_key"`
	SummaryKey    string        `mapstructure:"summary_key"`
	FallbackCache string        `mapstructure:"fallback_cache"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// Settings is the full service configuration.
type Settings struct {
	Server   ServerConfig   `mapstructure:"server"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	STT      STTConfig      `mapstructure:"stt"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// Fallback cache modes for the no-speech path.
const (
	FallbackCacheTranscript = "transcript"
	FallbackCacheUntouched  = "untouched"
	FallbackCacheFallback   = "fallback"
)

// env names for each settings key; the first one present wins
var envBindings = map[string][]string{
	"server.port":             {"PORT"},
	"server.public_base_url":  {"PUBLIC_BASE_URL", "NGROK_BASE_URL"},
	"server.debug":            {"DEBUG"},
	"twilio.account_sid":      {"TWILIO_ACCOUNT_SID"},
	"twilio.auth_token":       {"TWILIO_AUTH_TOKEN"},
	"twilio.from_number":      {"TWILIO_FROM_NUMBER"},
	"twilio.whatsapp_from":    {"TWILIO_WHATSAPP_FROM"},
	"twilio.whatsapp_to":      {"MY_WHATSAPP_NUMBER"},
	"twilio.call_to":          {"MY_PHONE_NUMBER"},
	"openai.api_key":          {"OPENAI_API_KEY"},
	"openai.transcribe_model": {"OPENAI_TRANSCRIBE_MODEL"},
	"openai.chat_model":       {"OPENAI_CHAT_MODEL"},
	"openai.json_mode":        {"OPENAI_JSON_MODE"},
	"stt.provider":            {"STT_PROVIDER"},
	"stt.deepgram_api_key":    {"DEEPGRAM_API_KEY"},
	"stt.deepgram_model":      {"DEEPGRAM_MODEL"},
	"audio.ffmpeg_path":       {"FFMPEG_PATH"},
	"audio.work_dir":          {"AUDIO_WORK_DIR"},
	"audio.max_duration":      {"AUDIO_MAX_DURATION"},
	"pipeline.profile":        {"PIPELINE_PROFILE"},
	"pipeline.answer_key":     {"PIPELINE_ANSWER_KEY"},
	"pipeline.summary_key":    {"PIPELINE_SUMMARY_KEY"},
	"pipeline.fallback_cache": {"PIPELINE_FALLBACK_CACHE"},
	"pipeline.shutdown_grace": {"PIPELINE_SHUTDOWN_GRACE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.debug", false)
	v.SetDefault("openai.transcribe_model", "gpt-4o-mini-transcribe")
	v.SetDefault("openai.chat_model", "gpt-4.1-mini")
	v.SetDefault("openai.json_mode", true)
	v.SetDefault("stt.provider", "openai")
	v.SetDefault("stt.deepgram_model", "nova-2-phonecall")
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")
	v.SetDefault("audio.work_dir", os.TempDir())
	v.SetDefault("audio.sample_rate", 8000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.max_duration", 60*time.Second)
	v.SetDefault("pipeline.profile", "sehat-assist")
	v.SetDefault("pipeline.fallback_cache", FallbackCacheTranscript)
	v.SetDefault("pipeline.shutdown_grace", 30*time.Second)
}

// Load reads .env (if any), the optional YAML file at path and the process
// environment, in increasing order of precedence.
func Load(path string) (*Settings, error) {
	// a missing .env is normal in deployed environments
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &s, nil
}

// Validate checks required credentials and enumerated values.
func (s *Settings) Validate() error {
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("server: port must be between 1 and 65535, got %d", s.Server.Port)
	}
	if s.Server.PublicBaseURL == "" {
		return fmt.Errorf("server: PUBLIC_BASE_URL (or NGROK_BASE_URL) must be set")
	}
	if _, err := url.ParseRequestURI(s.Server.PublicBaseURL); err != nil {
		return errors.Wrap(err, "server: public_base_url")
	}

	t := s.Twilio
	if t.AccountSID == "" || t.AuthToken == "" {
		return fmt.Errorf("twilio: TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set")
	}
	if t.FromNumber == "" || t.CallTo == "" {
		return fmt.Errorf("twilio: TWILIO_FROM_NUMBER and MY_PHONE_NUMBER must be set")
	}
	if t.WhatsAppFrom == "" || t.WhatsAppTo == "" {
		return fmt.Errorf("twilio: TWILIO_WHATSAPP_FROM and MY_WHATSAPP_NUMBER must be set")
	}

	if s.OpenAI.APIKey == "" {
		return fmt.Errorf("openai: OPENAI_API_KEY must be set")
	}

	switch s.STT.Provider {
	case "openai":
	case "deepgram":
		if s.STT.DeepgramAPIKey == "" {
			return fmt.Errorf("stt: DEEPGRAM_API_KEY must be set for the deepgram provider")
		}
	default:
		return fmt.Errorf("stt: provider must be 'openai' or 'deepgram', got '%s'", s.STT.Provider)
	}

	if s.Audio.SampleRate != 8000 || s.Audio.Channels != 1 {
		return fmt.Errorf("audio: media streams are 8000 Hz mono, got %d Hz / %d channels",
			s.Audio.SampleRate, s.Audio.Channels)
	}
	if s.Audio.MaxDuration <= 0 {
		return fmt.Errorf("audio: max_duration must be positive, got %s", s.Audio.MaxDuration)
	}

	switch s.Pipeline.FallbackCache {
	case FallbackCacheTranscript, FallbackCacheUntouched, FallbackCacheFallback:
	default:
		return fmt.Errorf("pipeline: fallback_cache must be one of [transcript, untouched, fallback], got '%s'",
			s.Pipeline.FallbackCache)
	}
	return nil
}

// VoiceURL is the answer URL handed to the call-initiation service.
func (s *Settings) VoiceURL() string {
	return strings.TrimRight(s.Server.PublicBaseURL, "/") + "/voice"
}

// MediaStreamURL is the websocket address the far end streams call audio to.
func (s *Settings) MediaStreamURL() string {
	base := strings.TrimRight(s.Server.PublicBaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/media"
}
