package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	twilio "github.com/twilio/twilio-go"

	"github.com/mrsingh-rishi/call-assist/audio"
	"github.com/mrsingh-rishi/call-assist/call"
	"github.com/mrsingh-rishi/call-assist/config"
	"github.com/mrsingh-rishi/call-assist/llm"
	"github.com/mrsingh-rishi/call-assist/logger"
	"github.com/mrsingh-rishi/call-assist/metrics"
	"github.com/mrsingh-rishi/call-assist/output"
	"github.com/mrsingh-rishi/call-assist/server"
	"github.com/mrsingh-rishi/call-assist/store"
	"github.com/mrsingh-rishi/call-assist/stt"
	"github.com/mrsingh-rishi/call-assist/workers"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.Server.Debug)
	defer func() { _ = logger.Sync() }()
	logger.Info("Logger initialized")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Init Twilio client
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
	})

	sender, err := output.NewWhatsAppSender(client.Api, cfg.Twilio.WhatsAppFrom, cfg.Twilio.WhatsAppTo, logger)
	if err != nil {
		logger.Fatalf("Failed to create WhatsApp sender: %v", err)
	}
	tmpl := output.DefaultTemplate()
	dispatcher := output.NewDispatcher(sender, tmpl, logger, m)

	profile, err := llm.LookupProfile(cfg.Pipeline.Profile)
	if err != nil {
		logger.Fatalf("Failed to load profile: %v", err)
	}
	profile = profile.WithKeys(cfg.Pipeline.AnswerKey, cfg.Pipeline.SummaryKey)
	completer := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.OpenAI.JSONMode, logger)
	responder := llm.NewResponder(completer, profile, logger)

	var transcriber workers.Transcriber
	switch cfg.STT.Provider {
	case "deepgram":
		transcriber = stt.NewDeepgramClient(cfg.STT.DeepgramAPIKey, cfg.STT.DeepgramModel, logger)
	default:
		transcriber = stt.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.TranscribeModel, logger)
	}

	converter := audio.NewConverter(audio.Config{
		FFmpegPath:  cfg.Audio.FFmpegPath,
		WorkDir:     cfg.Audio.WorkDir,
		SampleRate:  cfg.Audio.SampleRate,
		Channels:    cfg.Audio.Channels,
		MaxDuration: cfg.Audio.MaxDuration,
	}, logger)

	latest := store.NewLatest()
	pipeline := workers.NewPipeline(converter, transcriber, responder, dispatcher, latest, workers.PipelineOptions{
		FallbackCache: cfg.Pipeline.FallbackCache,
		FallbackText:  tmpl.FallbackAnswer,
	}, logger, m)
	runner := workers.NewRunner(context.Background(), pipeline, logger, m)

	srv := server.New(server.Config{
		StreamURL:    cfg.MediaStreamURL(),
		ListenWindow: cfg.Audio.MaxDuration,
	}, server.Deps{
		Placer:   call.NewDialer(client.Api, cfg.Twilio.FromNumber, cfg.Twilio.CallTo, cfg.VoiceURL(), logger),
		Latest:   latest,
		Registry: call.NewRegistry(),
		Starter:  runner,
		Gatherer: reg,
		Logger:   logger,
		Metrics:  m,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Infow("HTTP + WS server listening", "addr", addr, "profile", profile.Name, "stt", cfg.STT.Provider)
		if err := srv.Listen(addr); err != nil {
			logger.Fatalf("Server exited: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := srv.Shutdown(cfg.Pipeline.ShutdownGrace); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	if !runner.Wait(cfg.Pipeline.ShutdownGrace) {
		logger.Warn("Exiting with pipelines still running")
	}
	logger.Info("Shutdown complete")
}
