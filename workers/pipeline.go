package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/audio"
	"github.com/mrsingh-rishi/call-assist/config"
	"github.com/mrsingh-rishi/call-assist/metrics"
	"github.com/mrsingh-rishi/call-assist/model"
)

//go:generate mockgen -destination=../mocks/workers.go -package=mocks github.com/mrsingh-rishi/call-assist/workers Converter,Responder,Transcriber

type Converter interface {
	Convert(ctx context.Context, streamSid string, raw []byte) (*audio.Artifact, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

type Responder interface {
	Respond(ctx context.Context, transcript string) (model.Result, error)
}

// Notifier delivers the three kinds of outbound message. Implementations
// swallow their own failures.
type Notifier interface {
	NotifyAnswer(ctx context.Context, transcript, answer string)
	NotifyFallback(ctx context.Context)
	NotifyError(ctx context.Context)
}

type ResultStore interface {
	Save(transcript, fullAnswer, summary string)
	SaveTranscript(transcript string)
}

// Outcome is the state a pipeline run ended in.
type Outcome string

// Pipeline states.
const (
	StateIdle         = "idle"
	StateConverting   = "converting"
	StateTranscribing = "transcribing"
	StateGenerating   = "generating"
	StateNotifying    = "notifying"
	StateDone         = "done"
	StateNoSpeech     = "empty_transcript_fallback"
	StateFatal        = "fatal_error"
)

const (
	evConvert    = "convert"
	evTranscribe = "transcribe"
	evNoSpeech   = "no_speech"
	evGenerate   = "generate"
	evNotify     = "notify"
	evFinish     = "finish"
	evFail       = "fail"
)

var pipelineEvents = fsm.Events{
	{Name: evConvert, Src: []string{StateIdle}, Dst: StateConverting},
	{Name: evTranscribe, Src: []string{StateConverting}, Dst: StateTranscribing},
	{Name: evNoSpeech, Src: []string{StateTranscribing}, Dst: StateNoSpeech},
	{Name: evGenerate, Src: []string{StateTranscribing}, Dst: StateGenerating},
	{Name: evNotify, Src: []string{StateGenerating}, Dst: StateNotifying},
	{Name: evFinish, Src: []string{StateNotifying}, Dst: StateDone},
	{Name: evFail, Src: []string{StateIdle, StateConverting, StateTranscribing, StateGenerating, StateNotifying}, Dst: StateFatal},
}

// PipelineOptions are the behaviour switches of a Pipeline.
type PipelineOptions struct {
	// FallbackCache is one of the config.FallbackCache* modes.
	FallbackCache string
	// FallbackText is stored as answer and summary in the "fallback" mode.
	FallbackText string
}

// Pipeline processes one finished call: convert, transcribe, generate,
// store and notify. Every failure is contained inside Run.
type Pipeline struct {
	converter   Converter
	transcriber Transcriber
	responder   Responder
	notifier    Notifier
	store       ResultStore
	opts        PipelineOptions
	logger      *zap.SugaredLogger
	metrics     *metrics.Metrics
}

func NewPipeline(
	converter Converter,
	transcriber Transcriber,
	responder Responder,
	notifier Notifier,
	store ResultStore,
	opts PipelineOptions,
	logger *zap.SugaredLogger,
	m *metrics.Metrics,
) *Pipeline {
	if opts.FallbackCache == "" {
		opts.FallbackCache = config.FallbackCacheTranscript
	}
	return &Pipeline{
		converter:   converter,
		transcriber: transcriber,
		responder:   responder,
		notifier:    notifier,
		store:       store,
		opts:        opts,
		logger:      logger,
		metrics:     m,
	}
}

type run struct {
	machine *fsm.FSM
	logger  *zap.SugaredLogger
}

func (r *run) fire(ctx context.Context, event string) {
	if err := r.machine.Event(ctx, event); err != nil {
		r.logger.Errorw("Invalid pipeline transition", "event", event, "state", r.machine.Current(), "error", err)
	}
}

// Run drives one stream's audio to a terminal state and returns it. An
// empty buffer never starts the pipeline and yields StateIdle.
func (p *Pipeline) Run(ctx context.Context, streamSid string, raw []byte) (outcome Outcome) {
	if len(raw) == 0 {
		p.logger.Infow("⚠️ No audio data, skipping", "stream_sid", streamSid)
		return StateIdle
	}

	log := p.logger.With("run_id", uuid.NewString(), "stream_sid", streamSid)
	r := &run{logger: log}
	r.machine = fsm.NewFSM(StateIdle, pipelineEvents, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			log.Debugw("Pipeline state", "from", e.Src, "to", e.Dst)
		},
	})

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorw("Pipeline panicked", "panic", fmt.Sprint(rec), "state", r.machine.Current())
			outcome = p.fail(ctx, r, fmt.Errorf("panic: %v", rec))
		}
		p.metrics.PipelineOutcomes.WithLabelValues(string(outcome)).Inc()
		log.Infow("Pipeline finished", "outcome", outcome)
	}()

	r.fire(ctx, evConvert)
	start := time.Now()
	art, err := p.converter.Convert(ctx, streamSid, raw)
	p.observe(StateConverting, start)
	if err != nil {
		return p.fail(ctx, r, err)
	}
	defer func() {
		if err := art.Remove(); err != nil {
			log.Warnw("Failed to remove audio artifacts", "error", err)
		}
	}()

	r.fire(ctx, evTranscribe)
	start = time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, art.WavPath)
	p.observe(StateTranscribing, start)
	if err != nil {
		return p.fail(ctx, r, err)
	}
	transcript = strings.TrimSpace(transcript)
	log.Infow("📝 Transcript", "transcript", transcript)

	if transcript == "" {
		r.fire(ctx, evNoSpeech)
		log.Info("⚠️ No speech detected, sending 'not clear' message")
		p.storeFallback()
		p.notifier.NotifyFallback(ctx)
		return Outcome(r.machine.Current())
	}

	r.fire(ctx, evGenerate)
	start = time.Now()
	result, err := p.responder.Respond(ctx, transcript)
	p.observe(StateGenerating, start)
	if err != nil {
		return p.fail(ctx, r, err)
	}
	log.Infow("✅ Answer ready", "summary", result.Summary)

	p.store.Save(transcript, result.FullAnswer, result.Summary)

	r.fire(ctx, evNotify)
	start = time.Now()
	p.notifier.NotifyAnswer(ctx, transcript, result.FullAnswer)
	p.observe(StateNotifying, start)

	r.fire(ctx, evFinish)
	return Outcome(r.machine.Current())
}

// fail moves the run to the fatal state and sends the generic error message.
// The result store is not touched.
func (p *Pipeline) fail(ctx context.Context, r *run, err error) Outcome {
	r.logger.Errorw("Error in pipeline", "state", r.machine.Current(), "error", err)
	r.fire(ctx, evFail)
	p.notifier.NotifyError(ctx)
	return StateFatal
}

func (p *Pipeline) storeFallback() {
	switch p.opts.FallbackCache {
	case config.FallbackCacheUntouched:
	case config.FallbackCacheFallback:
		p.store.Save("", p.opts.FallbackText, p.opts.FallbackText)
	default:
		p.store.SaveTranscript("")
	}
}

func (p *Pipeline) observe(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
