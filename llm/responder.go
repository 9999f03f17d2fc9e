package llm

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/model"
)

//go:generate mockgen -destination=../mocks/llm.go -package=mocks github.com/mrsingh-rishi/call-assist/llm Completer

// Completer runs one system+user exchange against a language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Responder turns a transcript into a dual-form result using a profile.
type Responder struct {
	completer Completer
	profile   Profile
	logger    *zap.SugaredLogger
}

func NewResponder(completer Completer, profile Profile, logger *zap.SugaredLogger) *Responder {
	return &Responder{completer: completer, profile: profile, logger: logger}
}

// Respond asks the model about transcript. The only error is a failed model
// call; unparseable output degrades to an unstructured result.
func (r *Responder) Respond(ctx context.Context, transcript string) (model.Result, error) {
	raw, err := r.completer.Complete(ctx, r.profile.Instruction, transcript)
	if err != nil {
		return model.Result{}, errors.Wrapf(err, "generate with profile %s/%s", r.profile.Name, r.profile.Version)
	}
	r.logger.Debugw("🤖 Raw AI answer", "raw", raw)

	reply := ParseReply(raw, r.profile.Keys())
	if _, ok := reply.(Unstructured); ok {
		r.logger.Warnw("AI did not return valid JSON, falling back to raw text",
			"profile", r.profile.Name, "chars", len(raw))
	}
	return reply.Result(), nil
}
