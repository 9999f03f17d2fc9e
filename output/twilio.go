package output

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// MessageCreator is the part of the Twilio REST API used to send messages.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsAppSender sends message bodies from one WhatsApp sender to one fixed
// recipient.
type WhatsAppSender struct {
	api    MessageCreator
	from   string
	to     string
	logger *zap.SugaredLogger
}

func NewWhatsAppSender(api MessageCreator, from, to string, logger *zap.SugaredLogger) (*WhatsAppSender, error) {
	if api == nil {
		return nil, fmt.Errorf("twilio api is required")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("whatsapp sender and recipient are required")
	}
	return &WhatsAppSender{api: api, from: from, to: to, logger: logger}, nil
}

// Send implements Sender. The Twilio client has no context support, so ctx
// is only checked before the request.
func (w *WhatsAppSender) Send(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(w.from)
	params.SetTo(w.to)
	params.SetBody(body)

	msg, err := w.api.CreateMessage(params)
	if err != nil {
		return errors.Wrap(err, "twilio create message")
	}
	if msg != nil && msg.Sid != nil {
		w.logger.Debugw("WhatsApp message queued", "sid", *msg.Sid)
	}
	return nil
}
