package call

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/call.go -package=mocks github.com/mrsingh-rishi/call-assist/call CallCreator

// CallCreator is the part of the Twilio REST API used to place calls.
type CallCreator interface {
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

// Dialer places the outbound call whose answer URL starts the media stream.
type Dialer struct {
	api       CallCreator
	from      string
	to        string
	answerURL string
	logger    *zap.SugaredLogger
}

func NewDialer(api CallCreator, from, to, answerURL string, logger *zap.SugaredLogger) *Dialer {
	return &Dialer{api: api, from: from, to: to, answerURL: answerURL, logger: logger}
}

// Dial places the call and returns its SID.
func (d *Dialer) Dial(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(d.to)
	params.SetFrom(d.from)
	params.SetUrl(d.answerURL)
	params.SetMethod("POST")

	resp, err := d.api.CreateCall(params)
	if err != nil {
		return "", errors.Wrap(err, "twilio create call")
	}
	if resp == nil || resp.Sid == nil {
		return "", fmt.Errorf("twilio create call returned no sid")
	}
	d.logger.Infow("Call placed", "call_sid", *resp.Sid)
	return *resp.Sid, nil
}
