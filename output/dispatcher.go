package output

import (
	"context"

	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/metrics"
)

//go:generate mockgen -destination=../mocks/output.go -package=mocks github.com/mrsingh-rishi/call-assist/output MessageCreator,Sender

// Sender delivers a text body to the configured recipient.
type Sender interface {
	Send(ctx context.Context, body string) error
}

// Dispatcher formats pipeline results and hands them to a Sender. It is the
// terminal sink: send failures are logged and counted, never returned.
type Dispatcher struct {
	sender  Sender
	tmpl    Template
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

func NewDispatcher(sender Sender, tmpl Template, logger *zap.SugaredLogger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{sender: sender, tmpl: tmpl, logger: logger, metrics: m}
}

// NotifyAnswer sends the formatted transcript and answer.
func (d *Dispatcher) NotifyAnswer(ctx context.Context, transcript, answer string) {
	d.send(ctx, "answer", d.tmpl.Format(transcript, answer))
}

// NotifyFallback sends the no-speech message.
func (d *Dispatcher) NotifyFallback(ctx context.Context) {
	d.send(ctx, "fallback", d.tmpl.Format("", d.tmpl.FallbackAnswer))
}

// NotifyError sends the generic technical-error message.
func (d *Dispatcher) NotifyError(ctx context.Context) {
	d.send(ctx, "error", d.tmpl.TechnicalError)
}

func (d *Dispatcher) send(ctx context.Context, kind, body string) {
	if err := d.sender.Send(ctx, body); err != nil {
		d.metrics.NotificationsFailed.Inc()
		d.logger.Errorw("Failed to send notification", "kind", kind, "error", err)
		return
	}
	d.metrics.NotificationsSent.Inc()
	d.logger.Infow("📲 Notification sent", "kind", kind)
}
