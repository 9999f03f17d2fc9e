package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/metrics"
)

type processor interface {
	Run(ctx context.Context, streamSid string, raw []byte) Outcome
}

// Runner starts one goroutine per finished stream and tracks them for
// shutdown. Runs are never cancelled; ctx only carries values.
type Runner struct {
	ctx       context.Context
	processor processor
	logger    *zap.SugaredLogger
	metrics   *metrics.Metrics
	wg        sync.WaitGroup
}

func NewRunner(ctx context.Context, p processor, logger *zap.SugaredLogger, m *metrics.Metrics) *Runner {
	return &Runner{
		ctx:       context.WithoutCancel(ctx),
		processor: p,
		logger:    logger,
		metrics:   m,
	}
}

// Start implements call.Starter. It returns immediately.
func (r *Runner) Start(streamSid string, raw []byte) {
	r.wg.Add(1)
	r.metrics.InFlightRuns.Inc()
	go func() {
		defer r.wg.Done()
		defer r.metrics.InFlightRuns.Dec()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Errorw("Pipeline goroutine panicked", "stream_sid", streamSid, "panic", fmt.Sprint(rec))
			}
		}()
		r.processor.Run(r.ctx, streamSid, raw)
	}()
}

// Wait blocks until every started run finished or timeout elapsed, and
// reports whether all finished.
func (r *Runner) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		r.logger.Warnw("Timed out waiting for in-flight pipelines", "timeout", timeout)
		return false
	}
}
