package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the call assistant
type Metrics struct {
	// Media stream metrics
	SessionsStarted   prometheus.Counter
	SessionsStopped   prometheus.Counter
	ActiveSessions    prometheus.Gauge
	FragmentsReceived prometheus.Counter
	MalformedMessages *prometheus.CounterVec

	// Pipeline metrics
	PipelineOutcomes *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	InFlightRuns     prometheus.Gauge

	// Notification metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "callassist_sessions_started_total",
			Help: "Total number of media stream sessions opened",
		}),
		SessionsStopped: f.NewCounter(prometheus.CounterOpts{
			Name: "callassist_sessions_stopped_total",
			Help: "Total number of media stream sessions closed",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "callassist_active_sessions",
			Help: "Current number of sessions buffering audio",
		}),
		FragmentsReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "callassist_fragments_received_total",
			Help: "Total number of audio fragments buffered",
		}),
		MalformedMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "callassist_malformed_messages_total",
			Help: "Inbound transport messages that were dropped",
		}, []string{"reason"}),

		PipelineOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "callassist_pipeline_outcomes_total",
			Help: "Pipeline runs by terminal state",
		}, []string{"outcome"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "callassist_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}, []string{"stage"}),
		InFlightRuns: f.NewGauge(prometheus.GaugeOpts{
			Name: "callassist_pipeline_in_flight",
			Help: "Pipeline runs currently executing",
		}),

		NotificationsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "callassist_notifications_sent_total",
			Help: "Notifications accepted by the outbound channel",
		}),
		NotificationsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "callassist_notifications_failed_total",
			Help: "Notifications the outbound channel rejected",
		}),
	}
}

// NewNop returns metrics registered against a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
