package call

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/call-assist/metrics"
	"github.com/mrsingh-rishi/call-assist/model"
	"github.com/mrsingh-rishi/call-assist/types"
)

// Starter launches processing of a finished stream without blocking.
type Starter interface {
	Start(streamSid string, audio []byte)
}

// MessageReader is the read half of a websocket connection.
type MessageReader interface {
	ReadMessage() (messageType int, p []byte, err error)
}

// Collector turns media stream events from one connection into registry
// operations. It is not safe for concurrent use; each connection gets its
// own Collector over a shared Registry.
type Collector struct {
	registry *Registry
	starter  Starter
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics

	// streams opened on this connection and not yet stopped
	owned map[string]struct{}
}

func NewCollector(registry *Registry, starter Starter, logger *zap.SugaredLogger, m *metrics.Metrics) *Collector {
	return &Collector{
		registry: registry,
		starter:  starter,
		logger:   logger,
		metrics:  m,
		owned:    make(map[string]struct{}),
	}
}

// Serve reads messages until the connection ends. Malformed messages never
// end the loop; only a read error does.
func (c *Collector) Serve(conn MessageReader) {
	defer c.release()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Infow("Media stream closed normally", "error", err)
			} else {
				c.logger.Warnw("Media stream read error", "error", err)
			}
			return
		}
		c.HandleMessage(msg)
	}
}

// HandleMessage applies one inbound message.
func (c *Collector) HandleMessage(msg []byte) {
	var ev types.StreamEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		c.logger.Warnw("Error parsing media stream message", "error", err)
		c.metrics.MalformedMessages.WithLabelValues("json").Inc()
		return
	}

	switch ev.Event {
	case types.EventStart:
		c.onStart(ev)
	case types.EventMedia:
		c.onMedia(ev)
	case types.EventStop:
		c.onStop(ev)
	case types.EventConnected, types.EventMark:
		c.logger.Debugw("Media stream control event", "event", ev.Event)
	default:
		c.logger.Warnw("Unknown media stream event", "event", ev.Event)
		c.metrics.MalformedMessages.WithLabelValues("unknown_event").Inc()
	}
}

func (c *Collector) onStart(ev types.StreamEvent) {
	sid := ev.SessionID()
	if sid == "" {
		c.logger.Warn("Start event without streamSid")
		c.metrics.MalformedMessages.WithLabelValues("missing_sid").Inc()
		return
	}

	callSid := ""
	if ev.Start != nil {
		callSid = ev.Start.CallSid
	}
	c.logger.Infow("🟢 Stream started", "stream_sid", sid, "call_sid", callSid)

	if c.registry.Open(sid) {
		c.logger.Warnw("Stream restarted, previous buffer discarded", "stream_sid", sid)
	} else {
		c.metrics.ActiveSessions.Inc()
	}
	c.owned[sid] = struct{}{}
	c.metrics.SessionsStarted.Inc()
}

func (c *Collector) onMedia(ev types.StreamEvent) {
	if ev.Media == nil {
		c.logger.Warnw("Media event without media frame", "stream_sid", ev.StreamSid)
		c.metrics.MalformedMessages.WithLabelValues("missing_media").Inc()
		return
	}

	chunk, err := base64.StdEncoding.DecodeString(ev.Media.Payload)
	if err != nil {
		c.logger.Warnw("Base64 decode error", "stream_sid", ev.StreamSid, "error", err)
		c.metrics.MalformedMessages.WithLabelValues("payload").Inc()
		return
	}

	if !c.registry.Append(ev.StreamSid, model.AudioChunk(chunk)) {
		c.logger.Debugw("Media for unknown stream dropped", "stream_sid", ev.StreamSid)
		return
	}
	c.metrics.FragmentsReceived.Inc()
}

func (c *Collector) onStop(ev types.StreamEvent) {
	sid := ev.SessionID()
	c.logger.Infow("🔴 Stream stopped", "stream_sid", sid)

	chunks, found := c.registry.Close(sid)
	delete(c.owned, sid)
	if found {
		c.metrics.ActiveSessions.Dec()
		c.metrics.SessionsStopped.Inc()
	}

	if len(chunks) == 0 {
		c.logger.Infow("No audio chunks collected for this stream", "stream_sid", sid)
		return
	}

	audio := model.Concat(chunks)
	c.logger.Infow("Handing stream to pipeline", "stream_sid", sid, "fragments", len(chunks), "bytes", len(audio))
	c.starter.Start(sid, audio)
}

// release drops any stream this connection opened but never stopped, so a
// dropped socket does not leak its buffer.
func (c *Collector) release() {
	for sid := range c.owned {
		if chunks, found := c.registry.Close(sid); found {
			c.metrics.ActiveSessions.Dec()
			c.metrics.SessionsStopped.Inc()
			c.logger.Warnw("Connection ended without stop, buffer discarded",
				"stream_sid", sid, "fragments", len(chunks))
		}
		delete(c.owned, sid)
	}
}
