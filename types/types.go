package types

// Media stream event kinds.
const (
	EventConnected = "connected"
	EventStart     = "start"
	EventMedia     = "media"
	EventStop      = "stop"
	EventMark      = "mark"
)

// StreamEvent is one JSON text message on the inbound media stream.
type StreamEvent struct {
	Event     string      `json:"event"`
	StreamSid string      `json:"streamSid"`
	Start     *StartFrame `json:"start,omitempty"`
	Media     *MediaFrame `json:"media,omitempty"`
	Stop      *StopFrame  `json:"stop,omitempty"`
}

type StartFrame struct {
	StreamSid   string      `json:"streamSid"`
	CallSid     string      `json:"callSid"`
	AccountSid  string      `json:"accountSid"`
	Tracks      []string    `json:"tracks"`
	MediaFormat MediaFormat `json:"mediaFormat"`
}

type MediaFormat struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
}

type MediaFrame struct {
	Track     string `json:"track"`
	Chunk     string `json:"chunk"`
	Timestamp string `json:"timestamp"`
	Payload   string `json:"payload"` // base64 audio
}

type StopFrame struct {
	AccountSid string `json:"accountSid"`
	CallSid    string `json:"callSid"`
}

// SessionID returns the stream identifier, preferring the top-level field
// and falling back to the one nested in the start frame.
func (e StreamEvent) SessionID() string {
	if e.StreamSid != "" {
		return e.StreamSid
	}
	if e.Start != nil {
		return e.Start.StreamSid
	}
	return ""
}
