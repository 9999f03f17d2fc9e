package model

// AudioChunk is one decoded fragment of call audio, μ-law at 8 kHz.
type AudioChunk []byte

// Transcript is the recognised text of a call. The empty transcript means
// no usable speech was detected; it is not an error.
type Transcript string

// Result is the dual-form answer produced for one call. Both fields are
// set together or the result does not exist.
type Result struct {
	FullAnswer string
	Summary    string
}

// Latest is the most recent (transcript, answer, summary) triple served to
// the display device.
type Latest struct {
	Transcript string `json:"transcript"`
	FullAnswer string `json:"full_answer"`
	Summary    string `json:"summary"`
}

// Concat joins chunks in order into a single buffer.
func Concat(chunks []AudioChunk) []byte {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
