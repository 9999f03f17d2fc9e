package store

import (
	"sync"

	"github.com/mrsingh-rishi/call-assist/model"
)

// Latest is a single-slot store for the most recent call result. It is
// created at startup, lives for the process lifetime and is never
// persisted. Writes are last-write-wins.
type Latest struct {
	mu  sync.RWMutex
	cur model.Latest
}

func NewLatest() *Latest {
	return &Latest{}
}

// Save overwrites the whole triple.
func (l *Latest) Save(transcript, fullAnswer, summary string) {
	l.mu.Lock()
	l.cur = model.Latest{Transcript: transcript, FullAnswer: fullAnswer, Summary: summary}
	l.mu.Unlock()
}

// SaveTranscript overwrites only the transcript, keeping the previous
// answer and summary.
func (l *Latest) SaveTranscript(transcript string) {
	l.mu.Lock()
	l.cur.Transcript = transcript
	l.mu.Unlock()
}

// Read returns a copy of the current triple; three empty strings before the
// first save.
func (l *Latest) Read() model.Latest {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}
