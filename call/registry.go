package call

import (
	"sync"

	"github.com/mrsingh-rishi/call-assist/model"
	"github.com/mrsingh-rishi/call-assist/queue"
)

// Registry tracks the buffered fragments of every active media stream,
// keyed by stream SID. Each method is a single critical section, so
// concurrent connections never observe a half-applied operation.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*queue.Queue[model.AudioChunk]
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*queue.Queue[model.AudioChunk])}
}

// Open starts an empty buffer for id. An existing buffer with the same id is
// replaced; the return value reports whether that happened.
func (r *Registry) Open(id string) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced = r.sessions[id]
	r.sessions[id] = queue.New[model.AudioChunk]()
	return replaced
}

// Append adds chunk to the buffer for id. Unknown ids are ignored and
// reported as false; no session is created.
func (r *Registry) Append(id string, chunk model.AudioChunk) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.sessions[id]
	if !ok {
		return false
	}
	q.Enqueue(chunk)
	return true
}

// Close removes the session and returns its fragments in arrival order.
// Unknown ids yield an empty sequence and leave the registry untouched.
func (r *Registry) Close(id string) ([]model.AudioChunk, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.sessions[id]
	if !ok {
		return []model.AudioChunk{}, false
	}
	delete(r.sessions, id)
	return q.Drain(), true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
