package notification

import (
	"context"
	"sync"
)

// Recorder keeps dispatched messages in memory. Used by tests and by the
// delivery-disabled mode of the bulk coordinator's dry runs.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	fail     error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every subsequent Notify return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *Recorder) Notify(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
