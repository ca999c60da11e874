package responder

import (
	"context"
	"sync"
)

// Mock is a scriptable responder for tests.
// If RespondFunc is nil, Respond echoes the input.
type Mock struct {
	RespondFunc func(ctx context.Context, text string) (string, error)

	mu    sync.Mutex
	calls []string
}

// Respond calls RespondFunc and records the utterance.
func (m *Mock) Respond(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, text)
	}
	return text, nil
}

// Calls returns the utterances received so far.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
