package listen

import (
	"context"
	"sync"
	"time"
)

// MockCapturer implements Capturer for testing.
type MockCapturer struct {
	// CaptureFunc is called when Capture is invoked. If nil, a clip
	// with a fixed path is returned.
	CaptureFunc func(ctx context.Context, duration time.Duration) (Clip, error)

	mu    sync.Mutex
	calls int
}

// Capture records the call and delegates to CaptureFunc.
func (m *MockCapturer) Capture(ctx context.Context, duration time.Duration) (Clip, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, duration)
	}
	return Clip{Path: "mock.wav", SampleRate: DefaultSampleRate, Duration: duration}, nil
}

// CallCount returns the number of Capture calls.
func (m *MockCapturer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockRecognizer implements Recognizer by returning queued
// transcripts in order, then empty strings.
type MockRecognizer struct {
	// TranscribeFunc overrides the queued behavior when set.
	TranscribeFunc func(ctx context.Context, clip Clip) (string, error)

	mu          sync.Mutex
	transcripts []string
	next        int
}

// NewMockRecognizer queues the given transcripts.
func NewMockRecognizer(transcripts ...string) *MockRecognizer {
	return &MockRecognizer{transcripts: transcripts}
}

// Transcribe returns the next queued transcript.
func (m *MockRecognizer) Transcribe(ctx context.Context, clip Clip) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, clip)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next >= len(m.transcripts) {
		return "", nil
	}
	text := m.transcripts[m.next]
	m.next++
	return text, nil
}

var (
	_ Capturer   = (*MockCapturer)(nil)
	_ Recognizer = (*MockRecognizer)(nil)
)
