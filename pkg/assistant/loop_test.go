package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sathilabs/go-sathi/pkg/listen"
)

// recordingSpeaker captures everything the loop says.
type recordingSpeaker struct {
	mu   sync.Mutex
	said []string
	err  error
}

func (r *recordingSpeaker) Say(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.said = append(r.said, text)
	return nil
}

func (r *recordingSpeaker) spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.said...)
}

func newTestLoop(t *testing.T, scorer Scorer, transcripts ...string) (*Loop, *recordingSpeaker) {
	t.Helper()
	dispatcher := &stubDispatcher{}
	m, err := NewMachine(DefaultConfig(), scorer, dispatcher)
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}

	speaker := &recordingSpeaker{}
	loop := NewLoop(m,
		&listen.MockCapturer{},
		listen.NewMockRecognizer(transcripts...),
		speaker,
		WithRetryPause(0),
	)
	return loop, speaker
}

// scriptedScorer returns scores in order, repeating the last one.
type scriptedScorer struct {
	scores []float64
	next   int
}

func (s *scriptedScorer) Score(text string) float64 {
	if s.next < len(s.scores) {
		score := s.scores[s.next]
		s.next++
		return score
	}
	return s.scores[len(s.scores)-1]
}

func TestLoopWakeThenConverse(t *testing.T) {
	scorer := &scriptedScorer{scores: []float64{0.95}}
	loop, speaker := newTestLoop(t, scorer, "hey sathi", "what time is it")
	ctx := context.Background()

	loop.step(ctx) // wake
	loop.step(ctx) // question

	got := speaker.spoken()
	if len(got) != 2 {
		t.Fatalf("spoke %d times, want 2: %v", len(got), got)
	}
	if got[0] != DefaultGreetings[0] {
		t.Errorf("first utterance = %q, want greeting", got[0])
	}
	if !strings.Contains(got[1], "what time is it") {
		t.Errorf("second utterance = %q, want dispatcher answer", got[1])
	}
	if loop.machine.State() != Conversing {
		t.Errorf("state = %v, want Conversing", loop.machine.State())
	}
}

func TestLoopBorderlineConfirmationFlow(t *testing.T) {
	scorer := &scriptedScorer{scores: []float64{0.60}}
	loop, speaker := newTestLoop(t, scorer, "hey swathi", "yes please")
	ctx := context.Background()

	loop.step(ctx) // borderline wake, confirmation prompt
	if loop.machine.State() != AwaitingConfirmation {
		t.Fatalf("state = %v, want AwaitingConfirmation", loop.machine.State())
	}

	loop.step(ctx) // affirmative confirmation
	if loop.machine.State() != Conversing {
		t.Fatalf("state = %v, want Conversing", loop.machine.State())
	}

	got := speaker.spoken()
	if len(got) != 2 {
		t.Fatalf("spoke %d times, want 2: %v", len(got), got)
	}
	if got[0] != DefaultConfirmPrompt {
		t.Errorf("first utterance = %q, want confirmation prompt", got[0])
	}
}

func TestLoopConfirmationSilenceTimesOut(t *testing.T) {
	scorer := &scriptedScorer{scores: []float64{0.60}}
	// Only the wake transcript is queued; the re-listen hears nothing.
	loop, _ := newTestLoop(t, scorer, "hey swathi")
	ctx := context.Background()

	loop.step(ctx)
	loop.step(ctx)

	if loop.machine.State() != Idle {
		t.Errorf("state = %v, want Idle after silent confirmation", loop.machine.State())
	}
}

func TestLoopUsesShorterConfirmationWindow(t *testing.T) {
	scorer := &scriptedScorer{scores: []float64{0.60}}

	var durations []time.Duration
	capturer := &listen.MockCapturer{
		CaptureFunc: func(ctx context.Context, duration time.Duration) (listen.Clip, error) {
			durations = append(durations, duration)
			return listen.Clip{Path: "mock.wav"}, nil
		},
	}

	m, err := NewMachine(DefaultConfig(), scorer, &stubDispatcher{})
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}
	loop := NewLoop(m, capturer, listen.NewMockRecognizer("hey swathi", "yes"), &recordingSpeaker{}, WithRetryPause(0))
	ctx := context.Background()

	loop.step(ctx)
	loop.step(ctx)

	cfg := DefaultConfig()
	if durations[0] != cfg.WakeListen {
		t.Errorf("wake capture = %v, want %v", durations[0], cfg.WakeListen)
	}
	if durations[1] != cfg.ConfirmListen {
		t.Errorf("confirmation capture = %v, want %v", durations[1], cfg.ConfirmListen)
	}
}

func TestLoopSurvivesCaptureFailure(t *testing.T) {
	capturer := &listen.MockCapturer{
		CaptureFunc: func(ctx context.Context, duration time.Duration) (listen.Clip, error) {
			return listen.Clip{}, errors.New("microphone unplugged")
		},
	}

	m, err := NewMachine(DefaultConfig(), stubScorer{score: 0.95}, &stubDispatcher{})
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}
	loop := NewLoop(m, capturer, listen.NewMockRecognizer(), &recordingSpeaker{}, WithRetryPause(0))

	loop.step(context.Background())
	if m.State() != Idle {
		t.Errorf("state = %v, want Idle after capture failure", m.State())
	}
}

func TestLoopSurvivesSynthesisFailure(t *testing.T) {
	m, err := NewMachine(DefaultConfig(), stubScorer{score: 0.95}, &stubDispatcher{})
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}

	speaker := &recordingSpeaker{err: errors.New("audio device busy")}
	loop := NewLoop(m,
		&listen.MockCapturer{},
		listen.NewMockRecognizer("hey sathi"),
		speaker,
		WithRetryPause(0),
	)

	loop.step(context.Background())
	if m.State() != Conversing {
		t.Errorf("state = %v, want Conversing despite synthesis failure", m.State())
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	loop, _ := newTestLoop(t, stubScorer{score: 0.0})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
}
