package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/sathilabs/go-sathi/pkg/convo"
	"github.com/sathilabs/go-sathi/pkg/listen"
)

// SpeakFunc reads a response aloud.
type SpeakFunc interface {
	Say(ctx context.Context, text string) error
}

// Loop owns one assistant session. It runs capture, recognition,
// the state machine, and speech on a single goroutine, so every event
// reaches the machine serially.
type Loop struct {
	machine    *Machine
	capturer   listen.Capturer
	recognizer listen.Recognizer
	speaker    SpeakFunc
	logger     *slog.Logger
	retryPause time.Duration
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the structured logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// WithRetryPause sets the pause before re-listening after a failed or
// empty capture. Zero disables the pause.
func WithRetryPause(pause time.Duration) LoopOption {
	return func(l *Loop) { l.retryPause = pause }
}

// NewLoop wires the machine to its capture, recognition and speech
// collaborators.
func NewLoop(machine *Machine, capturer listen.Capturer, recognizer listen.Recognizer, speaker SpeakFunc, opts ...LoopOption) *Loop {
	l := &Loop{
		machine:    machine,
		capturer:   capturer,
		recognizer: recognizer,
		speaker:    speaker,
		logger:     slog.Default(),
		retryPause: 800 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "assistant.loop")
	return l
}

// Run drives the session until ctx is cancelled. Capture, recognition
// and synthesis failures are logged re-listens; nothing short of
// cancellation stops the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("assistant running, waiting for wake word")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("assistant stopped")
			return ctx.Err()
		default:
		}

		l.step(ctx)
	}
}

// step performs one capture/recognize/handle/speak cycle.
func (l *Loop) step(ctx context.Context) {
	awaiting := l.machine.State() == AwaitingConfirmation

	text, ok := l.listen(ctx)
	if !ok {
		if awaiting {
			l.speakPair(ctx, l.machine.HandleTimeout())
		}
		l.pause(ctx)
		return
	}

	l.logger.Debug("heard", "text", text, "state", l.machine.State().String())

	if awaiting {
		l.speakPair(ctx, l.machine.HandleConfirmation(ctx, text))
		return
	}
	l.speakPair(ctx, l.machine.HandleUtterance(ctx, text))
}

// listen captures and transcribes one utterance. ok is false when
// capture or recognition failed or produced no speech.
func (l *Loop) listen(ctx context.Context) (string, bool) {
	clip, err := l.capturer.Capture(ctx, l.captureDuration())
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Warn("capture failed, listening again", "error", err)
		}
		return "", false
	}

	text, err := l.recognizer.Transcribe(ctx, clip)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Warn("transcription failed, listening again", "error", err)
		}
		return "", false
	}
	if text == "" {
		l.logger.Debug("no speech detected, listening again")
		return "", false
	}
	return text, true
}

// captureDuration picks the listen window for the current state.
func (l *Loop) captureDuration() time.Duration {
	switch l.machine.State() {
	case AwaitingConfirmation:
		return l.machine.cfg.ConfirmListen
	case Conversing:
		return l.machine.cfg.ConverseListen
	default:
		return l.machine.cfg.WakeListen
	}
}

// pause waits before the next listen, honoring cancellation.
func (l *Loop) pause(ctx context.Context) {
	if l.retryPause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(l.retryPause):
	}
}

// speakPair reads a response aloud. Synthesis failure is logged,
// never fatal.
func (l *Loop) speakPair(ctx context.Context, pair *convo.ResponsePair) {
	if pair == nil {
		return
	}
	if err := l.speaker.Say(ctx, pair.Spoken); err != nil && ctx.Err() == nil {
		l.logger.Error("speaking response failed", "error", err)
	}
}
