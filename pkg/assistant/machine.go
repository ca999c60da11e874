package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sathilabs/go-sathi/pkg/convo"
)

// Scorer rates how closely a transcript matches the wake phrases.
type Scorer interface {
	Score(text string) float64
}

// Dispatcher answers a conversation turn. It is total: every input
// yields a speakable response.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) convo.ResponsePair
}

// Machine is the wake-word state machine. It is the single mutator of
// the session state: callers deliver one event at a time and speak
// whatever response comes back. A nil response means stay quiet.
//
// Machine is not safe for concurrent use; deliver events from one
// goroutine.
type Machine struct {
	cfg        Config
	scorer     Scorer
	dispatcher Dispatcher
	logger     *slog.Logger

	state    State
	greetIdx int
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMachineLogger sets the structured logger.
func WithMachineLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) { m.logger = logger }
}

// NewMachine creates a state machine in the Idle state.
func NewMachine(cfg Config, scorer Scorer, dispatcher Dispatcher, opts ...MachineOption) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		cfg:        cfg,
		scorer:     scorer,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		state:      Idle,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "assistant.machine")
	return m, nil
}

// State returns the current session state.
func (m *Machine) State() State {
	return m.state
}

// HandleUtterance delivers a transcript to the machine.
//
// While Idle the transcript is scored against the wake phrases: a
// confident score activates the session with a greeting, a borderline
// score asks for confirmation, anything lower is discarded. While
// Conversing the transcript is answered by the dispatcher. While
// AwaitingConfirmation it is treated as the confirmation reply.
func (m *Machine) HandleUtterance(ctx context.Context, text string) *convo.ResponsePair {
	switch m.state {
	case Idle:
		return m.scoreWake(text)
	case AwaitingConfirmation:
		return m.HandleConfirmation(ctx, text)
	case Conversing:
		pair := m.dispatcher.Dispatch(ctx, text)
		return &pair
	default:
		return nil
	}
}

// HandleConfirmation delivers the re-listen transcript captured after
// a confirmation prompt. An affirmative reply activates the session;
// anything else returns to Idle.
func (m *Machine) HandleConfirmation(ctx context.Context, text string) *convo.ResponsePair {
	if m.state != AwaitingConfirmation {
		return m.HandleUtterance(ctx, text)
	}

	if m.isAffirmative(text) {
		m.logger.Info("wake confirmed")
		m.state = Conversing
		return m.greeting()
	}

	m.logger.Debug("confirmation negative, returning to idle")
	m.state = Idle
	return nil
}

// HandleTimeout reports that no confirmation was captured within the
// bounded re-listen. Only meaningful while AwaitingConfirmation; in
// any other state it is a no-op.
func (m *Machine) HandleTimeout() *convo.ResponsePair {
	if m.state == AwaitingConfirmation {
		m.logger.Debug("confirmation timed out, returning to idle")
		m.state = Idle
	}
	return nil
}

func (m *Machine) scoreWake(text string) *convo.ResponsePair {
	score := m.scorer.Score(text)
	m.logger.Debug("wake score", "score", score, "text", text)

	switch {
	case score >= m.cfg.AcceptThreshold:
		m.logger.Info("wake word detected", "score", score)
		m.state = Conversing
		return m.greeting()

	case score >= m.cfg.ConfirmThreshold:
		m.logger.Info("wake word borderline, asking for confirmation", "score", score)
		m.state = AwaitingConfirmation
		return &convo.ResponsePair{Spoken: m.cfg.ConfirmPrompt, Display: m.cfg.ConfirmPrompt}

	default:
		return nil
	}
}

// greeting returns the next greeting in rotation.
func (m *Machine) greeting() *convo.ResponsePair {
	g := m.cfg.Greetings[m.greetIdx%len(m.cfg.Greetings)]
	m.greetIdx++
	return &convo.ResponsePair{Spoken: g, Display: g}
}

// isAffirmative reports whether the reply contains an affirmative
// token. Substring containment tolerates transcripts like "yes please"
// or "yeah, that's right".
func (m *Machine) isAffirmative(text string) bool {
	lowered := strings.ToLower(text)
	for _, token := range m.cfg.AffirmativeTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
