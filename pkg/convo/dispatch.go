// Package convo turns a classified utterance into a spoken response.
// Deterministic time and calendar queries are answered locally from the
// clock formatters; everything else is forwarded to an external
// conversational responder. Dispatch always produces a response: any
// failure along the way is recovered into a fixed apologetic reply.
package convo

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sathilabs/go-sathi/pkg/clock"
	"github.com/sathilabs/go-sathi/pkg/intent"
)

// ResponsePair is one assistant reply: the text handed to speech synthesis
// and a compact rendering for any attached display. Immutable once produced.
type ResponsePair struct {
	Spoken  string
	Display string
}

// Responder produces a free-form reply for utterances with no deterministic
// intent, typically backed by a remote language model.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Apology is the fixed fallback reply used when a formatter or the external
// responder fails. The assistant must always say something.
var Apology = ResponsePair{
	Spoken:  "I'm sorry, I'm having a little trouble right now. Could you please ask me again?",
	Display: "Sorry, something went wrong. Please try again.",
}

// Dispatcher routes utterances to clock formatters or the responder.
type Dispatcher struct {
	classifier *intent.Classifier
	responder  Responder
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClassifier overrides the built-in intent classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(d *Dispatcher) { d.classifier = c }
}

// WithClock overrides the time source. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger.With("component", "convo") }
}

// NewDispatcher creates a Dispatcher that forwards unclassified utterances
// to the given responder.
func NewDispatcher(responder Responder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		classifier: intent.NewClassifier(),
		responder:  responder,
		now:        time.Now,
		logger:     slog.Default().With("component", "convo"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch converts an utterance into a ResponsePair. It never returns an
// error: responder failures and empty replies are logged and recovered into
// the apologetic fallback.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) ResponsePair {
	kind := d.classifier.Classify(text)

	switch kind {
	case intent.Date:
		return pair(clock.Date(d.now()))
	case intent.Time:
		return pair(clock.TimeOfDay(d.now()))
	case intent.Day:
		return pair(clock.Day(d.now()))
	case intent.Calendar:
		return pair(clock.MonthCalendar(d.now()))
	}

	reply, err := d.responder.Respond(ctx, text)
	if err != nil {
		d.logger.Warn("responder failed", "error", err)
		return Apology
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		d.logger.Warn("responder returned empty reply")
		return Apology
	}

	return ResponsePair{Spoken: reply, Display: reply}
}

func pair(spoken, display string) ResponsePair {
	return ResponsePair{Spoken: spoken, Display: display}
}
