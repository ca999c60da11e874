package assistant

import (
	"errors"
	"time"

	"github.com/sathilabs/go-sathi/pkg/speak"
)

// Configuration errors.
var (
	ErrNoWakePhrases = errors.New("assistant: at least one wake phrase is required")
	ErrBadThresholds = errors.New("assistant: thresholds must satisfy 0 < confirm <= accept <= 1")
	ErrNoGreetings   = errors.New("assistant: at least one greeting is required")
)

// DefaultWakePhrases are the phrases that wake the assistant.
var DefaultWakePhrases = []string{
	"hey sathi", "hi sathi", "ok sathi", "sathi",
	"hello sathi", "dear sathi", "sathi please",
	"sathi help", "listen sathi", "sathi are you there",
}

// DefaultGreetings are warm greetings spoken on activation.
var DefaultGreetings = []string{
	"Hello! I'm Sathi, your helpful companion. How may I assist you?",
	"Good day! I'm here to help you. What can I do for you?",
	"Hello dear! I'm Sathi, ready to assist you.",
	"I'm here to help! Please tell me what you need.",
	"Yes, I'm listening! How can I make your day better?",
	"I'm your assistant Sathi. Please let me know how I can help you.",
}

// DefaultAffirmativeTokens are words that confirm a borderline wake.
var DefaultAffirmativeTokens = []string{"yes", "yeah", "yup", "ya", "correct", "right"}

// DefaultConfirmPrompt is spoken when the wake score is borderline.
const DefaultConfirmPrompt = "Did you say Sathi? Please say yes or no."

// Config holds session parameters. All values are fixed at process
// start; components never read ambient globals.
type Config struct {
	// WakePhrases are matched against transcripts while Idle.
	WakePhrases []string

	// AcceptThreshold activates the assistant outright.
	AcceptThreshold float64

	// ConfirmThreshold triggers the confirmation sub-dialog. Scores
	// below it are discarded.
	ConfirmThreshold float64

	// AffirmativeTokens confirm a borderline wake when any of them
	// appears in the confirmation transcript.
	AffirmativeTokens []string

	// Greetings are rotated through on each activation.
	Greetings []string

	// ConfirmPrompt is spoken when asking for confirmation.
	ConfirmPrompt string

	// WakeListen is the capture duration while Idle.
	WakeListen time.Duration

	// ConverseListen is the capture duration while Conversing.
	// Longer than WakeListen to leave room for slower speech.
	ConverseListen time.Duration

	// ConfirmListen is the short capture duration for confirmations.
	ConfirmListen time.Duration

	// Voice is the preferred speaking voice.
	Voice speak.VoiceProfile
}

// DefaultConfig returns the canonical session configuration.
func DefaultConfig() Config {
	return Config{
		WakePhrases:       DefaultWakePhrases,
		AcceptThreshold:   0.9,
		ConfirmThreshold:  0.55,
		AffirmativeTokens: DefaultAffirmativeTokens,
		Greetings:         DefaultGreetings,
		ConfirmPrompt:     DefaultConfirmPrompt,
		WakeListen:        5 * time.Second,
		ConverseListen:    8 * time.Second,
		ConfirmListen:     3 * time.Second,
		Voice:             speak.VoiceMale,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if len(c.WakePhrases) == 0 {
		return ErrNoWakePhrases
	}
	if c.ConfirmThreshold <= 0 || c.ConfirmThreshold > c.AcceptThreshold || c.AcceptThreshold > 1 {
		return ErrBadThresholds
	}
	if len(c.Greetings) == 0 {
		return ErrNoGreetings
	}
	return nil
}
