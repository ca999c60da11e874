// Package assistant drives the wake-word session: scoring ambient
// speech, confirming borderline matches, and routing conversation
// turns once awake.
package assistant

// State is the session's conversation state. There is exactly one
// active value at a time and the Machine is its only mutator.
type State int

const (
	// Idle means the assistant is waiting for a wake phrase.
	Idle State = iota

	// AwaitingConfirmation means a borderline wake score triggered a
	// spoken "did you call me?" prompt and a short re-listen.
	AwaitingConfirmation

	// Conversing means the assistant is awake and answering.
	Conversing
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Conversing:
		return "conversing"
	default:
		return "unknown"
	}
}
