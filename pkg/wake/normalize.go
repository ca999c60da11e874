// Package wake scores transcribed speech against a configured set of wake
// phrases. Speech-to-text output is noisy, so a single comparison strategy is
// not enough: the scorer runs five matching tiers ordered from cheap and
// precise to tolerant, returning a confidence in [0,1] that the utterance was
// meant to invoke the assistant.
package wake

import "strings"

// Normalize lowercases text, replaces every character outside [a-z0-9 ]
// with a space, collapses repeated whitespace and trims. All phrase matching
// operates on normalized text. Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes text and splits it into whitespace-separated tokens.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}
