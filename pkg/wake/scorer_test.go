package wake_test

import (
	"testing"

	"github.com/sathilabs/go-sathi/pkg/wake"
)

var phrases = []string{
	"hey sathi", "hi sathi", "ok sathi", "sathi",
	"hello sathi", "dear sathi", "sathi please",
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase", "Hey Sathi", "hey sathi"},
		{"punctuation", "hey, sathi!", "hey sathi"},
		{"collapse whitespace", "  hey\t\tsathi  ", "hey sathi"},
		{"digits kept", "wake at 9", "wake at 9"},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wake.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreExactMatch(t *testing.T) {
	for _, p := range phrases {
		s := wake.NewScorer([]string{p})
		if got := s.Score(wake.Normalize(p)); got != 1.0 {
			t.Errorf("Score(%q) = %v, want 1.0", p, got)
		}
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		s := wake.NewScorer(phrases)
		if got := s.Score(""); got != 0.0 {
			t.Errorf("Score(\"\") = %v, want 0", got)
		}
	})

	t.Run("empty phrase set", func(t *testing.T) {
		s := wake.NewScorer(nil)
		if got := s.Score("hey sathi"); got != 0.0 {
			t.Errorf("Score with empty set = %v, want 0", got)
		}
	})

	t.Run("phrases empty after normalization are dropped", func(t *testing.T) {
		s := wake.NewScorer([]string{"?!", "  ", "hey sathi"})
		if got := len(s.Phrases()); got != 1 {
			t.Errorf("expected 1 phrase, got %d", got)
		}
	})
}

func TestScoreSubstring(t *testing.T) {
	s := wake.NewScorer([]string{"hey sathi"})

	m := s.Match("well hey sathi how are you")
	if m.Score < 0.95 {
		t.Errorf("substring score = %v, want >= 0.95", m.Score)
	}
	if m.Tier != wake.TierSubstring {
		t.Errorf("tier = %v, want substring", m.Tier)
	}
}

func TestScoreTokenSubset(t *testing.T) {
	s := wake.NewScorer([]string{"hey sathi"})

	// Both tokens present but out of order and separated.
	m := s.Match("sathi oh hey there")
	if m.Score != 0.9 {
		t.Errorf("token-subset score = %v, want 0.9", m.Score)
	}
	if m.Tier != wake.TierTokenSubset {
		t.Errorf("tier = %v, want token-subset", m.Tier)
	}
}

func TestScoreWindowFuzzy(t *testing.T) {
	s := wake.NewScorer([]string{"hey sathi"})

	// "hey sathy" differs from "hey sathi" by one trailing character,
	// which clears the span threshold.
	m := s.Match("hey sathy")
	if m.Score < wake.DefaultSpanThreshold {
		t.Errorf("window-fuzzy score = %v, want >= %v", m.Score, wake.DefaultSpanThreshold)
	}
	if m.Tier != wake.TierWindowFuzzy {
		t.Errorf("tier = %v, want window-fuzzy", m.Tier)
	}
}

func TestScoreSingleTokenFuzzy(t *testing.T) {
	s := wake.NewScorer([]string{"hey sathi"})

	// One mangled word on its own: the two-token window scores below the
	// span threshold, and "sathy" vs "sathi" gives 0.8, which is below the
	// token threshold, so the best observed ratio is returned instead of
	// an early accept.
	m := s.Match("sathy")
	if m.Score < 0.75 || m.Score > 0.85 {
		t.Errorf("Score(\"sathy\") = %v, want ~0.8", m.Score)
	}
	if m.Tier != wake.TierTokenFuzzy {
		t.Errorf("tier = %v, want token-fuzzy", m.Tier)
	}
}

func TestScoreUnrelatedTextStaysLow(t *testing.T) {
	s := wake.NewScorer(phrases)

	if got := s.Score("turn off the kitchen lights"); got >= 0.55 {
		t.Errorf("unrelated text scored %v, want < 0.55", got)
	}
}

func TestScorerThresholdOptions(t *testing.T) {
	// Lowering the token threshold turns the near-miss above into an
	// early token-fuzzy accept.
	s := wake.NewScorer([]string{"hey sathi"}, wake.WithTokenThreshold(0.75))

	m := s.Match("sathy")
	if m.Tier != wake.TierTokenFuzzy {
		t.Errorf("tier = %v, want token-fuzzy", m.Tier)
	}
	if m.Score < 0.75 {
		t.Errorf("score = %v, want >= 0.75", m.Score)
	}
}
