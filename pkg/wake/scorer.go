package wake

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Tier identifies which matching strategy produced a score.
type Tier int

const (
	// TierNone means no tier met its criterion.
	TierNone Tier = iota

	// TierExact is a full-string match of normalized text and phrase.
	TierExact

	// TierSubstring means the normalized phrase occurs inside the text.
	TierSubstring

	// TierTokenSubset means every phrase token appears among the text tokens.
	TierTokenSubset

	// TierWindowFuzzy is a fuzzy match of a phrase-length token window.
	TierWindowFuzzy

	// TierTokenFuzzy is a fuzzy match between single tokens, catching
	// one-word mistranscriptions like "sathy" for "sathi".
	TierTokenFuzzy
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierTokenSubset:
		return "token-subset"
	case TierWindowFuzzy:
		return "window-fuzzy"
	case TierTokenFuzzy:
		return "token-fuzzy"
	default:
		return "none"
	}
}

// MatchResult describes the outcome of scoring one utterance.
type MatchResult struct {
	// Score is the wake confidence in [0,1].
	Score float64

	// Phrase is the normalized wake phrase that produced Score,
	// or empty when nothing matched at all.
	Phrase string

	// Tier is the strategy that produced Score.
	Tier Tier
}

// Default fuzzy-matching thresholds.
const (
	// DefaultSpanThreshold accepts a windowed phrase-level fuzzy match.
	DefaultSpanThreshold = 0.65

	// DefaultTokenThreshold accepts a single-token fuzzy match.
	DefaultTokenThreshold = 0.85
)

// Scorer scores utterances against a fixed set of wake phrases.
// It is stateless after construction and safe for concurrent use.
type Scorer struct {
	phrases        []string
	spanThreshold  float64
	tokenThreshold float64
	dmp            *diffmatchpatch.DiffMatchPatch
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSpanThreshold overrides the windowed fuzzy acceptance threshold.
func WithSpanThreshold(t float64) Option {
	return func(s *Scorer) { s.spanThreshold = t }
}

// WithTokenThreshold overrides the single-token fuzzy acceptance threshold.
func WithTokenThreshold(t float64) Option {
	return func(s *Scorer) { s.tokenThreshold = t }
}

// NewScorer builds a Scorer from the given wake phrases. Phrases are
// normalized once; entries that are empty after normalization are dropped.
func NewScorer(phrases []string, opts ...Option) *Scorer {
	s := &Scorer{
		spanThreshold:  DefaultSpanThreshold,
		tokenThreshold: DefaultTokenThreshold,
		dmp:            diffmatchpatch.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range phrases {
		if norm := Normalize(p); norm != "" {
			s.phrases = append(s.phrases, norm)
		}
	}
	return s
}

// Phrases returns the normalized phrase set.
func (s *Scorer) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// Score returns the wake confidence for the utterance in [0,1].
func (s *Scorer) Score(text string) float64 {
	return s.Match(text).Score
}

// Match scores the utterance and reports which phrase and tier won.
//
// For each phrase the tiers run in order, returning immediately on the first
// that meets its criterion: exact (1.0), substring (0.95), token subset
// (0.9), windowed fuzzy (>= span threshold), single-token fuzzy (>= token
// threshold). When no tier triggers, the best ratio seen anywhere is
// returned so callers can still apply their own cutoffs.
func (s *Scorer) Match(text string) MatchResult {
	norm := Normalize(text)
	if norm == "" || len(s.phrases) == 0 {
		return MatchResult{}
	}
	tokens := strings.Fields(norm)

	best := MatchResult{}

	for _, phrase := range s.phrases {
		if norm == phrase {
			return MatchResult{Score: 1.0, Phrase: phrase, Tier: TierExact}
		}

		if strings.Contains(norm, phrase) {
			return MatchResult{Score: 0.95, Phrase: phrase, Tier: TierSubstring}
		}

		phraseTokens := strings.Fields(phrase)
		if containsAll(tokens, phraseTokens) {
			return MatchResult{Score: 0.9, Phrase: phrase, Tier: TierTokenSubset}
		}

		// Slide a phrase-length window across the text tokens and compare
		// each joined window against the whole phrase. Always evaluate at
		// least one window so short utterances still get a phrase-level score.
		win := len(phraseTokens)
		if win < 1 {
			win = 1
		}
		limit := len(tokens) - win + 1
		if limit < 1 {
			limit = 1
		}
		for i := 0; i < limit; i++ {
			end := i + win
			if end > len(tokens) {
				end = len(tokens)
			}
			window := strings.Join(tokens[i:end], " ")
			r := s.ratio(window, phrase)
			best.improve(r, phrase, TierWindowFuzzy)
			if r >= s.spanThreshold {
				return MatchResult{Score: r, Phrase: phrase, Tier: TierWindowFuzzy}
			}
		}

		for _, pt := range phraseTokens {
			for _, tk := range tokens {
				r := s.ratio(tk, pt)
				best.improve(r, phrase, TierTokenFuzzy)
				if r >= s.tokenThreshold {
					return MatchResult{Score: r, Phrase: phrase, Tier: TierTokenFuzzy}
				}
			}
		}
	}

	return best
}

// improve keeps the running maximum across tiers and phrases.
func (m *MatchResult) improve(score float64, phrase string, tier Tier) {
	if score > m.Score {
		m.Score = score
		m.Phrase = phrase
		m.Tier = tier
	}
}

// ratio computes a symmetric normalized edit-similarity in [0,1]:
// twice the number of matching characters over the total length of both
// strings. Identical strings score 1, and any comparison against an empty
// string scores 0.
func (s *Scorer) ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	var common int
	for _, d := range s.dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len(d.Text)
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}

func containsAll(haystack, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
