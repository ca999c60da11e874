// Package speak turns reply text into audible speech. It selects a
// synthesis voice by profile, falling back to whatever voice is
// available rather than staying silent, and hands the audio to a
// playback sink.
package speak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sathilabs/go-sathi/pkg/tts"
)

// VoiceProfile names a preferred voice character.
type VoiceProfile string

const (
	VoiceMale   VoiceProfile = "male"
	VoiceFemale VoiceProfile = "female"
)

// ErrNoVoices indicates that no synthesis provider was configured.
var ErrNoVoices = errors.New("speak: no voices configured")

// Speaker synthesizes text with the selected voice and plays it.
type Speaker struct {
	provider tts.Provider
	profile  VoiceProfile
	sink     Sink
	logger   *slog.Logger
}

// Option configures a Speaker.
type Option func(*Speaker)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Speaker) { s.logger = logger }
}

// NewSpeaker picks the provider registered for the preferred profile.
// A missing preference is not fatal: any available voice is used
// instead, matching how desktop speech engines degrade when the
// requested voice is not installed.
func NewSpeaker(voices map[VoiceProfile]tts.Provider, preferred VoiceProfile, sink Sink, opts ...Option) (*Speaker, error) {
	s := &Speaker{
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "speak")

	if p, ok := voices[preferred]; ok {
		s.provider = p
		s.profile = preferred
	} else {
		for profile, p := range voices {
			s.provider = p
			s.profile = profile
			break
		}
		if s.provider == nil {
			return nil, ErrNoVoices
		}
		s.logger.Warn("preferred voice unavailable, using fallback",
			"preferred", string(preferred),
			"selected", string(s.profile),
		)
	}

	return s, nil
}

// Profile returns the voice profile actually selected.
func (s *Speaker) Profile() VoiceProfile {
	return s.profile
}

// Say synthesizes text and plays it to completion.
func (s *Speaker) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	result, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	s.logger.Debug("speaking",
		"chars", result.CharCount,
		"duration", result.Duration,
	)

	if err := s.sink.Play(ctx, result); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Close releases the provider and the sink.
func (s *Speaker) Close() error {
	perr := s.provider.Close()
	serr := s.sink.Close()
	if perr != nil {
		return perr
	}
	return serr
}
