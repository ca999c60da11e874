// Package tts provides a unified interface for text-to-speech providers.
//
// The assistant reads every reply aloud, so synthesis must keep working when
// an individual backend does not: all providers implement the Provider
// interface and can be stacked in a Chain that falls back to the next
// provider on failure.
//
// Example usage:
//
//	provider, _ := tts.NewElevenLabs(
//	    tts.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")),
//	    tts.WithVoice("voice-id"),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello!")
package tts

import (
	"context"
	"time"
)

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Stream converts text to audio with streaming output for low latency.
	// Callers read chunks until Read returns nil.
	Stream(ctx context.Context, text string) (AudioStream, error)

	// Health checks provider connectivity and credential validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioStream represents a streaming audio response.
// Callers should read until Read returns nil, then call Close.
type AudioStream interface {
	// Read returns the next audio chunk, or nil when the stream is complete.
	Read() ([]byte, error)

	// Close stops the stream and releases resources.
	Close() error

	// Format returns the audio format metadata.
	Format() AudioFormat
}

// AudioResult is a complete synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format describes the audio encoding and sample rate.
	Format AudioFormat

	// Duration is the estimated playback duration.
	Duration time.Duration

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the time to first byte in milliseconds.
	LatencyMs int64
}

// AudioFormat describes the audio encoding parameters.
type AudioFormat struct {
	Encoding   Encoding
	SampleRate int
	Channels   int
	BitDepth   int
}

// Encoding represents audio encoding types.
type Encoding string

const (
	// EncodingPCM16 is 16kHz mono PCM16, matching the capture pipeline.
	EncodingPCM16 Encoding = "pcm_16000"

	// EncodingPCM22 is 22.05kHz mono PCM16.
	EncodingPCM22 Encoding = "pcm_22050"

	// EncodingPCM24 is 24kHz mono PCM16.
	EncodingPCM24 Encoding = "pcm_24000"

	// EncodingMP3 is MP3 at 128kbps.
	EncodingMP3 Encoding = "mp3_44100_128"
)

// SampleRateFromEncoding extracts the sample rate from an encoding type.
func SampleRateFromEncoding(enc Encoding) int {
	switch enc {
	case EncodingPCM22:
		return 22050
	case EncodingPCM24:
		return 24000
	case EncodingMP3:
		return 44100
	default:
		return 16000
	}
}

// VoiceSettings controls voice characteristics for providers that support it.
type VoiceSettings struct {
	// Stability controls voice consistency (0.0-1.0).
	// Lower values are more expressive, higher more consistent.
	Stability float64

	// SimilarityBoost controls how closely output matches the voice sample.
	SimilarityBoost float64
}

// DefaultVoiceSettings returns steady, clearly articulated speech defaults.
// The assistant favors consistency over expressiveness.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.7,
		SimilarityBoost: 0.75,
	}
}
