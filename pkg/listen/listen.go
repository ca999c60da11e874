// Package listen captures microphone audio and turns it into text.
//
// Capture and recognition are separate concerns behind small
// interfaces so the session loop can be driven by fakes in tests and
// by arecord plus whisper.cpp in production.
package listen

import (
	"context"
	"errors"
	"time"
)

// ErrNoSpeech indicates the recognizer produced no usable text.
var ErrNoSpeech = errors.New("listen: no speech recognized")

// Clip is a captured audio recording on disk.
type Clip struct {
	// Path is the location of the WAV file.
	Path string

	// SampleRate in Hz.
	SampleRate int

	// Duration of the recording.
	Duration time.Duration
}

// Capturer records audio from an input device.
type Capturer interface {
	// Capture records for the given duration and returns the clip.
	Capture(ctx context.Context, duration time.Duration) (Clip, error)
}

// Recognizer transcribes a captured clip. An empty transcript with a
// nil error means the clip contained no recognizable speech.
type Recognizer interface {
	Transcribe(ctx context.Context, clip Clip) (string, error)
}
