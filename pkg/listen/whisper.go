package listen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTranscribeTimeout bounds a single whisper.cpp run.
const DefaultTranscribeTimeout = 60 * time.Second

// WhisperCLI transcribes clips by running the whisper.cpp command-line
// binary and parsing its timestamped transcript output.
type WhisperCLI struct {
	binPath   string
	modelPath string
	language  string
	timeout   time.Duration
	logger    *slog.Logger
}

// WhisperOption configures a WhisperCLI.
type WhisperOption func(*WhisperCLI)

// WithLanguage sets the recognition language (default "en").
func WithLanguage(lang string) WhisperOption {
	return func(w *WhisperCLI) { w.language = lang }
}

// WithTranscribeTimeout bounds how long a single run may take.
func WithTranscribeTimeout(timeout time.Duration) WhisperOption {
	return func(w *WhisperCLI) { w.timeout = timeout }
}

// WithWhisperLogger sets the structured logger.
func WithWhisperLogger(logger *slog.Logger) WhisperOption {
	return func(w *WhisperCLI) { w.logger = logger }
}

// NewWhisperCLI creates a recognizer using the binary and model at the
// given paths. Both must exist.
func NewWhisperCLI(binPath, modelPath string, opts ...WhisperOption) (*WhisperCLI, error) {
	w := &WhisperCLI{
		binPath:   binPath,
		modelPath: modelPath,
		language:  "en",
		timeout:   DefaultTranscribeTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "listen.whisper")

	if _, err := os.Stat(binPath); err != nil {
		return nil, fmt.Errorf("whisper binary: %w", err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	return w, nil
}

// Transcribe runs whisper.cpp on the clip and returns the transcript.
// An empty string with a nil error means no speech was recognized.
func (w *WhisperCLI) Transcribe(ctx context.Context, clip Clip) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, w.binPath,
		"-m", w.modelPath,
		"-f", clip.Path,
		"--language", w.language,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("whisper: timed out after %s", w.timeout)
		}
		return "", fmt.Errorf("whisper: %w", err)
	}

	text := ParseWhisperOutput(string(out))
	w.logger.Debug("transcribed",
		"clip", clip.Path,
		"chars", len(text),
		"elapsed", time.Since(start),
	)
	return text, nil
}

// ParseWhisperOutput extracts transcript text from whisper.cpp stdout.
// The primary form is timestamped segments:
//
//	[00:00:00.000 --> 00:00:02.500]   hello there
//
// Text after the closing bracket of each segment is joined in order.
// If no segment lines are present, plain lines are collected,
// skipping the tool's own diagnostic output.
func ParseWhisperOutput(output string) string {
	lines := strings.Split(output, "\n")

	var parts []string
	for _, line := range lines {
		if strings.Contains(line, "-->") && strings.Contains(line, "]") {
			idx := strings.LastIndex(line, "]")
			if text := strings.TrimSpace(line[idx+1:]); text != "" {
				parts = append(parts, text)
			}
		}
	}

	if len(parts) == 0 {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" ||
				strings.HasPrefix(trimmed, "whisper_") ||
				strings.HasPrefix(trimmed, "system_info:") ||
				strings.HasPrefix(trimmed, "main:") ||
				strings.HasPrefix(trimmed, "[") {
				continue
			}
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, " ")
}

var _ Recognizer = (*WhisperCLI)(nil)
