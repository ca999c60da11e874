package listen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultSampleRate is the capture rate expected by whisper.cpp.
const DefaultSampleRate = 16000

// ArecordCapturer records mono 16kHz WAV clips with the ALSA arecord
// utility, one uniquely named file per capture.
type ArecordCapturer struct {
	dir        string
	device     string
	sampleRate int
	logger     *slog.Logger
}

// ArecordOption configures an ArecordCapturer.
type ArecordOption func(*ArecordCapturer)

// WithDevice selects an ALSA capture device (for example "hw:1,0").
func WithDevice(device string) ArecordOption {
	return func(c *ArecordCapturer) { c.device = device }
}

// WithSampleRate overrides the capture sample rate.
func WithSampleRate(rate int) ArecordOption {
	return func(c *ArecordCapturer) { c.sampleRate = rate }
}

// WithCaptureLogger sets the structured logger.
func WithCaptureLogger(logger *slog.Logger) ArecordOption {
	return func(c *ArecordCapturer) { c.logger = logger }
}

// NewArecordCapturer creates a capturer writing clips under dir,
// creating the directory if needed.
func NewArecordCapturer(dir string, opts ...ArecordOption) (*ArecordCapturer, error) {
	c := &ArecordCapturer{
		dir:        dir,
		sampleRate: DefaultSampleRate,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "listen.arecord")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip dir: %w", err)
	}
	return c, nil
}

// Capture records for the given duration and returns the saved clip.
func (c *ArecordCapturer) Capture(ctx context.Context, duration time.Duration) (Clip, error) {
	path := filepath.Join(c.dir, uuid.NewString()+".wav")

	seconds := int(duration.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	args := []string{
		"-q",
		"-f", "S16_LE",
		"-r", strconv.Itoa(c.sampleRate),
		"-c", "1",
		"-t", "wav",
		"-d", strconv.Itoa(seconds),
	}
	if c.device != "" {
		args = append(args, "-D", c.device)
	}
	args = append(args, path)

	c.logger.Debug("recording", "path", path, "seconds", seconds)

	cmd := exec.CommandContext(ctx, "arecord", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		return Clip{}, fmt.Errorf("arecord: %w: %s", err, out)
	}

	return Clip{
		Path:       path,
		SampleRate: c.sampleRate,
		Duration:   time.Duration(seconds) * time.Second,
	}, nil
}

var _ Capturer = (*ArecordCapturer)(nil)
