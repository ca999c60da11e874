package speak

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/sathilabs/go-sathi/pkg/tts"
)

// Sink plays synthesized audio.
type Sink interface {
	// Play blocks until the audio has been played or ctx is cancelled.
	Play(ctx context.Context, result *tts.AudioResult) error

	// Close releases playback resources.
	Close() error
}

// ExecSink pipes raw PCM audio into an external player process, one
// process per utterance. The default player is aplay.
type ExecSink struct {
	player string
	mu     sync.Mutex
}

// NewExecSink creates a sink backed by the named player binary.
// An empty name selects aplay.
func NewExecSink(player string) *ExecSink {
	if player == "" {
		player = "aplay"
	}
	return &ExecSink{player: player}
}

// Play feeds the PCM buffer to the player over stdin and waits for it
// to finish. Playback is serialized so overlapping calls do not talk
// over each other.
func (s *ExecSink) Play(ctx context.Context, result *tts.AudioResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := exec.CommandContext(ctx, s.player,
		"-q",
		"-f", "S16_LE",
		"-r", strconv.Itoa(result.Format.SampleRate),
		"-c", strconv.Itoa(result.Format.Channels),
		"-t", "raw",
	)
	cmd.Stdin = bytes.NewReader(result.Audio)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", s.player, err)
	}
	return nil
}

// Close implements Sink. Player processes are per-utterance, so there
// is nothing to release.
func (s *ExecSink) Close() error {
	return nil
}

// WriterSink writes raw audio bytes to an io.Writer. Used in tests and
// for capturing output to a file.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink that writes audio to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Play writes the audio buffer to the underlying writer.
func (s *WriterSink) Play(ctx context.Context, result *tts.AudioResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.w.Write(result.Audio)
	return err
}

// Close implements Sink.
func (s *WriterSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var (
	_ Sink = (*ExecSink)(nil)
	_ Sink = (*WriterSink)(nil)
)
