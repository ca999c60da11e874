package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// ElevenLabsWS implements Provider over the ElevenLabs WebSocket
// stream-input API. It opens one connection per utterance, which
// trades a handshake for lower time-to-first-byte than the chunked
// HTTP endpoint on short texts.
type ElevenLabsWS struct {
	config *Config
	logger *slog.Logger
	dialer *websocket.Dialer
}

// NewElevenLabsWS creates a WebSocket-based ElevenLabs provider.
func NewElevenLabsWS(opts ...Option) (*ElevenLabsWS, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ElevenLabsWS{
		config: cfg,
		logger: cfg.Logger.With("component", "tts.elevenlabs_ws"),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}, nil
}

// wsOutbound is a message sent to the stream-input endpoint. The
// BOS message carries a single space and the voice settings; the EOS
// message carries an empty text.
type wsOutbound struct {
	Text          string           `json:"text"`
	VoiceSettings *wsVoiceSettings `json:"voice_settings,omitempty"`
	XiAPIKey      string           `json:"xi_api_key,omitempty"`
}

type wsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// wsInbound is a message received from the stream-input endpoint.
type wsInbound struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Stream synthesizes text over a dedicated WebSocket connection.
func (e *ElevenLabsWS) Stream(ctx context.Context, text string) (AudioStream, error) {
	url := fmt.Sprintf(
		"wss://api.elevenlabs.io/v1/text-to-speech/%s/stream-input?model_id=%s&output_format=%s",
		e.config.VoiceID, e.config.ModelID, e.config.OutputFormat)

	conn, _, err := e.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("dial: %w", err))
	}

	settings := wsVoiceSettings{
		Stability:       e.config.VoiceSettings.Stability,
		SimilarityBoost: e.config.VoiceSettings.SimilarityBoost,
	}
	messages := []wsOutbound{
		{Text: " ", VoiceSettings: &settings, XiAPIKey: e.config.APIKey},
		{Text: text + " "},
		{Text: ""},
	}
	for _, msg := range messages {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return nil, WrapError(providerElevenLabs, fmt.Errorf("write: %w", err))
		}
	}

	stream := &wsStream{
		conn:   conn,
		chunks: make(chan []byte, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		format: AudioFormat{
			Encoding:   e.config.OutputFormat,
			SampleRate: SampleRateFromEncoding(e.config.OutputFormat),
			Channels:   1,
			BitDepth:   16,
		},
	}
	go stream.receive(ctx, e.logger)
	return stream, nil
}

// Synthesize streams the full utterance and assembles the chunks.
func (e *ElevenLabsWS) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	start := time.Now()

	stream, err := e.Stream(ctx, text)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var audio []byte
	for {
		chunk, err := stream.Read()
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			break
		}
		audio = append(audio, chunk...)
	}

	format := stream.Format()
	samples := len(audio) / 2
	return &AudioResult{
		Audio:     audio,
		Format:    format,
		CharCount: len(text),
		LatencyMs: time.Since(start).Milliseconds(),
		Duration:  time.Duration(float64(samples) / float64(format.SampleRate) * float64(time.Second)),
	}, nil
}

// Health verifies that the endpoint accepts a connection.
func (e *ElevenLabsWS) Health(ctx context.Context) error {
	url := fmt.Sprintf(
		"wss://api.elevenlabs.io/v1/text-to-speech/%s/stream-input?model_id=%s",
		e.config.VoiceID, e.config.ModelID)

	conn, _, err := e.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("health dial: %w", err))
	}
	return conn.Close()
}

// Close releases resources. Connections are per-stream, so there is
// nothing long-lived to tear down.
func (e *ElevenLabsWS) Close() error {
	return nil
}

// wsStream delivers audio chunks decoded from WebSocket messages.
type wsStream struct {
	conn   *websocket.Conn
	chunks chan []byte
	errs   chan error
	done   chan struct{}
	format AudioFormat
}

// receive reads inbound messages until the final frame, an error, or
// cancellation, decoding audio payloads onto the chunk channel.
func (s *wsStream) receive(ctx context.Context, logger *slog.Logger) {
	defer close(s.chunks)
	defer s.conn.Close()

	for {
		select {
		case <-ctx.Done():
			s.errs <- ctx.Err()
			return
		case <-s.done:
			return
		default:
		}

		var msg wsInbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			s.errs <- WrapError(providerElevenLabs, fmt.Errorf("read: %w", err))
			return
		}

		if msg.Error != "" {
			s.errs <- &APIError{
				StatusCode: 0,
				Message:    msg.Error + ": " + msg.Message,
				Provider:   providerElevenLabs,
			}
			return
		}

		if msg.Audio != "" {
			audio, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				logger.Warn("dropping undecodable audio chunk", "error", err)
				continue
			}
			select {
			case s.chunks <- audio:
			case <-s.done:
				return
			}
		}

		if msg.IsFinal {
			return
		}
	}
}

// Read returns the next audio chunk, or nil at end of stream.
func (s *wsStream) Read() ([]byte, error) {
	select {
	case <-s.done:
		return nil, ErrStreamClosed
	case err := <-s.errs:
		return nil, err
	case chunk, ok := <-s.chunks:
		if !ok {
			select {
			case err := <-s.errs:
				return nil, err
			default:
			}
			return nil, nil
		}
		return chunk, nil
	}
}

// Close stops the stream.
func (s *wsStream) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}

// Format returns the audio format.
func (s *wsStream) Format() AudioFormat {
	return s.format
}

var _ Provider = (*ElevenLabsWS)(nil)
