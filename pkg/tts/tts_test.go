package tts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelID != ModelFlashV2_5 {
		t.Errorf("ModelID = %q, want %q", cfg.ModelID, ModelFlashV2_5)
	}
	if cfg.OutputFormat != EncodingPCM16 {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, EncodingPCM16)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{
			name:    "missing api key",
			opts:    []Option{WithVoice("voice-1")},
			wantErr: ErrNoAPIKey,
		},
		{
			name:    "missing voice id",
			opts:    []Option{WithAPIKey("key-1")},
			wantErr: ErrNoVoiceID,
		},
		{
			name: "valid",
			opts: []Option{WithAPIKey("key-1"), WithVoice("voice-1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Apply(tt.opts...)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(
		WithAPIKey("key"),
		WithVoice("voice"),
		WithModel(ModelTurboV2_5),
		WithOutputFormat(EncodingPCM24),
		WithTimeout(5*time.Second),
		WithRetry(4, 200*time.Millisecond),
	)

	if cfg.APIKey != "key" || cfg.VoiceID != "voice" {
		t.Errorf("credentials not applied: %+v", cfg)
	}
	if cfg.ModelID != ModelTurboV2_5 {
		t.Errorf("ModelID = %q, want %q", cfg.ModelID, ModelTurboV2_5)
	}
	if cfg.OutputFormat != EncodingPCM24 {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, EncodingPCM24)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.MaxRetries != 4 || cfg.RetryDelay != 200*time.Millisecond {
		t.Errorf("retry config = (%d, %v)", cfg.MaxRetries, cfg.RetryDelay)
	}
}

func TestNewElevenLabsRequiresCredentials(t *testing.T) {
	_, err := NewElevenLabs()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("NewElevenLabs() error = %v, want ErrNoAPIKey", err)
	}
}

func TestSampleRateFromEncoding(t *testing.T) {
	tests := []struct {
		encoding Encoding
		want     int
	}{
		{EncodingPCM16, 16000},
		{EncodingPCM22, 22050},
		{EncodingPCM24, 24000},
		{"unknown", 16000},
	}

	for _, tt := range tests {
		if got := SampleRateFromEncoding(tt.encoding); got != tt.want {
			t.Errorf("SampleRateFromEncoding(%q) = %d, want %d", tt.encoding, got, tt.want)
		}
	}
}

func TestMockSynthesize(t *testing.T) {
	mock := NewMock()

	result, err := mock.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if result.CharCount != 5 {
		t.Errorf("CharCount = %d, want 5", result.CharCount)
	}
	if len(result.Audio) == 0 {
		t.Error("Audio is empty")
	}

	if got := mock.CallCount("Synthesize"); got != 1 {
		t.Errorf("CallCount(Synthesize) = %d, want 1", got)
	}
	if mock.LastText() != "hello" {
		t.Errorf("LastText() = %q, want %q", mock.LastText(), "hello")
	}
}

func TestMockWithError(t *testing.T) {
	wantErr := errors.New("synthesis down")
	mock := WithError(wantErr)

	if _, err := mock.Synthesize(context.Background(), "hi"); !errors.Is(err, wantErr) {
		t.Errorf("Synthesize() error = %v, want %v", err, wantErr)
	}
	if err := mock.Health(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Health() error = %v, want %v", err, wantErr)
	}
}

func TestMockStream(t *testing.T) {
	mock := NewMock()

	stream, err := mock.Stream(context.Background(), "stream me")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer stream.Close()

	var total int
	for {
		chunk, err := stream.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if chunk == nil {
			break
		}
		total += len(chunk)
	}
	if total == 0 {
		t.Error("stream produced no audio")
	}
}

func TestChainFallback(t *testing.T) {
	failing := WithError(errors.New("primary down"))
	working := NewMock()

	chain, err := NewChain(failing, working)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	defer chain.Close()

	result, err := chain.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(result.Audio) == 0 {
		t.Error("Audio is empty")
	}

	if got := failing.CallCount("Synthesize"); got != 1 {
		t.Errorf("failing provider calls = %d, want 1", got)
	}
	if got := working.CallCount("Synthesize"); got != 1 {
		t.Errorf("working provider calls = %d, want 1", got)
	}
}

func TestChainAllFail(t *testing.T) {
	first := WithError(errors.New("first down"))
	second := WithError(errors.New("second down"))

	chain, err := NewChain(first, second)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	defer chain.Close()

	_, err = chain.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("Synthesize() succeeded, want error")
	}

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("error type = %T, want *ChainError", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("aggregated errors = %d, want 2", len(chainErr.Errors))
	}
}

func TestChainHealth(t *testing.T) {
	failing := WithError(errors.New("down"))
	working := NewMock()

	chain, err := NewChain(failing, working)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	if err := chain.Health(context.Background()); err != nil {
		t.Errorf("Health() = %v, want nil with one healthy provider", err)
	}

	allDown, err := NewChain(failing)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	if err := allDown.Health(context.Background()); err == nil {
		t.Error("Health() = nil, want error with no healthy providers")
	}

	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("NewChain() with no providers = %v, want ErrProviderUnavailable", err)
	}
}

func TestAPIErrorIsRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{400, false},
		{401, false},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status, Provider: "test"}
		if got := err.IsRetryable(); got != tt.want {
			t.Errorf("IsRetryable() with status %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := WrapError("test", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is failed to unwrap ProviderError")
	}
}
