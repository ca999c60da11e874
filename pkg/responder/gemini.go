// Package responder provides the external conversational backend used for
// utterances with no deterministic intent. The production implementation
// talks to Google's Gemini API; Mock and Offline stand in for tests and
// keyless development.
package responder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// ErrUnavailable is returned when no conversational backend is configured.
var ErrUnavailable = errors.New("responder: no conversational backend available")

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultSystemPrompt shapes replies for the assistant's audience: short,
// warm, plain sentences that read well aloud.
const DefaultSystemPrompt = `You are Sathi, a gentle companion for elderly users.
Use simple, clear English. Keep responses short, two or three sentences.
Be warm and patient, and make the listener feel safe.`

// Gemini answers utterances with the Gemini generative API.
type Gemini struct {
	client       *genai.Client
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int32
	logger       *slog.Logger
}

// GeminiOption configures a Gemini responder.
type GeminiOption func(*Gemini)

// WithModel overrides the Gemini model name.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) { g.model = model }
}

// WithSystemPrompt overrides the system instructions.
func WithSystemPrompt(prompt string) GeminiOption {
	return func(g *Gemini) { g.systemPrompt = prompt }
}

// WithTemperature overrides response randomness.
func WithTemperature(t float32) GeminiOption {
	return func(g *Gemini) { g.temperature = t }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(g *Gemini) { g.logger = logger.With("component", "responder.gemini") }
}

// NewGemini creates a Gemini responder. The API key is required.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("responder: Gemini API key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("responder: create Gemini client: %w", err)
	}

	g := &Gemini{
		client:       client,
		model:        DefaultModel,
		systemPrompt: DefaultSystemPrompt,
		temperature:  0.7,
		maxTokens:    256,
		logger:       slog.Default().With("component", "responder.gemini"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Respond sends the utterance to Gemini and returns the reply text.
func (g *Gemini) Respond(ctx context.Context, text string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
			MaxOutputTokens:   g.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("responder: generate content: %w", err)
	}

	reply := result.Text()
	if reply == "" {
		return "", errors.New("responder: empty reply from model")
	}

	g.logger.Debug("generated reply", "model", g.model, "chars", len(reply))
	return reply, nil
}

// Offline is a responder for processes started without an API key.
// It always fails, which the dispatcher recovers into its apologetic reply,
// so the assistant still answers deterministic queries normally.
type Offline struct{}

// Respond implements Responder.
func (Offline) Respond(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
