// Package config provides environment configuration helpers for go-sathi commands.
package config

import (
	"os"
	"strconv"
)

// Default assistant configuration.
const (
	DefaultWhisperBin   = "whisper.cpp/build/bin/whisper-cli"
	DefaultWhisperModel = "models/ggml-small-q8_0.bin"
	DefaultReminderDB   = "sathi_tasks.db"
)

// Env returns the value of an environment variable, or the provided
// default if not set.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvFloat returns a float64 from the environment, or the default when
// unset or unparseable.
func EnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GoogleAPIKey returns the Gemini API key from GOOGLE_API_KEY.
func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// ElevenLabsKey returns the ElevenLabs API key from ELEVENLABS_API_KEY.
func ElevenLabsKey() string {
	return os.Getenv("ELEVENLABS_API_KEY")
}
