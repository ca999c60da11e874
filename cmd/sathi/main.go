// Sathi - voice companion for elderly users.
// Listens for a wake phrase, answers date/time/calendar questions
// locally and everything else through Gemini, and announces scheduled
// reminders.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sathilabs/go-sathi/internal/config"
	"github.com/sathilabs/go-sathi/internal/log"
	"github.com/sathilabs/go-sathi/pkg/assistant"
	"github.com/sathilabs/go-sathi/pkg/convo"
	"github.com/sathilabs/go-sathi/pkg/listen"
	"github.com/sathilabs/go-sathi/pkg/reminder"
	"github.com/sathilabs/go-sathi/pkg/responder"
	"github.com/sathilabs/go-sathi/pkg/speak"
	"github.com/sathilabs/go-sathi/pkg/tts"
	"github.com/sathilabs/go-sathi/pkg/wake"
)

type options struct {
	session      assistant.Config
	whisperBin   string
	whisperModel string
	dbPath       string
	clipDir      string
	player       string
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		stdlog.Fatalf("sathi: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	speaker, err := buildSpeaker(opts)
	if err != nil {
		return err
	}
	defer speaker.Close()

	capturer, err := listen.NewArecordCapturer(opts.clipDir,
		listen.WithCaptureLogger(log.L()))
	if err != nil {
		return err
	}

	recognizer, err := listen.NewWhisperCLI(opts.whisperBin, opts.whisperModel,
		listen.WithWhisperLogger(log.L()))
	if err != nil {
		return err
	}

	dispatcher := convo.NewDispatcher(buildResponder(ctx), convo.WithLogger(log.L()))
	scorer := wake.NewScorer(opts.session.WakePhrases)

	machine, err := assistant.NewMachine(opts.session, scorer, dispatcher,
		assistant.WithMachineLogger(log.L()))
	if err != nil {
		return err
	}

	store, err := reminder.OpenStore(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	scheduler := reminder.NewScheduler(store, speaker, reminder.WithLogger(log.L()))
	go scheduler.Run(ctx)

	loop := assistant.NewLoop(machine, capturer, recognizer, speaker,
		assistant.WithLoopLogger(log.L()))
	return loop.Run(ctx)
}

// buildResponder returns the Gemini responder when a key is present,
// otherwise an offline stub so time and calendar queries keep working.
func buildResponder(ctx context.Context) convo.Responder {
	key := config.GoogleAPIKey()
	if key == "" {
		log.Warn("GOOGLE_API_KEY not set, conversational replies disabled")
		return responder.Offline{}
	}

	gemini, err := responder.NewGemini(ctx, key, responder.WithLogger(log.L()))
	if err != nil {
		log.Error("gemini client unavailable, conversational replies disabled", "error", err)
		return responder.Offline{}
	}
	return gemini
}

// buildSpeaker wires the ElevenLabs providers into a per-voice chain
// (WebSocket streaming first, plain HTTP as the fallback path) and
// selects the preferred voice profile.
func buildSpeaker(opts options) (*speak.Speaker, error) {
	apiKey := config.ElevenLabsKey()
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY environment variable is required")
	}

	voiceIDs := map[speak.VoiceProfile]string{
		speak.VoiceMale:   os.Getenv("ELEVENLABS_VOICE_ID_MALE"),
		speak.VoiceFemale: os.Getenv("ELEVENLABS_VOICE_ID_FEMALE"),
	}

	voices := make(map[speak.VoiceProfile]tts.Provider)
	for profile, voiceID := range voiceIDs {
		if voiceID == "" {
			continue
		}
		provider, err := buildVoice(apiKey, voiceID)
		if err != nil {
			return nil, fmt.Errorf("voice %s: %w", profile, err)
		}
		voices[profile] = provider
	}
	if len(voices) == 0 {
		return nil, fmt.Errorf("set ELEVENLABS_VOICE_ID_MALE or ELEVENLABS_VOICE_ID_FEMALE")
	}

	sink := speak.NewExecSink(opts.player)
	return speak.NewSpeaker(voices, opts.session.Voice, sink, speak.WithLogger(log.L()))
}

func buildVoice(apiKey, voiceID string) (tts.Provider, error) {
	common := []tts.Option{
		tts.WithAPIKey(apiKey),
		tts.WithVoice(voiceID),
		tts.WithLogger(log.L()),
	}

	streaming, err := tts.NewElevenLabsWS(common...)
	if err != nil {
		return nil, err
	}
	direct, err := tts.NewElevenLabs(common...)
	if err != nil {
		return nil, err
	}
	return tts.NewChainWithLogger(log.L(), streaming, direct)
}

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// parseFlags parses command line flags and environment variables.
func parseFlags() options {
	session := assistant.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	voice := flag.String("voice", string(session.Voice), "Preferred voice profile: male or female")
	accept := flag.Float64("accept", config.EnvFloat("SATHI_ACCEPT", session.AcceptThreshold), "Wake score that activates immediately")
	confirm := flag.Float64("confirm", config.EnvFloat("SATHI_CONFIRM", session.ConfirmThreshold), "Wake score that asks for confirmation")
	whisperBin := flag.String("whisper-bin", config.Env("WHISPER_BIN", config.DefaultWhisperBin), "Path to the whisper.cpp binary")
	whisperModel := flag.String("whisper-model", config.Env("WHISPER_MODEL", config.DefaultWhisperModel), "Path to the whisper.cpp model")
	dbPath := flag.String("db", config.Env("SATHI_DB", config.DefaultReminderDB), "Path to the reminder database")
	clipDir := flag.String("clip-dir", "data/audio", "Directory for captured audio clips")
	player := flag.String("player", "", "Audio player binary (default aplay)")

	var phrases stringList
	flag.Var(&phrases, "wake-phrase", "Additional wake phrase (repeatable)")

	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	session.Voice = speak.VoiceProfile(*voice)
	session.AcceptThreshold = *accept
	session.ConfirmThreshold = *confirm
	session.WakePhrases = append(session.WakePhrases, phrases...)

	return options{
		session:      session,
		whisperBin:   *whisperBin,
		whisperModel: *whisperModel,
		dbPath:       *dbPath,
		clipDir:      *clipDir,
		player:       *player,
	}
}
