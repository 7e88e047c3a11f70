package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"taskscribe/config"
	"taskscribe/internal/application"
	"taskscribe/internal/infra/anthropic"
	"taskscribe/internal/infra/audio"
	"taskscribe/internal/infra/gemini"
	"taskscribe/internal/infra/openai"
	"taskscribe/internal/infra/pushover"
	"taskscribe/internal/tui"
)

var (
	configPath string
	duration   int
	inputFile  string
	noUI       bool
)

var rootCmd = &cobra.Command{
	Use:           "taskscribe",
	Short:         "Record a voice note and turn it into reviewable tickets",
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("a subcommand is required")
	},
}

var startCmd = &cobra.Command{
	Use:          "start",
	Short:        "Record, transcribe, and review tickets from a voice note",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd.Context())
	},
}

func init() {
	startCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	startCmd.Flags().IntVar(&duration, "duration", 0, "recording length in seconds (overrides config)")
	startCmd.Flags().StringVar(&inputFile, "input", "", "transcribe an existing audio file instead of recording")
	startCmd.Flags().BoolVar(&noUI, "no-ui", false, "skip the review form and leave all tickets pending")
	rootCmd.AddCommand(startCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runStart(ctx context.Context) error {
	godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Audio.DurationSeconds = duration
	}

	logger := setupLogger(cfg.Log)

	assistant := application.NewAssistant(
		createRecorder(cfg.Audio, logger),
		createSTT(cfg.OpenAI, logger),
		createExtractor(cfg, logger),
		createReviewer(logger),
		createNotifier(cfg.Pushover),
		logger,
		cfg.Audio.TempDir,
		os.Stdout,
	)

	return assistant.Run(ctx)
}

func createRecorder(cfg config.AudioConfig, logger *slog.Logger) application.Recorder {
	if inputFile != "" {
		return audio.NewFileRecorder(inputFile)
	}
	return audio.NewMicrophoneRecorder(
		time.Duration(cfg.DurationSeconds)*time.Second,
		cfg.SampleRate,
		logger,
	)
}

func createSTT(cfg config.OpenAIConfig, logger *slog.Logger) application.SpeechToText {
	if cfg.APIKey == "" {
		logger.Warn("no OpenAI API key configured, transcription is disabled")
		return &application.DisabledSTT{}
	}
	return openai.NewWhisperClient(cfg.APIKey, cfg.TranscribeModel, cfg.Language, logger)
}

func createExtractor(cfg *config.Config, logger *slog.Logger) application.TicketExtractor {
	switch cfg.Extractor.Backend {
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			logger.Warn("no Anthropic API key configured, extraction is disabled")
			return &application.DisabledExtractor{Backend: "anthropic"}
		}
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)

	case "gemini":
		if cfg.Gemini.APIKey == "" {
			logger.Warn("no Gemini API key configured, extraction is disabled")
			return &application.DisabledExtractor{Backend: "gemini"}
		}
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)

	case "openai":
		if cfg.OpenAI.APIKey == "" {
			logger.Warn("no OpenAI API key configured, extraction is disabled")
			return &application.DisabledExtractor{Backend: "openai"}
		}
		return openai.NewChatClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, logger)

	default:
		logger.Warn("unknown extractor backend, extraction is disabled", "backend", cfg.Extractor.Backend)
		return &application.DisabledExtractor{Backend: cfg.Extractor.Backend}
	}
}

func createReviewer(logger *slog.Logger) application.Reviewer {
	if noUI {
		logger.Info("review form disabled, tickets stay pending")
		return &application.NoopReviewer{}
	}
	return tui.NewReviewer()
}

func createNotifier(cfg config.PushoverConfig) application.Notifier {
	if cfg.Enabled {
		return pushover.NewClient(cfg.Token, cfg.UserKey)
	}
	return &application.NoopNotifier{}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr so the summary on stdout stays clean and the
	// review form is not corrupted.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
