package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"taskscribe/internal/domain"
)

type Assistant struct {
	recorder  Recorder
	stt       SpeechToText
	extractor TicketExtractor
	reviewer  Reviewer
	notifier  Notifier
	logger    *slog.Logger

	tempDir string
	out     io.Writer
}

func NewAssistant(
	recorder Recorder,
	stt SpeechToText,
	extractor TicketExtractor,
	reviewer Reviewer,
	notifier Notifier,
	logger *slog.Logger,
	tempDir string,
	out io.Writer,
) *Assistant {
	if out == nil {
		out = os.Stdout
	}
	return &Assistant{
		recorder:  recorder,
		stt:       stt,
		extractor: extractor,
		reviewer:  reviewer,
		notifier:  notifier,
		logger:    logger,
		tempDir:   tempDir,
		out:       out,
	}
}

// Run executes one capture-transcribe-extract-review pass. Only a capture
// failure or a broken review form abort the run; API failures degrade to an
// empty ticket list.
func (a *Assistant) Run(ctx context.Context) error {
	audioPath := filepath.Join(a.tempDir, "taskscribe-"+uuid.NewString()+".wav")

	// Removed even when capture fails partway through writing it.
	defer os.Remove(audioPath)

	a.logger.Info("recording", "source", a.recorder.Name(), "path", audioPath)
	if err := a.recorder.Record(ctx, audioPath); err != nil {
		return fmt.Errorf("capturing audio: %w", err)
	}

	transcript, err := a.stt.Transcribe(ctx, audioPath)
	if err != nil {
		a.logger.Error("transcription failed", "error", err)
		fmt.Fprintln(a.out, "No action items detected.")
		return nil
	}
	if strings.TrimSpace(transcript) == "" {
		a.logger.Info("transcript is empty, nothing to extract")
		fmt.Fprintln(a.out, "No action items detected.")
		return nil
	}

	a.logger.Info("transcribed", "chars", len(transcript))

	tickets, err := a.extractor.Extract(ctx, transcript)
	if err != nil {
		a.logger.Error("ticket extraction failed", "error", err)
		tickets = nil
	}

	if len(tickets) == 0 {
		fmt.Fprintln(a.out, "No action items detected.")
		return nil
	}

	a.logger.Info("extracted tickets", "count", len(tickets))

	reviewed, err := a.reviewer.Review(ctx, tickets)
	if err != nil {
		return fmt.Errorf("reviewing tickets: %w", err)
	}

	summary := a.printSummary(reviewed)

	if summary != "" {
		if err := a.notifier.Notify(ctx, summary); err != nil {
			a.logger.Error("notifying summary", "error", err)
		}
	}

	return nil
}

func (a *Assistant) printSummary(tickets []domain.Ticket) string {
	accepted := domain.Summary(tickets)
	if len(accepted) == 0 {
		fmt.Fprintln(a.out, "No tickets accepted.")
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Accepted %d ticket(s):\n", len(accepted))
	for _, t := range accepted {
		fmt.Fprintf(&b, "  %s\n", t.Line())
	}

	summary := b.String()
	fmt.Fprint(a.out, summary)
	return strings.TrimRight(summary, "\n")
}
