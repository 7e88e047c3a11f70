package application_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"taskscribe/internal/application"
	"taskscribe/internal/domain"
)

type mockRecorder struct {
	err  error
	path string
}

func (m *mockRecorder) Name() string { return "mock" }

func (m *mockRecorder) Record(_ context.Context, path string) error {
	if m.err != nil {
		return m.err
	}
	m.path = path
	return os.WriteFile(path, []byte("RIFF fake"), 0o644)
}

// partialRecorder writes a truncated file and then fails, like a capture
// interrupted mid-stream.
type partialRecorder struct {
	path string
}

func (p *partialRecorder) Name() string { return "partial" }

func (p *partialRecorder) Record(_ context.Context, path string) error {
	p.path = path
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		return err
	}
	return errors.New("stream interrupted")
}

type mockSTT struct {
	transcript string
	err        error
}

func (m *mockSTT) Transcribe(_ context.Context, _ string) (string, error) {
	return m.transcript, m.err
}

type mockExtractor struct {
	tickets []domain.Ticket
	err     error
	called  bool
}

func (m *mockExtractor) Extract(_ context.Context, _ string) ([]domain.Ticket, error) {
	m.called = true
	return m.tickets, m.err
}

type mockReviewer struct {
	decide func([]domain.Ticket) []domain.Ticket
	called bool
}

func (m *mockReviewer) Review(_ context.Context, tickets []domain.Ticket) ([]domain.Ticket, error) {
	m.called = true
	if m.decide != nil {
		return m.decide(tickets), nil
	}
	return tickets, nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, msg string) error {
	r.messages = append(r.messages, msg)
	return nil
}

func newAssistant(t *testing.T, rec application.Recorder, stt *mockSTT, ext *mockExtractor, rev application.Reviewer, not application.Notifier, out io.Writer) *application.Assistant {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if not == nil {
		not = &application.NoopNotifier{}
	}
	return application.NewAssistant(rec, stt, ext, rev, not, logger, t.TempDir(), out)
}

func TestAssistant_AcceptedSummaryInOrder(t *testing.T) {
	tickets := []domain.Ticket{
		{Text: "Update the docs", Assignee: "Alice", Status: domain.StatusPending},
		{Text: "Fix the build", Assignee: "Bob", Status: domain.StatusPending},
		{Text: "Rotate the keys", Assignee: "Carol", Status: domain.StatusPending},
	}

	reviewer := &mockReviewer{decide: func(in []domain.Ticket) []domain.Ticket {
		in[0].Status = domain.StatusAccepted
		in[1].Status = domain.StatusDeclined
		in[2].Status = domain.StatusAccepted
		return in
	}}
	notifier := &recordingNotifier{}

	var out bytes.Buffer
	assistant := newAssistant(t,
		&mockRecorder{},
		&mockSTT{transcript: "standup notes"},
		&mockExtractor{tickets: tickets},
		reviewer,
		notifier,
		&out,
	)

	if err := assistant.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got := out.String()
	alice := strings.Index(got, "Update the docs - Alice")
	carol := strings.Index(got, "Rotate the keys - Carol")
	if alice < 0 || carol < 0 {
		t.Fatalf("summary missing accepted tickets:\n%s", got)
	}
	if alice > carol {
		t.Errorf("accepted tickets out of original order:\n%s", got)
	}
	if strings.Contains(got, "Fix the build") {
		t.Errorf("declined ticket leaked into summary:\n%s", got)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifier.messages))
	}
}

func TestAssistant_CaptureFailureAborts(t *testing.T) {
	var out bytes.Buffer
	assistant := newAssistant(t,
		&mockRecorder{err: errors.New("device busy")},
		&mockSTT{},
		&mockExtractor{},
		&mockReviewer{},
		nil,
		&out,
	)

	if err := assistant.Run(context.Background()); err == nil {
		t.Fatal("Run should fail when capture fails")
	}
}

func TestAssistant_EmptyTranscriptEndsCleanly(t *testing.T) {
	for _, transcript := range []string{"", "   \n\t "} {
		extractor := &mockExtractor{}
		reviewer := &mockReviewer{}

		var out bytes.Buffer
		assistant := newAssistant(t, &mockRecorder{}, &mockSTT{transcript: transcript}, extractor, reviewer, nil, &out)

		if err := assistant.Run(context.Background()); err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if extractor.called {
			t.Error("extractor should not run on an empty transcript")
		}
		if reviewer.called {
			t.Error("reviewer should not run on an empty transcript")
		}
		if !strings.Contains(out.String(), "No action items") {
			t.Errorf("missing empty-run message:\n%s", out.String())
		}
	}
}

func TestAssistant_TranscriptionFailureEndsCleanly(t *testing.T) {
	extractor := &mockExtractor{}

	var out bytes.Buffer
	assistant := newAssistant(t, &mockRecorder{}, &mockSTT{err: errors.New("503")}, extractor, &mockReviewer{}, nil, &out)

	if err := assistant.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if extractor.called {
		t.Error("extractor should not run after a failed transcription")
	}
}

func TestAssistant_ExtractionFailureYieldsNoTickets(t *testing.T) {
	reviewer := &mockReviewer{}

	var out bytes.Buffer
	assistant := newAssistant(t,
		&mockRecorder{},
		&mockSTT{transcript: "we should fix things"},
		&mockExtractor{err: errors.New("rate limited")},
		reviewer,
		nil,
		&out,
	)

	if err := assistant.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if reviewer.called {
		t.Error("reviewer should not run when extraction fails")
	}
	if !strings.Contains(out.String(), "No action items") {
		t.Errorf("missing empty-run message:\n%s", out.String())
	}
}

func TestAssistant_RemovesPartialAudioOnCaptureFailure(t *testing.T) {
	rec := &partialRecorder{}

	var out bytes.Buffer
	assistant := newAssistant(t, rec, &mockSTT{}, &mockExtractor{}, &mockReviewer{}, nil, &out)

	if err := assistant.Run(context.Background()); err == nil {
		t.Fatal("Run should fail when capture fails")
	}
	if _, err := os.Stat(rec.path); !os.IsNotExist(err) {
		t.Errorf("partial audio file %s should have been removed", rec.path)
	}
}

func TestAssistant_RemovesAudioFile(t *testing.T) {
	rec := &mockRecorder{}

	var out bytes.Buffer
	assistant := newAssistant(t, rec, &mockSTT{transcript: ""}, &mockExtractor{}, &mockReviewer{}, nil, &out)

	if err := assistant.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, err := os.Stat(rec.path); !os.IsNotExist(err) {
		t.Errorf("audio file %s should have been removed", rec.path)
	}
}
