//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"

	"taskscribe/internal/application"
)

// MicrophoneRecorder captures a fixed-duration clip from the default input
// device and writes it to a WAV file.
type MicrophoneRecorder struct {
	duration time.Duration
	format   application.AudioFormat
	logger   *slog.Logger
}

func NewMicrophoneRecorder(duration time.Duration, sampleRate int, logger *slog.Logger) *MicrophoneRecorder {
	format := application.DefaultAudioFormat()
	if sampleRate > 0 {
		format.SampleRate = sampleRate
	}
	return &MicrophoneRecorder{
		duration: duration,
		format:   format,
		logger:   logger,
	}
}

func (m *MicrophoneRecorder) Name() string {
	return "microphone"
}

func (m *MicrophoneRecorder) Record(ctx context.Context, path string) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	const framesPerBuffer = 1024
	buffer := make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(
		m.format.Channels,
		0,
		float64(m.format.SampleRate),
		framesPerBuffer,
		buffer,
	)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	defer stream.Stop()

	m.logger.Info("microphone recording",
		"sampleRate", m.format.SampleRate,
		"duration", m.duration,
	)

	maxSamples := int(float64(m.format.SampleRate) * m.duration.Seconds() * float64(m.format.Channels))
	samples := make([]int16, 0, maxSamples)
	deadline := time.Now().Add(m.duration)

	for time.Now().Before(deadline) && len(samples) < maxSamples {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return fmt.Errorf("reading from stream: %w", err)
		}
		samples = append(samples, buffer...)
	}

	if len(samples) == 0 {
		return fmt.Errorf("no audio captured")
	}

	return WriteWAV(path, samples, m.format)
}
