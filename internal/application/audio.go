package application

import "context"

// Recorder captures one clip into the WAV file at path. Implementations
// decide the duration and format at construction time.
type Recorder interface {
	Record(ctx context.Context, path string) error
	Name() string
}

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func DefaultAudioFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}
