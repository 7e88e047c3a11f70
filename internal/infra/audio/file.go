package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileRecorder satisfies the recorder port with an existing clip instead of
// the microphone. "Recording" is a copy into the run's transient path so the
// rest of the pipeline behaves identically.
type FileRecorder struct {
	source string
}

func NewFileRecorder(source string) *FileRecorder {
	return &FileRecorder{source: source}
}

func (f *FileRecorder) Name() string {
	return "file"
}

func (f *FileRecorder) Record(_ context.Context, path string) error {
	ext := filepath.Ext(f.source)
	if ext != ".wav" && ext != ".mp3" && ext != ".m4a" && ext != ".webm" {
		return fmt.Errorf("unsupported audio format %q", ext)
	}

	in, err := os.Open(f.source)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying audio: %w", err)
	}

	return nil
}
