package application

import (
	"context"
	"fmt"
)

type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DisabledSTT stands in when no transcription credential is configured. It
// errors on use so the pipeline degrades to an empty run instead of crashing.
type DisabledSTT struct{}

func (d *DisabledSTT) Transcribe(context.Context, string) (string, error) {
	return "", fmt.Errorf("transcription not configured: set openai.api_key to enable it")
}
