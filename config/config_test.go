package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"taskscribe/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Audio.DurationSeconds != 15 {
		t.Errorf("DurationSeconds: got %d, want 15", cfg.Audio.DurationSeconds)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate: got %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.OpenAI.TranscribeModel != "whisper-1" {
		t.Errorf("TranscribeModel: got %s, want whisper-1", cfg.OpenAI.TranscribeModel)
	}
	if cfg.Extractor.Backend != "openai" {
		t.Errorf("Backend: got %s, want openai", cfg.Extractor.Backend)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TASKSCRIBE_TEST_KEY", "sk-test-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
openai:
  api_key: ${TASKSCRIBE_TEST_KEY}
  chat_model: gpt-4o
audio:
  duration_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("APIKey: got %q, want sk-test-123", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel: got %s, want gpt-4o", cfg.OpenAI.ChatModel)
	}
	if cfg.Audio.DurationSeconds != 30 {
		t.Errorf("DurationSeconds: got %d, want 30", cfg.Audio.DurationSeconds)
	}
}

func TestLoad_APIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("APIKey: got %q, want sk-from-env", cfg.OpenAI.APIKey)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("audio: [not: a: map"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("Load should fail on invalid YAML")
	}
}
