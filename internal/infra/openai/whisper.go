package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"taskscribe/internal/infra"
)

// WhisperClient transcribes audio with the hosted Whisper API. The upload is
// a plain multipart POST first; if that call style fails, it falls back once
// to the official client library before giving up.
type WhisperClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
	language   string
	sdk        openai.Client
	logger     *slog.Logger
}

func NewWhisperClient(apiKey, model, language string, logger *slog.Logger) *WhisperClient {
	return NewWhisperClientWithURL(apiKey, model, language, "https://api.openai.com/v1", logger)
}

func NewWhisperClientWithURL(apiKey, model, language, baseURL string, logger *slog.Logger) *WhisperClient {
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		model:      model,
		language:   language,
		sdk: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(sdkBaseURL(baseURL)),
		),
		logger: logger,
	}
}

// sdkBaseURL appends the trailing slash the client library needs: it resolves
// request paths relative to the base URL, so "…/v1" without the slash would
// lose its last path segment.
func sdkBaseURL(baseURL string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai API key is not set")
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("reading audio file: %w", err)
	}

	text, directErr := c.transcribeDirect(ctx, audio, filepath.Base(audioPath))
	if directErr == nil {
		return text, nil
	}

	c.logger.Warn("direct transcription call failed, falling back to client library", "error", directErr)

	text, sdkErr := c.transcribeSDK(ctx, audioPath)
	if sdkErr != nil {
		return "", fmt.Errorf("transcription failed (direct: %v): %w", directErr, sdkErr)
	}
	return text, nil
}

func (c *WhisperClient) transcribeDirect(ctx context.Context, audio []byte, filename string) (string, error) {
	var result transcriptionResponse

	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("creating form file: %w", err)
		}
		if _, err = part.Write(audio); err != nil {
			return fmt.Errorf("writing audio: %w", err)
		}

		if err = writer.WriteField("model", c.model); err != nil {
			return fmt.Errorf("writing model field: %w", err)
		}
		if c.language != "" {
			if err = writer.WriteField("language", c.language); err != nil {
				return fmt.Errorf("writing language field: %w", err)
			}
		}

		if err = writer.Close(); err != nil {
			return fmt.Errorf("closing writer: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("whisper API error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("whisper API error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}

	return result.Text, nil
}

func (c *WhisperClient) transcribeSDK(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.model),
		File:  f,
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	resp, err := c.sdk.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("client library transcription: %w", err)
	}

	return resp.Text, nil
}
