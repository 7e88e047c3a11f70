package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"taskscribe/internal/domain"
	"taskscribe/internal/infra"
	"taskscribe/internal/infra/prompt"
)

// ChatClient extracts tickets from a transcript with the chat completions
// API. Same call discipline as the whisper client: direct HTTP first, one
// fallback through the client library.
type ChatClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
	sdk        openai.Client
	logger     *slog.Logger
}

func NewChatClient(apiKey, model string, logger *slog.Logger) *ChatClient {
	return NewChatClientWithURL(apiKey, model, "https://api.openai.com/v1", logger)
}

func NewChatClientWithURL(apiKey, model, baseURL string, logger *slog.Logger) *ChatClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &ChatClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
		sdk: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(sdkBaseURL(baseURL)),
		),
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) Extract(ctx context.Context, transcript string) ([]domain.Ticket, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai API key is not set")
	}

	raw, directErr := c.completeDirect(ctx, transcript)
	if directErr != nil {
		c.logger.Warn("direct extraction call failed, falling back to client library", "error", directErr)

		var sdkErr error
		raw, sdkErr = c.completeSDK(ctx, transcript)
		if sdkErr != nil {
			return nil, fmt.Errorf("extraction failed (direct: %v): %w", directErr, sdkErr)
		}
	}

	return domain.ParseTickets(raw), nil
}

func (c *ChatClient) completeDirect(ctx context.Context, transcript string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.ExtractSystem},
			{Role: "user", Content: transcript},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var result chatResponse
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("chat API error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("chat API error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty response from chat API")
	}

	return result.Choices[0].Message.Content, nil
}

func (c *ChatClient) completeSDK(ctx context.Context, transcript string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.ExtractSystem),
			openai.UserMessage(transcript),
		},
		Model: openai.ChatModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("client library completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	return content, nil
}
