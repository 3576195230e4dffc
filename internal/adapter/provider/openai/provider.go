// Package openai implements the completion provider for OpenAI-compatible
// chat completion endpoints (OpenAI, Ollama, vLLM and similar).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/provider"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Provider calls POST {baseURL}/chat/completions.
type Provider struct {
	apiKey           string
	model            string
	baseURL          string
	defaultMaxTokens int
	temperature      float64
	httpClient       *http.Client
	log              *slog.Logger
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return domain.ErrProvider }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewProvider creates a Provider from LLM settings. No client-side timeout is
// set; callers bound the request through the context.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:           cfg.APIKey,
		model:            cfg.Model,
		baseURL:          strings.TrimRight(baseURL, "/"),
		defaultMaxTokens: cfg.DefaultMaxTokens,
		temperature:      cfg.Temperature,
		httpClient:       &http.Client{},
		log:              logger.With("adapter", providerName),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// Complete sends req.Prompt as a single user message and returns the first choice.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.Completion, error) {
	body := chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   p.defaultMaxTokens,
		Temperature: p.temperature,
	}
	if req.MaxTokens != nil {
		body.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		body.Temperature = *req.Temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return provider.Completion{}, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return provider.Completion{}, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	p.log.DebugContext(ctx, "openai request",
		slog.String("model", p.model),
		slog.Int("max_tokens", body.MaxTokens),
		slog.Int("prompt_len", len(req.Prompt)),
	)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return provider.Completion{}, fmt.Errorf("openai: %w: %w", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.Completion{}, fmt.Errorf("openai: %w: read body: %w", domain.ErrProvider, err)
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return provider.Completion{}, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return provider.Completion{}, fmt.Errorf("openai: %w: decode response: %w", domain.ErrProvider, decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return provider.Completion{}, fmt.Errorf("openai: %w: response has no choices", domain.ErrProvider)
	}

	model := parsed.Model
	if model == "" {
		model = p.model
	}

	p.log.DebugContext(ctx, "openai response",
		slog.String("model", model),
		slog.String("finish_reason", parsed.Choices[0].FinishReason),
	)

	return provider.Completion{
		Content:  parsed.Choices[0].Message.Content,
		Provider: providerName,
		Model:    model,
	}, nil
}
