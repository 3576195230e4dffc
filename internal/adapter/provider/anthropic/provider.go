// Package anthropic implements the completion provider on top of the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/provider"
)

const providerName = "anthropic"

// Provider sends prompts to Claude as a single user message.
type Provider struct {
	client           sdk.Client
	model            string
	defaultMaxTokens int
	temperature      float64
	log              *slog.Logger
}

// NewProvider creates a Provider from LLM settings. The SDK's built-in
// retries are disabled: a failed call is reported to the caller as is.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		client:           sdk.NewClient(opts...),
		model:            cfg.Model,
		defaultMaxTokens: cfg.DefaultMaxTokens,
		temperature:      cfg.Temperature,
		log:              logger.With("adapter", providerName),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return providerName }

// Complete sends req.Prompt and returns the concatenated text blocks of the reply.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.Completion, error) {
	maxTokens := p.defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := p.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	p.log.DebugContext(ctx, "anthropic request",
		slog.String("model", p.model),
		slog.Int("max_tokens", maxTokens),
		slog.Int("prompt_len", len(req.Prompt)),
	)

	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: sdk.Float(temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return provider.Completion{}, fmt.Errorf("anthropic: %w: %w", domain.ErrProvider, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	model := string(msg.Model)
	if model == "" {
		model = p.model
	}

	p.log.DebugContext(ctx, "anthropic response",
		slog.String("model", model),
		slog.String("stop_reason", string(msg.StopReason)),
		slog.Int("content_len", b.Len()),
	)

	return provider.Completion{
		Content:  b.String(),
		Provider: providerName,
		Model:    model,
	}, nil
}
