package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

// translationService defines what the resolver needs from the translation service.
type translationService interface {
	GenerateTranslationWithTokens(ctx context.Context, req translation.Request) (domain.TranslationWithTokens, error)
	TokenizeReply(ctx context.Context, reply string) domain.TranslationWithTokens
	ProviderName() string
}

// Resolver holds the root field implementations.
type Resolver struct {
	svc translationService
	log *slog.Logger
}

// NewResolver creates the root resolver.
func NewResolver(svc translationService, logger *slog.Logger) *Resolver {
	return &Resolver{svc: svc, log: logger.With("transport", "graphql")}
}

// Translate is Mutation.translate.
func (r *Resolver) Translate(ctx context.Context, input map[string]any) (*domain.TranslationWithTokens, error) {
	req, err := translateRequest(input)
	if err != nil {
		return nil, err
	}

	result, err := r.svc.GenerateTranslationWithTokens(ctx, req)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TokenizeReply is Query.tokenizeReply.
func (r *Resolver) TokenizeReply(ctx context.Context, reply string) domain.TranslationWithTokens {
	return r.svc.TokenizeReply(ctx, reply)
}

// Provider is Query.provider.
func (r *Resolver) Provider() string {
	return r.svc.ProviderName()
}

// translateRequest converts a coerced TranslateInput. Numbers arrive as
// int64/float64 from literals and as json.Number from variables.
func translateRequest(input map[string]any) (translation.Request, error) {
	var req translation.Request

	req.Prompt, _ = input["prompt"].(string)

	if v, ok := input["maxTokens"]; ok && v != nil {
		n, err := intValue(v)
		if err != nil {
			return req, domain.NewValidationError("maxTokens", err.Error())
		}
		req.MaxTokens = &n
	}

	if v, ok := input["temperature"]; ok && v != nil {
		f, err := floatValue(v)
		if err != nil {
			return req, domain.NewValidationError("temperature", err.Error())
		}
		req.Temperature = &f
	}

	return req, nil
}

func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer")
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}

func floatValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		return f, nil
	default:
		return 0, fmt.Errorf("must be a number")
	}
}
