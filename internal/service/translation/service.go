// Package translation runs the token pipeline: it asks the completion
// provider for a reply, validates it as structured tokens and falls back to
// plain-text tokenization when validation fails.
package translation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/provider"
	"github.com/heartmarshall/myenglish-reader/internal/tokens/fallback"
	"github.com/heartmarshall/myenglish-reader/internal/tokens/validator"
	"github.com/heartmarshall/myenglish-reader/pkg/ctxutil"
)

type completionProvider interface {
	Name() string
	Complete(ctx context.Context, req provider.CompletionRequest) (provider.Completion, error)
}

// outcomeRecorder is optional; nil disables outcome auditing.
type outcomeRecorder interface {
	Record(ctx context.Context, outcome domain.TranslationOutcome) error
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	log      *slog.Logger
	provider completionProvider
	recorder outcomeRecorder
	tokenize func(string) []domain.Token
	now      func() time.Time
}

// NewService creates a translation service. recorder may be nil.
func NewService(log *slog.Logger, p completionProvider, recorder outcomeRecorder) *Service {
	return &Service{
		log:      log.With("service", "translation"),
		provider: p,
		recorder: recorder,
		tokenize: fallback.GenerateTokens,
		now:      time.Now,
	}
}

// ProviderName returns the name of the configured completion provider.
func (s *Service) ProviderName() string { return s.provider.Name() }

// GenerateTranslationWithTokens calls the provider once and turns its reply
// into a renderable token stream. The only error paths are an invalid
// request and a failed provider call; the provider error is returned as is.
func (s *Service) GenerateTranslationWithTokens(ctx context.Context, req Request) (domain.TranslationWithTokens, error) {
	if err := req.Validate(); err != nil {
		return domain.TranslationWithTokens{}, err
	}

	completion, err := s.provider.Complete(ctx, provider.CompletionRequest{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		s.log.WarnContext(ctx, "completion failed",
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return domain.TranslationWithTokens{}, err
	}

	result, reconstructionOK := s.tokenizeReply(ctx, completion.Content, completion.Provider, completion.Model)
	s.record(ctx, completion, result, reconstructionOK)

	return result, nil
}

// TokenizeReply runs a reply that was produced elsewhere through the same
// validation and fallback steps. Nothing is recorded.
func (s *Service) TokenizeReply(ctx context.Context, reply string) domain.TranslationWithTokens {
	result, _ := s.tokenizeReply(ctx, reply, "", "")
	return result
}

// TokenizeReply is the offline form of (*Service).TokenizeReply for callers
// that have a stored reply and no provider.
func TokenizeReply(ctx context.Context, log *slog.Logger, reply string) domain.TranslationWithTokens {
	s := &Service{
		log:      log.With("service", "translation"),
		tokenize: fallback.GenerateTokens,
		now:      time.Now,
	}
	return s.TokenizeReply(ctx, reply)
}

func (s *Service) tokenizeReply(ctx context.Context, content, providerName, model string) (domain.TranslationWithTokens, bool) {
	var (
		result           domain.TranslationWithTokens
		reconstructionOK = true
	)

	res := validator.Validate(content)
	if res.IsValid() {
		result = structuredResult(res)
		if result.Metadata.HasWarnings {
			s.log.WarnContext(ctx, "token metadata degraded",
				slog.Int("warnings", len(res.Warnings)),
				slog.Any("details", res.Warnings),
			)
		}
	} else {
		s.log.WarnContext(ctx, "structured reply rejected, using fallback tokenization",
			slog.String("provider", providerName),
			slog.String("model", model),
			slog.Any("errors", res.Errors()),
		)
		result, reconstructionOK = s.fallbackResult(ctx, content)
	}

	s.log.InfoContext(ctx, "translation tokenized",
		slog.String("provider", providerName),
		slog.String("model", model),
		slog.Bool("used_fallback", result.Metadata.UsedFallback),
		slog.Int("tokens", len(result.Tokens)),
		slog.Int("warnings", len(result.Metadata.Warnings)),
	)

	return result, reconstructionOK
}

func structuredResult(res validator.Result) domain.TranslationWithTokens {
	return domain.TranslationWithTokens{
		Translation: res.Data.Translation,
		Tokens:      res.Data.Tokens,
		Metadata: domain.TranslationMetadata{
			HasWarnings:  len(res.Warnings) > 0,
			Warnings:     res.Warnings,
			UsedFallback: false,
		},
	}
}

// fallbackResult treats the trimmed raw reply as the translation. A failed
// reconstruction check is logged and does not change the result.
func (s *Service) fallbackResult(ctx context.Context, content string) (domain.TranslationWithTokens, bool) {
	text := strings.TrimSpace(content)
	tokens := s.tokenize(text)

	ok := fallback.ValidateReconstruction(text, tokens)
	if !ok {
		s.log.ErrorContext(ctx, "fallback tokens do not reconstruct the reply",
			slog.Int("text_len", len(text)),
			slog.Int("reconstructed_len", len(fallback.Text(tokens))),
			slog.Int("tokens", len(tokens)),
		)
	}

	return domain.TranslationWithTokens{
		Translation: text,
		Tokens:      tokens,
		Metadata: domain.TranslationMetadata{
			HasWarnings:  false,
			Warnings:     []string{},
			UsedFallback: true,
		},
	}, ok
}

func (s *Service) record(ctx context.Context, c provider.Completion, r domain.TranslationWithTokens, reconstructionOK bool) {
	if s.recorder == nil {
		return
	}

	outcome := domain.TranslationOutcome{
		ID:               uuid.New(),
		RequestID:        ctxutil.RequestIDFromCtx(ctx),
		Provider:         c.Provider,
		Model:            c.Model,
		UsedFallback:     r.Metadata.UsedFallback,
		WarningCount:     len(r.Metadata.Warnings),
		TokenCount:       len(r.Tokens),
		WordCount:        domain.CountWords(r.Tokens),
		ReconstructionOK: reconstructionOK,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.recorder.Record(ctx, outcome); err != nil {
		s.log.ErrorContext(ctx, "record translation outcome",
			slog.String("outcome_id", outcome.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
