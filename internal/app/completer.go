package app

import (
	"fmt"
	"log/slog"

	"github.com/heartmarshall/myenglish-reader/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/myenglish-reader/internal/adapter/provider/openai"
	"github.com/heartmarshall/myenglish-reader/internal/adapter/provider/stub"
	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/provider"
)

// NewCompleter selects the completion provider named in cfg and bounds
// each call by cfg.RequestTimeout.
func NewCompleter(cfg config.LLMConfig, logger *slog.Logger) (provider.Completer, error) {
	var c provider.Completer

	switch cfg.Provider {
	case config.ProviderAnthropic:
		c = anthropic.NewProvider(cfg, logger)
	case config.ProviderOpenAI:
		c = openai.NewProvider(cfg, logger)
	case config.ProviderStub:
		c = stub.NewProvider(cfg.StubReply)
	default:
		return nil, fmt.Errorf("llm provider %q: %w", cfg.Provider, domain.ErrNotConfigured)
	}

	return provider.WithTimeout(c, cfg.RequestTimeout), nil
}
