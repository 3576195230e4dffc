package config

import (
	"fmt"
	"strings"
)

// Provider names accepted in llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderStub      = "stub"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.RateLimit.TranslatePerMinute <= 0 {
		return fmt.Errorf("rate_limit.translate_per_minute must be > 0 (got %d)", c.RateLimit.TranslatePerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %s)", c.RateLimit.CleanupInterval)
	}

	if c.Database.Enabled() && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Database.Enabled() && c.Outcomes.BoltPath != "" {
		return fmt.Errorf("database.dsn and outcomes.bolt_path are mutually exclusive")
	}

	return nil
}

func (l *LLMConfig) validate() error {
	l.Provider = strings.ToLower(strings.TrimSpace(l.Provider))

	switch l.Provider {
	case ProviderAnthropic, ProviderOpenAI:
		if l.APIKey == "" {
			return fmt.Errorf("api_key is required for provider %q", l.Provider)
		}
		if l.Model == "" {
			return fmt.Errorf("model is required for provider %q", l.Provider)
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown provider %q (want %s, %s or %s)", l.Provider, ProviderAnthropic, ProviderOpenAI, ProviderStub)
	}

	if l.DefaultMaxTokens <= 0 {
		return fmt.Errorf("default_max_tokens must be > 0 (got %d)", l.DefaultMaxTokens)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2] (got %v)", l.Temperature)
	}
	if l.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", l.RequestTimeout)
	}

	return nil
}
