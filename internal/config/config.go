package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Outcomes  OutcomesConfig  `yaml:"outcomes"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"` // default true, see LoadFrom
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"65536"`
}

// DatabaseConfig holds PostgreSQL settings for the translation outcome log.
// An empty DSN disables the outcome log.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"` // default true, see LoadFrom
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// OutcomesConfig holds the embedded outcome log used when no database is
// configured. An empty BoltPath disables it.
type OutcomesConfig struct {
	BoltPath string `yaml:"bolt_path" env:"OUTCOMES_BOLT_PATH"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider         string        `yaml:"provider"           env:"LLM_PROVIDER"           env-default:"anthropic"`
	Model            string        `yaml:"model"              env:"LLM_MODEL"              env-default:"claude-sonnet-4-5"`
	APIKey           string        `yaml:"api_key"            env:"LLM_API_KEY"`
	BaseURL          string        `yaml:"base_url"           env:"LLM_BASE_URL"`
	DefaultMaxTokens int           `yaml:"default_max_tokens" env:"LLM_DEFAULT_MAX_TOKENS" env-default:"4096"`
	Temperature      float64       `yaml:"temperature"        env:"LLM_TEMPERATURE"        env-default:"0.3"`
	RequestTimeout   time.Duration `yaml:"request_timeout"    env:"LLM_REQUEST_TIMEOUT"    env-default:"60s"`
	// StubReply is returned verbatim by the "stub" provider.
	StubReply string `yaml:"stub_reply" env:"LLM_STUB_REPLY"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP limits for the translate API.
type RateLimitConfig struct {
	TranslatePerMinute int           `yaml:"translate_per_minute" env:"RATE_LIMIT_TRANSLATE_PER_MINUTE" env-default:"30"`
	CleanupInterval    time.Duration `yaml:"cleanup_interval"     env:"RATE_LIMIT_CLEANUP_INTERVAL"     env-default:"5m"`
}
