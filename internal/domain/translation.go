package domain

import (
	"time"

	"github.com/google/uuid"
)

// TranslationWithTokens is the single result type handed to the reader UI.
type TranslationWithTokens struct {
	Translation string              `json:"translation"`
	Tokens      []Token             `json:"tokens"`
	Metadata    TranslationMetadata `json:"metadata"`
}

// TranslationMetadata carries optional rendering hints.
type TranslationMetadata struct {
	HasWarnings  bool     `json:"hasWarnings"`
	Warnings     []string `json:"warnings"`
	UsedFallback bool     `json:"usedFallback"`
}

// TranslationOutcome is the per-request summary kept for auditing.
// It never holds the translated text or the tokens.
type TranslationOutcome struct {
	ID               uuid.UUID
	RequestID        string
	Provider         string
	Model            string
	UsedFallback     bool
	WarningCount     int
	TokenCount       int
	WordCount        int
	ReconstructionOK bool
	CreatedAt        time.Time
}

// TranslationOutcomeStats aggregates recorded outcomes.
type TranslationOutcomeStats struct {
	Total        int
	Fallbacks    int
	WithWarnings int
}
