// Package outcome implements the translation outcome repository using PostgreSQL.
// It provides append-only writes and aggregate reads over translation_outcomes.
package outcome

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/myenglish-reader/internal/adapter/postgres"
	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

const table = "translation_outcomes"

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides translation outcome persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new outcome repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Record inserts a single outcome. A zero CreatedAt falls back to the database default.
func (r *Repo) Record(ctx context.Context, o domain.TranslationOutcome) error {
	columns := []string{
		"id", "request_id", "provider", "model", "used_fallback",
		"warning_count", "token_count", "word_count", "reconstruction_ok",
	}
	values := []any{
		o.ID, o.RequestID, o.Provider, o.Model, o.UsedFallback,
		o.WarningCount, o.TokenCount, o.WordCount, o.ReconstructionOK,
	}
	if !o.CreatedAt.IsZero() {
		columns = append(columns, "created_at")
		values = append(values, o.CreatedAt)
	}

	query, args, err := builder.Insert(table).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert translation_outcome: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "translation_outcome", o.ID)
	}

	return nil
}

// Stats returns totals across all recorded outcomes.
func (r *Repo) Stats(ctx context.Context) (domain.TranslationOutcomeStats, error) {
	query, args, err := builder.
		Select(
			"count(*)",
			"count(*) FILTER (WHERE used_fallback)",
			"count(*) FILTER (WHERE warning_count > 0)",
		).
		From(table).
		ToSql()
	if err != nil {
		return domain.TranslationOutcomeStats{}, fmt.Errorf("build translation_outcome stats: %w", err)
	}

	var stats domain.TranslationOutcomeStats
	if err := r.q.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Fallbacks, &stats.WithWarnings); err != nil {
		return domain.TranslationOutcomeStats{}, fmt.Errorf("translation_outcome stats: %w", err)
	}

	return stats, nil
}
