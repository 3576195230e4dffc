// Package boltdb implements the embedded translation outcome log on bbolt.
// It serves single-node deployments and the CLI where no PostgreSQL is
// available. Records are JSON values keyed by outcome ID; running totals
// live in a separate bucket and are updated in the same transaction.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

var (
	bucketOutcomes = []byte("outcomes")
	bucketStats    = []byte("stats")

	keyTotal        = []byte("total")
	keyFallbacks    = []byte("fallbacks")
	keyWithWarnings = []byte("with_warnings")
)

const openTimeout = time.Second

// OutcomeStore is a bbolt-backed outcome log. It is safe for concurrent use.
type OutcomeStore struct {
	db *bbolt.DB
}

type outcomeRecord struct {
	RequestID        string    `json:"request_id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	UsedFallback     bool      `json:"used_fallback"`
	WarningCount     int       `json:"warning_count"`
	TokenCount       int       `json:"token_count"`
	WordCount        int       `json:"word_count"`
	ReconstructionOK bool      `json:"reconstruction_ok"`
	CreatedAt        time.Time `json:"created_at"`
}

// Open opens (or creates) the store at path.
func Open(path string) (*OutcomeStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt outcome log %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketOutcomes, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &OutcomeStore{db: db}, nil
}

// Close releases the database file lock.
func (s *OutcomeStore) Close() error {
	return s.db.Close()
}

// Record appends one outcome. A duplicate ID returns domain.ErrAlreadyExists.
func (s *OutcomeStore) Record(ctx context.Context, o domain.TranslationOutcome) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("translation_outcome %s: %w", o.ID, err)
	}
	if o.WarningCount < 0 || o.TokenCount < 0 || o.WordCount < 0 {
		return fmt.Errorf("translation_outcome %s: negative count: %w", o.ID, domain.ErrValidation)
	}

	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	data, err := json.Marshal(outcomeRecord{
		RequestID:        o.RequestID,
		Provider:         o.Provider,
		Model:            o.Model,
		UsedFallback:     o.UsedFallback,
		WarningCount:     o.WarningCount,
		TokenCount:       o.TokenCount,
		WordCount:        o.WordCount,
		ReconstructionOK: o.ReconstructionOK,
		CreatedAt:        createdAt,
	})
	if err != nil {
		return fmt.Errorf("translation_outcome %s marshal: %w", o.ID, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		outcomes := tx.Bucket(bucketOutcomes)
		key := o.ID[:]
		if outcomes.Get(key) != nil {
			return fmt.Errorf("translation_outcome %s: %w", o.ID, domain.ErrAlreadyExists)
		}
		if err := outcomes.Put(key, data); err != nil {
			return fmt.Errorf("translation_outcome %s: %w", o.ID, err)
		}

		stats := tx.Bucket(bucketStats)
		if err := increment(stats, keyTotal); err != nil {
			return err
		}
		if o.UsedFallback {
			if err := increment(stats, keyFallbacks); err != nil {
				return err
			}
		}
		if o.WarningCount > 0 {
			if err := increment(stats, keyWithWarnings); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats returns totals across all recorded outcomes.
func (s *OutcomeStore) Stats(ctx context.Context) (domain.TranslationOutcomeStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.TranslationOutcomeStats{}, err
	}

	var out domain.TranslationOutcomeStats
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStats)
		out.Total = int(counter(b, keyTotal))
		out.Fallbacks = int(counter(b, keyFallbacks))
		out.WithWarnings = int(counter(b, keyWithWarnings))
		return nil
	})
	return out, err
}

// Ping reports whether the store is still open.
func (s *OutcomeStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

func counter(b *bbolt.Bucket, key []byte) uint64 {
	v := b.Get(key)
	if len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func increment(b *bbolt.Bucket, key []byte) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, counter(b, key)+1)
	if err := b.Put(key, buf); err != nil {
		return fmt.Errorf("update %s counter: %w", key, err)
	}
	return nil
}
