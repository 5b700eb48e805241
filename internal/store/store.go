package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound reports an absent row. Callers map it to a 404 response, not
// a server fault.
var ErrNotFound = errors.New("not found")

// psql builds every query with Postgres dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is the relational storage collaborator, backed by a pgx pool.
// Every read runs as an independent snapshot-isolated transaction; the
// store imposes no mutual exclusion of its own.
type Store struct {
	pool *pgxpool.Pool
}

// New connects the pool and verifies the database is reachable.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate applies the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		type TEXT NOT NULL,
		language TEXT NOT NULL,
		config JSONB,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_fetched TIMESTAMPTZ,
		last_success TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		source_id BIGINT NOT NULL REFERENCES sources(id),
		external_id TEXT,
		title TEXT NOT NULL,
		content TEXT,
		url TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		content_hash VARCHAR(64),
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (source_id, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_content_hash ON articles (content_hash)`,
	`CREATE TABLE IF NOT EXISTS sentiment_results (
		id BIGSERIAL PRIMARY KEY,
		article_id BIGINT NOT NULL REFERENCES articles(id),
		sentiment TEXT NOT NULL,
		confidence NUMERIC(3,2),
		model_version TEXT NOT NULL DEFAULT '',
		reasoning TEXT NOT NULL DEFAULT '',
		topics TEXT[],
		entities JSONB,
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (article_id, model_version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sentiment_results_processed_at ON sentiment_results (processed_at)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id BIGSERIAL PRIMARY KEY,
		owner_key TEXT NOT NULL,
		name TEXT NOT NULL,
		keywords TEXT[] NOT NULL,
		source_ids BIGINT[],
		global_search BOOLEAN NOT NULL DEFAULT FALSE,
		language TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_topics_owner_key ON topics (owner_key)`,
}
