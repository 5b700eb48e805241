package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hkarap/sentinews/internal/models"
)

const sourceColumns = "id, name, url, type, language, config, active, last_fetched, last_success, created_at, updated_at"

// ListSources returns sources, optionally restricted by language or to
// active ones only.
func (s *Store) ListSources(ctx context.Context, language *models.Language, activeOnly bool) ([]models.Source, error) {
	q := psql.Select(sourceColumns).From("sources").OrderBy("id")
	if language != nil {
		q = q.Where(sq.Eq{"language": string(*language)})
	}
	if activeOnly {
		q = q.Where(sq.Eq{"active": true})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	out := make([]models.Source, 0)
	for rows.Next() {
		src, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return out, nil
}

// GetSourceByID returns one source or ErrNotFound.
func (s *Store) GetSourceByID(ctx context.Context, id int64) (*models.Source, error) {
	q := psql.Select(sourceColumns).From("sources").Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	src, err := scanSource(s.pool.QueryRow(ctx, sqlStr, args...).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return src, nil
}

// InsertSource registers a new source and returns its id.
func (s *Store) InsertSource(ctx context.Context, src *models.Source) (int64, error) {
	q := psql.Insert("sources").
		Columns("name", "url", "type", "language", "config", "active").
		Values(src.Name, src.URL, string(src.Type), string(src.Language), src.Config, src.Active).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert source: %w", err)
	}
	return id, nil
}

func touchSourceFetchQuery(id int64, success bool) sq.UpdateBuilder {
	b := psql.Update("sources").Set("last_fetched", sq.Expr("NOW()"))
	if success {
		b = b.Set("last_success", sq.Expr("NOW()"))
	}
	return b.Where(sq.Eq{"id": id})
}

// TouchSourceFetch records that the ingestion subsystem just delivered from
// a source. last_fetched always advances; last_success only on success.
func (s *Store) TouchSourceFetch(ctx context.Context, id int64, success bool) error {
	sqlStr, args, err := touchSourceFetchQuery(id, success).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("touch source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSource(scan func(dest ...any) error) (*models.Source, error) {
	var (
		src      models.Source
		typ      string
		language string
	)
	err := scan(
		&src.ID, &src.Name, &src.URL, &typ, &language, &src.Config,
		&src.Active, &src.LastFetched, &src.LastSuccess,
		&src.CreatedAt, &src.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Type = models.SourceType(typ)
	src.Language = models.Language(language)
	return &src, nil
}
