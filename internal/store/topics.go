package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hkarap/sentinews/internal/models"
)

const topicColumns = "id, owner_key, name, keywords, source_ids, global_search, language, created_at, updated_at"

// ListTopicsByOwner returns the caller's topics, newest first.
func (s *Store) ListTopicsByOwner(ctx context.Context, ownerKey string) ([]models.Topic, error) {
	q := psql.Select(topicColumns).From("topics").
		Where(sq.Eq{"owner_key": ownerKey}).
		OrderBy("created_at DESC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	out := make([]models.Topic, 0)
	for rows.Next() {
		t, err := scanTopic(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return out, nil
}

// GetTopicByIDAndOwner returns one topic scoped to its owner; a topic
// belonging to a different caller reads as ErrNotFound.
func (s *Store) GetTopicByIDAndOwner(ctx context.Context, id int64, ownerKey string) (*models.Topic, error) {
	q := psql.Select(topicColumns).From("topics").
		Where(sq.Eq{"id": id, "owner_key": ownerKey})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	t, err := scanTopic(s.pool.QueryRow(ctx, sqlStr, args...).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return t, nil
}

// InsertTopic writes a new topic and returns its id.
func (s *Store) InsertTopic(ctx context.Context, t *models.Topic) (int64, error) {
	q := psql.Insert("topics").
		Columns("owner_key", "name", "keywords", "source_ids", "global_search", "language").
		Values(t.OwnerKey, t.Name, t.Keywords, t.SourceIDs, t.GlobalSearch, t.Language).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert topic: %w", err)
	}
	return id, nil
}

// UpdateTopic rewrites a topic's mutable fields, scoped to its owner.
func (s *Store) UpdateTopic(ctx context.Context, t *models.Topic) error {
	q := psql.Update("topics").
		Set("name", t.Name).
		Set("keywords", t.Keywords).
		Set("source_ids", t.SourceIDs).
		Set("global_search", t.GlobalSearch).
		Set("language", t.Language).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID, "owner_key": t.OwnerKey})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTopic removes a topic scoped to its owner.
func (s *Store) DeleteTopic(ctx context.Context, id int64, ownerKey string) error {
	q := psql.Delete("topics").Where(sq.Eq{"id": id, "owner_key": ownerKey})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTopic(scan func(dest ...any) error) (*models.Topic, error) {
	var t models.Topic
	err := scan(
		&t.ID, &t.OwnerKey, &t.Name, &t.Keywords, &t.SourceIDs,
		&t.GlobalSearch, &t.Language, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan topic: %w", err)
	}
	return &t, nil
}
