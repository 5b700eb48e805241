package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hkarap/sentinews/internal/models"
)

// processedBetween scopes classifications to a window, inclusive on both
// bounds.
func processedBetween(col string, from, to time.Time) sq.And {
	return sq.And{
		sq.GtOrEq{col: from},
		sq.LtOrEq{col: to},
	}
}

// InsertSentimentResult writes one classification row and returns its id.
func (s *Store) InsertSentimentResult(ctx context.Context, r *models.SentimentResult) (int64, error) {
	q := psql.Insert("sentiment_results").
		Columns("article_id", "sentiment", "confidence", "model_version",
			"reasoning", "topics", "entities", "processed_at").
		Values(r.ArticleID, string(r.Sentiment), r.Confidence, r.ModelVersion,
			r.Reasoning, r.Topics, r.Entities, r.ProcessedAt).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert sentiment result: %w", err)
	}
	return id, nil
}

// GetSentimentByArticleID returns the classification for one article, or
// ErrNotFound when the article has not been classified.
func (s *Store) GetSentimentByArticleID(ctx context.Context, articleID int64) (*models.SentimentResult, error) {
	q := psql.Select("id", "article_id", "sentiment", "confidence",
		"model_version", "reasoning", "topics", "entities", "processed_at").
		From("sentiment_results").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("processed_at DESC").
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		r     models.SentimentResult
		label string
	)
	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&r.ID, &r.ArticleID, &label, &r.Confidence,
		&r.ModelVersion, &r.Reasoning, &r.Topics, &r.Entities, &r.ProcessedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sentiment result: %w", err)
	}
	r.Sentiment = models.Sentiment(label)
	return &r, nil
}

// CountBySentiment returns per-label counts of classifications processed
// within the window.
func (s *Store) CountBySentiment(ctx context.Context, from, to time.Time) ([]models.SentimentCount, error) {
	q := psql.Select("sentiment", "COUNT(*)").
		From("sentiment_results").
		Where(processedBetween("processed_at", from, to)).
		GroupBy("sentiment")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("count by sentiment: %w", err)
	}
	defer rows.Close()

	var out []models.SentimentCount
	for rows.Next() {
		var (
			label string
			count int64
		)
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out = append(out, models.SentimentCount{Sentiment: models.Sentiment(label), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return out, nil
}

func countByDayQuery(from, to time.Time) sq.SelectBuilder {
	return psql.Select("DATE(processed_at)::text", "sentiment", "COUNT(*)").
		From("sentiment_results").
		Where(processedBetween("processed_at", from, to)).
		GroupBy("DATE(processed_at)", "sentiment").
		OrderBy("DATE(processed_at)")
}

func countBySourceQuery(from, to time.Time) sq.SelectBuilder {
	return psql.Select("a.source_id::text", "sr.sentiment", "COUNT(*)").
		From("sentiment_results sr").
		Join("articles a ON a.id = sr.article_id").
		Where(processedBetween("sr.processed_at", from, to)).
		GroupBy("a.source_id", "sr.sentiment")
}

// CountByDay returns (date, sentiment, count) tuples for the window,
// bucketed by the calendar date of processing in the store's timezone and
// ordered by ascending date.
func (s *Store) CountByDay(ctx context.Context, from, to time.Time) ([]models.GroupedCount, error) {
	return s.queryGroupedCounts(ctx, countByDayQuery(from, to), "count by day")
}

// CountBySource returns (source id, sentiment, count) tuples for the
// window. Unlike the day grouping, no ordering is imposed.
func (s *Store) CountBySource(ctx context.Context, from, to time.Time) ([]models.GroupedCount, error) {
	return s.queryGroupedCounts(ctx, countBySourceQuery(from, to), "count by source")
}

func (s *Store) queryGroupedCounts(ctx context.Context, q sq.SelectBuilder, op string) ([]models.GroupedCount, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.GroupedCount
	for rows.Next() {
		var (
			group string
			label string
			count int64
		)
		if err := rows.Scan(&group, &label, &count); err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		out = append(out, models.GroupedCount{
			Group:     group,
			Sentiment: models.Sentiment(label),
			Count:     count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return out, nil
}
