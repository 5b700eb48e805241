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

// latestSentimentJoin picks at most one classification per article, the
// most recently processed one, so the schema's room for several model
// versions never duplicates article rows in list output.
const latestSentimentJoin = `LATERAL (
	SELECT id, sentiment, confidence, model_version, reasoning, topics, entities, processed_at
	FROM sentiment_results
	WHERE article_id = a.id
	ORDER BY processed_at DESC
	LIMIT 1
) sr ON TRUE`

// articleSelect joins articles with their source and optional
// classification. The sentiment columns come back nullable when no
// classification exists.
func articleSelect() sq.SelectBuilder {
	return psql.Select(
		"a.id", "a.source_id", "s.name", "a.external_id", "a.title",
		"a.content", "a.url", "a.author", "a.published_at", "a.fetched_at",
		"a.content_hash", "a.metadata", "a.created_at",
		"sr.id", "sr.sentiment", "sr.confidence", "sr.model_version",
		"sr.reasoning", "sr.topics", "sr.entities", "sr.processed_at",
	).
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		LeftJoin(latestSentimentJoin)
}

// articleCount counts the full filtered set with the same joins as
// articleSelect so the sentiment predicate applies identically. DISTINCT
// keeps the count honest even if the join ever fans out.
func articleCount() sq.SelectBuilder {
	return psql.Select("COUNT(DISTINCT a.id)").
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		LeftJoin(latestSentimentJoin)
}

// applyArticleFilter folds each present predicate into the query as a
// conjunction. Absent fields leave their dimension unconstrained. The
// free-text Query field is accepted from callers but not applied.
func applyArticleFilter(b sq.SelectBuilder, f models.ArticleFilter) sq.SelectBuilder {
	if f.SourceID != nil {
		b = b.Where(sq.Eq{"a.source_id": *f.SourceID})
	}
	if f.Sentiment != nil {
		b = b.Where(sq.Eq{"sr.sentiment": string(*f.Sentiment)})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"a.published_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"a.published_at": *f.To})
	}
	return b
}

// InsertArticle writes a new article row, including the content fingerprint
// when one was computed, and returns the assigned id.
func (s *Store) InsertArticle(ctx context.Context, a *models.Article) (int64, error) {
	q := psql.Insert("articles").
		Columns("source_id", "external_id", "title", "content", "url",
			"author", "published_at", "fetched_at", "content_hash", "metadata").
		Values(a.SourceID, a.ExternalID, a.Title, a.Content, a.URL,
			a.Author, a.PublishedAt, a.FetchedAt, a.ContentHash, a.Metadata).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}
	return id, nil
}

// GetArticleByID returns one article with its optional classification, or
// ErrNotFound.
func (s *Store) GetArticleByID(ctx context.Context, id int64) (*models.ArticleWithSentiment, error) {
	q := articleSelect().Where(sq.Eq{"a.id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get article: %w", err)
		}
		return nil, ErrNotFound
	}

	a, err := scanArticleRow(rows)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles returns one page of the filtered corpus plus the total size
// of the full filtered set.
func (s *Store) FindArticles(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]models.ArticleWithSentiment, int64, error) {
	countSQL, countArgs, err := applyArticleFilter(articleCount(), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	q := applyArticleFilter(articleSelect(), filter).
		OrderBy("a.fetched_at DESC", "a.id DESC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset()))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("find articles: %w", err)
	}
	defer rows.Close()

	out := make([]models.ArticleWithSentiment, 0, page.PageSize)
	for rows.Next() {
		a, err := scanArticleRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	return out, total, nil
}

// FindBySourceExternalID looks an article up by its source-local identity,
// the only hard uniqueness the store enforces.
func (s *Store) FindBySourceExternalID(ctx context.Context, sourceID int64, externalID string) (*models.Article, error) {
	q := psql.Select("id", "source_id", "external_id", "title", "content",
		"url", "author", "published_at", "fetched_at", "content_hash",
		"metadata", "created_at").
		From("articles").
		Where(sq.Eq{"source_id": sourceID, "external_id": externalID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var a models.Article
	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&a.ID, &a.SourceID, &a.ExternalID, &a.Title, &a.Content,
		&a.URL, &a.Author, &a.PublishedAt, &a.FetchedAt, &a.ContentHash,
		&a.Metadata, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by external id: %w", err)
	}
	return &a, nil
}

// ExistsByFingerprint reports whether any article in the corpus, from any
// source, carries the given content fingerprint.
func (s *Store) ExistsByFingerprint(ctx context.Context, fp string) (bool, error) {
	q := psql.Select("1").From("articles").
		Where(sq.Eq{"content_hash": fp}).
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	var one int
	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fingerprint lookup: %w", err)
	}
	return true, nil
}

func scanArticleRow(rows pgx.Rows) (*models.ArticleWithSentiment, error) {
	var (
		a           models.ArticleWithSentiment
		srID        *int64
		srSentiment *string
		srConf      *float64
		srModel     *string
		srReasoning *string
		srTopics    []string
		srEntities  map[string]any
		srProcessed *time.Time
	)

	err := rows.Scan(
		&a.ID, &a.SourceID, &a.SourceName, &a.ExternalID, &a.Title,
		&a.Content, &a.URL, &a.Author, &a.PublishedAt, &a.FetchedAt,
		&a.ContentHash, &a.Metadata, &a.CreatedAt,
		&srID, &srSentiment, &srConf, &srModel,
		&srReasoning, &srTopics, &srEntities, &srProcessed,
	)
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	if srID != nil && srSentiment != nil && srProcessed != nil {
		a.Sentiment = &models.SentimentResult{
			ID:          *srID,
			ArticleID:   a.ID,
			Sentiment:   models.Sentiment(*srSentiment),
			Confidence:  srConf,
			Topics:      srTopics,
			Entities:    srEntities,
			ProcessedAt: *srProcessed,
		}
		if srModel != nil {
			a.Sentiment.ModelVersion = *srModel
		}
		if srReasoning != nil {
			a.Sentiment.Reasoning = *srReasoning
		}
	}

	return &a, nil
}
