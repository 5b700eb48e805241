package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hkarap/sentinews/internal/models"
	"github.com/hkarap/sentinews/internal/store"
)

// ErrConfidenceRange reports a confidence score outside [0, 1].
var ErrConfidenceRange = errors.New("confidence out of range [0, 1]")

// ArticleStore is the slice of the storage collaborator the article
// service depends on.
type ArticleStore interface {
	InsertArticle(ctx context.Context, a *models.Article) (int64, error)
	GetArticleByID(ctx context.Context, id int64) (*models.ArticleWithSentiment, error)
	FindArticles(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) ([]models.ArticleWithSentiment, int64, error)
	FindBySourceExternalID(ctx context.Context, sourceID int64, externalID string) (*models.Article, error)
	InsertSentimentResult(ctx context.Context, r *models.SentimentResult) (int64, error)
}

// ContentArchive persists raw article bodies outside the relational store,
// keyed by content fingerprint.
type ContentArchive interface {
	Put(ctx context.Context, key, body string) error
	Get(ctx context.Context, key string) (string, error)
}

// Articles implements ingestion hand-off, filtered retrieval and
// classification attachment over the storage collaborator. It holds no
// state of its own; every call is a short-lived transformation.
type Articles struct {
	store   ArticleStore
	dedup   *Deduplicator
	archive ContentArchive // nil when no object storage is configured
}

func NewArticles(st ArticleStore, dedup *Deduplicator, archive ContentArchive) *Articles {
	return &Articles{store: st, dedup: dedup, archive: archive}
}

// NewArticle is the record an ingestion producer hands over.
type NewArticle struct {
	SourceID    int64          `json:"source_id" validate:"required,gt=0"`
	ExternalID  *string        `json:"external_id"`
	Title       string         `json:"title" validate:"required"`
	Content     *string        `json:"content"`
	URL         string         `json:"url"`
	Author      string         `json:"author"`
	PublishedAt *time.Time     `json:"published_at"`
	Metadata    map[string]any `json:"metadata"`
}

// IngestResult reports what happened to a submitted article. AlreadyKnown
// means the (source, external id) pair was present and the existing row is
// returned unchanged. DuplicateContent flags a fingerprint match elsewhere
// in the corpus; the article is still saved, skipping such duplicates is
// the producer's call, not this engine's.
type IngestResult struct {
	Article          *models.Article `json:"article"`
	AlreadyKnown     bool            `json:"already_known"`
	DuplicateContent bool            `json:"duplicate_content"`

	// ArchiveErr reports a failed best-effort write to the content
	// archive. The article itself is stored; surfacing the failure is the
	// caller's call.
	ArchiveErr error `json:"-"`
}

// Ingest accepts one raw article. The content fingerprint is computed and
// stored whenever content is non-empty; the duplicate check runs before
// the insert but the two are deliberately not atomic.
func (s *Articles) Ingest(ctx context.Context, in NewArticle) (*IngestResult, error) {
	if in.ExternalID != nil {
		existing, err := s.store.FindBySourceExternalID(ctx, in.SourceID, *in.ExternalID)
		switch {
		case err == nil:
			return &IngestResult{Article: existing, AlreadyKnown: true}, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("lookup by external id: %w", err)
		}
	}

	now := time.Now().UTC()
	article := &models.Article{
		SourceID:    in.SourceID,
		ExternalID:  in.ExternalID,
		Title:       in.Title,
		Content:     in.Content,
		URL:         in.URL,
		Author:      in.Author,
		PublishedAt: in.PublishedAt,
		FetchedAt:   now,
		Metadata:    in.Metadata,
		CreatedAt:   now,
	}

	var fp string
	if in.Content != nil && *in.Content != "" {
		fp = Fingerprint(*in.Content)
		article.ContentHash = &fp
	}

	var duplicate bool
	if fp != "" {
		var err error
		duplicate, err = s.dedup.Seen(ctx, fp)
		if err != nil {
			return nil, fmt.Errorf("fingerprint check: %w", err)
		}
	}

	id, err := s.store.InsertArticle(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	article.ID = id

	result := &IngestResult{Article: article, DuplicateContent: duplicate}

	if fp != "" {
		s.dedup.Remember(ctx, fp)

		if s.archive != nil {
			if err := s.archive.Put(ctx, fp, *in.Content); err != nil {
				result.ArchiveErr = fmt.Errorf("archive content: %w", err)
			}
		}
	}

	return result, nil
}

// FindFiltered returns one page of summaries for the composed filter.
// Repeated calls with the same filter and page against an unchanged store
// return the same page.
func (s *Articles) FindFiltered(ctx context.Context, filter models.ArticleFilter, page models.PageRequest) (*models.ArticlePage, error) {
	page = page.Normalize()

	rows, total, err := s.store.FindArticles(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}

	items := make([]models.ArticleSummary, 0, len(rows))
	for _, r := range rows {
		items = append(items, summarize(r))
	}

	return &models.ArticlePage{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: int((total + int64(page.PageSize) - 1) / int64(page.PageSize)),
	}, nil
}

// FindByID returns one article summary or store.ErrNotFound.
func (s *Articles) FindByID(ctx context.Context, id int64) (*models.ArticleSummary, error) {
	row, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := summarize(*row)
	return &summary, nil
}

// GetContent returns the raw body of an article, falling back to the
// content archive when the row itself carries none.
func (s *Articles) GetContent(ctx context.Context, id int64) (string, error) {
	row, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return "", err
	}
	if row.Content != nil && *row.Content != "" {
		return *row.Content, nil
	}
	if s.archive != nil && row.ContentHash != nil {
		body, err := s.archive.Get(ctx, *row.ContentHash)
		if err != nil {
			return "", fmt.Errorf("fetch archived content: %w", err)
		}
		return body, nil
	}
	return "", store.ErrNotFound
}

// NewSentiment is the classification an external producer hands over for
// one article.
type NewSentiment struct {
	Sentiment    string         `json:"sentiment" validate:"required"`
	Confidence   *float64       `json:"confidence"`
	ModelVersion string         `json:"model_version"`
	Reasoning    string         `json:"reasoning"`
	Topics       []string       `json:"topics"`
	Entities     map[string]any `json:"entities"`
	ProcessedAt  *time.Time     `json:"processed_at"`
}

// AttachSentiment validates and stores a finished classification. The
// label must parse and the confidence, when present, must lie in [0, 1];
// it is rounded to two decimal places before storage.
func (s *Articles) AttachSentiment(ctx context.Context, articleID int64, in NewSentiment) (*models.SentimentResult, error) {
	label, err := models.ParseSentiment(in.Sentiment)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetArticleByID(ctx, articleID); err != nil {
		return nil, err
	}

	result := &models.SentimentResult{
		ArticleID:    articleID,
		Sentiment:    label,
		ModelVersion: in.ModelVersion,
		Reasoning:    in.Reasoning,
		Topics:       in.Topics,
		Entities:     in.Entities,
		ProcessedAt:  time.Now().UTC(),
	}
	if in.ProcessedAt != nil {
		result.ProcessedAt = *in.ProcessedAt
	}
	if in.Confidence != nil {
		if *in.Confidence < 0 || *in.Confidence > 1 {
			return nil, fmt.Errorf("%w: %v", ErrConfidenceRange, *in.Confidence)
		}
		c := math.Round(*in.Confidence*100) / 100
		result.Confidence = &c
	}

	id, err := s.store.InsertSentimentResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("insert sentiment result: %w", err)
	}
	result.ID = id
	return result, nil
}

func summarize(r models.ArticleWithSentiment) models.ArticleSummary {
	summary := models.ArticleSummary{
		ID:          r.ID,
		SourceID:    r.SourceID,
		SourceName:  r.SourceName,
		Title:       r.Title,
		URL:         r.URL,
		Author:      r.Author,
		PublishedAt: r.PublishedAt,
	}
	if r.Sentiment != nil {
		label := string(r.Sentiment.Sentiment)
		summary.Sentiment = &label
		summary.Confidence = r.Sentiment.Confidence
	}
	return summary
}
