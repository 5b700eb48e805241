package models

import "time"

// Article is a raw news article handed over by an ingestion producer.
// Content and PublishedAt may be absent depending on the source. ContentHash
// is derived from Content at write time and never changes for a given
// revision; articles without content carry no hash.
type Article struct {
	ID          int64          `json:"id"`
	SourceID    int64          `json:"source_id"`
	ExternalID  *string        `json:"external_id,omitempty"`
	Title       string         `json:"title"`
	Content     *string        `json:"content,omitempty"`
	URL         string         `json:"url"`
	Author      string         `json:"author,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	FetchedAt   time.Time      `json:"fetched_at"`
	ContentHash *string        `json:"content_hash,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ArticleWithSentiment pairs an article with its source name and the
// classification row, when one exists.
type ArticleWithSentiment struct {
	Article
	SourceName string
	Sentiment  *SentimentResult
}

// ArticleSummary is the API projection of an article. Sentiment and
// Confidence are null for articles that have not been classified yet.
type ArticleSummary struct {
	ID          int64      `json:"id"`
	SourceID    int64      `json:"source_id"`
	SourceName  string     `json:"source_name"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Sentiment   *string    `json:"sentiment"`
	Confidence  *float64   `json:"confidence"`
}

// ArticleFilter carries the optional list predicates. A nil field means
// "match all" on that dimension. Query is accepted from callers but not
// applied to filtering.
type ArticleFilter struct {
	SourceID  *int64
	Sentiment *Sentiment
	From      *time.Time
	To        *time.Time
	Query     string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is caller-supplied pagination.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane bounds: page starts at 1, page size
// defaults to DefaultPageSize and is capped at MaxPageSize.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the row offset for the normalized request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ArticlePage is one page of summaries plus the size of the full filtered
// set, not just the returned slice.
type ArticlePage struct {
	Items      []ArticleSummary `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
}
