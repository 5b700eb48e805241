package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentiment is the label an external classification producer attaches to an
// article.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// ErrUnknownSentiment reports a label outside the closed sentiment set.
var ErrUnknownSentiment = errors.New("unknown sentiment")

// ParseSentiment maps a case-insensitive label to its Sentiment value.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToUpper(s)) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNegative:
		return SentimentNegative, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, s)
	}
}

// Sentiments lists every label in a fixed order, used for zero-filling
// aggregate buckets.
func Sentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// SentimentResult is one classification of one article, produced once by
// the external model and immutable afterward. Reprocessing with a newer
// model creates a new row under the new ModelVersion.
type SentimentResult struct {
	ID           int64          `json:"id"`
	ArticleID    int64          `json:"article_id"`
	Sentiment    Sentiment      `json:"sentiment"`
	Confidence   *float64       `json:"confidence,omitempty"`
	ModelVersion string         `json:"model_version,omitempty"`
	Reasoning    string         `json:"reasoning,omitempty"`
	Topics       []string       `json:"topics,omitempty"`
	Entities     map[string]any `json:"entities,omitempty"`
	ProcessedAt  time.Time      `json:"processed_at"`
}

// AggregateRow is one zero-filled bucket of sentiment counts. All three
// counters are always present and Total is their sum.
type AggregateRow struct {
	Group    string `json:"group"`
	Positive int64  `json:"positive"`
	Negative int64  `json:"negative"`
	Neutral  int64  `json:"neutral"`
	Total    int64  `json:"total"`
}

// SentimentCount is a raw (sentiment, count) tuple from the store.
type SentimentCount struct {
	Sentiment Sentiment
	Count     int64
}

// GroupedCount is a raw (group, sentiment, count) tuple from the store.
// Group is the string form of the bucket key: a calendar date or a source
// id, depending on the grouping dimension.
type GroupedCount struct {
	Group     string
	Sentiment Sentiment
	Count     int64
}
