package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hkarap/sentinews/internal/models"
)

// ErrInvalidGroupBy reports an unrecognized grouping token. It is a caller
// error, never silently defaulted.
var ErrInvalidGroupBy = errors.New("invalid groupBy")

// Grouping tokens accepted by Aggregate.
const (
	GroupByDay    = "day"
	GroupBySource = "source"
)

// SentimentStore is the slice of the storage collaborator the aggregation
// engine reads from. All three methods scope to classifications whose
// processing timestamp falls inside [from, to].
type SentimentStore interface {
	CountBySentiment(ctx context.Context, from, to time.Time) ([]models.SentimentCount, error)
	CountByDay(ctx context.Context, from, to time.Time) ([]models.GroupedCount, error)
	CountBySource(ctx context.Context, from, to time.Time) ([]models.GroupedCount, error)
}

// Aggregator computes zero-filled, time-windowed sentiment counts.
type Aggregator struct {
	store SentimentStore
}

func NewAggregator(st SentimentStore) *Aggregator {
	return &Aggregator{store: st}
}

// Aggregate dispatches on the grouping token, case-insensitively.
func (a *Aggregator) Aggregate(ctx context.Context, groupBy string, from, to time.Time) ([]models.AggregateRow, error) {
	switch strings.ToLower(groupBy) {
	case GroupByDay:
		return a.ByDay(ctx, from, to)
	case GroupBySource:
		return a.BySource(ctx, from, to)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupBy, groupBy)
	}
}

// ByDay buckets counts by the calendar date classifications were
// processed on. Row order follows the store's ascending-date ordering.
func (a *Aggregator) ByDay(ctx context.Context, from, to time.Time) ([]models.AggregateRow, error) {
	counts, err := a.store.CountByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by day: %w", err)
	}
	return mergeGrouped(counts), nil
}

// BySource buckets counts by the source the classified article belongs
// to. Rows keep the order source groups first appear in the store's
// output.
func (a *Aggregator) BySource(ctx context.Context, from, to time.Time) ([]models.AggregateRow, error) {
	counts, err := a.store.CountBySource(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	return mergeGrouped(counts), nil
}

// OverallCounts returns corpus-wide totals per label for the window. All
// three labels are always present; an empty window yields all zeros.
func (a *Aggregator) OverallCounts(ctx context.Context, from, to time.Time) (map[models.Sentiment]int64, error) {
	counts, err := a.store.CountBySentiment(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by sentiment: %w", err)
	}

	out := make(map[models.Sentiment]int64, 3)
	for _, label := range models.Sentiments() {
		out[label] = 0
	}
	for _, c := range counts {
		out[c.Sentiment] += c.Count
	}
	return out, nil
}

// mergeGrouped folds raw (group, sentiment, count) tuples into rows with
// every sentiment counter initialized to zero, preserving the order in
// which groups first appear. Total is summed from the three counters
// after the merge, never fetched on its own.
func mergeGrouped(counts []models.GroupedCount) []models.AggregateRow {
	rows := make([]models.AggregateRow, 0)
	index := make(map[string]int)

	for _, c := range counts {
		i, ok := index[c.Group]
		if !ok {
			i = len(rows)
			index[c.Group] = i
			rows = append(rows, models.AggregateRow{Group: c.Group})
		}

		switch c.Sentiment {
		case models.SentimentPositive:
			rows[i].Positive += c.Count
		case models.SentimentNegative:
			rows[i].Negative += c.Count
		case models.SentimentNeutral:
			rows[i].Neutral += c.Count
		}
	}

	for i := range rows {
		rows[i].Total = rows[i].Positive + rows[i].Negative + rows[i].Neutral
	}
	return rows
}
