package store

import (
	"strings"
	"testing"
	"time"

	"github.com/hkarap/sentinews/internal/models"
)

func mustSQL(t *testing.T, filter models.ArticleFilter) (string, []any) {
	t.Helper()
	sqlStr, args, err := applyArticleFilter(articleSelect(), filter).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}
	return sqlStr, args
}

func TestArticleFilterEmpty(t *testing.T) {
	sqlStr, args := mustSQL(t, models.ArticleFilter{})

	if strings.Contains(sqlStr, "WHERE") {
		t.Errorf("empty filter must not constrain the query, got: %s", sqlStr)
	}
	if len(args) != 0 {
		t.Errorf("empty filter produced %d args, want 0", len(args))
	}
	if !strings.Contains(sqlStr, "LEFT JOIN LATERAL") {
		t.Errorf("expected outer join on classifications, got: %s", sqlStr)
	}
}

func TestArticleJoinPicksLatestClassification(t *testing.T) {
	sqlStr, _ := mustSQL(t, models.ArticleFilter{})

	// At most one classification row per article: the join subquery must
	// order by recency and stop at one, or articles with several model
	// versions would fan out in list output.
	if !strings.Contains(sqlStr, "ORDER BY processed_at DESC") {
		t.Errorf("join subquery not ordered by recency: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "LIMIT 1") {
		t.Errorf("join subquery not limited to one row: %s", sqlStr)
	}
}

func TestArticleFilterPredicates(t *testing.T) {
	sourceID := int64(7)
	sentiment := models.SentimentNegative
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	cases := []struct {
		name     string
		filter   models.ArticleFilter
		fragment string
		argCount int
	}{
		{"source only", models.ArticleFilter{SourceID: &sourceID}, "a.source_id =", 1},
		{"sentiment only", models.ArticleFilter{Sentiment: &sentiment}, "sr.sentiment =", 1},
		{"from only", models.ArticleFilter{From: &from}, "a.published_at >=", 1},
		{"to only", models.ArticleFilter{To: &to}, "a.published_at <=", 1},
		{
			"all predicates",
			models.ArticleFilter{SourceID: &sourceID, Sentiment: &sentiment, From: &from, To: &to},
			"a.source_id =",
			4,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sqlStr, args := mustSQL(t, c.filter)
			if !strings.Contains(sqlStr, c.fragment) {
				t.Errorf("query missing %q: %s", c.fragment, sqlStr)
			}
			if len(args) != c.argCount {
				t.Errorf("got %d args, want %d", len(args), c.argCount)
			}
		})
	}
}

func TestArticleFilterQueryFieldInert(t *testing.T) {
	sqlStr, args := mustSQL(t, models.ArticleFilter{Query: "corruption"})

	if strings.Contains(sqlStr, "WHERE") || len(args) != 0 {
		t.Errorf("free-text query must not filter, got: %s args=%v", sqlStr, args)
	}
}

func TestArticleCountMatchesSelectPredicates(t *testing.T) {
	sentiment := models.SentimentPositive
	filter := models.ArticleFilter{Sentiment: &sentiment}

	countSQL, countArgs, err := applyArticleFilter(articleCount(), filter).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}
	_, selectArgs := mustSQL(t, filter)

	if !strings.Contains(countSQL, "COUNT(DISTINCT a.id)") {
		t.Errorf("count query must count distinct articles, got: %s", countSQL)
	}
	if !strings.Contains(countSQL, "sr.sentiment =") {
		t.Errorf("count query missing sentiment predicate: %s", countSQL)
	}
	if len(countArgs) != len(selectArgs) {
		t.Errorf("count args = %d, select args = %d; predicates diverged", len(countArgs), len(selectArgs))
	}
}

func TestCountByDayOrdered(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sqlStr, args, err := countByDayQuery(from, to).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}
	if !strings.Contains(sqlStr, "ORDER BY DATE(processed_at)") {
		t.Errorf("day buckets must come back date-ordered, got: %s", sqlStr)
	}
	if len(args) != 2 {
		t.Errorf("window must bind both bounds, got %d args", len(args))
	}
}

func TestCountBySourceUnordered(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sqlStr, _, err := countBySourceQuery(from, to).ToSql()
	if err != nil {
		t.Fatalf("ToSql() returned error: %v", err)
	}
	if strings.Contains(sqlStr, "ORDER BY") {
		t.Errorf("source buckets carry no ordering of their own, got: %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "JOIN articles a ON a.id = sr.article_id") {
		t.Errorf("source grouping must join through articles, got: %s", sqlStr)
	}
}
