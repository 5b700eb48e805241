package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hkarap/sentinews/internal/models"
)

// probeQuery runs fn against a request with the given query string.
func probeQuery(t *testing.T, query string, fn func(c *fiber.Ctx)) {
	t.Helper()
	app := fiber.New()
	app.Get("/probe", func(c *fiber.Ctx) error {
		fn(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/probe?"+query, nil))
	if err != nil {
		t.Fatalf("Test() returned error: %v", err)
	}
	defer resp.Body.Close()
}

func TestParsePageCamelCase(t *testing.T) {
	var page models.PageRequest
	probeQuery(t, "page=2&pageSize=50", func(c *fiber.Ctx) {
		page = parsePage(c)
	})

	if page.Page != 2 || page.PageSize != 50 {
		t.Errorf("parsed %+v, want page 2 size 50", page)
	}
}

func TestParsePageIgnoresSnakeCase(t *testing.T) {
	var page models.PageRequest
	probeQuery(t, "page_size=50", func(c *fiber.Ctx) {
		page = parsePage(c)
	})

	if page.PageSize != models.DefaultPageSize {
		t.Errorf("snake_case parameter must not be read, got size %d", page.PageSize)
	}
}

func TestParseArticleFilterPredicates(t *testing.T) {
	var (
		filter models.ArticleFilter
		err    error
	)
	probeQuery(t, "sourceId=4&sentiment=positive&from=2026-01-01&to=2026-02-01T00:00:00Z&q=corruption", func(c *fiber.Ctx) {
		filter, err = parseArticleFilter(c)
	})
	if err != nil {
		t.Fatalf("parseArticleFilter() returned error: %v", err)
	}

	if filter.SourceID == nil || *filter.SourceID != 4 {
		t.Errorf("SourceID = %v, want 4", filter.SourceID)
	}
	if filter.Sentiment == nil || *filter.Sentiment != models.SentimentPositive {
		t.Errorf("Sentiment = %v, want POSITIVE", filter.Sentiment)
	}
	if filter.From == nil || !filter.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("From = %v, want 2026-01-01", filter.From)
	}
	if filter.To == nil {
		t.Error("To not parsed")
	}
	if filter.Query != "corruption" {
		t.Errorf("Query = %q, want corruption", filter.Query)
	}
}

func TestParseArticleFilterBadSentiment(t *testing.T) {
	var err error
	probeQuery(t, "sentiment=mixed", func(c *fiber.Ctx) {
		_, err = parseArticleFilter(c)
	})

	if err == nil {
		t.Error("unknown sentiment label must fail parsing")
	}
}

func TestParseWindowBounds(t *testing.T) {
	var err error

	probeQuery(t, "to=2026-02-01", func(c *fiber.Ctx) {
		_, _, err = parseWindow(c)
	})
	if err == nil {
		t.Error("missing from bound must fail")
	}

	probeQuery(t, "from=2026-02-01&to=2026-01-01", func(c *fiber.Ctx) {
		_, _, err = parseWindow(c)
	})
	if err == nil {
		t.Error("inverted window must fail")
	}

	var from, to time.Time
	probeQuery(t, "from=2026-01-01&to=2026-02-01", func(c *fiber.Ctx) {
		from, to, err = parseWindow(c)
	})
	if err != nil {
		t.Fatalf("parseWindow() returned error: %v", err)
	}
	if !to.After(from) {
		t.Errorf("window [%v, %v] not ordered", from, to)
	}
}
