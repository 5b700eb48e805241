package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hkarap/sentinews/internal/middleware"
	"github.com/hkarap/sentinews/internal/models"
)

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return id, nil
}

// parsePage reads pagination off the query string. Query parameters are
// camelCase across the API.
func parsePage(c *fiber.Ctx) models.PageRequest {
	return models.PageRequest{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", models.DefaultPageSize),
	}
}

// parseArticleFilter reads the optional list predicates off the query
// string. Absent parameters stay nil and place no constraint on the query.
func parseArticleFilter(c *fiber.Ctx) (models.ArticleFilter, error) {
	var filter models.ArticleFilter

	if v := c.Query("sourceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid sourceId %q", v)
		}
		filter.SourceID = &id
	}

	if v := c.Query("sentiment"); v != "" {
		sentiment, err := models.ParseSentiment(v)
		if err != nil {
			return filter, err
		}
		filter.Sentiment = &sentiment
	}

	if v := c.Query("from"); v != "" {
		from, err := parseTime(v, "from")
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}

	if v := c.Query("to"); v != "" {
		to, err := parseTime(v, "to")
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	filter.Query = c.Query("q")

	return filter, nil
}

// parseWindow reads the required from/to bounds for aggregate queries.
func parseWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := parseTime(c.Query("from"), "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTime(c.Query("to"), "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to %q precedes from %q", c.Query("to"), c.Query("from"))
	}
	return from, to, nil
}

func parseTime(v, name string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("missing %s parameter", name)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// Date-only bounds are common for day aggregates.
		t, err = time.Parse("2006-01-02", v)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected RFC 3339 or YYYY-MM-DD", name, v)
	}
	return t, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequestMsg(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": msg,
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "Validation failed",
		"fields": middleware.FieldErrors(err),
	})
}
