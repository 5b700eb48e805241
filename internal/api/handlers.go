package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hkarap/sentinews/internal/config"
	"github.com/hkarap/sentinews/internal/engine"
	"github.com/hkarap/sentinews/internal/logger"
	"github.com/hkarap/sentinews/internal/middleware"
	"github.com/hkarap/sentinews/internal/models"
	"github.com/hkarap/sentinews/internal/store"
)

type Handlers struct {
	config     *config.Config
	store      *store.Store
	articles   *engine.Articles
	aggregator *engine.Aggregator
	topics     *engine.Topics
	validate   *middleware.Validator
}

func NewHandlers(cfg *config.Config, st *store.Store, seen engine.SeenCache, archive engine.ContentArchive) *Handlers {
	dedup := engine.NewDeduplicator(st, seen)

	return &Handlers{
		config:     cfg,
		store:      st,
		articles:   engine.NewArticles(st, dedup, archive),
		aggregator: engine.NewAggregator(st),
		topics:     engine.NewTopics(st),
		validate:   middleware.NewValidator(),
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListArticles handles GET /api/v1/articles
func (h *Handlers) ListArticles(c *fiber.Ctx) error {
	filter, err := parseArticleFilter(c)
	if err != nil {
		return badRequest(c, err)
	}

	result, err := h.articles.FindFiltered(c.Context(), filter, parsePage(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing articles")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list articles",
		})
	}

	return c.JSON(result)
}

// GetArticle handles GET /api/v1/articles/:id
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	article, err := h.articles.FindByID(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Article not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting article")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get article",
		})
	}

	return c.JSON(article)
}

// GetArticleContent handles GET /api/v1/articles/:id/content
func (h *Handlers) GetArticleContent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	body, err := h.articles.GetContent(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Article content not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting article content")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get article content",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(body)
}

// GetArticleSentiment handles GET /api/v1/articles/:id/sentiment
func (h *Handlers) GetArticleSentiment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	result, err := h.store.GetSentimentByArticleID(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "No classification for this article")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting classification")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get classification",
		})
	}

	return c.JSON(result)
}

// GetAggregate handles GET /api/v1/sentiment/aggregate
func (h *Handlers) GetAggregate(c *fiber.Ctx) error {
	from, to, err := parseWindow(c)
	if err != nil {
		return badRequest(c, err)
	}

	rows, err := h.aggregator.Aggregate(c.Context(), c.Query("groupBy"), from, to)
	if errors.Is(err, engine.ErrInvalidGroupBy) {
		return badRequest(c, err)
	}
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error aggregating sentiment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to aggregate sentiment",
		})
	}

	return c.JSON(rows)
}

// GetSummary handles GET /api/v1/sentiment/summary
func (h *Handlers) GetSummary(c *fiber.Ctx) error {
	from, to, err := parseWindow(c)
	if err != nil {
		return badRequest(c, err)
	}

	counts, err := h.aggregator.OverallCounts(c.Context(), from, to)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error summarizing sentiment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to summarize sentiment",
		})
	}

	return c.JSON(counts)
}

// ListSources handles GET /api/v1/sources
func (h *Handlers) ListSources(c *fiber.Ctx) error {
	var language *models.Language
	if v := c.Query("language"); v != "" {
		lang, err := models.ParseLanguage(v)
		if err != nil {
			return badRequest(c, err)
		}
		language = &lang
	}

	sources, err := h.store.ListSources(c.Context(), language, c.QueryBool("active", false))
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing sources")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sources",
		})
	}

	return c.JSON(sources)
}

// GetSource handles GET /api/v1/sources/:id
func (h *Handlers) GetSource(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	source, err := h.store.GetSourceByID(c.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Source not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting source")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get source",
		})
	}

	return c.JSON(source)
}

type createSourceRequest struct {
	Name     string         `json:"name" validate:"required"`
	URL      string         `json:"url" validate:"required,url"`
	Type     string         `json:"type" validate:"required"`
	Language string         `json:"language" validate:"required"`
	Config   map[string]any `json:"config"`
	Active   *bool          `json:"active"`
}

// CreateSource handles POST /api/v1/admin/sources
func (h *Handlers) CreateSource(c *fiber.Ctx) error {
	var req createSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestMsg(c, "Invalid request body: "+err.Error())
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	sourceType, err := models.ParseSourceType(req.Type)
	if err != nil {
		return badRequest(c, err)
	}
	language, err := models.ParseLanguage(req.Language)
	if err != nil {
		return badRequest(c, err)
	}

	source := &models.Source{
		Name:     req.Name,
		URL:      req.URL,
		Type:     sourceType,
		Language: language,
		Config:   req.Config,
		Active:   true,
	}
	if req.Active != nil {
		source.Active = *req.Active
	}

	id, err := h.store.InsertSource(c.Context(), source)
	if err != nil {
		logger.Get().Error().Err(err).Str("name", req.Name).Msg("Error creating source")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create source",
		})
	}
	source.ID = id

	return c.Status(fiber.StatusCreated).JSON(source)
}

// IngestArticle handles POST /api/v1/admin/articles. This is the hand-off
// point for ingestion producers: the crawling itself lives outside this
// service.
func (h *Handlers) IngestArticle(c *fiber.Ctx) error {
	var req engine.NewArticle
	if err := c.BodyParser(&req); err != nil {
		return badRequestMsg(c, "Invalid request body: "+err.Error())
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.articles.Ingest(c.Context(), req)
	if err != nil {
		logger.Get().Error().Err(err).Int64("source_id", req.SourceID).Msg("Error ingesting article")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to ingest article",
		})
	}

	if err := h.store.TouchSourceFetch(c.Context(), req.SourceID, true); err != nil {
		logger.Get().Warn().Err(err).Int64("source_id", req.SourceID).Msg("Failed to record source fetch")
	}

	status := fiber.StatusCreated
	if result.AlreadyKnown {
		status = fiber.StatusOK
	}
	if result.ArchiveErr != nil {
		logger.Get().Warn().
			Err(result.ArchiveErr).
			Int64("article_id", result.Article.ID).
			Msg("Failed to archive article content")
	}
	if result.DuplicateContent {
		logger.Get().Info().
			Int64("article_id", result.Article.ID).
			Int64("source_id", result.Article.SourceID).
			Msg("Ingested article duplicates existing content")
	}

	return c.Status(status).JSON(result)
}

// AttachSentiment handles POST /api/v1/admin/articles/:id/sentiment. The
// classification itself is produced by the external model pipeline; this
// endpoint only records the finished result.
func (h *Handlers) AttachSentiment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req engine.NewSentiment
	if err := c.BodyParser(&req); err != nil {
		return badRequestMsg(c, "Invalid request body: "+err.Error())
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.articles.AttachSentiment(c.Context(), id, req)
	switch {
	case errors.Is(err, models.ErrUnknownSentiment), errors.Is(err, engine.ErrConfidenceRange):
		return badRequest(c, err)
	case errors.Is(err, store.ErrNotFound):
		return notFound(c, "Article not found")
	case err != nil:
		logger.Get().Error().Err(err).Int64("article_id", id).Msg("Error attaching classification")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to attach classification",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListTopics handles GET /api/v1/topics
func (h *Handlers) ListTopics(c *fiber.Ctx) error {
	topics, err := h.topics.List(c.Context(), middleware.CallerKey(c))
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing topics")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list topics",
		})
	}
	return c.JSON(topics)
}

// GetTopic handles GET /api/v1/topics/:id
func (h *Handlers) GetTopic(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	topic, err := h.topics.Get(c.Context(), id, middleware.CallerKey(c))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Topic not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting topic")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get topic",
		})
	}
	return c.JSON(topic)
}

// CreateTopic handles POST /api/v1/topics
func (h *Handlers) CreateTopic(c *fiber.Ctx) error {
	var req engine.TopicInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestMsg(c, "Invalid request body: "+err.Error())
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	topic, err := h.topics.Create(c.Context(), middleware.CallerKey(c), req)
	if err != nil {
		logger.Get().Error().Err(err).Str("name", req.Name).Msg("Error creating topic")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create topic",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// UpdateTopic handles PUT /api/v1/topics/:id
func (h *Handlers) UpdateTopic(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var req engine.TopicInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestMsg(c, "Invalid request body: "+err.Error())
	}
	if err := h.validate.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	topic, err := h.topics.Update(c.Context(), id, middleware.CallerKey(c), req)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Topic not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error updating topic")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update topic",
		})
	}
	return c.JSON(topic)
}

// DeleteTopic handles DELETE /api/v1/topics/:id
func (h *Handlers) DeleteTopic(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	err = h.topics.Delete(c.Context(), id, middleware.CallerKey(c))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Topic not found")
	}
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error deleting topic")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete topic",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "deleted",
		"message": "Topic deleted successfully",
	})
}
