package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/internal/service"
	"golang-metal-scryper/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NewsHandler handles HTTP requests for metal news.
type NewsHandler struct {
	newsService service.NewsService
	keywordRepo repository.KeywordRepository
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, keywordRepo repository.KeywordRepository, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, keywordRepo: keywordRepo, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListNews)
	g.GET("/latest", h.LatestNews)
	g.GET("/search", h.SearchNews)
	g.POST("/fetch", h.FetchNews)
	g.POST("/reindex", h.Reindex)
	g.POST("/:id/keywords", h.TagArticle)
}

// ListNews godoc
// @Summary List metal news
// @Description List metal news articles, optionally filtered by source (case-insensitive exact match)
// @Tags metal-news
// @Produce json
// @Param source query string false "News source"
// @Success 200 {array} entity.MetalNews
// @Failure 500 {object} dto.ErrorResponse
// @Router /metal-news [get]
func (h *NewsHandler) ListNews(c echo.Context) error {
	ctx := c.Request().Context()

	if source := c.QueryParam("source"); source != "" {
		news, err := h.newsService.NewsBySource(ctx, source)
		if err != nil {
			h.logger.Error("Failed to list news by source", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list news"})
		}
		return c.JSON(http.StatusOK, news)
	}

	news, err := h.newsService.LatestNews(ctx, 20)
	if err != nil {
		h.logger.Error("Failed to list news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list news"})
	}
	return c.JSON(http.StatusOK, news)
}

// LatestNews godoc
// @Summary Latest metal news
// @Description Get the N most recent articles ordered by publish time descending
// @Tags metal-news
// @Produce json
// @Param limit query int false "Maximum articles to return" default(20)
// @Success 200 {array} entity.MetalNews
// @Failure 500 {object} dto.ErrorResponse
// @Router /metal-news/latest [get]
func (h *NewsHandler) LatestNews(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	news, err := h.newsService.LatestNews(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get latest news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get latest news"})
	}
	return c.JSON(http.StatusOK, news)
}

// SearchNews godoc
// @Summary Search metal news
// @Description Ranked full-text search over title, description and source. Empty query returns an empty list.
// @Tags metal-news
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} entity.MetalNews
// @Failure 500 {object} dto.ErrorResponse
// @Router /metal-news/search [get]
func (h *NewsHandler) SearchNews(c echo.Context) error {
	news, err := h.newsService.SearchNews(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.logger.Error("Failed to search news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Search failed"})
	}
	return c.JSON(http.StatusOK, news)
}

// FetchNews godoc
// @Summary Trigger a news fetch
// @Description Fetch configured RSS search feeds and store new articles
// @Tags metal-news
// @Produce json
// @Success 200 {object} dto.NewsFetchResult
// @Failure 502 {object} dto.NewsFetchResult
// @Router /metal-news/fetch [post]
func (h *NewsHandler) FetchNews(c echo.Context) error {
	result, err := h.newsService.FetchAndStoreNews(c.Request().Context())
	if err != nil {
		h.logger.Error("News fetch failed", logger.ErrorField(err))
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrFeedFetch) {
			status = http.StatusBadGateway
		}
		return c.JSON(status, dto.NewsFetchResult{Success: false, Message: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// Reindex godoc
// @Summary Rebuild search vectors
// @Description Recompute the full-text search vector for every article
// @Tags metal-news
// @Produce json
// @Success 200 {object} dto.ReindexResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /metal-news/reindex [post]
func (h *NewsHandler) Reindex(c echo.Context) error {
	result, err := h.newsService.ReindexAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Reindex failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Reindex failed"})
	}
	return c.JSON(http.StatusOK, result)
}

// TagArticle godoc
// @Summary Tag an article with a keyword
// @Description Link an article to a keyword under a keyword type
// @Tags metal-news
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param tag body dto.TagKeywordRequest true "Keyword tag"
// @Success 201 {object} entity.NewsKeyword
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /metal-news/{id}/keywords [post]
func (h *NewsHandler) TagArticle(c echo.Context) error {
	newsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid article ID"})
	}

	var req dto.TagKeywordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	keywordID, err := uuid.Parse(req.KeywordID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid keyword ID"})
	}

	keywordType := entity.KeywordType(req.KeywordType)
	if keywordType == "" {
		keywordType = entity.KeywordTypeOther
	}
	if !keywordType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid keyword type"})
	}

	link := &entity.NewsKeyword{
		NewsID:      newsID,
		KeywordID:   keywordID,
		KeywordType: keywordType,
	}
	if err := h.keywordRepo.TagArticle(c.Request().Context(), link); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to tag article", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to tag article"})
	}
	return c.JSON(http.StatusCreated, link)
}
