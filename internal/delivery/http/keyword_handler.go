package http

import (
	"errors"
	"net/http"

	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/entity"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// KeywordHandler handles HTTP requests for keywords.
type KeywordHandler struct {
	keywordRepo repository.KeywordRepository
	logger      *logger.Logger
}

// NewKeywordHandler creates a new KeywordHandler.
func NewKeywordHandler(keywordRepo repository.KeywordRepository, logger *logger.Logger) *KeywordHandler {
	return &KeywordHandler{keywordRepo: keywordRepo, logger: logger}
}

// RegisterRoutes registers the keyword routes to the Echo group.
func (h *KeywordHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateKeyword)
	g.GET("", h.ListKeywords)
}

// CreateKeyword godoc
// @Summary Create a keyword
// @Description Create a keyword; the slug is derived from the name when absent
// @Tags keywords
// @Accept json
// @Produce json
// @Param keyword body dto.CreateKeywordRequest true "Keyword to create"
// @Success 201 {object} entity.Keyword
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /keywords [post]
func (h *KeywordHandler) CreateKeyword(c echo.Context) error {
	var req dto.CreateKeywordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Keyword name is required"})
	}

	keyword := &entity.Keyword{Name: req.Name, Slug: req.Slug}
	if err := h.keywordRepo.Create(c.Request().Context(), keyword); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to create keyword", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create keyword"})
	}
	return c.JSON(http.StatusCreated, keyword)
}

// ListKeywords godoc
// @Summary List keywords
// @Description List all keywords ordered by name
// @Tags keywords
// @Produce json
// @Success 200 {array} entity.Keyword
// @Failure 500 {object} dto.ErrorResponse
// @Router /keywords [get]
func (h *KeywordHandler) ListKeywords(c echo.Context) error {
	keywords, err := h.keywordRepo.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list keywords", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list keywords"})
	}
	return c.JSON(http.StatusOK, keywords)
}
