package http

import (
	"errors"
	"net/http"
	"strings"

	"golang-metal-scryper/internal/dto"
	"golang-metal-scryper/internal/repository"
	"golang-metal-scryper/internal/service"
	"golang-metal-scryper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PriceHandler handles HTTP requests for metal prices.
type PriceHandler struct {
	priceService service.PriceService
	logger       *logger.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService service.PriceService, logger *logger.Logger) *PriceHandler {
	return &PriceHandler{priceService: priceService, logger: logger}
}

// RegisterRoutes registers the price routes to the Echo group.
func (h *PriceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/latest", h.LatestPrices)
	g.POST("/fetch", h.FetchPrices)
	g.GET("/:symbol", h.PriceBySymbol)
}

// LatestPrices godoc
// @Summary Latest price batch
// @Description Get all rows of the most recent fetch batch, optionally filtered to a symbol subset
// @Tags metal-prices
// @Produce json
// @Param symbols query string false "Comma-separated symbol filter"
// @Success 200 {array} entity.MetalPrice
// @Failure 500 {object} dto.ErrorResponse
// @Router /metal-prices/latest [get]
func (h *PriceHandler) LatestPrices(c echo.Context) error {
	var symbols []string
	if raw := c.QueryParam("symbols"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	prices, err := h.priceService.LatestPrices(c.Request().Context(), symbols)
	if err != nil {
		h.logger.Error("Failed to get latest prices", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get latest prices"})
	}
	return c.JSON(http.StatusOK, prices)
}

// FetchPrices godoc
// @Summary Trigger a price fetch
// @Description Fetch a fresh price batch from the external API and store it
// @Tags metal-prices
// @Accept json
// @Produce json
// @Param request body dto.FetchPricesRequest false "Optional symbol subset"
// @Success 200 {object} dto.PriceFetchResult
// @Failure 502 {object} dto.PriceFetchResult
// @Router /metal-prices/fetch [post]
func (h *PriceHandler) FetchPrices(c echo.Context) error {
	var req dto.FetchPricesRequest
	if err := c.Bind(&req); err != nil && c.Request().ContentLength > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	result, err := h.priceService.FetchAndStorePrices(c.Request().Context(), req.Metals)
	if err != nil {
		h.logger.Error("Price fetch failed", logger.ErrorField(err))
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrExternalAPI) {
			status = http.StatusBadGateway
		}
		return c.JSON(status, dto.PriceFetchResult{Success: false, Message: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// PriceBySymbol godoc
// @Summary Latest price for one symbol
// @Description Get the latest-batch row for an exact symbol match
// @Tags metal-prices
// @Produce json
// @Param symbol path string true "Metal symbol"
// @Success 200 {object} entity.MetalPrice
// @Failure 404 {object} dto.ErrorResponse
// @Router /metal-prices/{symbol} [get]
func (h *PriceHandler) PriceBySymbol(c echo.Context) error {
	price, err := h.priceService.PriceBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, repository.ErrPriceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Metal price not found"})
		}
		h.logger.Error("Failed to get price by symbol", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get price"})
	}
	return c.JSON(http.StatusOK, price)
}
