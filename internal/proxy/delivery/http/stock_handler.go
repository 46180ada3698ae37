package http

import (
	"fmt"
	"net/http"
	"strconv"

	"golang-stock-proxy/internal/proxy/service"
	"golang-stock-proxy/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultPriceDays = 30
	defaultNewsDays  = 15
)

// StockHandler handles HTTP requests for per-stock market data.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:code/price", h.GetPrice)
	g.GET("/:code/fundamental", h.GetFundamental)
	g.GET("/:code/news", h.GetNews)
	g.GET("/:code/name", h.GetName)
}

// GetPrice godoc
// @Summary Get daily price history
// @Description Get unadjusted daily OHLCV records for the last N calendar days
// @Tags stock
// @Produce  json
// @Param   code  path    string  true   "Six digit stock code"
// @Param   days  query   int     false  "Calendar days to look back" default(30)
// @Success 200 {array} dto.PriceRecord
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stock/{code}/price [get]
func (h *StockHandler) GetPrice(c echo.Context) error {
	code := c.Param("code")
	days, err := intQueryParam(c, "days", defaultPriceDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	records, err := h.stockService.GetPriceHistory(c.Request().Context(), code, days)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to get price history",
			logger.StringField("code", code),
			logger.IntField("days", days),
			logger.ErrorField(err),
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, records)
}

// GetFundamental godoc
// @Summary Get fundamental data
// @Description Get key financial indicators and PE/PB valuation
// @Tags stock
// @Produce  json
// @Param   code  path    string  true  "Six digit stock code"
// @Success 200 {object} dto.FundamentalResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stock/{code}/fundamental [get]
func (h *StockHandler) GetFundamental(c echo.Context) error {
	code := c.Param("code")

	resp, err := h.stockService.GetFundamental(c.Request().Context(), code)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to get fundamental data", logger.StringField("code", code), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetNews godoc
// @Summary Get company news
// @Description Get recent company news with keyword sentiment
// @Tags stock
// @Produce  json
// @Param   code  path    string  true   "Six digit stock code"
// @Param   days  query   int     false  "Accepted for compatibility, not used for filtering" default(15)
// @Success 200 {object} dto.NewsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/stock/{code}/news [get]
func (h *StockHandler) GetNews(c echo.Context) error {
	code := c.Param("code")
	days, err := intQueryParam(c, "days", defaultNewsDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp, err := h.stockService.GetNews(c.Request().Context(), code, days)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to get news", logger.StringField("code", code), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetName godoc
// @Summary Get stock name
// @Description Get the display name of a stock, "<code>股票" when unknown
// @Tags stock
// @Produce  json
// @Param   code  path    string  true  "Six digit stock code"
// @Success 200 {object} dto.NameResponse
// @Router /api/stock/{code}/name [get]
func (h *StockHandler) GetName(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stockService.GetName(c.Request().Context(), c.Param("code")))
}

func intQueryParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q: must be an integer", name, raw)
	}
	return v, nil
}
