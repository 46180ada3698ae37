package http

import (
	"net/http"

	"golang-stock-proxy/internal/proxy/dto"
	"golang-stock-proxy/pkg/common"

	"github.com/labstack/echo/v4"
)

var endpoints = []string{
	"/api/stock/<code>/price?days=30",
	"/api/stock/<code>/fundamental",
	"/api/stock/<code>/news?days=15",
	"/api/stock/<code>/name",
	"/health",
}

// SystemHandler serves the health check and the endpoint index.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// RegisterRoutes registers the system routes on the root group.
func (h *SystemHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/", h.Index)
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy", Service: common.ServiceName})
}

// Index godoc
// @Summary List endpoints
// @Tags system
// @Produce  json
// @Success 200 {object} dto.IndexResponse
// @Router / [get]
func (h *SystemHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.IndexResponse{Service: common.ServiceName, Endpoints: endpoints})
}
