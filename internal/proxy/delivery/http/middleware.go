package http

import (
	"net/http"
	"time"

	"golang-stock-proxy/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterMiddleware installs request ids, CORS for any origin and access logging.
func RegisterMiddleware(e *echo.Echo, log *logger.Logger) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))
	e.Use(RequestContext)
	e.Use(AccessLog(log))
}

// RequestContext copies the request id into the request context for the *Context log helpers.
func RequestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}

// AccessLog logs one line per request.
func AccessLog(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.InfoContext(c.Request().Context(), "HTTP request",
				logger.StringField("method", c.Request().Method),
				logger.StringField("path", c.Path()),
				logger.StringField("uri", c.Request().RequestURI),
				logger.IntField("status", c.Response().Status),
				logger.DurationField("latency", time.Since(start)),
			)
			return nil
		}
	}
}
