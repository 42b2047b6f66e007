package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FromContext retrieves the logger from echo.Context with the request ID
func FromContext(c echo.Context) *zap.Logger {
	// Try to get the logger from context first
	if logger, ok := c.Get("logger").(*zap.Logger); ok {
		return logger
	}

	// Otherwise, get the global logger and add request ID if present
	requestID := c.Request().Header.Get("X-Request-ID")
	if requestID != "" {
		return GetLogger().With(zap.String("request_id", requestID))
	}
	return GetLogger()
}
