package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LogMiddleware logs incoming requests using Logrus: method, path,
// status and duration.
func LogMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.WithFields(logrus.Fields{
				"method":   c.Request().Method,
				"path":     c.Request().URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start),
				"remote":   c.RealIP(),
			}).Info("HTTP Request")

			return err
		}
	}
}
