package middleware

import (
	"strings"
	"time"

	applogger "FinScore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs each request once it is answered. Server errors log
// at error, client errors at warn, the rest at debug. Paths with one of the
// skip prefixes are not logged.
func RequestLogging(log *applogger.Logger, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			for _, p := range skip {
				if strings.HasPrefix(req.URL.Path, p) {
					return next(c)
				}
			}
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", status),
				applogger.Duration("duration_ms", time.Since(start)),
			}
			switch {
			case status >= 500:
				log.Error("http request", fields...)
			case status >= 400:
				log.Warn("http request", fields...)
			default:
				log.Debug("http request", fields...)
			}
			return nil
		}
	}
}
