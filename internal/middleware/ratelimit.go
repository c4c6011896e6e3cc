package middleware

import (
	"strings"

	xhttp "FinScore/pkg/http"
	applogger "FinScore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Limiter decides per key whether a request may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit throttles /api requests per client IP. Other routes pass through.
func RateLimit(limiter Limiter, log *applogger.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return next(c)
			}
			ip := c.RealIP()
			if !limiter.Allow(ip) {
				log.Debug("rate limited",
					applogger.String("ip", ip),
					applogger.String("path", c.Request().URL.Path),
				)
				c.Response().Header().Set("Retry-After", "1")
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests"))
			}
			return next(c)
		}
	}
}
