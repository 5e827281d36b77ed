// Package middleware carries the echo middleware used by the sandbox
// backend: request ids, structured request logging, panic recovery, and
// per-client rate limiting.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header carrying the request id. The client SDK
// sends one on every call; the sandbox echoes it back or generates one.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the echo context key under which RequestID stores the id.
const requestIDKey = "request_id"

// RequestIDFrom returns the request id set by RequestID, or "" when that
// middleware did not run.
func RequestIDFrom(c echo.Context) string {
	rid, _ := c.Get(requestIDKey).(string)
	return rid
}

func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(requestIDKey, rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
