package middleware

import (
	"myStorefront/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// TraceID propagates X-Request-ID (or a fresh uuid) into the request context
// and echoes it on the response.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			req := c.Request()
			c.SetRequest(req.WithContext(recommendation.WithTraceID(req.Context(), id)))
			c.Response().Header().Set(HeaderRequestID, id)

			return next(c)
		}
	}
}
