package middleware

import (
	"errors"
	"net/http"

	"myStorefront/domain"
	"myStorefront/pkg/logger"

	jsonres "myStorefront/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler for errors that escape handlers.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL_SERVER_ERROR"
	message := "Internal server error"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		code = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(he.Code)
		}
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "BAD_REQUEST"
		message = err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = err.Error()
	default:
		logger.Error("Unhandled error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if err != nil {
		logger.Error("Failed to write error response", err)
	}
}
