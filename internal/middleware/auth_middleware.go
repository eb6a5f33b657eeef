package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myStorefront/pkg/logger"
	"myStorefront/pkg/utils"

	jsonres "myStorefront/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks that a session token is still live in Redis.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

type authFailure struct {
	status  int
	code    string
	message string
}

func (f *authFailure) Error() string { return f.message }

var errNoAuthHeader = &authFailure{http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header"}

// authenticate validates the bearer token and stores user_id, role and token
// on the context. tokenValidator may be nil.
func authenticate(c echo.Context, tokenValidator TokenValidator) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return errNoAuthHeader
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return &authFailure{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format"}
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		logger.Debug("auth_parse_failed", "error", err)
		return &authFailure{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"}
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil {
		return &authFailure{http.StatusForbidden, "FORBIDDEN", "Status Forbidden"}
	}
	if time.Now().After(expAt.Time) {
		return &authFailure{http.StatusForbidden, "FORBIDDEN", "Token expired"}
	}

	if tokenValidator != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		userID, err := tokenValidator.ValidateTokenFromRedis(ctx, tokenString)
		if err != nil {
			logger.Error("Token not found in Redis", err)
			return &authFailure{http.StatusUnauthorized, "UNAUTHORIZED", "Token expired or invalid"}
		}
		if userID != claims.UserID {
			logger.Error("UserID mismatch between JWT and Redis")
			return &authFailure{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"}
		}
	}

	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("Invalid user ID in token", err)
		return &authFailure{http.StatusForbidden, "FORBIDDEN", "Invalid user ID in token"}
	}

	c.Set("user_id", uint(userIDUint))
	c.Set("role", claims.Role)
	c.Set("token", tokenString)

	return nil
}

func writeAuthFailure(c echo.Context, err error) error {
	var f *authFailure
	if errors.As(err, &f) {
		return c.JSON(f.status, jsonres.Error(f.code, f.message, nil))
	}
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", "Invalid token", nil))
}

// AuthMiddleware basic JWT authentication without Redis
func AuthMiddleware() echo.MiddlewareFunc {
	return AuthMiddlewareWithRedis(nil)
}

// AuthMiddlewareWithRedis JWT authentication with the Redis session check
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, tokenValidator); err != nil {
				return writeAuthFailure(c, err)
			}
			return next(c)
		}
	}
}

// OptionalAuth sets user_id when a valid token is sent and lets anonymous or
// invalid-token requests through as guests.
func OptionalAuth(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, tokenValidator); err != nil && err != errNoAuthHeader {
				logger.Debug("optional_auth_ignored", "reason", err.Error())
			}
			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get("role")
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
