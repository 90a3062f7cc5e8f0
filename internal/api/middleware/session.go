package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/core/ports"
)

// Context keys set by the middleware chain.
const (
	ContextUserKey        = "user"
	ContextProjectRoleKey = "projectRole"
)

// AccessTokenCookie is the cookie the access token travels in.
const AccessTokenCookie = "accessToken"

// Session resolves the caller's identity from the access token and attaches
// the loaded user to the request context. The token is read from the
// accessToken cookie or the Authorization header (Bearer scheme). Every
// failure mode (missing, malformed, expired, user deleted) collapses to the
// same 401 so the response does not reveal which check tripped.
func Session(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractAccessToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized request")
			}

			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			// Load the account fresh; a deleted user holding a still-valid
			// token must not pass. Secret fields never render (json:"-").
			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

func extractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
