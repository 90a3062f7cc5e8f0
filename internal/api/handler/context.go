package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/api/middleware"
	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// currentUser extracts the user attached by the session middleware. Presence
// proves the middleware ran; a secured handler reached without it is a wiring
// bug surfaced as 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
