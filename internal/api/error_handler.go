package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/api/handler"
	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Callers
// can branch on Success and StatusCode without parsing Message.
type errorResponse struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope with a success flag, status, message,
//     and optional field-level error list.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, details := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{
			Success:    false,
			StatusCode: code,
			Message:    msg,
			Errors:     details,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	// Echo's own errors (middleware rejections, bind failures, router 404s).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Request validation failures carry a field-level message list.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "validation failed", ve.Messages
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "invalid credentials", nil
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized request", nil
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid or expired token", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", nil
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "project not found", nil
	case errors.Is(err, domain.ErrMemberNotFound):
		return http.StatusNotFound, "project member not found", nil
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "task not found", nil
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user with this email or username already exists", nil
	case errors.Is(err, domain.ErrProjectExists):
		return http.StatusConflict, "project already exists", nil
	case errors.Is(err, domain.ErrMemberExists):
		return http.StatusConflict, "user is already a project member", nil
	case errors.Is(err, domain.ErrEmailVerified):
		return http.StatusConflict, "email already verified", nil
	case errors.Is(err, domain.ErrMailThrottled):
		return http.StatusTooManyRequests, err.Error(), nil
	case errors.Is(err, domain.ErrTokenGeneration):
		// Internal cause stays out of the response.
		log.Error().Err(err).Str("path", c.Path()).Msg("token generation failure")
		return http.StatusInternalServerError, "internal server error", nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
