package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/api/handler"
	"github.com/basisdhar/mrmanager/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "invalid credentials"},
		{domain.ErrTokenInvalid, http.StatusUnauthorized, "invalid or expired token"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized request"},
		{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrProjectNotFound, http.StatusNotFound, "project not found"},
		{domain.ErrTaskNotFound, http.StatusNotFound, "task not found"},
		{domain.ErrUserExists, http.StatusConflict, "user with this email or username already exists"},
		{domain.ErrMemberExists, http.StatusConflict, "user is already a project member"},
		{domain.ErrEmailVerified, http.StatusConflict, "email already verified"},
		{domain.ErrMailThrottled, http.StatusTooManyRequests, domain.ErrMailThrottled.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			code, body := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("status = %d, want %d", code, tc.code)
			}
			if body.Success {
				t.Fatalf("success flag must be false")
			}
			if body.StatusCode != tc.code || body.Message != tc.message {
				t.Fatalf("envelope = %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationMessages(t *testing.T) {
	code, body := renderError(t, &handler.ValidationError{
		Messages: []string{"email must be a valid email", "password is required"},
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body.Message != "validation failed" || len(body.Errors) != 2 {
		t.Fatalf("envelope = %+v", body)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusNotFound, "project not found"))
	if code != http.StatusNotFound || body.Message != "project not found" {
		t.Fatalf("envelope = %d %+v", code, body)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	code, body := renderError(t, fmt.Errorf("connection refused: %w", errors.New("mongo down")))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal cause leaked: %+v", body)
	}
}

func TestHTTPErrorHandler_TokenGenerationIsOpaque(t *testing.T) {
	code, body := renderError(t, domain.ErrTokenGeneration)
	if code != http.StatusInternalServerError || body.Message != "internal server error" {
		t.Fatalf("envelope = %d %+v", code, body)
	}
}
