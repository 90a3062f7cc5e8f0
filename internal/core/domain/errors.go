package domain

import "errors"

// Sentinel errors shared across services, repositories, and the HTTP error
// handler. The error handler owns the mapping to status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailVerified      = errors.New("email already verified")

	// ErrTokenInvalid is returned for every token verification failure.
	// Expired, forged, and mismatched tokens deliberately share one message
	// so callers cannot probe which case they hit.
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrTokenGeneration signals a signing failure during login or refresh.
	// Surfaced as a generic server error without the underlying cause.
	ErrTokenGeneration = errors.New("token generation failed")

	ErrUnauthorized = errors.New("unauthorized request")
	ErrForbidden    = errors.New("access forbidden")

	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
	ErrMemberNotFound  = errors.New("project member not found")
	ErrMemberExists    = errors.New("user is already a project member")
	ErrInvalidRole     = errors.New("invalid role")
	ErrTaskNotFound    = errors.New("task not found")

	ErrMailThrottled = errors.New("a mail was sent recently, try again later")
)
