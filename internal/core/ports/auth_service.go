package ports

import (
	"context"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthTokens is an access/refresh token pair issued at login or refresh.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService implements the account and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, *domain.User, error)
	Logout(ctx context.Context, userID string) error

	// Refresh rotates both tokens given a valid refresh token that matches
	// the stored value; the previous refresh token stops working.
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)

	VerifyEmail(ctx context.Context, rawToken string) error
	ResendVerification(ctx context.Context, userID string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}
