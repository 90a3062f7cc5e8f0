package ports

import (
	"context"
	"time"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// Lookups by single-use token hash. Expiry is checked by the caller so
	// that stale and unknown tokens fail identically.
	FindByVerificationTokenHash(ctx context.Context, hash string) (*domain.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*domain.User, error)

	// UpdateRefreshToken replaces the single stored refresh token. An empty
	// value clears it (logout / forced invalidation).
	UpdateRefreshToken(ctx context.Context, id, token string) error

	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	SetVerificationToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error

	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id string) error
}
