package ports

import (
	"time"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

// AccessClaims carries the identity fields embedded in an access token.
type AccessClaims struct {
	UserID   string
	Email    string
	Username string
}

// TemporaryToken is a single-use token pair: Raw is mailed to the user, only
// Hash is persisted.
type TemporaryToken struct {
	Raw    string
	Hash   string
	Expiry time.Time
}

// TokenService issues and verifies the four token classes: stateless signed
// access and refresh tokens, and hashed single-use verification/reset tokens.
type TokenService interface {
	GenerateAccessToken(user *domain.User) (string, error)
	GenerateRefreshToken(userID string) (string, error)

	// VerifyAccessToken checks signature and expiry. Any failure returns
	// domain.ErrTokenInvalid.
	VerifyAccessToken(token string) (*AccessClaims, error)

	// VerifyRefreshToken checks signature and expiry and returns the user ID.
	// The caller must still compare the token against the stored value.
	VerifyRefreshToken(token string) (string, error)

	GenerateTemporaryToken() (*TemporaryToken, error)

	// HashToken recomputes the persisted hash for a raw temporary token.
	HashToken(raw string) string
}
