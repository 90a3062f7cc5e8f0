package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

const (
	// temporaryTokenTTL bounds the verification and password-reset windows.
	temporaryTokenTTL = 20 * time.Minute

	// temporaryTokenBytes of entropy per single-use token, hex encoded.
	temporaryTokenBytes = 20
)

// TokenService issues and verifies access, refresh, and temporary tokens.
// Access and refresh tokens are HS256 JWTs signed with distinct secrets;
// temporary tokens are random values of which only the sha256 hash is stored.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type accessTokenClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessTokenClaims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	// A random jti keeps back-to-back tokens distinct; rotation relies on
	// the new token never equaling the one it replaces.
	jti := make([]byte, 8)
	if _, err := rand.Read(jti); err != nil {
		return "", fmt.Errorf("generate refresh token id: %w", err)
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        hex.EncodeToString(jti),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *TokenService) VerifyAccessToken(token string) (*ports.AccessClaims, error) {
	claims := &accessTokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.accessSecret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &ports.AccessClaims{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}

func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.refreshSecret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// GenerateTemporaryToken produces a single-use token for email verification
// or password reset. Only Hash may be persisted; Raw is sent by mail.
func (s *TokenService) GenerateTemporaryToken() (*ports.TemporaryToken, error) {
	buf := make([]byte, temporaryTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate temporary token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	return &ports.TemporaryToken{
		Raw:    raw,
		Hash:   s.HashToken(raw),
		Expiry: time.Now().Add(temporaryTokenTTL),
	}, nil
}

func (s *TokenService) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
