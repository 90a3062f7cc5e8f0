package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/service"
)

type fixedUserRepo struct {
	user *domain.User
}

func (r *fixedUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		clone := *r.user
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fixedUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) FindByUsernameOrEmail(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) FindByVerificationTokenHash(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) FindByResetTokenHash(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) UpdateRefreshToken(context.Context, string, string) error { return nil }
func (r *fixedUserRepo) UpdatePasswordHash(context.Context, string, string) error { return nil }
func (r *fixedUserRepo) MarkEmailVerified(context.Context, string) error          { return nil }
func (r *fixedUserRepo) ClearResetToken(context.Context, string) error            { return nil }
func (r *fixedUserRepo) SetVerificationToken(context.Context, string, string, time.Time) error {
	return nil
}
func (r *fixedUserRepo) SetResetToken(context.Context, string, string, time.Time) error {
	return nil
}

func newSessionFixture(t *testing.T) (*service.TokenService, *fixedUserRepo, echo.HandlerFunc) {
	t.Helper()
	tokens := service.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	repo := &fixedUserRepo{user: &domain.User{
		ID:       "user_1",
		Username: "alice",
		Email:    "alice@example.com",
	}}
	handler := func(c echo.Context) error {
		user, ok := c.Get(ContextUserKey).(*domain.User)
		if !ok || user == nil {
			t.Fatalf("user not set in context")
		}
		return c.String(http.StatusOK, user.ID)
	}
	return tokens, repo, handler
}

func runSession(tokens *service.TokenService, repo *fixedUserRepo, handler echo.HandlerFunc, prep func(*http.Request)) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prep != nil {
		prep(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := Session(tokens, repo)(handler)(c)
	return rec, err
}

func TestSession_CookieToken(t *testing.T) {
	tokens, repo, handler := newSessionFixture(t)
	access, err := tokens.GenerateAccessToken(repo.user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec, err := runSession(tokens, repo, handler, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access})
	})
	if err != nil {
		t.Fatalf("middleware rejected a valid cookie token: %v", err)
	}
	if rec.Body.String() != "user_1" {
		t.Fatalf("handler saw wrong user: %q", rec.Body.String())
	}
}

func TestSession_BearerToken(t *testing.T) {
	tokens, repo, handler := newSessionFixture(t)
	access, err := tokens.GenerateAccessToken(repo.user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := runSession(tokens, repo, handler, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	}); err != nil {
		t.Fatalf("middleware rejected a valid bearer token: %v", err)
	}
}

func TestSession_Unauthorized(t *testing.T) {
	tokens, repo, _ := newSessionFixture(t)
	access, _ := tokens.GenerateAccessToken(repo.user)
	otherSecret := service.NewTokenService("other-secret", "refresh-secret", time.Minute, time.Hour)
	forged, _ := otherSecret.GenerateAccessToken(repo.user)

	cases := []struct {
		name string
		prep func(*http.Request)
		repo *fixedUserRepo
	}{
		{name: "no token", prep: nil, repo: repo},
		{
			name: "garbage token",
			prep: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
			},
			repo: repo,
		},
		{
			name: "wrong secret",
			prep: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: forged})
			},
			repo: repo,
		},
		{
			name: "deleted user",
			prep: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access})
			},
			repo: &fixedUserRepo{},
		},
		{
			name: "malformed auth header",
			prep: func(req *http.Request) {
				req.Header.Set("Authorization", access)
			},
			repo: repo,
		},
	}

	handler := func(c echo.Context) error {
		t.Fatalf("handler must not run without authentication")
		return nil
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runSession(tokens, tc.repo, handler, tc.prep)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", httpErr.Code)
			}
		})
	}
}

func TestSession_ExpiredToken(t *testing.T) {
	tokens, repo, _ := newSessionFixture(t)

	// Sign a token with the right secret that is already past its expiry.
	now := time.Now().Add(-time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   repo.user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	handler := func(c echo.Context) error {
		t.Fatalf("handler must not run with an expired token")
		return nil
	}
	_, err = runSession(tokens, repo, handler, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: expired})
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}
