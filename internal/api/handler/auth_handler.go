package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/basisdhar/mrmanager/internal/api/metrics"
	"github.com/basisdhar/mrmanager/internal/api/middleware"
	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authData struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

// Register creates a new, unverified user account and sends a verification
// mail (best effort).
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return respond(c, http.StatusCreated, "signed up successfully, verification mail sent", authData{User: user})
}

// Login authenticates a user, stores the rotated refresh token, and sets both
// token cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokens, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	setAuthCookies(c, tokens)
	return respond(c, http.StatusOK, "logged in successfully", authData{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout clears the stored refresh token and both cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	clearAuthCookies(c)
	return respond(c, http.StatusOK, "logged out", nil)
}

// CurrentUser echoes the identity resolved by the session middleware.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "current user fetched", authData{User: user})
}

// VerifyEmail consumes a verification token from the URL.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "verification token is missing")
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "email verified", map[string]bool{"isEmailVerified": true})
}

// ResendVerification issues a fresh verification token for the logged-in user.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.ResendVerification(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "verification mail has been sent", nil)
}

// RefreshToken rotates the access/refresh pair. The refresh token is read
// from the cookie or, as a fallback, the request body.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	setAuthCookies(c, tokens)
	return respond(c, http.StatusOK, "access token refreshed", authData{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// ForgotPassword mails a reset link to the account's address.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password reset mail has been sent", nil)
}

// ResetPassword consumes a reset token from the URL and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reset token is missing")
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), token, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password reset successfully", nil)
}

// ChangePassword replaces the password for the logged-in user.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "password changed successfully", nil)
}

// Both token cookies are httpOnly and secure; the browser is the only
// intended reader and only over TLS.
func setAuthCookies(c echo.Context, tokens *ports.AuthTokens) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
