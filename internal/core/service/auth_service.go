package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

// MailCooldown throttles repeated mail sends per user and kind (Redis).
type MailCooldown interface {
	Allow(ctx context.Context, kind, userID string) (bool, error)
	Mark(ctx context.Context, kind, userID string) error
}

// Cooldown kinds.
const (
	MailKindVerification = "verify"
	MailKindReset        = "reset"
)

// AuthService implements the account and session-token lifecycle.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	mails    ports.MailQueue
	cooldown MailCooldown
	log      zerolog.Logger

	// Link bases the raw temporary tokens are appended to.
	verifyURLBase string
	resetURLBase  string
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	mails ports.MailQueue,
	cooldown MailCooldown,
	verifyURLBase, resetURLBase string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		mails:         mails,
		cooldown:      cooldown,
		verifyURLBase: strings.TrimRight(verifyURLBase, "/"),
		resetURLBase:  strings.TrimRight(resetURLBase, "/"),
		log:           log,
	}
}

// normalizeIdentity lowercases and trims the unique identity fields.
func normalizeIdentity(username, email string) (string, string) {
	return strings.ToLower(strings.TrimSpace(username)), strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username, email := normalizeIdentity(in.Username, in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	// Password is hashed on the write path, before persistence; raw
	// passwords never reach a repository.
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:        username,
		Email:           email,
		FullName:        strings.TrimSpace(in.FullName),
		AvatarURL:       domain.DefaultAvatarURL,
		PasswordHash:    string(hash),
		IsEmailVerified: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.sendVerificationMail(ctx, created)
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthTokens, *domain.User, error) {
	_, email = normalizeIdentity("", email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// issueTokens generates a fresh access/refresh pair and stores the refresh
// token on the user, invalidating any previously issued refresh token.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*ports.AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("access token generation failed")
		return nil, domain.ErrTokenGeneration
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("refresh token generation failed")
		return nil, domain.ErrTokenGeneration
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	return &ports.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.users.UpdateRefreshToken(ctx, userID, "")
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	// The signature alone is not enough: the token must also be the single
	// value currently on record. Logout or a newer login clears the match.
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, domain.ErrTokenInvalid
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.users.FindByVerificationTokenHash(ctx, s.tokens.HashToken(rawToken))
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if time.Now().After(user.EmailVerificationExpiry) {
		return domain.ErrTokenInvalid
	}

	return s.users.MarkEmailVerified(ctx, user.ID)
}

func (s *AuthService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return domain.ErrEmailVerified
	}

	if err := s.checkCooldown(ctx, MailKindVerification, user.ID); err != nil {
		return err
	}

	s.sendVerificationMail(ctx, user)
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, email = normalizeIdentity("", email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.checkCooldown(ctx, MailKindReset, user.ID); err != nil {
		return err
	}

	tmp, err := s.tokens.GenerateTemporaryToken()
	if err != nil {
		return domain.ErrTokenGeneration
	}
	if err := s.users.SetResetToken(ctx, user.ID, tmp.Hash, tmp.Expiry); err != nil {
		return err
	}

	s.mails.EnqueuePasswordReset(user.Email, user.Username, s.resetURLBase+"/"+tmp.Raw)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.users.FindByResetTokenHash(ctx, s.tokens.HashToken(rawToken))
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if time.Now().After(user.ForgotPasswordExpiry) {
		return domain.ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return err
	}

	// A password reset ends the active session as well.
	return s.users.UpdateRefreshToken(ctx, user.ID, "")
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, string(hash))
}

// sendVerificationMail stores a fresh verification token hash and enqueues the
// mail. Failures are logged and swallowed: registration succeeds even when the
// mail never leaves.
func (s *AuthService) sendVerificationMail(ctx context.Context, user *domain.User) {
	tmp, err := s.tokens.GenerateTemporaryToken()
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("verification token generation failed")
		return
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, tmp.Hash, tmp.Expiry); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store verification token")
		return
	}

	s.mails.EnqueueVerification(user.Email, user.Username, s.verifyURLBase+"/"+tmp.Raw)
	s.markCooldown(ctx, MailKindVerification, user.ID)
}

func (s *AuthService) checkCooldown(ctx context.Context, kind, userID string) error {
	if s.cooldown == nil {
		return nil
	}
	ok, err := s.cooldown.Allow(ctx, kind, userID)
	if err != nil {
		// Redis being down must not block account flows.
		s.log.Warn().Err(err).Str("kind", kind).Msg("mail cooldown check failed, allowing send")
		return nil
	}
	if !ok {
		return domain.ErrMailThrottled
	}
	return s.markCooldown(ctx, kind, userID)
}

func (s *AuthService) markCooldown(ctx context.Context, kind, userID string) error {
	if s.cooldown == nil {
		return nil
	}
	if err := s.cooldown.Mark(ctx, kind, userID); err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("failed to set mail cooldown key")
	}
	return nil
}
