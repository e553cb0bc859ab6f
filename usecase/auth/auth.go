package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
	"github.com/focusflow/backend/usecase"
)

// Config carries the token-related settings of the auth use case.
type Config struct {
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
	TokenTTL   time.Duration
	// LinkBase is the public URL prefix embedded into verification and
	// reset mail, e.g. "https://app.focusflow.dev".
	LinkBase string
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   repository.TokenRepository
	mailer   usecase.Mailer
	validate *validator.Validate
	logger   *zap.Logger
	cfg      Config
}

// LoginResult bundles everything the client needs after signing in.
type LoginResult struct {
	User        *domain.User    `json:"user"`
	Session     *domain.Session `json:"session"`
	AccessToken string          `json:"access_token"`
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens repository.TokenRepository,
	mailer usecase.Mailer,
	logger *zap.Logger,
	cfg Config,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Register creates an unverified account and queues the verification mail.
// The user cannot sign in until the mailed token is consumed.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if err := uc.validate.Var(email, "required,email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if err := usecase.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := usecase.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:          name,
		Email:         email,
		EmailVerified: false,
		PasswordHash:  hash,
	}
	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := uc.sendAccountMail(ctx, created.ID, created.Email, domain.TokenVerifyEmail, ""); err != nil {
		// Account exists either way; the user can request another mail.
		uc.logger.Error("failed to queue verification mail", zap.String("user_id", created.ID), zap.Error(err))
	}

	uc.logger.Info("user registered", zap.String("user_id", created.ID))
	return created, nil
}

// VerifyEmail consumes a verification token and flips the account to
// verified.
func (uc *UseCase) VerifyEmail(ctx context.Context, tokenID string) error {
	token, err := uc.tokens.Consume(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.Kind != domain.TokenVerifyEmail {
		return domain.ErrTokenNotFound
	}

	user, err := uc.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.EmailVerified = true
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	uc.logger.Info("email verified", zap.String("user_id", user.ID))
	return nil
}

// Login checks credentials, refuses unverified accounts, and issues a
// session plus a signed access token carrying the user and session ids.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrWrongCredentials
		}
		return nil, err
	}
	if !usecase.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrWrongCredentials
	}
	if !user.CanSignIn() {
		return nil, domain.ErrEmailNotVerified
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := uc.signToken(user.ID, session)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{
		User:        user,
		Session:     session,
		AccessToken: accessToken,
	}, nil
}

// Logout revokes a single session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// GetSession returns a live session, lazily dropping an expired one.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RequestPasswordReset queues a reset mail. Unknown addresses surface as
// user-not-found, matching the reference client's messaging.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := uc.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	return uc.sendAccountMail(ctx, user.ID, user.Email, domain.TokenResetPassword, "")
}

// ResetPassword consumes a reset token, applies the new password and revokes
// every session the user holds.
func (uc *UseCase) ResetPassword(ctx context.Context, tokenID, newPassword string) error {
	token, err := uc.tokens.Consume(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.Kind != domain.TokenResetPassword {
		return domain.ErrTokenNotFound
	}
	if err := usecase.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := uc.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	hash, err := usecase.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	if err := uc.sessions.DeleteByUser(ctx, user.ID); err != nil {
		uc.logger.Warn("failed to revoke sessions after reset", zap.String("user_id", user.ID), zap.Error(err))
	}
	uc.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (uc *UseCase) sendAccountMail(ctx context.Context, userID, email string, kind domain.TokenKind, newEmail string) error {
	token := &domain.Token{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		NewEmail:  newEmail,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.TokenTTL),
	}
	if err := uc.tokens.Save(ctx, token); err != nil {
		return err
	}

	var template, subject, path string
	switch kind {
	case domain.TokenVerifyEmail:
		template, subject, path = domain.MailTemplateVerify, "Confirm your Focus Flow account", "/api/v1/auth/verify"
	case domain.TokenResetPassword:
		template, subject, path = domain.MailTemplateReset, "Reset your Focus Flow password", "/reset-password"
	case domain.TokenChangeEmail:
		template, subject, path = domain.MailTemplateEmailChange, "Confirm your new email address", "/api/v1/profile/email/confirm"
	default:
		return domain.ErrInvalidPayload
	}

	return uc.mailer.Enqueue(ctx, domain.Mail{
		ID:       uuid.NewString(),
		To:       email,
		Subject:  subject,
		Template: template,
		Variables: map[string]string{
			"url": fmt.Sprintf("%s%s?token=%s", strings.TrimRight(uc.cfg.LinkBase, "/"), path, token.ID),
		},
		CreatedAt: time.Now(),
	})
}

func (uc *UseCase) signToken(userID string, session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"session_id": session.ID,
		"iss":        uc.cfg.JWTIssuer,
		"iat":        session.CreatedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}

// SendAccountMail re-issues an account token mail of the given kind. Exposed
// for the profile use case's verify-before-update email flow.
func (uc *UseCase) SendAccountMail(ctx context.Context, userID, email string, kind domain.TokenKind, newEmail string) error {
	return uc.sendAccountMail(ctx, userID, email, kind, newEmail)
}
