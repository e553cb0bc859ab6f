package profile

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
	"github.com/focusflow/backend/usecase"
	authUC "github.com/focusflow/backend/usecase/auth"
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   repository.TokenRepository
	auth     *authUC.UseCase
	validate *validator.Validate
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens repository.TokenRepository,
	auth *authUC.UseCase,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		auth:     auth,
		validate: validator.New(),
		logger:   logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateName changes the display name only.
func (uc *UseCase) UpdateName(ctx context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestEmailChange queues a confirmation mail to the new address and
// revokes the user's sessions; the address is only applied once the mailed
// token is consumed.
func (uc *UseCase) RequestEmailChange(ctx context.Context, userID, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if err := uc.validate.Var(newEmail, "required,email"); err != nil {
		return domain.ErrInvalidEmail
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.auth.SendAccountMail(ctx, user.ID, newEmail, domain.TokenChangeEmail, newEmail); err != nil {
		return err
	}

	if err := uc.sessions.DeleteByUser(ctx, user.ID); err != nil {
		uc.logger.Warn("failed to revoke sessions after email change request",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	uc.logger.Info("email change requested", zap.String("user_id", user.ID))
	return nil
}

// ConfirmEmailChange consumes an email-change token and applies the new
// address. The address counts as verified: it was reached by mail.
func (uc *UseCase) ConfirmEmailChange(ctx context.Context, tokenID string) error {
	token, err := uc.tokens.Consume(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.Kind != domain.TokenChangeEmail || token.NewEmail == "" {
		return domain.ErrTokenNotFound
	}

	user, err := uc.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.Email = token.NewEmail
	user.EmailVerified = true
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}
	uc.logger.Info("email changed", zap.String("user_id", user.ID))
	return nil
}

// UpdatePassword applies a new password under the account policy and revokes
// every session, forcing a fresh sign-in.
func (uc *UseCase) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if err := usecase.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := uc.users.GetByID(ctx, userID)
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
		uc.logger.Warn("failed to revoke sessions after password change",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	uc.logger.Info("password changed", zap.String("user_id", user.ID))
	return nil
}
