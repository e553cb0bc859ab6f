package repository

import (
	"context"

	"github.com/focusflow/backend/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// TokenRepository stores one-shot account tokens. Consume returns the token
// and removes it in a single step so a token can never be replayed.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.Token) error
	Consume(ctx context.Context, id string) (*domain.Token, error)
}
