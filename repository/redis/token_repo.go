package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
)

type tokenRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewTokenRepository creates a Redis-backed store for one-shot account
// tokens. Redis handles expiry; Consume relies on GETDEL so a token observed
// once is gone.
func NewTokenRepository(client *redislib.Client, ttl time.Duration) repository.TokenRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenRepository{
		client: client,
		prefix: "token:",
		ttl:    ttl,
	}
}

func (r *tokenRepository) Save(ctx context.Context, token *domain.Token) error {
	if token == nil || token.ID == "" {
		return domain.ErrInvalidPayload
	}

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	if token.ExpiresAt.IsZero() {
		token.ExpiresAt = token.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, r.key(token.ID), payload, ttl).Err()
}

func (r *tokenRepository) Consume(ctx context.Context, id string) (*domain.Token, error) {
	result, err := r.client.GetDel(ctx, r.key(id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}

	var token domain.Token
	if err := json.Unmarshal([]byte(result), &token); err != nil {
		return nil, err
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrTokenNotFound
	}
	return &token, nil
}

func (r *tokenRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
