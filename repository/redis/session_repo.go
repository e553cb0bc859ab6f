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

type sessionRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. Sessions
// are indexed both by id and by user so a password or email change can revoke
// everything the user holds.
func NewSessionRepository(client *redislib.Client, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	result, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}

	if err := r.client.Set(ctx, r.key(session.ID), payload, ttl).Err(); err != nil {
		return err
	}
	if session.UserID != "" {
		if err := r.client.SAdd(ctx, r.userKey(session.UserID), session.ID).Err(); err != nil {
			return err
		}
		return r.client.Expire(ctx, r.userKey(session.UserID), ttl).Err()
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if err == nil && session.UserID != "" {
		_ = r.client.SRem(ctx, r.userKey(session.UserID), id).Err()
	}
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil
		}
		return err
	}
	for _, id := range ids {
		if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.userKey(userID)).Err()
}

func (r *sessionRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

func (r *sessionRepository) userKey(userID string) string {
	return fmt.Sprintf("%suser:%s", r.prefix, userID)
}
