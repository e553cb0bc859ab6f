package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/focusflow/backend/domain"
)

// SessionChecker verifies that a session id still exists; revoked sessions
// fail even when the bearer token itself has not expired yet.
type SessionChecker interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Auth validates the bearer token, confirms the backing session is alive and
// stamps the user and session ids onto the request for downstream handlers.
func Auth(secret string, sessions SessionChecker, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}
			userID, _ := claims["user_id"].(string)
			sessionID, _ := claims["session_id"].(string)
			if userID == "" || sessionID == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			if sessions != nil {
				checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_, err := sessions.GetSession(checkCtx, sessionID)
				cancel()
				if err != nil {
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			ctx.Request.Header.Set("X-Session-ID", sessionID)

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
