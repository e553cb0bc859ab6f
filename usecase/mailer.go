package usecase

import (
	"context"

	"github.com/focusflow/backend/domain"
)

// Mailer abstracts outbound mail delivery so use cases stay provider-agnostic.
// Implementations may queue instead of sending; Enqueue succeeding only means
// the message will eventually be attempted.
type Mailer interface {
	Enqueue(ctx context.Context, mail domain.Mail) error
}
